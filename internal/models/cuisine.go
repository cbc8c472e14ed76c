package models

// CuisineType is a closed enum; unknown values parse to OTHER.
type CuisineType string

const (
	CuisineChinese       CuisineType = "CHINESE"
	CuisineJapanese      CuisineType = "JAPANESE"
	CuisineItalian       CuisineType = "ITALIAN"
	CuisineMexican       CuisineType = "MEXICAN"
	CuisineIndian        CuisineType = "INDIAN"
	CuisineThai          CuisineType = "THAI"
	CuisineKorean        CuisineType = "KOREAN"
	CuisineFrench        CuisineType = "FRENCH"
	CuisineAmerican      CuisineType = "AMERICAN"
	CuisineMediterranean CuisineType = "MEDITERRANEAN"
	CuisineMiddleEastern CuisineType = "MIDDLE_EASTERN"
	CuisineOther         CuisineType = "OTHER"
)

var cuisineDisplayNames = map[CuisineType]string{
	CuisineChinese:       "Chinese",
	CuisineJapanese:      "Japanese",
	CuisineItalian:       "Italian",
	CuisineMexican:       "Mexican",
	CuisineIndian:        "Indian",
	CuisineThai:          "Thai",
	CuisineKorean:        "Korean",
	CuisineFrench:        "French",
	CuisineAmerican:      "American",
	CuisineMediterranean: "Mediterranean",
	CuisineMiddleEastern: "Middle Eastern",
	CuisineOther:         "Other",
}

// AllCuisines returns the enum in declaration order.
func AllCuisines() []CuisineType {
	return []CuisineType{
		CuisineChinese, CuisineJapanese, CuisineItalian, CuisineMexican,
		CuisineIndian, CuisineThai, CuisineKorean, CuisineFrench,
		CuisineAmerican, CuisineMediterranean, CuisineMiddleEastern,
		CuisineOther,
	}
}

func (c CuisineType) DisplayName() string {
	if name, ok := cuisineDisplayNames[c]; ok {
		return name
	}
	return cuisineDisplayNames[CuisineOther]
}

// ParseCuisineType maps a stored or submitted string onto the enum,
// defaulting to OTHER.
func ParseCuisineType(s string) CuisineType {
	c := CuisineType(s)
	if _, ok := cuisineDisplayNames[c]; ok {
		return c
	}
	return CuisineOther
}
