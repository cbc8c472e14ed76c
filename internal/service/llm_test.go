package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStringArrayBareArray(t *testing.T) {
	aliases, err := parseStringArray(`["cherry tomato", "roma tomato"]`)
	require.NoError(t, err)
	assert.Equal(t, []string{"cherry tomato", "roma tomato"}, aliases)
}

func TestParseStringArrayObjectField(t *testing.T) {
	aliases, err := parseStringArray(`{"aliases": ["tomatoes", "vine tomato"]}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"tomatoes", "vine tomato"}, aliases)
}

func TestParseStringArraySkipsNonArrayFields(t *testing.T) {
	aliases, err := parseStringArray(`{"note": "hi", "variants": ["shallot"]}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"shallot"}, aliases)
}

func TestParseStringArrayRejectsGarbage(t *testing.T) {
	_, err := parseStringArray(`not json`)
	assert.Error(t, err)

	_, err = parseStringArray(`{"count": 3}`)
	assert.Error(t, err)
}
