package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateName_Catalog(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		reason string
	}{
		{name: "simple", value: "Finance"},
		{name: "digits hyphen spaces", value: "Team 2 - North"},
		{name: "max length", value: strings.Repeat("a", 250)},
		{name: "empty", value: "", reason: CatalogName.EmptyReason},
		{name: "too long", value: strings.Repeat("a", 251), reason: CatalogName.TooLongReason},
		{name: "underscore", value: "team_a", reason: CatalogName.CharsetReason},
		{name: "accent", value: "Logística", reason: CatalogName.CharsetReason},
		{name: "punctuation", value: "R&D", reason: CatalogName.CharsetReason},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.value, CatalogName)
			if tt.reason == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.reason, err.Error())
		})
	}
}

func TestValidateName_Person(t *testing.T) {
	assert.NoError(t, ValidateName("Ana López", PersonName))
	assert.NoError(t, ValidateName("Íñigo Núñez", PersonName))

	for _, bad := range []string{"", "Ana2", "Ana-Maria", "Ana.", strings.Repeat("a", 251)} {
		err := ValidateName(bad, PersonName)
		require.Error(t, err, bad)
		assert.Equal(t, personNameReason, err.Error())
	}
}

func TestValidateName_LengthCountsCharacters(t *testing.T) {
	// 250 two-byte characters are still within the limit.
	assert.NoError(t, ValidateName(strings.Repeat("á", 250), PersonName))
}

func TestNormalize_ComposesAccents(t *testing.T) {
	decomposed := "Lo\u0301pez"
	normalized := Normalize("  " + decomposed + " ")

	assert.Equal(t, "L\u00f3pez", normalized)
	assert.NoError(t, ValidateName(normalized, PersonName))
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("ana@example.com", DefaultMaxLen))
	assert.NoError(t, ValidateEmail("a.b+c@sub.example.org", DefaultMaxLen))

	long := strings.Repeat("a", 240) + "@example.com"
	for _, bad := range []string{"", "ana", "ana@example", "ana @example.com", "@example.com", long} {
		err := ValidateEmail(bad, DefaultMaxLen)
		require.Error(t, err, bad)
		assert.Equal(t, EmailReason, err.Error())
	}
}

func TestValidateEnum(t *testing.T) {
	allowed := []string{"M", "F"}
	assert.NoError(t, ValidateEnum("M", allowed, "bad"))
	assert.NoError(t, ValidateEnum("F", allowed, "bad"))
	assert.EqualError(t, ValidateEnum("m", allowed, "bad"), "bad")
	assert.EqualError(t, ValidateEnum("", allowed, "bad"), "bad")
}

func TestValidateLength(t *testing.T) {
	assert.NoError(t, ValidateLength("", 0, 500, "too long"))
	assert.NoError(t, ValidateLength(strings.Repeat("x", 500), 0, 500, "too long"))
	assert.EqualError(t, ValidateLength(strings.Repeat("x", 501), 0, 500, "too long"), "too long")
	assert.EqualError(t, ValidateLength("", 1, 5, "too short"), "too short")
}
