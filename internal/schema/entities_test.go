package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountryCodeValidation(t *testing.T) {
	valid := map[string]any{"name": "Colombia", "code": "co"}
	require.NoError(t, Country.Validate(valid))

	for _, code := range []string{"c", "col", "c1", "1a", "", "c-"} {
		err := Country.Validate(map[string]any{"name": "Colombia", "code": code})
		assert.Error(t, err, "code %q must be rejected", code)
	}
}

func TestCountryCodeUppercasedOnCoerce(t *testing.T) {
	row, err := Country.Coerce(map[string]any{"name": "Colombia", "code": "co"})
	require.NoError(t, err)
	assert.Equal(t, "CO", row["code"])
}

func TestParishZoneCascadeDeclared(t *testing.T) {
	zone, ok := Parish.field("zone_id")
	require.True(t, ok)
	assert.Equal(t, "zones", zone.Loader)
	assert.Equal(t, "city_id", zone.DependsOn)
}

func TestEveryDependsOnNamesAFieldOfTheSameForm(t *testing.T) {
	for name, s := range ByEntity {
		for _, f := range s.Fields {
			if f.DependsOn == "" {
				continue
			}
			_, ok := s.field(f.DependsOn)
			assert.True(t, ok, "%s.%s depends on %q, which is not a field of %s",
				name, f.Name, f.DependsOn, name)
		}
	}
}

func TestSpouseFieldUsesCandidateLoader(t *testing.T) {
	spouse, ok := Person.field("spouse_id")
	require.True(t, ok)
	assert.Equal(t, "spouse_candidates", spouse.Loader)
	assert.False(t, spouse.Required)
}

func TestByEntityCoversEverySchema(t *testing.T) {
	assert.Len(t, ByEntity, 15)
	for name, s := range ByEntity {
		assert.Equal(t, name, s.Entity)
		assert.NotEmpty(t, s.Fields, "schema %s has no fields", name)
	}
}
