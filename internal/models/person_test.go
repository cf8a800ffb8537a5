package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanHaveSpouse(t *testing.T) {
	cases := []struct {
		typeID int
		want   bool
	}{
		{PersonTypeMarried, true},
		{PersonTypeWidowed, true},
		{PersonTypeSingle, false},
		{PersonTypePresbyter, false},
		{PersonTypeSeminarian, false},
		{PersonTypeDeacon, false},
		{PersonTypeNun, false},
	}
	for _, c := range cases {
		p := Person{PersonTypeID: c.typeID}
		assert.Equal(t, c.want, p.CanHaveSpouse(), "type %d", c.typeID)
	}
}

func TestEffectiveSpouseIDMasksUnmarriageableTypes(t *testing.T) {
	spouse := 42

	married := Person{PersonTypeID: PersonTypeMarried, SpouseID: &spouse}
	assert.Equal(t, &spouse, married.EffectiveSpouseID())

	// A presbyter with a stale spouse reference must never expose it.
	presbyter := Person{PersonTypeID: PersonTypePresbyter, SpouseID: &spouse}
	assert.Nil(t, presbyter.EffectiveSpouseID())

	widowed := Person{PersonTypeID: PersonTypeWidowed}
	assert.Nil(t, widowed.EffectiveSpouseID())
}
