package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
		ok   bool
	}{
		{"Admin", RoleAdmin, true},
		{"admin", RoleAdmin, true},
		{"CONTRIBUTOR", RoleContributor, true},
		{" reader ", RoleReader, true},
		{"superuser", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseRole(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRole_CanMutateCatalog(t *testing.T) {
	assert.True(t, RoleAdmin.CanMutateCatalog())
	assert.True(t, RoleContributor.CanMutateCatalog())
	assert.True(t, Role("contributor").CanMutateCatalog())
	assert.False(t, RoleReader.CanMutateCatalog())
	assert.False(t, Role("").CanMutateCatalog())
	assert.True(t, Role("ADMIN").IsAdmin())
	assert.False(t, RoleContributor.IsAdmin())
}

func TestDrug_Validate(t *testing.T) {
	assert.NoError(t, Drug{Name: "Nexium", ChemicalName: "esomeprazole"}.Validate())

	err := Drug{Name: "  ", ChemicalName: ""}.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Errors, 2)
	assert.Equal(t, "name", verr.Errors[0].Field)
	assert.Equal(t, "chemicalName", verr.Errors[1].Field)
}

func TestDrug_SameIdentityPair(t *testing.T) {
	a := Drug{Name: "Nexium", ChemicalName: "esomeprazole"}
	assert.True(t, a.SameIdentityPair(Drug{Name: "nexium", ChemicalName: "Esomeprazole"}))
	assert.False(t, a.SameIdentityPair(Drug{Name: "Nexium", ChemicalName: "omeprazole"}))
}

func TestValidationError_Message(t *testing.T) {
	err := NewValidationError("name", "is required")
	assert.Equal(t, "validation error: name: is required", err.Error())
}
