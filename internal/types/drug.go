package types

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Drug is a single catalog record.
type Drug struct {
	ID                      uuid.UUID `json:"id" example:"d290f1ee-6c54-4b01-90e6-d701748f0851"`
	Name                    string    `json:"name" example:"Nexium"`
	ChemicalName            string    `json:"chemicalName" example:"esomeprazole"`
	Manufacturer            string    `json:"manufacturer" example:"AstraZeneca"`
	Description             string    `json:"description" example:"Proton pump inhibitor"`
	DosageAndAdministration string    `json:"dosageAndAdministration" example:"20-40 mg once daily"`
	CreatedAt               time.Time `json:"createdAt"`
	UpdatedAt               time.Time `json:"updatedAt"`
}

// DrugRequest is the body accepted by the create and update endpoints.
// A record returned by GET can be sent back as is: id and the timestamps are
// accepted and discarded, the server assigns the id on create and the URL
// carries it on update.
type DrugRequest struct {
	ID                      json.RawMessage `json:"id,omitempty" swaggerignore:"true"`
	CreatedAt               json.RawMessage `json:"createdAt,omitempty" swaggerignore:"true"`
	UpdatedAt               json.RawMessage `json:"updatedAt,omitempty" swaggerignore:"true"`
	Name                    string          `json:"name" example:"Nexium"`
	ChemicalName            string          `json:"chemicalName" example:"esomeprazole"`
	Manufacturer            string          `json:"manufacturer" example:"AstraZeneca"`
	Description             string          `json:"description" example:"Proton pump inhibitor"`
	DosageAndAdministration string          `json:"dosageAndAdministration" example:"20-40 mg once daily"`
}

func (r DrugRequest) ToDrug(id uuid.UUID) Drug {
	return Drug{
		ID:                      id,
		Name:                    strings.TrimSpace(r.Name),
		ChemicalName:            strings.TrimSpace(r.ChemicalName),
		Manufacturer:            r.Manufacturer,
		Description:             r.Description,
		DosageAndAdministration: r.DosageAndAdministration,
	}
}

// Validate checks the local business rules of a record.
func (d Drug) Validate() error {
	verr := &ValidationError{}
	if strings.TrimSpace(d.Name) == "" {
		verr.Add("name", "is required")
	}
	if strings.TrimSpace(d.ChemicalName) == "" {
		verr.Add("chemicalName", "is required")
	}
	if verr.HasErrors() {
		return verr
	}
	return nil
}

// SameIdentityPair reports whether two records share the (name, chemical name) pair.
func (d Drug) SameIdentityPair(other Drug) bool {
	return strings.EqualFold(d.Name, other.Name) && strings.EqualFold(d.ChemicalName, other.ChemicalName)
}
