package types

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction is the kind of mutation an audit record describes.
type AuditAction string

const (
	AuditActionCreate AuditAction = "Create"
	AuditActionUpdate AuditAction = "Update"
	AuditActionDelete AuditAction = "Delete"
)

func (a AuditAction) String() string { return string(a) }

func (a AuditAction) IsValid() bool {
	switch a {
	case AuditActionCreate, AuditActionUpdate, AuditActionDelete:
		return true
	}
	return false
}

// AuditEntityDrug is the entity type recorded for catalog mutations.
const AuditEntityDrug = "Drug"

// AuditRecord is an append-only log entry. UserID and EntityID are not foreign keys.
type AuditRecord struct {
	ID        uuid.UUID   `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
	Action    AuditAction `json:"action" example:"Create"`
	UserID    uuid.UUID   `json:"userId"`
	Entity    string      `json:"entity" example:"Drug"`
	EntityID  uuid.UUID   `json:"entityId"`
	Details   string      `json:"details" example:"Nexium"`
}
