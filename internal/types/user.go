package types

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role is the authorization level of an account.
type Role string

const (
	RoleReader      Role = "Reader"
	RoleContributor Role = "Contributor"
	RoleAdmin       Role = "Admin"
)

// ParseRole resolves a role name case-insensitively.
func ParseRole(s string) (Role, bool) {
	for _, r := range []Role{RoleReader, RoleContributor, RoleAdmin} {
		if strings.EqualFold(strings.TrimSpace(s), string(r)) {
			return r, true
		}
	}
	return "", false
}

func (r Role) String() string { return string(r) }

func (r Role) IsValid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

// CanMutateCatalog reports whether the role may create, update or delete drugs.
func (r Role) CanMutateCatalog() bool {
	parsed, ok := ParseRole(string(r))
	return ok && (parsed == RoleContributor || parsed == RoleAdmin)
}

func (r Role) IsAdmin() bool {
	parsed, ok := ParseRole(string(r))
	return ok && parsed == RoleAdmin
}

// UserAccount represents a registered user.
type UserAccount struct {
	ID           uuid.UUID `json:"id" example:"d290f1ee-6c54-4b01-90e6-d701748f0851"`
	Username     string    `json:"username" example:"jdoe"`
	Name         string    `json:"name" example:"John Doe"`
	Email        string    `json:"email" example:"john.doe@example.com"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role" example:"Reader"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// RegisterRequest is the body accepted by the register endpoint.
type RegisterRequest struct {
	Username string `json:"username" example:"jdoe"`
	Name     string `json:"name" example:"John Doe"`
	Email    string `json:"email" example:"john.doe@example.com"`
	Password string `json:"password" example:"S3cret!"`
}

type RegisterResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username" example:"jdoe"`
	Email    string    `json:"email" example:"john.doe@example.com"`
}

type SetRoleRequest struct {
	Role string `json:"role" example:"Contributor"`
}

type UserListResponse struct {
	Users      []UserAccount `json:"users"`
	TotalItems int64         `json:"totalItems" example:"42"`
	PageNumber int           `json:"pageNumber" example:"1"`
	PageSize   int           `json:"pageSize" example:"10"`
}
