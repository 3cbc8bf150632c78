package domain

import "time"

// Role is the closed set of account kinds.
type Role string

const (
	RoleUser            Role = "user"
	RoleServiceProvider Role = "service_provider"
	RoleAdmin           Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleServiceProvider, RoleAdmin:
		return true
	}
	return false
}

// Identity is any account record. Credential and login code never leave the
// core: PasswordHash is hidden from JSON and the login code lives in Approval.
type Identity struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	Approval     Approval  `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsApproved reports the approval flag. Non-provider roles are always approved.
func (i *Identity) IsApproved() bool {
	if i.Role != RoleServiceProvider {
		return true
	}
	return i.Approval.Approved
}

// Summary is the sanitized public view of an Identity.
type Summary struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       Role      `json:"role"`
	IsApproved bool      `json:"is_approved"`
	CreatedAt  time.Time `json:"created_at"`
}

// Summary strips the credential and the one-time code.
func (i *Identity) Summary() Summary {
	return Summary{
		ID:         i.ID,
		Name:       i.Name,
		Email:      i.Email,
		Role:       i.Role,
		IsApproved: i.IsApproved(),
		CreatedAt:  i.CreatedAt,
	}
}
