package domain

import "time"

const (
	LoginCodeMin = 100000
	LoginCodeMax = 999999
)

// Approval gates a service provider. It is written only by the approval
// workflow; registration creates it unapproved.
type Approval struct {
	Approved      bool
	LoginCode     string
	CodeExpiresAt *time.Time
	ApprovedAt    *time.Time
}

// CodeMatches reports whether code is the live one-time code at now.
func (a Approval) CodeMatches(code string, now time.Time) bool {
	if !a.Approved || a.LoginCode == "" || code == "" {
		return false
	}
	if a.LoginCode != code {
		return false
	}
	if a.CodeExpiresAt != nil && !now.Before(*a.CodeExpiresAt) {
		return false
	}
	return true
}
