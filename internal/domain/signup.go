package domain

import "time"

// ProfileType classifies who is signing up for launch notifications.
type ProfileType string

const (
	ProfileTypeAdvertiser ProfileType = "Advertiser"
	ProfileTypeAgency     ProfileType = "Agency"

	// ProfileTypePlaceholder is the select-box default sent by the form when
	// nothing was chosen. It is a validation error, never stored.
	ProfileTypePlaceholder = "Select Advertiser or Agency"
)

// SignupStatus represents lifecycle states for a signup.
type SignupStatus string

const (
	SignupStatusActive   SignupStatus = "active"
	SignupStatusInactive SignupStatus = "inactive"
)

// IPUnknown is stored when no client address could be extracted from the
// request headers.
const IPUnknown = "unknown"

// Signup is a launch-notification registration. Exactly one may exist per
// normalized email; records are create-only.
type Signup struct {
	ID          string
	FullName    string
	CompanyName string
	Position    string
	Email       string
	ProfileType ProfileType
	Location    Location
	IPAddress   string
	Status      SignupStatus
	IsDeleted   bool
	SignupDate  time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
