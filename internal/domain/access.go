package domain

import "github.com/google/uuid"

// Role represents a staff member's role within an establishment
type Role string

const (
	RoleOwner        Role = "OWNER"
	RoleReceptionist Role = "RECEPTIONIST"
	RoleBarber       Role = "BARBER"
	RoleHairdresser  Role = "HAIRDRESSER"
)

// IsValid returns true if the role belongs to the closed set of roles
func (r Role) IsValid() bool {
	switch r {
	case RoleOwner, RoleReceptionist, RoleBarber, RoleHairdresser:
		return true
	default:
		return false
	}
}

// IsRestricted returns true if the role may act only on its own behalf
func (r Role) IsRestricted() bool {
	return r == RoleBarber || r == RoleHairdresser
}

// StaffAssignment describes the caller's staff relationship to an establishment
type StaffAssignment struct {
	ID       uuid.UUID
	IsActive bool
	Role     Role
}

// AccessResult is the outcome of resolving a user's access to an establishment
type AccessResult struct {
	IsOwner    bool
	Assignment *StaffAssignment // nil для владельца
}

// CanActForAnyone returns true if the caller may act on behalf of any staff member
func (a *AccessResult) CanActForAnyone() bool {
	if a == nil {
		return false
	}
	if a.IsOwner {
		return true
	}
	if a.Assignment == nil || !a.Assignment.IsActive {
		return false
	}
	return !a.Assignment.Role.IsRestricted()
}

// IsRestricted returns true if the caller is an active member with a restricted role
func (a *AccessResult) IsRestricted() bool {
	if a == nil || a.IsOwner || a.Assignment == nil {
		return false
	}
	return a.Assignment.IsActive && a.Assignment.Role.IsRestricted()
}
