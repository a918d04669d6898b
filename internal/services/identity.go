package services

import "github.com/claytonbench/underwriting-61kiqe-sub002/internal/models"

// Identity is the authenticated caller of an engine operation, extracted
// from the request token by the auth middleware.
type Identity struct {
	ReviewerID string
	Role       models.ReviewerRole
}

// Supervisor reports whether the caller may perform supervisor-only
// operations (manual assignment, unassign, reviewer registration).
func (id Identity) Supervisor() bool {
	return id.Role == models.RoleSupervisor
}
