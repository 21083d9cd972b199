package auth

import "fmt"

// Capability names a single reservation operation that can be gated
// by role. Every handler consults Check exactly once instead of
// re-implementing ad-hoc role membership tests.
type Capability string

const (
	CapListReservations    Capability = "reservations:list"
	CapListOwnReservations Capability = "reservations:list-own"
	CapReadReservation     Capability = "reservations:read"
	CapCreateReservation   Capability = "reservations:create"
	CapUpdateReservation   Capability = "reservations:update"
	CapDeleteReservation   Capability = "reservations:delete"
	CapCancelReservation   Capability = "reservations:cancel"
)

type Decision struct {
	Allowed bool
	Reason  string
}

// grants maps a capability to the roles permitted to exercise it.
// A nil entry means any authenticated identity is allowed.
var grants = map[Capability][]Role{
	CapListReservations:    nil,
	CapListOwnReservations: {RoleClient},
	CapReadReservation:     nil,
	CapCreateReservation:   {RoleClient, RoleManager},
	CapUpdateReservation:   {RoleManager, RoleReceptionist},
	CapDeleteReservation:   {RoleClient, RoleReceptionist},
	CapCancelReservation:   nil,
}

// Check decides whether the identity may exercise the capability.
func Check(id Identity, cap Capability) Decision {
	roles, ok := grants[cap]
	if !ok {
		return Decision{Allowed: false, Reason: fmt.Sprintf("unknown capability %q", cap)}
	}
	if roles == nil {
		return Decision{Allowed: true}
	}
	for _, role := range roles {
		if id.HasRole(role) {
			return Decision{Allowed: true}
		}
	}
	return Decision{Allowed: false, Reason: fmt.Sprintf("requires one of roles %v", roles)}
}
