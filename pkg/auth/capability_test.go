package auth_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hotelhub/reservation-service/pkg/auth"
)

func TestCheck(t *testing.T) {
	client := auth.Identity{ID: 1, Email: "client@hotel.io", Roles: []auth.Role{auth.RoleClient}}
	manager := auth.Identity{ID: 2, Email: "manager@hotel.io", Roles: []auth.Role{auth.RoleManager}}
	receptionist := auth.Identity{ID: 3, Email: "desk@hotel.io", Roles: []auth.Role{auth.RoleReceptionist}}
	noRoles := auth.Identity{ID: 4, Email: "ghost@hotel.io"}

	tests := []struct {
		name    string
		id      auth.Identity
		cap     auth.Capability
		allowed bool
	}{
		{"any identity may list", noRoles, auth.CapListReservations, true},
		{"any identity may read", noRoles, auth.CapReadReservation, true},
		{"any identity may cancel", noRoles, auth.CapCancelReservation, true},
		{"client may list own", client, auth.CapListOwnReservations, true},
		{"manager may not list own", manager, auth.CapListOwnReservations, false},
		{"client may create", client, auth.CapCreateReservation, true},
		{"manager may create", manager, auth.CapCreateReservation, true},
		{"receptionist may not create", receptionist, auth.CapCreateReservation, false},
		{"manager may update", manager, auth.CapUpdateReservation, true},
		{"receptionist may update", receptionist, auth.CapUpdateReservation, true},
		{"client may not update", client, auth.CapUpdateReservation, false},
		{"client may delete", client, auth.CapDeleteReservation, true},
		{"receptionist may delete", receptionist, auth.CapDeleteReservation, true},
		{"manager may not delete", manager, auth.CapDeleteReservation, false},
		{"unknown capability denied", manager, auth.Capability("reservations:explode"), false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			d := auth.Check(tt.id, tt.cap)
			require.Equal(t, tt.allowed, d.Allowed)
			if !tt.allowed {
				require.NotEmpty(t, d.Reason)
			}
		})
	}
}
