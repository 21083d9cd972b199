package service

import (
	"context"

	clientSvc "github.com/hotelhub/reservation-service/reservation/internal/service/client"
	roomSvc "github.com/hotelhub/reservation-service/reservation/internal/service/room"

	"github.com/hotelhub/reservation-service/reservation/internal/model"
)

//go:generate go run github.com/golang/mock/mockgen -source=deps.go -destination=mocks/mock.go

var (
	_ RoomCatalog    = (*roomSvc.Service)(nil)
	_ ClientIdentity = (*clientSvc.Service)(nil)
)

// RoomCatalog resolves room profiles from the room catalog
// collaborator, forwarding the caller's bearer token.
type RoomCatalog interface {
	GetRoom(ctx context.Context, token string, roomID int) (model.Room, int, error)
}

// ClientIdentity resolves client profiles from the client identity
// collaborator, forwarding the caller's bearer token.
type ClientIdentity interface {
	GetClient(ctx context.Context, token string, clientID int) (model.Client, int, error)
}

// Enqueuer publishes reservation lifecycle events.
type Enqueuer interface {
	Enqueue(topic string, v any) error
}
