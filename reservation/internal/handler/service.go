package handler

import (
	"context"

	"github.com/hotelhub/reservation-service/pkg/auth"
	"github.com/hotelhub/reservation-service/reservation/internal/model"
	"github.com/hotelhub/reservation-service/reservation/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type ReservationService interface {
	CreateReservation(ctx context.Context, id auth.Identity, token string, req model.CreateReservationRequest) (model.Reservation, error)
	GetReservation(ctx context.Context, token, reservationUid string) (model.EnrichedReservation, error)
	ListReservations(ctx context.Context, token string) ([]model.EnrichedReservation, error)
	ListClientReservations(ctx context.Context, id auth.Identity, token string) ([]model.ClientReservation, error)
	UpdateReservation(ctx context.Context, id auth.Identity, reservationUid string, req model.UpdateReservationRequest) (model.Reservation, error)
	DeleteReservation(ctx context.Context, id auth.Identity, reservationUid string) error
	CancelReservation(ctx context.Context, id auth.Identity, reservationUid string) (model.Reservation, error)
}

var _ ReservationService = (*service.Service)(nil)
