package service

import (
	"context"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hotelhub/reservation-service/reservation/internal/model"
)

// enrichConcurrency bounds how many reservations are enriched at once
// when a list response fans out to the collaborators.
const enrichConcurrency = 8

// enrich resolves the room and client profiles for one reservation.
// Both lookups run concurrently and are best-effort: a failed lookup
// leaves the field absent and logs a warning, never failing the read.
func (s *Service) enrich(ctx context.Context, token string, rsv model.Reservation) model.EnrichedReservation {
	out := model.EnrichedReservation{Reservation: rsv}

	gg, ctx := errgroup.WithContext(ctx)
	gg.Go(func() error {
		if room, ok := s.lookupRoom(ctx, token, rsv.RoomID); ok {
			out.Room = &room
		}
		return nil
	})
	gg.Go(func() error {
		lookupCtx, cancel := context.WithTimeout(ctx, s.lookupTimeout)
		defer cancel()
		cl, code, err := s.clientSvc.GetClient(lookupCtx, token, rsv.ClientID)
		if err != nil || code != http.StatusOK {
			s.log.Warn("client enrichment degraded",
				zap.Int("clientId", rsv.ClientID), zap.Int("code", code), zap.Error(err))
			return nil
		}
		out.Client = &cl
		return nil
	})
	_ = gg.Wait()

	return out
}

// enrichAll enriches a collection concurrently, preserving the store
// ordering of the input.
func (s *Service) enrichAll(ctx context.Context, token string, rsvs []model.Reservation) []model.EnrichedReservation {
	items := make([]model.EnrichedReservation, len(rsvs))

	gg, ctx := errgroup.WithContext(ctx)
	gg.SetLimit(enrichConcurrency)
	for i, rsv := range rsvs {
		i, rsv := i, rsv
		gg.Go(func() error {
			items[i] = s.enrich(ctx, token, rsv)
			return nil
		})
	}
	_ = gg.Wait()

	return items
}

// enrichRooms builds the client-facing summary view, attaching only
// room profiles.
func (s *Service) enrichRooms(ctx context.Context, token string, rsvs []model.Reservation) []model.ClientReservation {
	items := make([]model.ClientReservation, len(rsvs))

	gg, ctx := errgroup.WithContext(ctx)
	gg.SetLimit(enrichConcurrency)
	for i, rsv := range rsvs {
		i, rsv := i, rsv
		gg.Go(func() error {
			item := model.ClientReservation{
				ReservationUid: rsv.ReservationUid,
				RoomID:         rsv.RoomID,
				StartDate:      rsv.StartDate,
				EndDate:        rsv.EndDate,
				Status:         rsv.Status,
				TotalPrice:     rsv.TotalPrice,
			}
			if room, ok := s.lookupRoom(ctx, token, rsv.RoomID); ok {
				item.Room = &room
			}
			items[i] = item
			return nil
		})
	}
	_ = gg.Wait()

	return items
}

func (s *Service) lookupRoom(ctx context.Context, token string, roomID int) (model.Room, bool) {
	lookupCtx, cancel := context.WithTimeout(ctx, s.lookupTimeout)
	defer cancel()
	room, code, err := s.roomSvc.GetRoom(lookupCtx, token, roomID)
	if err != nil || code != http.StatusOK {
		s.log.Warn("room enrichment degraded",
			zap.Int("roomId", roomID), zap.Int("code", code), zap.Error(err))
		return model.Room{}, false
	}
	return room, true
}
