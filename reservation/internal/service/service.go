package service

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/hotelhub/reservation-service/pkg/auth"
	"github.com/hotelhub/reservation-service/pkg/kafka"
	"github.com/hotelhub/reservation-service/reservation/internal/errs"
	"github.com/hotelhub/reservation-service/reservation/internal/model"
	"github.com/hotelhub/reservation-service/reservation/internal/repository"
)

const defaultLookupTimeout = 3 * time.Second

type Service struct {
	log           *zap.Logger
	repo          repository.Repository
	roomSvc       RoomCatalog
	clientSvc     ClientIdentity
	enqueuer      Enqueuer
	lookupTimeout time.Duration
}

func NewService(repo repository.Repository, roomSvc RoomCatalog, clientSvc ClientIdentity, enqueuer Enqueuer, log *zap.Logger, ops ...Option) *Service {
	s := &Service{
		log:           log,
		repo:          repo,
		roomSvc:       roomSvc,
		clientSvc:     clientSvc,
		enqueuer:      enqueuer,
		lookupTimeout: defaultLookupTimeout,
	}
	for _, op := range ops {
		op(s)
	}
	return s
}

type Option func(*Service)

func WithLookupTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.lookupTimeout = d
		}
	}
}

// CreateReservation resolves the reservation's client from the acting
// identity, validates the stay, prices it from the fixed rate table
// and writes the record.
func (s *Service) CreateReservation(ctx context.Context, id auth.Identity, token string, req model.CreateReservationRequest) (model.Reservation, error) {
	clientID, err := s.resolveClient(ctx, id, token, req.ClientID)
	if err != nil {
		return model.Reservation{}, err
	}

	if !Valid(req.StartDate.Time, req.EndDate.Time, req.Guests) {
		return model.Reservation{}, errs.ErrInvalidReservation
	}

	rsv := model.Reservation{
		ClientID:            clientID,
		RoomID:              req.RoomID,
		StartDate:           req.StartDate.Time,
		EndDate:             req.EndDate.Time,
		Status:              model.StatusPending,
		Guests:              req.Guests,
		RoomType:            req.RoomType,
		MarriageCertificate: req.MarriageCertificate,
		TotalPrice:          ComputePrice(req.RoomType, req.StartDate.Time, req.EndDate.Time, req.Guests),
	}
	created, err := s.repo.CreateReservation(ctx, rsv)
	if err != nil {
		return model.Reservation{}, err
	}
	s.publish(kafka.EventCreated, created, id.Email)
	return created, nil
}

// resolveClient decides which client the reservation is for. A client
// books for themselves; a manager books for an explicitly supplied,
// verified client id.
func (s *Service) resolveClient(ctx context.Context, id auth.Identity, token string, requested int) (int, error) {
	switch {
	case id.HasRole(auth.RoleClient):
		return id.ID, nil
	case id.HasRole(auth.RoleManager):
		if requested == 0 {
			return 0, errs.ErrClientRequired
		}
		lookupCtx, cancel := context.WithTimeout(ctx, s.lookupTimeout)
		defer cancel()
		_, code, err := s.clientSvc.GetClient(lookupCtx, token, requested)
		if err != nil {
			return 0, errors.Wrap(err, "client identity lookup")
		}
		switch {
		case code == http.StatusOK:
			return requested, nil
		case code == http.StatusNotFound:
			return 0, errs.ErrClientNotFound
		default:
			return 0, errors.Errorf("client identity lookup: status %d", code)
		}
	default:
		return 0, errs.ErrForbidden
	}
}

func (s *Service) GetReservation(ctx context.Context, token, reservationUid string) (model.EnrichedReservation, error) {
	rsv, err := s.repo.GetReservation(ctx, reservationUid)
	if err != nil {
		return model.EnrichedReservation{}, err
	}
	return s.enrich(ctx, token, rsv), nil
}

func (s *Service) ListReservations(ctx context.Context, token string) ([]model.EnrichedReservation, error) {
	rsvs, err := s.repo.ListReservations(ctx)
	if err != nil {
		return nil, err
	}
	return s.enrichAll(ctx, token, rsvs), nil
}

func (s *Service) ListClientReservations(ctx context.Context, id auth.Identity, token string) ([]model.ClientReservation, error) {
	rsvs, err := s.repo.ListClientReservations(ctx, id.ID)
	if err != nil {
		return nil, err
	}
	return s.enrichRooms(ctx, token, rsvs), nil
}

// UpdateReservation merges the partial request over the stored record,
// re-validates the result and reprices it before writing back.
func (s *Service) UpdateReservation(ctx context.Context, id auth.Identity, reservationUid string, req model.UpdateReservationRequest) (model.Reservation, error) {
	rsv, err := s.repo.GetReservation(ctx, reservationUid)
	if err != nil {
		return model.Reservation{}, err
	}
	merge(&rsv, req)

	if !Valid(rsv.StartDate, rsv.EndDate, rsv.Guests) {
		return model.Reservation{}, errs.ErrInvalidReservation
	}
	rsv.TotalPrice = ComputePrice(rsv.RoomType, rsv.StartDate, rsv.EndDate, rsv.Guests)

	updated, err := s.repo.UpdateReservation(ctx, reservationUid, rsv)
	if err != nil {
		return model.Reservation{}, err
	}
	s.publish(kafka.EventUpdated, updated, id.Email)
	return updated, nil
}

func merge(rsv *model.Reservation, req model.UpdateReservationRequest) {
	if req.ClientID != nil {
		rsv.ClientID = *req.ClientID
	}
	if req.RoomID != nil {
		rsv.RoomID = *req.RoomID
	}
	if req.StartDate != nil {
		rsv.StartDate = req.StartDate.Time
	}
	if req.EndDate != nil {
		rsv.EndDate = req.EndDate.Time
	}
	if req.Status != nil {
		rsv.Status = *req.Status
	}
	if req.Guests != nil {
		rsv.Guests = *req.Guests
	}
	if req.RoomType != nil {
		rsv.RoomType = *req.RoomType
	}
	if req.MarriageCertificate != nil {
		rsv.MarriageCertificate = req.MarriageCertificate
	}
}

func (s *Service) DeleteReservation(ctx context.Context, id auth.Identity, reservationUid string) error {
	deleted, err := s.repo.DeleteReservation(ctx, reservationUid)
	if err != nil {
		return err
	}
	s.publish(kafka.EventDeleted, deleted, id.Email)
	return nil
}

func (s *Service) CancelReservation(ctx context.Context, id auth.Identity, reservationUid string) (model.Reservation, error) {
	cancelled, err := s.repo.CancelReservation(ctx, reservationUid)
	if err != nil {
		return model.Reservation{}, err
	}
	s.publish(kafka.EventCancelled, cancelled, id.Email)
	return cancelled, nil
}

// publish emits a lifecycle event; failures are logged, never
// propagated to the caller.
func (s *Service) publish(eventType string, rsv model.Reservation, actor string) {
	ev := kafka.ReservationEvent{
		Type:           eventType,
		ReservationUid: rsv.ReservationUid,
		ClientID:       rsv.ClientID,
		Actor:          actor,
		At:             time.Now().UTC(),
	}
	if err := s.enqueuer.Enqueue(kafka.ReservationTopic, ev); err != nil {
		s.log.Warn("enqueue reservation event",
			zap.String("type", eventType),
			zap.String("reservationUid", rsv.ReservationUid),
			zap.Error(err))
	}
}
