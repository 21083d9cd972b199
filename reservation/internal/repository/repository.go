package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/hotelhub/reservation-service/reservation/internal/errs"
	"github.com/hotelhub/reservation-service/reservation/internal/model"
)

//go:generate go run github.com/golang/mock/mockgen -source=repository.go -destination=mocks/mock.go

type Repository interface {
	CreateReservation(ctx context.Context, rsv model.Reservation) (model.Reservation, error)
	GetReservation(ctx context.Context, reservationUid string) (model.Reservation, error)
	ListReservations(ctx context.Context) ([]model.Reservation, error)
	ListClientReservations(ctx context.Context, clientID int) ([]model.Reservation, error)
	UpdateReservation(ctx context.Context, reservationUid string, rsv model.Reservation) (model.Reservation, error)
	DeleteReservation(ctx context.Context, reservationUid string) (model.Reservation, error)
	CancelReservation(ctx context.Context, reservationUid string) (model.Reservation, error)
}

type repository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewRepository(db *sqlx.DB, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	reservationTableName = `reservation`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func (r *repository) CreateReservation(ctx context.Context, rsv model.Reservation) (model.Reservation, error) {
	q, args, err := qb.Insert(reservationTableName).
		Columns("reservation_uid", "client_id", "room_id", "start_date", "end_date",
			"status", "guests", "room_type", "marriage_certificate", "total_price").
		Values(uuid.New(), rsv.ClientID, rsv.RoomID, rsv.StartDate, rsv.EndDate,
			rsv.Status, rsv.Guests, rsv.RoomType, rsv.MarriageCertificate, rsv.TotalPrice).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Reservation{}, err
	}
	var res model.Reservation
	if err := r.db.GetContext(ctx, &res, q, args...); err != nil {
		r.log.Error("CreateReservation", zap.String("q", q), zap.Any("args", args))
		return model.Reservation{}, wrapConstraint(err)
	}
	return res, nil
}

func (r *repository) GetReservation(ctx context.Context, reservationUid string) (model.Reservation, error) {
	q, args, err := qb.Select("*").
		From(reservationTableName).
		Where(sq.Eq{"reservation_uid": reservationUid}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Reservation{}, err
	}
	var res model.Reservation
	if err := r.db.GetContext(ctx, &res, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Reservation{}, errs.ErrNotFound
		}
		return model.Reservation{}, err
	}
	return res, nil
}

func (r *repository) ListReservations(ctx context.Context) ([]model.Reservation, error) {
	q, args, err := qb.Select("*").
		From(reservationTableName).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}
	var items []model.Reservation
	if err := r.db.SelectContext(ctx, &items, q, args...); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) ListClientReservations(ctx context.Context, clientID int) ([]model.Reservation, error) {
	q, args, err := qb.Select("*").
		From(reservationTableName).
		Where(sq.Eq{"client_id": clientID}).
		OrderBy("start_date desc").
		ToSql()
	if err != nil {
		return nil, err
	}
	var items []model.Reservation
	if err := r.db.SelectContext(ctx, &items, q, args...); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) UpdateReservation(ctx context.Context, reservationUid string, rsv model.Reservation) (model.Reservation, error) {
	q, args, err := qb.Update(reservationTableName).
		Set("client_id", rsv.ClientID).
		Set("room_id", rsv.RoomID).
		Set("start_date", rsv.StartDate).
		Set("end_date", rsv.EndDate).
		Set("status", rsv.Status).
		Set("guests", rsv.Guests).
		Set("room_type", rsv.RoomType).
		Set("marriage_certificate", rsv.MarriageCertificate).
		Set("total_price", rsv.TotalPrice).
		Where(sq.Eq{"reservation_uid": reservationUid}).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Reservation{}, err
	}
	var res model.Reservation
	if err := r.db.GetContext(ctx, &res, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Reservation{}, errs.ErrNotFound
		}
		r.log.Error("UpdateReservation", zap.String("q", q), zap.Any("args", args))
		return model.Reservation{}, wrapConstraint(err)
	}
	return res, nil
}

func (r *repository) DeleteReservation(ctx context.Context, reservationUid string) (model.Reservation, error) {
	q, args, err := qb.Delete(reservationTableName).
		Where(sq.Eq{"reservation_uid": reservationUid}).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Reservation{}, err
	}
	var res model.Reservation
	if err := r.db.GetContext(ctx, &res, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Reservation{}, errs.ErrNotFound
		}
		return model.Reservation{}, err
	}
	return res, nil
}

// CancelReservation forces the status to CANCELLED regardless of the
// current one, so a repeated cancel succeeds again.
func (r *repository) CancelReservation(ctx context.Context, reservationUid string) (model.Reservation, error) {
	q, args, err := qb.Update(reservationTableName).
		Set("status", model.StatusCancelled).
		Where(sq.Eq{"reservation_uid": reservationUid}).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Reservation{}, err
	}
	var res model.Reservation
	if err := r.db.GetContext(ctx, &res, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Reservation{}, errs.ErrNotFound
		}
		return model.Reservation{}, err
	}
	return res, nil
}

// wrapConstraint converts CHECK violations from the reservation table
// into the validation sentinel so handlers answer 400, not 500.
func wrapConstraint(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
		return errs.ErrInvalidReservation
	}
	return err
}
