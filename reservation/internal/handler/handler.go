package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/hotelhub/reservation-service/pkg/auth"
	"github.com/hotelhub/reservation-service/pkg/validate"
	"github.com/hotelhub/reservation-service/reservation/internal/errs"
	"github.com/hotelhub/reservation-service/reservation/internal/model"
)

type Handler struct {
	reservationSvc ReservationService
	authCfg        auth.Config
	log            *zap.Logger
}

func New(reservationSvc ReservationService, authCfg auth.Config, log *zap.Logger) *Handler {
	return &Handler{
		reservationSvc: reservationSvc,
		authCfg:        authCfg,
		log:            log,
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", newRateLimiterMW(baseRPS))
	base.GET("/manage/health", h.Health)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(requestLoggerConfig()),
		middleware.RequestID(),
		newRateLimiterMW(apiRPS),
	)

	res := api.Group("/reservations", jwtAuthentication(h.authCfg))
	res.GET("", h.GetReservations, requireCapability(auth.CapListReservations))
	res.GET("/client", h.GetClientReservations, requireCapability(auth.CapListOwnReservations))
	res.GET("/:reservationUid", h.GetReservation, requireCapability(auth.CapReadReservation))
	res.POST("", h.CreateReservation, requireCapability(auth.CapCreateReservation))
	res.PUT("/:reservationUid", h.UpdateReservation, requireCapability(auth.CapUpdateReservation))
	res.DELETE("/:reservationUid", h.DeleteReservation, requireCapability(auth.CapDeleteReservation))
	res.PUT("/:reservationUid/annuler", h.CancelReservation, requireCapability(auth.CapCancelReservation))

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (h *Handler) CreateReservation(c echo.Context) error {
	var req model.CreateReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	id, err := identityFromRequest(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}

	ctx := c.Request().Context()
	rsv, err := h.reservationSvc.CreateReservation(ctx, id, bearerToken(c), req)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, model.CreateReservationResponse{
		Message:     "Reservation created",
		CreatedBy:   id.Email,
		Reservation: rsv,
	})
}

func (h *Handler) GetReservations(c echo.Context) error {
	id, err := identityFromRequest(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}

	ctx := c.Request().Context()
	items, err := h.reservationSvc.ListReservations(ctx, bearerToken(c))
	if err != nil {
		return httpError(err)
	}

	roles := make([]string, 0, len(id.Roles))
	for _, role := range id.Roles {
		roles = append(roles, string(role))
	}
	return c.JSON(http.StatusOK, model.ListReservationsResponse{
		RequestedBy:  id.Email,
		Roles:        roles,
		Reservations: items,
	})
}

func (h *Handler) GetClientReservations(c echo.Context) error {
	id, err := identityFromRequest(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}

	ctx := c.Request().Context()
	items, err := h.reservationSvc.ListClientReservations(ctx, id, bearerToken(c))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, model.ClientReservationsResponse{
		RequestedBy:  id.Email,
		Reservations: items,
	})
}

func (h *Handler) GetReservation(c echo.Context) error {
	reservationUid := c.Param("reservationUid")
	if reservationUid == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "reservationUid is empty")
	}

	ctx := c.Request().Context()
	rsv, err := h.reservationSvc.GetReservation(ctx, bearerToken(c), reservationUid)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, rsv)
}

func (h *Handler) UpdateReservation(c echo.Context) error {
	reservationUid := c.Param("reservationUid")
	if reservationUid == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "reservationUid is empty")
	}
	var req model.UpdateReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	id, err := identityFromRequest(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}

	ctx := c.Request().Context()
	rsv, err := h.reservationSvc.UpdateReservation(ctx, id, reservationUid, req)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, model.UpdateReservationResponse{
		Message:     "Reservation updated",
		UpdatedBy:   id.Email,
		Reservation: rsv,
	})
}

func (h *Handler) DeleteReservation(c echo.Context) error {
	reservationUid := c.Param("reservationUid")
	if reservationUid == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "reservationUid is empty")
	}
	id, err := identityFromRequest(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}

	ctx := c.Request().Context()
	if err := h.reservationSvc.DeleteReservation(ctx, id, reservationUid); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, model.DeleteReservationResponse{
		Message:   "Reservation deleted",
		DeletedBy: id.Email,
	})
}

func (h *Handler) CancelReservation(c echo.Context) error {
	reservationUid := c.Param("reservationUid")
	if reservationUid == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "reservationUid is empty")
	}
	id, err := identityFromRequest(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}

	ctx := c.Request().Context()
	rsv, err := h.reservationSvc.CancelReservation(ctx, id, reservationUid)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, model.CancelReservationResponse{
		Message:     "Reservation cancelled",
		CancelledBy: id.Email,
		Reservation: rsv,
	})
}

// httpError maps business errors onto status codes; anything
// unclassified surfaces as 500 with the raw error text.
func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, errs.ErrNotFound), errors.Is(err, errs.ErrClientNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrInvalidReservation), errors.Is(err, errs.ErrClientRequired):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, errs.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
