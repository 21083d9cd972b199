package service_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hotelhub/reservation-service/pkg/auth"
	"github.com/hotelhub/reservation-service/pkg/kafka"
	"github.com/hotelhub/reservation-service/reservation/internal/errs"
	"github.com/hotelhub/reservation-service/reservation/internal/model"
	"github.com/hotelhub/reservation-service/reservation/internal/service"

	repo_mocks "github.com/hotelhub/reservation-service/reservation/internal/repository/mocks"
	service_mocks "github.com/hotelhub/reservation-service/reservation/internal/service/mocks"
)

const testToken = "Bearer test-token"

type serviceMocks struct {
	repo      *repo_mocks.MockRepository
	roomSvc   *service_mocks.MockRoomCatalog
	clientSvc *service_mocks.MockClientIdentity
	enqueuer  *service_mocks.MockEnqueuer
}

func newTestService(t *testing.T) (*service.Service, serviceMocks) {
	t.Helper()
	c := gomock.NewController(t)
	t.Cleanup(c.Finish)
	m := serviceMocks{
		repo:      repo_mocks.NewMockRepository(c),
		roomSvc:   service_mocks.NewMockRoomCatalog(c),
		clientSvc: service_mocks.NewMockClientIdentity(c),
		enqueuer:  service_mocks.NewMockEnqueuer(c),
	}
	svc := service.NewService(m.repo, m.roomSvc, m.clientSvc, m.enqueuer, zap.NewExample().Named("test"))
	return svc, m
}

func clientIdentity(id int) auth.Identity {
	return auth.Identity{ID: id, Email: "client@hotel.test", Roles: []auth.Role{auth.RoleClient}}
}

func managerIdentity() auth.Identity {
	return auth.Identity{ID: 1, Email: "manager@hotel.test", Roles: []auth.Role{auth.RoleManager}}
}

func TestService_CreateReservation(t *testing.T) {
	t.Parallel()

	baseReq := model.CreateReservationRequest{
		RoomID:    12,
		StartDate: model.Date{Time: date(2026, 9, 1)},
		EndDate:   model.Date{Time: date(2026, 9, 4)},
		Guests:    2,
		RoomType:  "Suite",
	}

	var tests = []struct {
		name         string
		id           auth.Identity
		req          model.CreateReservationRequest
		mockBehavior func(m serviceMocks, req model.CreateReservationRequest)
		want         model.Reservation
		wantErr      error
		wantAnyErr   bool
	}{
		{
			name: "client books for themselves ignoring clientId in body",
			id:   clientIdentity(7),
			req: func() model.CreateReservationRequest {
				r := baseReq
				r.ClientID = 99
				return r
			}(),
			mockBehavior: func(m serviceMocks, req model.CreateReservationRequest) {
				m.repo.EXPECT().
					CreateReservation(context.Background(), model.Reservation{
						ClientID:   7,
						RoomID:     12,
						StartDate:  date(2026, 9, 1),
						EndDate:    date(2026, 9, 4),
						Status:     model.StatusPending,
						Guests:     2,
						RoomType:   "Suite",
						TotalPrice: 3000,
					}).
					Return(model.Reservation{
						ReservationUid: "2f3e3e64-1bcb-4a6f-8f4e-3f2fd9f0a111",
						ClientID:       7,
						RoomID:         12,
						Status:         model.StatusPending,
						TotalPrice:     3000,
					}, nil)
				m.enqueuer.EXPECT().
					Enqueue(kafka.ReservationTopic, gomock.Any()).
					Return(nil)
			},
			want: model.Reservation{
				ReservationUid: "2f3e3e64-1bcb-4a6f-8f4e-3f2fd9f0a111",
				ClientID:       7,
				RoomID:         12,
				Status:         model.StatusPending,
				TotalPrice:     3000,
			},
		},
		{
			name: "manager books for a verified client",
			id:   managerIdentity(),
			req: func() model.CreateReservationRequest {
				r := baseReq
				r.ClientID = 42
				return r
			}(),
			mockBehavior: func(m serviceMocks, req model.CreateReservationRequest) {
				m.clientSvc.EXPECT().
					GetClient(gomock.Any(), testToken, 42).
					Return(model.Client{ClientID: 42}, http.StatusOK, nil)
				m.repo.EXPECT().
					CreateReservation(context.Background(), gomock.Any()).
					DoAndReturn(func(_ context.Context, rsv model.Reservation) (model.Reservation, error) {
						require.Equal(t, 42, rsv.ClientID)
						require.Equal(t, float64(3000), rsv.TotalPrice)
						rsv.ReservationUid = "7a0e0d8c-51d4-4a8a-b8a1-6f1f8e8e0222"
						return rsv, nil
					})
				m.enqueuer.EXPECT().
					Enqueue(kafka.ReservationTopic, gomock.Any()).
					Return(nil)
			},
			want: model.Reservation{
				ReservationUid: "7a0e0d8c-51d4-4a8a-b8a1-6f1f8e8e0222",
				ClientID:       42,
				RoomID:         12,
				StartDate:      date(2026, 9, 1),
				EndDate:        date(2026, 9, 4),
				Status:         model.StatusPending,
				Guests:         2,
				RoomType:       "Suite",
				TotalPrice:     3000,
			},
		},
		{
			name:         "manager without clientId",
			id:           managerIdentity(),
			req:          baseReq,
			mockBehavior: func(m serviceMocks, req model.CreateReservationRequest) {},
			wantErr:      errs.ErrClientRequired,
		},
		{
			name: "manager with unknown client",
			id:   managerIdentity(),
			req: func() model.CreateReservationRequest {
				r := baseReq
				r.ClientID = 42
				return r
			}(),
			mockBehavior: func(m serviceMocks, req model.CreateReservationRequest) {
				m.clientSvc.EXPECT().
					GetClient(gomock.Any(), testToken, 42).
					Return(model.Client{}, http.StatusNotFound, nil)
			},
			wantErr: errs.ErrClientNotFound,
		},
		{
			name: "client identity service unreachable",
			id:   managerIdentity(),
			req: func() model.CreateReservationRequest {
				r := baseReq
				r.ClientID = 42
				return r
			}(),
			mockBehavior: func(m serviceMocks, req model.CreateReservationRequest) {
				m.clientSvc.EXPECT().
					GetClient(gomock.Any(), testToken, 42).
					Return(model.Client{}, 0, errors.New("connection refused"))
			},
			wantAnyErr: true,
		},
		{
			name: "no booking capable role",
			id:   auth.Identity{ID: 3, Roles: []auth.Role{auth.RoleReceptionist}},
			req:  baseReq,
			mockBehavior: func(m serviceMocks, req model.CreateReservationRequest) {
			},
			wantErr: errs.ErrForbidden,
		},
		{
			name: "reversed dates",
			id:   clientIdentity(7),
			req: func() model.CreateReservationRequest {
				r := baseReq
				r.StartDate, r.EndDate = r.EndDate, r.StartDate
				return r
			}(),
			mockBehavior: func(m serviceMocks, req model.CreateReservationRequest) {},
			wantErr:      errs.ErrInvalidReservation,
		},
		{
			name: "party above cap",
			id:   clientIdentity(7),
			req: func() model.CreateReservationRequest {
				r := baseReq
				r.Guests = 5
				return r
			}(),
			mockBehavior: func(m serviceMocks, req model.CreateReservationRequest) {},
			wantErr:      errs.ErrInvalidReservation,
		},
		{
			name: "enqueue failure does not fail the create",
			id:   clientIdentity(7),
			req:  baseReq,
			mockBehavior: func(m serviceMocks, req model.CreateReservationRequest) {
				m.repo.EXPECT().
					CreateReservation(context.Background(), gomock.Any()).
					Return(model.Reservation{ReservationUid: "d7e5b7a8-9f6a-4f5b-8f1a-0c9d8e7f0333", ClientID: 7}, nil)
				m.enqueuer.EXPECT().
					Enqueue(kafka.ReservationTopic, gomock.Any()).
					Return(errors.New("broker down"))
			},
			want: model.Reservation{ReservationUid: "d7e5b7a8-9f6a-4f5b-8f1a-0c9d8e7f0333", ClientID: 7},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, m := newTestService(t)
			tt.mockBehavior(m, tt.req)

			got, err := svc.CreateReservation(context.Background(), tt.id, testToken, tt.req)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			if tt.wantAnyErr {
				require.Error(t, err)
				require.NotErrorIs(t, err, errs.ErrClientNotFound)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestService_GetReservation(t *testing.T) {
	t.Parallel()

	stored := model.Reservation{
		ReservationUid: "b3c1f9e2-6a7d-4e2b-9c8f-1a2b3c4d0444",
		ClientID:       7,
		RoomID:         12,
		StartDate:      date(2026, 9, 1),
		EndDate:        date(2026, 9, 4),
		Status:         model.StatusConfirmed,
		Guests:         2,
		RoomType:       "Suite",
		TotalPrice:     3000,
	}
	room := model.Room{RoomID: 12, Number: "304", RoomType: "Suite", NightlyRate: 500}
	client := model.Client{ClientID: 7, Name: "Ada", Email: "ada@hotel.test"}

	t.Run("both profiles resolved", func(t *testing.T) {
		t.Parallel()
		svc, m := newTestService(t)
		m.repo.EXPECT().GetReservation(gomock.Any(), stored.ReservationUid).Return(stored, nil)
		m.roomSvc.EXPECT().GetRoom(gomock.Any(), testToken, 12).Return(room, http.StatusOK, nil)
		m.clientSvc.EXPECT().GetClient(gomock.Any(), testToken, 7).Return(client, http.StatusOK, nil)

		got, err := svc.GetReservation(context.Background(), testToken, stored.ReservationUid)
		require.NoError(t, err)
		require.Equal(t, stored, got.Reservation)
		require.Equal(t, &room, got.Room)
		require.Equal(t, &client, got.Client)
	})

	t.Run("room catalog down degrades to bare record", func(t *testing.T) {
		t.Parallel()
		svc, m := newTestService(t)
		m.repo.EXPECT().GetReservation(gomock.Any(), stored.ReservationUid).Return(stored, nil)
		m.roomSvc.EXPECT().GetRoom(gomock.Any(), testToken, 12).Return(model.Room{}, 0, errors.New("connection refused"))
		m.clientSvc.EXPECT().GetClient(gomock.Any(), testToken, 7).Return(client, http.StatusOK, nil)

		got, err := svc.GetReservation(context.Background(), testToken, stored.ReservationUid)
		require.NoError(t, err)
		require.Equal(t, stored, got.Reservation)
		require.Nil(t, got.Room)
		require.Equal(t, &client, got.Client)
	})

	t.Run("client identity 404 leaves client absent", func(t *testing.T) {
		t.Parallel()
		svc, m := newTestService(t)
		m.repo.EXPECT().GetReservation(gomock.Any(), stored.ReservationUid).Return(stored, nil)
		m.roomSvc.EXPECT().GetRoom(gomock.Any(), testToken, 12).Return(room, http.StatusOK, nil)
		m.clientSvc.EXPECT().GetClient(gomock.Any(), testToken, 7).Return(model.Client{}, http.StatusNotFound, nil)

		got, err := svc.GetReservation(context.Background(), testToken, stored.ReservationUid)
		require.NoError(t, err)
		require.Equal(t, &room, got.Room)
		require.Nil(t, got.Client)
	})

	t.Run("unknown uid", func(t *testing.T) {
		t.Parallel()
		svc, m := newTestService(t)
		m.repo.EXPECT().GetReservation(gomock.Any(), "missing").Return(model.Reservation{}, errs.ErrNotFound)

		_, err := svc.GetReservation(context.Background(), testToken, "missing")
		require.ErrorIs(t, err, errs.ErrNotFound)
	})
}

func TestService_ListReservations(t *testing.T) {
	t.Parallel()
	svc, m := newTestService(t)

	stored := []model.Reservation{
		{ReservationUid: "a1", ClientID: 7, RoomID: 12},
		{ReservationUid: "a2", ClientID: 8, RoomID: 13},
	}
	m.repo.EXPECT().ListReservations(gomock.Any()).Return(stored, nil)
	m.roomSvc.EXPECT().GetRoom(gomock.Any(), testToken, 12).Return(model.Room{RoomID: 12, Number: "304"}, http.StatusOK, nil)
	m.roomSvc.EXPECT().GetRoom(gomock.Any(), testToken, 13).Return(model.Room{}, 0, errors.New("timeout"))
	m.clientSvc.EXPECT().GetClient(gomock.Any(), testToken, 7).Return(model.Client{ClientID: 7}, http.StatusOK, nil)
	m.clientSvc.EXPECT().GetClient(gomock.Any(), testToken, 8).Return(model.Client{ClientID: 8}, http.StatusOK, nil)

	got, err := svc.ListReservations(context.Background(), testToken)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// store order survives the concurrent fan-out
	require.Equal(t, "a1", got[0].ReservationUid)
	require.Equal(t, "a2", got[1].ReservationUid)
	require.NotNil(t, got[0].Room)
	require.Nil(t, got[1].Room)
	require.NotNil(t, got[0].Client)
	require.NotNil(t, got[1].Client)
}

func TestService_ListClientReservations(t *testing.T) {
	t.Parallel()
	svc, m := newTestService(t)

	id := clientIdentity(7)
	stored := []model.Reservation{
		{ReservationUid: "b2", ClientID: 7, RoomID: 13, StartDate: date(2026, 10, 1), EndDate: date(2026, 10, 3), Status: model.StatusPending, TotalPrice: 800},
		{ReservationUid: "b1", ClientID: 7, RoomID: 12, StartDate: date(2026, 9, 1), EndDate: date(2026, 9, 2), Status: model.StatusCancelled, TotalPrice: 300},
	}
	m.repo.EXPECT().ListClientReservations(gomock.Any(), 7).Return(stored, nil)
	m.roomSvc.EXPECT().GetRoom(gomock.Any(), testToken, 13).Return(model.Room{RoomID: 13, Number: "112"}, http.StatusOK, nil)
	m.roomSvc.EXPECT().GetRoom(gomock.Any(), testToken, 12).Return(model.Room{}, http.StatusNotFound, nil)

	got, err := svc.ListClientReservations(context.Background(), id, testToken)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "b2", got[0].ReservationUid)
	require.Equal(t, float64(800), got[0].TotalPrice)
	require.NotNil(t, got[0].Room)
	require.Equal(t, "b1", got[1].ReservationUid)
	require.Nil(t, got[1].Room)
}

func TestService_UpdateReservation(t *testing.T) {
	t.Parallel()

	const uid = "b3c1f9e2-6a7d-4e2b-9c8f-1a2b3c4d0444"
	stored := model.Reservation{
		ReservationUid: uid,
		ClientID:       7,
		RoomID:         12,
		StartDate:      date(2026, 9, 1),
		EndDate:        date(2026, 9, 4),
		Status:         model.StatusPending,
		Guests:         2,
		RoomType:       "Suite",
		TotalPrice:     3000,
	}

	t.Run("partial update merges and reprices", func(t *testing.T) {
		t.Parallel()
		svc, m := newTestService(t)

		guests := 3
		endDate := model.Date{Time: date(2026, 9, 3)}
		req := model.UpdateReservationRequest{Guests: &guests, EndDate: &endDate}

		merged := stored
		merged.Guests = 3
		merged.EndDate = date(2026, 9, 3)
		merged.TotalPrice = 3000 // 2 nights x 500 x 3 guests

		m.repo.EXPECT().GetReservation(gomock.Any(), uid).Return(stored, nil)
		m.repo.EXPECT().UpdateReservation(gomock.Any(), uid, merged).Return(merged, nil)
		m.enqueuer.EXPECT().Enqueue(kafka.ReservationTopic, gomock.Any()).Return(nil)

		got, err := svc.UpdateReservation(context.Background(), managerIdentity(), uid, req)
		require.NoError(t, err)
		require.Equal(t, merged, got)
	})

	t.Run("merge producing invalid party is rejected", func(t *testing.T) {
		t.Parallel()
		svc, m := newTestService(t)

		guests := 5
		m.repo.EXPECT().GetReservation(gomock.Any(), uid).Return(stored, nil)

		_, err := svc.UpdateReservation(context.Background(), managerIdentity(), uid, model.UpdateReservationRequest{Guests: &guests})
		require.ErrorIs(t, err, errs.ErrInvalidReservation)
	})

	t.Run("unknown uid", func(t *testing.T) {
		t.Parallel()
		svc, m := newTestService(t)

		m.repo.EXPECT().GetReservation(gomock.Any(), "missing").Return(model.Reservation{}, errs.ErrNotFound)

		_, err := svc.UpdateReservation(context.Background(), managerIdentity(), "missing", model.UpdateReservationRequest{})
		require.ErrorIs(t, err, errs.ErrNotFound)
	})
}

func TestService_CancelReservation(t *testing.T) {
	t.Parallel()

	const uid = "b3c1f9e2-6a7d-4e2b-9c8f-1a2b3c4d0444"

	t.Run("cancel publishes and returns the record", func(t *testing.T) {
		t.Parallel()
		svc, m := newTestService(t)

		cancelled := model.Reservation{ReservationUid: uid, ClientID: 7, Status: model.StatusCancelled}
		m.repo.EXPECT().CancelReservation(gomock.Any(), uid).Return(cancelled, nil)
		m.enqueuer.EXPECT().Enqueue(kafka.ReservationTopic, gomock.Any()).
			DoAndReturn(func(topic string, v any) error {
				ev, ok := v.(kafka.ReservationEvent)
				require.True(t, ok)
				require.Equal(t, kafka.EventCancelled, ev.Type)
				require.Equal(t, uid, ev.ReservationUid)
				return nil
			})

		got, err := svc.CancelReservation(context.Background(), clientIdentity(7), uid)
		require.NoError(t, err)
		require.Equal(t, cancelled, got)
	})

	t.Run("unknown uid", func(t *testing.T) {
		t.Parallel()
		svc, m := newTestService(t)

		m.repo.EXPECT().CancelReservation(gomock.Any(), "missing").Return(model.Reservation{}, errs.ErrNotFound)

		_, err := svc.CancelReservation(context.Background(), clientIdentity(7), "missing")
		require.ErrorIs(t, err, errs.ErrNotFound)
	})
}

func TestService_DeleteReservation(t *testing.T) {
	t.Parallel()

	const uid = "b3c1f9e2-6a7d-4e2b-9c8f-1a2b3c4d0444"

	t.Run("delete publishes", func(t *testing.T) {
		t.Parallel()
		svc, m := newTestService(t)

		m.repo.EXPECT().DeleteReservation(gomock.Any(), uid).
			Return(model.Reservation{ReservationUid: uid, ClientID: 7}, nil)
		m.enqueuer.EXPECT().Enqueue(kafka.ReservationTopic, gomock.Any()).
			DoAndReturn(func(topic string, v any) error {
				ev, ok := v.(kafka.ReservationEvent)
				require.True(t, ok)
				require.Equal(t, kafka.EventDeleted, ev.Type)
				return nil
			})

		require.NoError(t, svc.DeleteReservation(context.Background(), clientIdentity(7), uid))
	})

	t.Run("unknown uid", func(t *testing.T) {
		t.Parallel()
		svc, m := newTestService(t)

		m.repo.EXPECT().DeleteReservation(gomock.Any(), "missing").Return(model.Reservation{}, errs.ErrNotFound)

		err := svc.DeleteReservation(context.Background(), clientIdentity(7), "missing")
		require.ErrorIs(t, err, errs.ErrNotFound)
	})
}
