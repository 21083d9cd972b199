package room

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/hotelhub/reservation-service/pkg/auth"
	"github.com/hotelhub/reservation-service/pkg/circuit_breaker"
	"github.com/hotelhub/reservation-service/reservation/config"
	"github.com/hotelhub/reservation-service/reservation/internal/model"
)

const cacheTTL = 30 * time.Second

// Service is the HTTP client for the room catalog collaborator. Room
// profiles are cached in redis with a short TTL so list enrichment
// does not hammer the catalog; a missing or failing cache degrades to
// a plain lookup.
type Service struct {
	log    *zap.Logger
	client *http.Client
	cfg    config.RoomHTTPServer
	cb     circuit_breaker.CircuitBreaker
	cache  *redis.Client
}

func NewService(log *zap.Logger, cfg config.RoomHTTPServer, cache *redis.Client) *Service {
	return &Service{
		log:    log.Named("room-client"),
		client: &http.Client{Timeout: 3 * time.Second},
		cfg:    cfg,
		cb:     circuit_breaker.New(100, time.Second, 0.2, 2),
		cache:  cache,
	}
}

func (s *Service) GetRoom(ctx context.Context, token string, roomID int) (model.Room, int, error) {
	key := fmt.Sprintf("room:%d", roomID)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, key).Bytes(); err == nil {
			var room model.Room
			if err := json.Unmarshal(data, &room); err == nil {
				return room, http.StatusOK, nil
			}
		}
	}

	var (
		room model.Room
		code int
	)
	if err := s.cb.Call(func() error {
		var err error
		room, code, err = s.getRoom(ctx, token, roomID)
		return err
	}); err != nil {
		return model.Room{}, code, err
	}

	if code == http.StatusOK && s.cache != nil {
		if data, err := json.Marshal(room); err == nil {
			if err := s.cache.Set(ctx, key, data, cacheTTL).Err(); err != nil {
				s.log.Debug("room cache set", zap.Error(err))
			}
		}
	}
	return room, code, nil
}

func (s *Service) getRoom(ctx context.Context, token string, roomID int) (model.Room, int, error) {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		fmt.Sprintf("http://%s/api/v1/rooms/%d", net.JoinHostPort(s.cfg.Host, s.cfg.Port), roomID),
		http.NoBody)
	if err != nil {
		return model.Room{}, http.StatusBadRequest, err
	}
	req.Header.Set(auth.AuthorizationHeader, token)
	resp, err := s.client.Do(req)
	if err != nil {
		return model.Room{}, http.StatusServiceUnavailable, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.Room{}, resp.StatusCode, nil
	}
	var room model.Room
	if err := json.NewDecoder(resp.Body).Decode(&room); err != nil {
		return model.Room{}, http.StatusBadRequest, err
	}
	return room, resp.StatusCode, nil
}
