package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/hotelhub/reservation-service/pkg/auth"
	"github.com/hotelhub/reservation-service/pkg/circuit_breaker"
	"github.com/hotelhub/reservation-service/reservation/config"
	"github.com/hotelhub/reservation-service/reservation/internal/model"
)

// Service is the HTTP client for the client identity collaborator.
type Service struct {
	log    *zap.Logger
	client *http.Client
	cfg    config.ClientHTTPServer
	cb     circuit_breaker.CircuitBreaker
}

func NewService(log *zap.Logger, cfg config.ClientHTTPServer) *Service {
	return &Service{
		log:    log.Named("client-client"),
		client: &http.Client{Timeout: 3 * time.Second},
		cfg:    cfg,
		cb:     circuit_breaker.New(100, time.Second, 0.2, 2),
	}
}

func (s *Service) GetClient(ctx context.Context, token string, clientID int) (model.Client, int, error) {
	var (
		cl   model.Client
		code int
	)
	if err := s.cb.Call(func() error {
		var err error
		cl, code, err = s.getClient(ctx, token, clientID)
		return err
	}); err != nil {
		return model.Client{}, code, err
	}
	return cl, code, nil
}

func (s *Service) getClient(ctx context.Context, token string, clientID int) (model.Client, int, error) {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		fmt.Sprintf("http://%s/api/v1/clients/%d", net.JoinHostPort(s.cfg.Host, s.cfg.Port), clientID),
		http.NoBody)
	if err != nil {
		return model.Client{}, http.StatusBadRequest, err
	}
	req.Header.Set(auth.AuthorizationHeader, token)
	resp, err := s.client.Do(req)
	if err != nil {
		return model.Client{}, http.StatusServiceUnavailable, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.Client{}, resp.StatusCode, nil
	}
	var cl model.Client
	if err := json.NewDecoder(resp.Body).Decode(&cl); err != nil {
		return model.Client{}, http.StatusBadRequest, err
	}
	return cl, resp.StatusCode, nil
}
