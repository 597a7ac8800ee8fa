package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/yourusername/prop-edge/internal/config"
	"github.com/yourusername/prop-edge/internal/metrics"
	"github.com/yourusername/prop-edge/internal/models"
)

// StreamServer accepts websocket connections that submit candidate
// batches and receive evaluation results on the same connection. Each
// connection gets its own rate limiter so one noisy client cannot
// starve the rest.
type StreamServer struct {
	cfg      config.ServerConfig
	service  *EvaluationService
	upgrader websocket.Upgrader
	logger   *logrus.Logger
	server   *http.Server
}

// streamRequest is one inbound evaluation request.
type streamRequest struct {
	RequestID  string                  `json:"request_id"`
	Candidates []models.CandidateInput `json:"candidates"`
}

// streamResponse carries the result or an error back to the client.
type streamResponse struct {
	RequestID string      `json:"request_id"`
	Result    interface{} `json:"result,omitempty"`
	Error     string      `json:"error,omitempty"`
}

// NewStreamServer creates the evaluation stream server.
func NewStreamServer(cfg config.ServerConfig, service *EvaluationService, log *logrus.Logger) *StreamServer {
	return &StreamServer{
		cfg:     cfg,
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
		logger: log,
	}
}

// Start begins serving and blocks until the listener fails or Shutdown
// is called.
func (s *StreamServer) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/evaluate", s.handleStream)

	s.server = &http.Server{
		Addr:        s.cfg.ListenAddress,
		Handler:     mux,
		ReadTimeout: time.Duration(s.cfg.ReadTimeoutSec) * time.Second,
	}

	s.logger.WithField("address", s.cfg.ListenAddress).Info("Evaluation stream server listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("stream server failed: %w", err)
	}
	return nil
}

// Shutdown stops accepting connections and drains in-flight requests.
func (s *StreamServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *StreamServer) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	metrics.ActiveStreamClients.Inc()
	defer metrics.ActiveStreamClients.Dec()

	remote := conn.RemoteAddr().String()
	s.logger.WithField("remote", remote).Info("Stream client connected")
	defer s.logger.WithField("remote", remote).Info("Stream client disconnected")

	limiter := rate.NewLimiter(rate.Limit(s.cfg.RateLimit), s.cfg.RateBurst)

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.WithError(err).WithField("remote", remote).Warn("Stream read error")
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		if err := limiter.Wait(r.Context()); err != nil {
			return
		}

		response := s.process(r.Context(), data)
		if err := conn.WriteJSON(response); err != nil {
			s.logger.WithError(err).WithField("remote", remote).Warn("Stream write error")
			return
		}
	}
}

func (s *StreamServer) process(ctx context.Context, data []byte) streamResponse {
	var req streamRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return streamResponse{Error: fmt.Sprintf("malformed request: %v", err)}
	}
	if len(req.Candidates) == 0 {
		return streamResponse{RequestID: req.RequestID, Error: "empty candidate batch"}
	}
	if len(req.Candidates) > s.cfg.MaxBatchSize {
		return streamResponse{
			RequestID: req.RequestID,
			Error:     fmt.Sprintf("batch of %d exceeds limit %d", len(req.Candidates), s.cfg.MaxBatchSize),
		}
	}

	result, err := s.service.Evaluate(ctx, req.Candidates)
	if err != nil {
		return streamResponse{RequestID: req.RequestID, Error: err.Error()}
	}
	return streamResponse{RequestID: req.RequestID, Result: result}
}
