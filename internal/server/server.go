//go:generate mockgen -source ./server.go -destination=./mocks/server.go -package=server_mocks
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/droppoint/lockerd/internal/engine"
	"github.com/droppoint/lockerd/internal/repository"
)

// Engine is the transport-agnostic surface the façade adapts JSON onto. No
// allocation logic lives in this package.
type Engine interface {
	RegisterParcel(ctx context.Context, parcel *repository.Parcel) error
	Reserve(ctx context.Context, parcelRef string, sizeClass repository.SizeClass, location string) (*engine.ReserveResult, error)
	ConfirmDelivery(ctx context.Context, reservationID uuid.UUID) (*engine.DeliveryResult, error)
	VerifyPickup(ctx context.Context, code, secondaryFactor string) (*engine.PickupResult, error)
	Cancel(ctx context.Context, reservationID uuid.UUID, reason string) error
	GetReservation(ctx context.Context, id uuid.UUID) (*repository.Reservation, error)
	ReclaimExpired(ctx context.Context) (int, error)
}

type UserRepo interface {
	ValidateUser(ctx context.Context, username, password string) (bool, error)
}

type Server struct {
	engine       Engine
	userRepo     UserRepo
	server       *http.Server
	logger       *zap.Logger
	AuditManager *AuditManager
}

func New(engine Engine, userRepo UserRepo, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		engine:       engine,
		userRepo:     userRepo,
		logger:       logger,
		AuditManager: NewAuditManager(2, 5, 500*time.Millisecond, logger),
	}
}

func (s *Server) Run(ctx context.Context, port string) error {
	router := s.setupRoutes()

	s.server = &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	s.AuditManager.Start(ctx)

	s.logger.Info("http server starting", zap.String("port", port))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			return err
		}
	}
	s.AuditManager.Shutdown(ctx)
	return nil
}

func (s *Server) setupRoutes() http.Handler {
	router := mux.NewRouter()

	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api := router.PathPrefix("/").Subrouter()
	api.Use(s.requestAuditMiddleware, s.basicAuthMiddleware)

	api.HandleFunc("/parcels", s.handleRegisterParcel).Methods(http.MethodPost)
	api.HandleFunc("/reservations", s.handleReserve).Methods(http.MethodPost)
	api.HandleFunc("/reservations/{id}", s.handleGetReservation).Methods(http.MethodGet)
	api.HandleFunc("/reservations/{id}/delivery", s.handleConfirmDelivery).Methods(http.MethodPost)
	api.HandleFunc("/reservations/{id}/cancel", s.handleCancel).Methods(http.MethodPost)
	api.HandleFunc("/pickups", s.handleVerifyPickup).Methods(http.MethodPost)
	api.HandleFunc("/reclaim", s.handleReclaim).Methods(http.MethodPost)

	return router
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
