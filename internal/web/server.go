package web

import (
	"context"
	"net/http"
	"time"

	"github.com/example/sitebook/internal/auth"
	"github.com/example/sitebook/internal/booking"
	"github.com/example/sitebook/internal/sites"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SiteStore is what the handlers need from the persistence layer.
// *sites.Repo satisfies it; tests use fakes.
type SiteStore interface {
	CreateSite(ctx context.Context, s sites.Site) (sites.Site, error)
	GetSite(ctx context.Context, id uuid.UUID) (sites.Site, error)
	ListSites(ctx context.Context) ([]sites.Site, error)
	UpdateSite(ctx context.Context, s sites.Site) (sites.Site, error)
	SetStatus(ctx context.Context, id uuid.UUID, status sites.Status) error

	AddVehicle(ctx context.Context, siteID uuid.UUID, name string) (sites.Vehicle, error)
	ListVehicles(ctx context.Context, siteID uuid.UUID) ([]sites.Vehicle, error)
	GetVehicle(ctx context.Context, id uuid.UUID) (sites.Vehicle, error)

	Reservations(ctx context.Context, vehicleID uuid.UUID) ([]booking.Interval, error)
	ReserveVehicle(ctx context.Context, vehicleID uuid.UUID, candidate booking.Interval) error
}

type Server struct {
	Log   *zap.Logger
	Auth  *auth.Store
	Sites SiteStore
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	r.Post("/login", s.handleLogin)
	r.Post("/logout", s.handleLogout)

	r.Group(func(r chi.Router) {
		r.Use(s.Auth.RequireAuth)
		r.Get("/", s.handleWhoami)
		r.Post("/role", s.handleSetRole)
		r.Get("/sites", s.handleListSites)
		r.Get("/sites/{id}", s.handleGetSite)
		r.Get("/sites/{id}/vehicles", s.handleListVehicles)
		r.Get("/vehicles/{id}/reservations", s.handleListReservations)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.Auth.RequireRole(auth.Role.CanSetStatus))
		r.Post("/sites/{id}/status", s.handleSetStatus)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.Auth.RequireRole(auth.Role.CanManageSites))
		r.Post("/sites", s.handleCreateSite)
		r.Put("/sites/{id}", s.handleUpdateSite)
		r.Post("/sites/{id}/vehicles", s.handleAddVehicle)
		r.Post("/vehicles/{id}/reservations", s.handleReserveVehicle)
	})

	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.Log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("took", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func Start(ctx context.Context, log *zap.Logger, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	log.Info("listening", zap.String("addr", addr))
	return srv.ListenAndServe()
}
