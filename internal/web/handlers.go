package web

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/example/sitebook/internal/auth"
	"github.com/example/sitebook/internal/booking"
	"github.com/example/sitebook/internal/db"
	"github.com/example/sitebook/internal/sites"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var validate = validator.New()

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type setRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

type siteRequest struct {
	Name        string            `json:"name" validate:"required"`
	Purpose     string            `json:"purpose"`
	Coordinates sites.Coordinates `json:"coordinates"`
	StartDay    string            `json:"start_day" validate:"required,datetime=2006-01-02"`
	HalfDays    int               `json:"half_days" validate:"required,min=1"`
	StartPeriod string            `json:"start_period" validate:"omitempty,oneof=morning afternoon"`
	ClientPhone string            `json:"client_phone"`
	Workers     []sites.Worker    `json:"workers"`
}

type setStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type addVehicleRequest struct {
	Name string `json:"name" validate:"required"`
}

type reserveRequest struct {
	StartDate   string `json:"start_date" validate:"required"`
	EndDate     string `json:"end_date" validate:"required"`
	StartPeriod string `json:"start_period" validate:"omitempty,oneof=morning afternoon"`
	EndPeriod   string `json:"end_period" validate:"omitempty,oneof=morning afternoon"`
}

type sitePayload struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	Purpose     string            `json:"purpose"`
	Coordinates sites.Coordinates `json:"coordinates"`
	StartDay    string            `json:"start_day"`
	Duration    sites.Duration    `json:"duration"`
	Status      sites.Status      `json:"status"`
	ClientPhone string            `json:"client_phone"`
	Workers     []sites.Worker    `json:"workers"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

type vehiclePayload struct {
	ID        uuid.UUID `json:"id"`
	SiteID    uuid.UUID `json:"site_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type intervalPayload struct {
	StartDate   string         `json:"start_date"`
	StartPeriod booking.Period `json:"start_period"`
	EndDate     string         `json:"end_date"`
	EndPeriod   booking.Period `json:"end_period"`
}

func toSitePayload(s sites.Site) sitePayload {
	return sitePayload{
		ID:          s.ID,
		Name:        s.Name,
		Purpose:     s.Purpose,
		Coordinates: s.Coordinates,
		StartDay:    s.StartDay.Format("2006-01-02"),
		Duration:    s.Duration,
		Status:      s.Status,
		ClientPhone: s.ClientPhone,
		Workers:     s.Workers,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func toVehiclePayload(v sites.Vehicle) vehiclePayload {
	return vehiclePayload{ID: v.ID, SiteID: v.SiteID, Name: v.Name, CreatedAt: v.CreatedAt}
}

func toIntervalPayload(iv booking.Interval) intervalPayload {
	return intervalPayload{
		StartDate:   iv.StartDay().Format("2006-01-02"),
		StartPeriod: iv.StartPeriod(),
		EndDate:     iv.EndDay().Format("2006-01-02"),
		EndPeriod:   iv.EndPeriod(),
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Log.Error("encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) readJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// writeDomainError maps errors from the booking core and the stores onto
// HTTP statuses. Conflicts carry both intervals so the caller can show
// the user what is already booked.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	var (
		conflict *booking.ConflictError
		dateErr  *booking.DateError
		sameDay  *booking.SameDayError
	)
	switch {
	case errors.Is(err, db.ErrNotFound):
		s.writeError(w, http.StatusNotFound, "not found")
	case errors.As(err, &conflict):
		s.writeJSON(w, http.StatusConflict, map[string]any{
			"error":       "reservation conflict",
			"candidate":   toIntervalPayload(conflict.Candidate),
			"conflicting": toIntervalPayload(conflict.Existing),
		})
	case errors.As(err, &dateErr),
		errors.As(err, &sameDay),
		errors.Is(err, booking.ErrInvertedRange):
		s.writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.Log.Error("request failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !s.readJSON(w, r, &req) {
		return
	}
	uid, err := s.Auth.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			s.writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		s.writeDomainError(w, err)
		return
	}
	sess := auth.Session{UserID: uid, Username: req.Username}
	if err := s.Auth.SetSession(w, r, sess); err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.Auth.ClearSession(w)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleWhoami(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.SessionFromContext(r.Context())
	greeting := fmt.Sprintf("Hi, %s!", sess.Username)
	if sess.Role == "" {
		greeting += " Please pick a role: site_manager or global_manager."
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"message": greeting,
		"session": sess,
	})
}

func (s *Server) handleSetRole(w http.ResponseWriter, r *http.Request) {
	var req setRoleRequest
	if !s.readJSON(w, r, &req) {
		return
	}
	role, err := auth.ParseRole(req.Role)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sess, _ := auth.SessionFromContext(r.Context())
	sess.Role = role
	if err := s.Auth.SetSession(w, r, sess); err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sess)
}

func (req siteRequest) toSite() (sites.Site, error) {
	startDay, err := time.ParseInLocation("2006-01-02", req.StartDay, time.UTC)
	if err != nil {
		return sites.Site{}, fmt.Errorf("invalid start_day: %w", err)
	}
	startPeriod := booking.Morning
	if req.StartPeriod != "" {
		startPeriod, err = booking.ParsePeriod(req.StartPeriod)
		if err != nil {
			return sites.Site{}, err
		}
	}
	return sites.Site{
		Name:        req.Name,
		Purpose:     req.Purpose,
		Coordinates: req.Coordinates,
		StartDay:    startDay,
		Duration:    sites.Duration{HalfDays: req.HalfDays, StartPeriod: startPeriod},
		ClientPhone: req.ClientPhone,
		Workers:     req.Workers,
	}, nil
}

func (s *Server) handleCreateSite(w http.ResponseWriter, r *http.Request) {
	var req siteRequest
	if !s.readJSON(w, r, &req) {
		return
	}
	site, err := req.toSite()
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	created, err := s.Sites.CreateSite(r.Context(), site)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toSitePayload(created))
}

func (s *Server) handleListSites(w http.ResponseWriter, r *http.Request) {
	list, err := s.Sites.ListSites(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	out := make([]sitePayload, 0, len(list))
	for _, site := range list {
		out = append(out, toSitePayload(site))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

func (s *Server) handleGetSite(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	site, err := s.Sites.GetSite(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toSitePayload(site))
}

func (s *Server) handleUpdateSite(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	var req siteRequest
	if !s.readJSON(w, r, &req) {
		return
	}
	site, err := req.toSite()
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	site.ID = id
	updated, err := s.Sites.UpdateSite(r.Context(), site)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toSitePayload(updated))
}

func (s *Server) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	var req setStatusRequest
	if !s.readJSON(w, r, &req) {
		return
	}
	status, err := sites.ParseStatus(req.Status)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.Sites.SetStatus(r.Context(), id, status); err != nil {
		s.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddVehicle(w http.ResponseWriter, r *http.Request) {
	siteID, ok := s.pathID(w, r)
	if !ok {
		return
	}
	var req addVehicleRequest
	if !s.readJSON(w, r, &req) {
		return
	}
	if _, err := s.Sites.GetSite(r.Context(), siteID); err != nil {
		s.writeDomainError(w, err)
		return
	}
	v, err := s.Sites.AddVehicle(r.Context(), siteID, req.Name)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toVehiclePayload(v))
}

func (s *Server) handleListVehicles(w http.ResponseWriter, r *http.Request) {
	siteID, ok := s.pathID(w, r)
	if !ok {
		return
	}
	list, err := s.Sites.ListVehicles(r.Context(), siteID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	out := make([]vehiclePayload, 0, len(list))
	for _, v := range list {
		out = append(out, toVehiclePayload(v))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (req reserveRequest) toInterval() (booking.Interval, error) {
	startPeriod := booking.Morning
	endPeriod := booking.Afternoon
	var err error
	if req.StartPeriod != "" {
		if startPeriod, err = booking.ParsePeriod(req.StartPeriod); err != nil {
			return booking.Interval{}, err
		}
	}
	if req.EndPeriod != "" {
		if endPeriod, err = booking.ParsePeriod(req.EndPeriod); err != nil {
			return booking.Interval{}, err
		}
	}
	return booking.NewIntervalWithPeriods(startPeriod, req.StartDate, endPeriod, req.EndDate)
}

func (s *Server) handleReserveVehicle(w http.ResponseWriter, r *http.Request) {
	vehicleID, ok := s.pathID(w, r)
	if !ok {
		return
	}
	var req reserveRequest
	if !s.readJSON(w, r, &req) {
		return
	}
	candidate, err := req.toInterval()
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	if err := s.Sites.ReserveVehicle(r.Context(), vehicleID, candidate); err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toIntervalPayload(candidate))
}

func (s *Server) handleListReservations(w http.ResponseWriter, r *http.Request) {
	vehicleID, ok := s.pathID(w, r)
	if !ok {
		return
	}
	if _, err := s.Sites.GetVehicle(r.Context(), vehicleID); err != nil {
		s.writeDomainError(w, err)
		return
	}
	list, err := s.Sites.Reservations(r.Context(), vehicleID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	out := make([]intervalPayload, 0, len(list))
	for _, iv := range list {
		out = append(out, toIntervalPayload(iv))
	}
	s.writeJSON(w, http.StatusOK, out)
}
