package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"mixlab/internal/database"
	"mixlab/internal/models"
	"mixlab/internal/pass"
	"mixlab/internal/schedule"
	"mixlab/internal/service"
)

type bookingPayload struct {
	Service       string `json:"service"`
	Date          string `json:"date"`
	StartHour     int    `json:"start_hour"`
	StartMinute   int    `json:"start_minute"`
	DurationHours int    `json:"duration_hours"`
	Recurrence    string `json:"recurrence"`

	OwnerRef   string `json:"owner_ref"`
	OwnerName  string `json:"owner_name"`
	OwnerEmail string `json:"owner_email"`

	// Status is only honored on the admin endpoint.
	Status string `json:"status"`
}

func (p bookingPayload) toRequest() (models.BookingRequest, models.Owner, error) {
	date, err := time.Parse("2006-01-02", p.Date)
	if err != nil {
		return models.BookingRequest{}, models.Owner{}, fmt.Errorf("invalid date format; expected YYYY-MM-DD")
	}
	req := models.BookingRequest{
		Service:       p.Service,
		Date:          date,
		StartHour:     p.StartHour,
		StartMinute:   p.StartMinute,
		DurationHours: p.DurationHours,
		Recurrence:    p.Recurrence,
	}
	owner := models.Owner{Ref: p.OwnerRef, Name: p.OwnerName, Email: p.OwnerEmail}
	return req, owner, nil
}

func (s *HTTPServer) handleReservations(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.createReservation(w, r, false)
	case http.MethodGet:
		ownerRef := strings.TrimSpace(r.URL.Query().Get("owner"))
		if ownerRef == "" {
			writeError(w, http.StatusBadRequest, "owner is required")
			return
		}
		reservations, err := s.bookings.GetOwnerReservations(r.Context(), ownerRef)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"reservations": reservations})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleAdminCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.createReservation(w, r, true)
}

func (s *HTTPServer) createReservation(w http.ResponseWriter, r *http.Request, admin bool) {
	var payload bookingPayload
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	req, owner, err := payload.toRequest()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var result *models.CommitResult
	if admin {
		result, err = s.bookings.CreateManualReservation(r.Context(), req, owner, payload.Status)
	} else {
		result, err = s.bookings.CreateReservation(r.Context(), req, owner)
	}
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (s *HTTPServer) handleReservationByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/reservations/")
	sequenceID, sub, _ := strings.Cut(rest, "/")
	if sequenceID == "" {
		writeError(w, http.StatusBadRequest, "sequence id is required")
		return
	}

	reservation, err := s.bookings.GetReservation(r.Context(), sequenceID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	switch sub {
	case "":
		writeJSON(w, http.StatusOK, reservation)
	case "pass":
		png, err := pass.RenderPNG(reservation, 0)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to render pass")
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(png)
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

func (s *HTTPServer) handleGroup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	groupID := strings.TrimPrefix(r.URL.Path, "/api/v1/groups/")
	if groupID == "" || strings.Contains(groupID, "/") {
		writeError(w, http.StatusBadRequest, "group id is required")
		return
	}

	group, err := s.bookings.GetGroup(r.Context(), groupID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if len(group) == 0 {
		writeError(w, http.StatusNotFound, "group not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"group_id": groupID, "reservations": group})
}

func (s *HTTPServer) handleAdminReservation(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/admin/reservations/")
	sequenceID, sub, _ := strings.Cut(rest, "/")
	if sequenceID == "" {
		writeError(w, http.StatusBadRequest, "sequence id is required")
		return
	}

	switch {
	case r.Method == http.MethodPost && sub == "status":
		var body struct {
			Status string `json:"status"`
			Actor  string `json:"actor"`
			Force  bool   `json:"force"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		reservation, err := s.bookings.UpdateStatus(r.Context(), sequenceID, body.Status, body.Actor, body.Force)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, reservation)

	case r.Method == http.MethodDelete && sub == "":
		actor := strings.TrimSpace(r.URL.Query().Get("actor"))
		if err := s.bookings.DeleteReservation(r.Context(), sequenceID, actor); err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"deleted": sequenceID})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body struct {
		Payload string `json:"payload"`
		Actor   string `json:"actor"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	reservation, err := s.bookings.CheckIn(r.Context(), body.Payload, body.Actor)
	if err != nil {
		s.writeCheckInError(w, err, reservation)
		return
	}
	writeJSON(w, http.StatusOK, reservation)
}

func (s *HTTPServer) handleSchedule(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	// date= asks for a single day; from=/to= for the month grid.
	if dateStr := strings.TrimSpace(r.URL.Query().Get("date")); dateStr != "" {
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date; expected YYYY-MM-DD")
			return
		}
		day, err := s.bookings.DaySchedule(r.Context(), date)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, day)
		return
	}

	from, to, err := parseRange(r, 31)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	days, err := s.bookings.CalendarGrid(r.Context(), from, to)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"days": days})
}

func (s *HTTPServer) handleAvailability(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	start, err := time.Parse(time.RFC3339, r.URL.Query().Get("start"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start; expected RFC3339")
		return
	}
	end, err := time.Parse(time.RFC3339, r.URL.Query().Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid end; expected RFC3339")
		return
	}
	if !start.Before(end) {
		writeError(w, http.StatusBadRequest, "start must be before end")
		return
	}

	available, err := s.bookings.CheckSlot(r.Context(), start, end)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"available": available})
}

func (s *HTTPServer) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	month := strings.TrimSpace(r.URL.Query().Get("month"))
	if month == "" {
		writeError(w, http.StatusBadRequest, "month is required; expected YYYY-MM")
		return
	}

	stats, err := s.stats.MonthStats(r.Context(), month)
	if err != nil {
		if errors.Is(err, service.ErrInvalidMonth) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *HTTPServer) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.exporter == nil {
		writeError(w, http.StatusNotFound, "export is not configured")
		return
	}

	from, to, err := parseRange(r, 31)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	fileName := fmt.Sprintf("schedule_%s_to_%s.xlsx", from.Format("2006-01-02"), to.Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	if err := s.exporter.WriteSchedule(r.Context(), w, from, to); err != nil {
		s.logger.Error().Err(err).Msg("export write error")
	}
}

// parseRange reads from/to date parameters; to defaults to from plus the
// given number of days.
func parseRange(r *http.Request, defaultDays int) (time.Time, time.Time, error) {
	fromStr := strings.TrimSpace(r.URL.Query().Get("from"))
	if fromStr == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("from is required; expected YYYY-MM-DD")
	}
	from, err := time.Parse("2006-01-02", fromStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid from date; expected YYYY-MM-DD")
	}

	to := from.AddDate(0, 0, defaultDays)
	if toStr := strings.TrimSpace(r.URL.Query().Get("to")); toStr != "" {
		to, err = time.Parse("2006-01-02", toStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid to date; expected YYYY-MM-DD")
		}
	}
	if !from.Before(to) {
		return time.Time{}, time.Time{}, fmt.Errorf("from must be before to")
	}
	return from, to, nil
}

// writeServiceError maps engine errors onto HTTP statuses. Conflicts carry
// the offending slot so the client can show which occurrence failed.
func (s *HTTPServer) writeServiceError(w http.ResponseWriter, err error) {
	var conflict *database.ConflictError
	if errors.As(err, &conflict) {
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":      conflict.Error(),
			"slot_index": conflict.SlotIndex,
			"start":      conflict.Start,
			"end":        conflict.End,
			"with":       conflict.With,
		})
		return
	}

	switch {
	case errors.Is(err, database.ErrReservationNotFound):
		writeError(w, http.StatusNotFound, "reservation not found")
	case errors.Is(err, database.ErrConcurrentModification),
		errors.Is(err, service.ErrIllegalTransition):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, schedule.ErrMissingService),
		errors.Is(err, schedule.ErrMissingDate),
		errors.Is(err, schedule.ErrInvalidStartTime),
		errors.Is(err, schedule.ErrInvalidDuration),
		errors.Is(err, schedule.ErrDurationTooLong),
		errors.Is(err, schedule.ErrUnknownRecurrence),
		errors.Is(err, service.ErrPastDate),
		errors.Is(err, service.ErrDateTooFar),
		errors.Is(err, service.ErrClosedDay),
		errors.Is(err, service.ErrOutsideHours),
		errors.Is(err, service.ErrUnknownService),
		errors.Is(err, service.ErrUnknownStatus):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error().Err(err).Msg("internal error")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// writeCheckInError keeps scanner outcomes distinct so the desk UI can tell
// the operator exactly what happened.
func (s *HTTPServer) writeCheckInError(w http.ResponseWriter, err error, reservation *models.Reservation) {
	code := func(status int, outcome string) {
		body := map[string]any{"error": err.Error(), "outcome": outcome}
		if reservation != nil {
			body["reservation"] = reservation
		}
		writeJSON(w, status, body)
	}

	switch {
	case errors.Is(err, service.ErrBadScanPayload):
		code(http.StatusBadRequest, "bad_payload")
	case errors.Is(err, database.ErrReservationNotFound):
		code(http.StatusNotFound, "not_found")
	case errors.Is(err, service.ErrAlreadyUsed):
		code(http.StatusConflict, "already_used")
	case errors.Is(err, service.ErrCancelled):
		code(http.StatusGone, "cancelled")
	case errors.Is(err, service.ErrNotConfirmed):
		code(http.StatusConflict, "not_confirmed")
	default:
		s.writeServiceError(w, err)
	}
}
