/*
handlers.go - HTTP API handlers for the extra-duty roster service

PURPOSE:
  Exposes the roster engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Officers:
    GET    /api/officers                      List directory
    POST   /api/officers                      Add officer
    POST   /api/officers/import               Bulk import pasted names
    DELETE /api/officers/{name}               Remove officer

  Rosters:
    GET    /api/rosters/{month}               Both operations + versions
    GET    /api/rosters/{month}/{operation}   One operation
    PUT    /api/rosters/{month}/{operation}/slots  Assign or clear a slot
    GET    /api/rosters/{month}/{operation}/changes  Commit log

  Reports:
    GET    /api/rosters/{month}/conflicts     Violation report
    GET    /api/rosters/{month}/tally         Officer + group tallies
    GET    /api/rosters/{month}/most-scheduled
    GET    /api/rosters/{month}/search?q=     Fuzzy officer search

  Calendars:
    GET    /api/calendars/{month}             Ordinary rotation table
    PUT    /api/calendars/{month}             Replace rotation table

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input, out-of-range slot
  - 404: Missing records
  - 409: Quota rejection, version conflict
  - 500: Internal errors

SECURITY NOTE:
  No authentication middleware. The service runs on the company
  intranet behind the station proxy.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/escala/duty-engine/corps"
	"github.com/escala/duty-engine/roster"
	"github.com/escala/duty-engine/search"
	"github.com/escala/duty-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Backend is the combined persistence surface the handlers need. Both
// the SQLite store and the in-memory store satisfy it.
type Backend interface {
	roster.RosterStore
	roster.OfficerDirectory
}

// CalendarWriter is the optional write side of calendar storage.
type CalendarWriter interface {
	PutOrdinaryCalendar(ctx context.Context, key roster.MonthKey, calendar corps.OrdinaryCalendar) error
}

// ChangeLister is the optional commit-log surface (SQLite backend).
type ChangeLister interface {
	ListChanges(ctx context.Context, op roster.Operation, key roster.MonthKey) ([]sqlite.Change, error)
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	service    *roster.Service
	backend    Backend
	calendars  roster.CalendarProvider
	classifier *corps.Classifier
	matcher    *search.Matcher
	log        zerolog.Logger
}

// NewHandler wires the engine from its authored tables and a backend.
func NewHandler(cfg roster.Config, tables corps.Tables, backend Backend, calendars roster.CalendarProvider, logger zerolog.Logger) *Handler {
	prefixes := make([]string, 0, len(tables.Ranks))
	for _, r := range tables.Ranks {
		prefixes = append(prefixes, r.Prefix)
	}
	return &Handler{
		service:    roster.NewService(cfg, backend, backend),
		backend:    backend,
		calendars:  calendars,
		classifier: corps.NewClassifier(tables),
		matcher:    search.NewMatcher(search.Options{RankPrefixes: prefixes, Aliases: tables.SearchAliases}),
		log:        logger,
	}
}

// =============================================================================
// OFFICER HANDLERS
// =============================================================================

// ListOfficers returns the directory with derived group and rank.
func (h *Handler) ListOfficers(w http.ResponseWriter, r *http.Request) {
	officers, err := h.backend.ListOfficers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list officers", err)
		return
	}

	dtos := make([]OfficerDTO, len(officers))
	for i, o := range officers {
		dtos[i] = toOfficerDTO(o, h.classifier)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateOfficer adds one officer to the directory.
func (h *Handler) CreateOfficer(w http.ResponseWriter, r *http.Request) {
	var req CreateOfficerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return
	}

	officer := roster.Officer{Name: roster.NormalizeDisplayName(req.Name)}
	if err := h.backend.SaveOfficer(r.Context(), officer); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save officer", err)
		return
	}
	writeJSON(w, http.StatusCreated, toOfficerDTO(officer, h.classifier))
}

// ImportOfficers bulk-loads pasted display names, skipping blanks and
// names already present.
func (h *Handler) ImportOfficers(w http.ResponseWriter, r *http.Request) {
	var req ImportOfficersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return
	}

	ctx := r.Context()
	resp := ImportOfficersResponse{}
	for _, raw := range req.Names {
		name := roster.NormalizeDisplayName(raw)
		if name == "" {
			resp.Skipped++
			continue
		}
		known, err := h.backend.HasOfficer(ctx, name)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to import officers", err)
			return
		}
		if known {
			resp.Skipped++
			continue
		}
		if err := h.backend.SaveOfficer(ctx, roster.Officer{Name: name}); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to import officers", err)
			return
		}
		resp.Imported++
	}
	writeJSON(w, http.StatusOK, resp)
}

// DeleteOfficer removes one officer from the directory. Existing roster
// slots keep the name; the directory only gates future assignment.
func (h *Handler) DeleteOfficer(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := h.backend.DeleteOfficer(r.Context(), name); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete officer", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// ROSTER HANDLERS
// =============================================================================

// GetRosterSet returns both operations' rosters for one month.
func (h *Handler) GetRosterSet(w http.ResponseWriter, r *http.Request) {
	key, ok := h.monthParam(w, r)
	if !ok {
		return
	}

	var rosters []MonthRosterDTO
	for _, op := range roster.Operations() {
		month, version, err := h.backend.GetMonthRoster(r.Context(), op, key)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to load roster", err)
			return
		}
		rosters = append(rosters, toMonthRosterDTO(month, version))
	}
	writeJSON(w, http.StatusOK, RosterSetDTO{Month: key.String(), Rosters: rosters})
}

// GetMonthRoster returns one operation's roster.
func (h *Handler) GetMonthRoster(w http.ResponseWriter, r *http.Request) {
	key, ok := h.monthParam(w, r)
	if !ok {
		return
	}
	op, ok := h.operationParam(w, r)
	if !ok {
		return
	}

	month, version, err := h.backend.GetMonthRoster(r.Context(), op, key)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load roster", err)
		return
	}
	writeJSON(w, http.StatusOK, toMonthRosterDTO(month, version))
}

// AssignSlot assigns or clears one slot, running the full gate chain.
func (h *Handler) AssignSlot(w http.ResponseWriter, r *http.Request) {
	key, ok := h.monthParam(w, r)
	if !ok {
		return
	}
	op, ok := h.operationParam(w, r)
	if !ok {
		return
	}

	var req AssignSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return
	}

	version := roster.VersionAny
	if req.Version != nil {
		version = *req.Version
	}

	result, err := h.service.Apply(r.Context(), roster.Assignment{
		Operation: op,
		Key:       key,
		Day:       req.Day,
		Position:  req.Position,
		Officer:   roster.NormalizeDisplayName(req.Officer),
		Version:   version,
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, AssignSlotResponse{
		Allowed:      true,
		CurrentTotal: result.Decision.CurrentTotal,
		Cap:          result.Decision.Cap,
		Version:      result.Version,
	})
}

// ListChanges returns the commit log for one operation's month.
func (h *Handler) ListChanges(w http.ResponseWriter, r *http.Request) {
	key, ok := h.monthParam(w, r)
	if !ok {
		return
	}
	op, ok := h.operationParam(w, r)
	if !ok {
		return
	}

	lister, supported := h.backend.(ChangeLister)
	if !supported {
		writeError(w, http.StatusNotImplemented, "Change log not supported by this backend", nil)
		return
	}

	changes, err := lister.ListChanges(r.Context(), op, key)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load change log", err)
		return
	}

	dtos := make([]ChangeDTO, len(changes))
	for i, c := range changes {
		dtos[i] = ChangeDTO{
			ID:        c.ID,
			Operation: string(c.Operation),
			Version:   c.Version,
			ChangedAt: c.ChangedAt.Format(time.RFC3339),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

// GetConflicts runs the conflict detector over the committed month.
func (h *Handler) GetConflicts(w http.ResponseWriter, r *http.Request) {
	key, ok := h.monthParam(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	degraded := h.calendars == nil
	if h.calendars != nil {
		if _, err := h.calendars.OrdinaryCalendarFor(ctx, key); err != nil {
			degraded = true
			h.log.Warn().Err(err).Str("month", key.String()).
				Msg("ordinary calendar unavailable, conflict report degraded")
		}
	}

	violations, err := h.service.ConflictReport(ctx, key, h.classifier, h.calendars)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build conflict report", err)
		return
	}

	writeJSON(w, http.StatusOK, ConflictReportDTO{
		Month:      key.String(),
		Degraded:   degraded,
		Violations: violations,
	})
}

// GetTally returns per-officer and per-group tallies for one month,
// ordered by seniority rank then total.
func (h *Handler) GetTally(w http.ResponseWriter, r *http.Request) {
	key, ok := h.monthParam(w, r)
	if !ok {
		return
	}

	tallies, err := h.service.CombinedTally(r.Context(), key)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build tally", err)
		return
	}

	ordered := roster.SortForDisplay(tallies, h.classifier)
	dtos := make([]TallyDTO, len(ordered))
	for i, t := range ordered {
		dtos[i] = toTallyDTO(t, h.classifier)
	}

	writeJSON(w, http.StatusOK, TallyReportDTO{
		Month:    key.String(),
		Officers: dtos,
		Groups:   roster.BuildGroupSummary(tallies, h.classifier),
	})
}

// GetMostScheduled returns every officer tied at the maximum total.
func (h *Handler) GetMostScheduled(w http.ResponseWriter, r *http.Request) {
	key, ok := h.monthParam(w, r)
	if !ok {
		return
	}

	tallies, err := h.service.CombinedTally(r.Context(), key)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build tally", err)
		return
	}

	top := roster.MostScheduled(tallies)
	resp := MostScheduledDTO{Month: key.String(), Officers: []TallyDTO{}}
	for _, t := range top {
		resp.Max = t.Total
		resp.Officers = append(resp.Officers, toTallyDTO(t, h.classifier))
	}
	writeJSON(w, http.StatusOK, resp)
}

// SearchRoster finds an officer's slots by fuzzy query.
func (h *Handler) SearchRoster(w http.ResponseWriter, r *http.Request) {
	key, ok := h.monthParam(w, r)
	if !ok {
		return
	}
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "Missing query parameter q", nil)
		return
	}

	set, err := h.backend.GetRosterSet(r.Context(), key)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load roster", err)
		return
	}

	hits := h.matcher.Search(set, query)
	if hits == nil {
		hits = []search.Hit{}
	}
	writeJSON(w, http.StatusOK, SearchResponseDTO{Month: key.String(), Query: query, Hits: hits})
}

// =============================================================================
// CALENDAR HANDLERS
// =============================================================================

// GetCalendar returns the authored rotation table for one month.
func (h *Handler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	key, ok := h.monthParam(w, r)
	if !ok {
		return
	}
	if h.calendars == nil {
		writeError(w, http.StatusNotFound, "No calendar provider configured", nil)
		return
	}

	calendar, err := h.calendars.OrdinaryCalendarFor(r.Context(), key)
	if err != nil {
		if errors.Is(err, roster.ErrCalendarUnavailable) {
			writeError(w, http.StatusNotFound, "No calendar for month", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to load calendar", err)
		return
	}

	days := make(map[int][]string)
	for day := 1; day <= key.Days(); day++ {
		if groups := calendar.GroupsOn(day); len(groups) > 0 {
			days[day] = groups
		}
	}
	writeJSON(w, http.StatusOK, CalendarDTO{Month: key.String(), Days: days})
}

// PutCalendar replaces the authored rotation table for one month.
func (h *Handler) PutCalendar(w http.ResponseWriter, r *http.Request) {
	key, ok := h.monthParam(w, r)
	if !ok {
		return
	}

	writer, supported := h.calendars.(CalendarWriter)
	if !supported {
		writeError(w, http.StatusNotImplemented, "Calendar storage is read-only", nil)
		return
	}

	var req PutCalendarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return
	}

	calendar := make(corps.OrdinaryCalendar, len(req.Days))
	for day, groups := range req.Days {
		if !key.ValidDay(day) {
			writeError(w, http.StatusBadRequest, "Day outside month", roster.ErrInvalidDay)
			return
		}
		calendar[day] = append([]corps.GroupTag(nil), groups...)
	}

	if err := writer.PutOrdinaryCalendar(r.Context(), key, calendar); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store calendar", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Health is the liveness probe.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) monthParam(w http.ResponseWriter, r *http.Request) (roster.MonthKey, bool) {
	key, err := roster.ParseMonthKey(chi.URLParam(r, "month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month (use YYYY-MM)", err)
		return roster.MonthKey{}, false
	}
	return key, true
}

func (h *Handler) operationParam(w http.ResponseWriter, r *http.Request) (roster.Operation, bool) {
	op := roster.Operation(chi.URLParam(r, "operation"))
	if h.service.Config().CapacityFor(op) == 0 {
		writeError(w, http.StatusBadRequest, "Unknown operation", roster.ErrUnknownOperation)
		return "", false
	}
	return op, true
}

// writeDomainError maps engine rejections onto HTTP statuses, keeping
// the structured context (current total, cap, versions) in the body.
func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	var quotaErr *roster.QuotaExceededError
	if errors.As(err, &quotaErr) {
		writeJSON(w, http.StatusConflict, ErrorResponse{
			Error: quotaErr.Error(),
			Code:  "quota_exceeded",
			Details: map[string]int{
				"current_total": quotaErr.CurrentTotal,
				"cap":           quotaErr.Cap,
			},
		})
		return
	}

	switch {
	case errors.Is(err, roster.ErrVersionConflict):
		writeError(w, http.StatusConflict, "Roster was modified by another editor", err)
	case errors.Is(err, roster.ErrOfficerNotFound):
		writeError(w, http.StatusBadRequest, "Officer not in directory", err)
	case roster.IsClientError(err):
		writeError(w, http.StatusBadRequest, "Invalid assignment", err)
	case roster.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Not found", err)
	default:
		h.log.Error().Err(err).Msg("assignment failed")
		writeError(w, http.StatusInternalServerError, "Assignment failed", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
