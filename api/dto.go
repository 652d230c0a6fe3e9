/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Request types carry go-playground/validator struct tags; handlers run
  them through the package-level validator before touching the domain.

SEE ALSO:
  - handlers.go: Uses these types
  - roster/types.go: Domain counterparts
*/
package api

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/escala/duty-engine/roster"
	"github.com/escala/duty-engine/search"
)

// validate is shared by all handlers; validator instances cache struct
// metadata and are safe for concurrent use.
var validate = validator.New()

// =============================================================================
// OFFICER TYPES
// =============================================================================

type OfficerDTO struct {
	Name      string `json:"name"`
	Group     string `json:"group"`
	Rank      int    `json:"rank"`
	CreatedAt string `json:"created_at,omitempty"`
}

type CreateOfficerRequest struct {
	Name string `json:"name" validate:"required,min=2"`
}

// ImportOfficersRequest carries one display name per entry, as pasted
// from the company spreadsheet.
type ImportOfficersRequest struct {
	Names []string `json:"names" validate:"required,min=1,dive,min=2"`
}

type ImportOfficersResponse struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// =============================================================================
// ROSTER TYPES
// =============================================================================

// MonthRosterDTO is one operation's month: day number -> slot array.
type MonthRosterDTO struct {
	Operation string              `json:"operation"`
	Month     string              `json:"month"`
	Days      map[int][]string    `json:"days"`
	Version   int64               `json:"version"`
}

// RosterSetDTO bundles both operations for one month.
type RosterSetDTO struct {
	Month   string           `json:"month"`
	Rosters []MonthRosterDTO `json:"rosters"`
}

// AssignSlotRequest mutates a single slot. An empty officer clears it.
// Version pins the roster version the client edited against; omit (or
// -1) to accept the current version.
type AssignSlotRequest struct {
	Day      int    `json:"day" validate:"min=1,max=31"`
	Position int    `json:"position" validate:"min=0"`
	Officer  string `json:"officer"`
	Version  *int64 `json:"version,omitempty"`
}

type AssignSlotResponse struct {
	Allowed      bool  `json:"allowed"`
	CurrentTotal int   `json:"current_total"`
	Cap          int   `json:"cap"`
	Version      int64 `json:"version"`
}

// =============================================================================
// REPORT TYPES
// =============================================================================

type ConflictReportDTO struct {
	Month      string             `json:"month"`
	Degraded   bool               `json:"degraded,omitempty"` // no ordinary calendar: double-booking checks only
	Violations []roster.Violation `json:"violations"`
}

type TallyDTO struct {
	Officer    string `json:"officer"`
	Group      string `json:"group"`
	Rank       int    `json:"rank"`
	Days       []int  `json:"days"`
	Total      int    `json:"total"`
	AtCap      bool   `json:"at_cap"`
	ExceedsCap bool   `json:"exceeds_cap"`
}

type TallyReportDTO struct {
	Month    string                `json:"month"`
	Officers []TallyDTO            `json:"officers"`
	Groups   []roster.GroupSummary `json:"groups"`
}

type MostScheduledDTO struct {
	Month    string     `json:"month"`
	Max      int        `json:"max"`
	Officers []TallyDTO `json:"officers"`
}

type SearchResponseDTO struct {
	Month string       `json:"month"`
	Query string       `json:"query"`
	Hits  []search.Hit `json:"hits"`
}

// =============================================================================
// CALENDAR TYPES
// =============================================================================

// CalendarDTO maps day-of-month to rotating group tags.
type CalendarDTO struct {
	Month string           `json:"month"`
	Days  map[int][]string `json:"days"`
}

type PutCalendarRequest struct {
	Days map[int][]string `json:"days" validate:"required"`
}

// =============================================================================
// CHANGE LOG TYPES
// =============================================================================

type ChangeDTO struct {
	ID        string `json:"id"`
	Operation string `json:"operation"`
	Version   int64  `json:"version"`
	ChangedAt string `json:"changed_at"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toMonthRosterDTO(m *roster.MonthRoster, version int64) MonthRosterDTO {
	days := make(map[int][]string, len(m.Days))
	for day, slots := range m.Days {
		days[day] = append([]string(nil), slots...)
	}
	return MonthRosterDTO{
		Operation: string(m.Operation),
		Month:     m.Key.String(),
		Days:      days,
		Version:   version,
	}
}

func toOfficerDTO(o roster.Officer, classifier roster.Classifier) OfficerDTO {
	dto := OfficerDTO{Name: o.Name}
	if classifier != nil {
		dto.Group = classifier.Classify(o.Name)
		dto.Rank = classifier.Rank(o.Name)
	}
	if !o.CreatedAt.IsZero() {
		dto.CreatedAt = o.CreatedAt.Format(time.RFC3339)
	}
	return dto
}

func toTallyDTO(t *roster.OfficerTally, classifier roster.Classifier) TallyDTO {
	dto := TallyDTO{
		Officer:    t.Officer,
		Days:       t.Days,
		Total:      t.Total,
		AtCap:      t.AtCap,
		ExceedsCap: t.ExceedsCap,
	}
	if classifier != nil {
		dto.Group = classifier.Classify(t.Officer)
		dto.Rank = classifier.Rank(t.Officer)
	}
	return dto
}
