package audit

import "time"

// Event is an immutable, append-only audit log record.
//
// Invariants:
// - Events are never updated or deleted.
// - actor and ip capture are best-effort; do not block report delivery on
//   audit failures.

type Event struct {
	ID string `json:"id" db:"id"`

	// Type indicates the business category of the audit record.
	Type EventType `json:"type" db:"type"`

	// Actor is the authenticated username behind the event.
	Actor string `json:"actor" db:"actor"`
	// ActorAdmin records whether the actor held the admin flag at the time.
	ActorAdmin bool `json:"actor_admin" db:"actor_admin"`

	// IPAddress should capture the original client IP when available.
	IPAddress string `json:"ip_address,omitempty" db:"ip_address"`

	// Detail is a short human-readable description for internal ops, e.g.
	// the filter range and preset of an export.
	Detail string `json:"detail,omitempty" db:"detail"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type EventType string

const (
	EventTypeReportView EventType = "report_view"
	EventTypeExportCSV  EventType = "export_csv"
	EventTypeExportXLSX EventType = "export_xlsx"
)
