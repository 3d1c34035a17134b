package audit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Repository is the persistence contract for audit events.
//
// It MUST be append-only.
// No Update/Delete methods are provided by design.

type Repository interface {
	Append(ctx context.Context, e Event) error
}

// Service logs who viewed and exported which reports.
//
// IMPORTANT:
// - Audit is internal-only. Do not expose these records to report viewers.
// - Callers should treat audit logging as best-effort.

type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

var ErrInvalidEvent = errors.New("audit: invalid event")

func (s *Service) Append(ctx context.Context, e Event) error {
	if s.repo == nil {
		return errors.New("audit: repository not configured")
	}
	if e.Actor == "" {
		return ErrInvalidEvent
	}
	if e.Type == "" {
		return ErrInvalidEvent
	}

	now := s.clock().UTC()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	return s.repo.Append(ctx, e)
}

// LogReportView records a report page or summary request.
func (s *Service) LogReportView(ctx context.Context, actor string, admin bool, ip, detail string) error {
	return s.Append(ctx, Event{
		Type:       EventTypeReportView,
		Actor:      actor,
		ActorAdmin: admin,
		IPAddress:  ip,
		Detail:     detail,
	})
}

// LogExport records a CSV or XLSX download.
func (s *Service) LogExport(ctx context.Context, typ EventType, actor string, admin bool, ip, detail string) error {
	return s.Append(ctx, Event{
		Type:       typ,
		Actor:      actor,
		ActorAdmin: admin,
		IPAddress:  ip,
		Detail:     detail,
	})
}
