package report

import (
	"context"
	"sync"
	"time"

	"github.com/asm2me/Asterisk-Reporting/internal/cdr"
)

// MemoryRepository is an in-memory leg store for tests and early development.

type MemoryRepository struct {
	mu sync.Mutex

	Legs        []cdr.CallLeg
	GatewayList []string

	Err error // forced error for failure-path tests
}

func NewMemoryRepository(legs ...cdr.CallLeg) *MemoryRepository {
	return &MemoryRepository{Legs: legs}
}

func (r *MemoryRepository) ListLegs(ctx context.Context, from, to time.Time) ([]cdr.CallLeg, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	out := make([]cdr.CallLeg, 0, len(r.Legs))
	for _, l := range r.Legs {
		if l.CallDate.Before(from) || l.CallDate.After(to) {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (r *MemoryRepository) Gateways(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	out := make([]string, len(r.GatewayList))
	copy(out, r.GatewayList)
	return out, nil
}
