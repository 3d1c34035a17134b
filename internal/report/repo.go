package report

import (
	"context"
	"time"

	"github.com/asm2me/Asterisk-Reporting/internal/cdr"
)

// Repository abstracts the call-detail source. It is read-only: the source
// table is an append-only fact log owned by the switch.
//
// ListLegs is the single bulk read per report request; all finer-grained
// filtering happens engine-side through predicates, which keeps the filter
// logic testable without a database. Timeouts and retries on the bulk read
// belong to the caller/driver, not to the engine.

type Repository interface {
	ListLegs(ctx context.Context, from, to time.Time) ([]cdr.CallLeg, error)

	// Gateways returns the distinct trunk identifiers observed in channel
	// names, for populating the gateway selector when none are configured.
	Gateways(ctx context.Context) ([]string, error)
}
