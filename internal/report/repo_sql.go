package report

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/asm2me/Asterisk-Reporting/internal/cdr"
)

// SQLRepository reads the cdr table over database/sql. It supports the two
// backends Asterisk writes CDRs to in the field: MySQL/MariaDB (the FreePBX
// asteriskcdrdb default) and Postgres via cdr_pgsql.
type SQLRepository struct {
	db     *sql.DB
	table  string
	driver string // "mysql" or "pgx"
}

func NewSQLRepository(db *sql.DB, table, driver string) *SQLRepository {
	if table == "" {
		table = "cdr"
	}
	return &SQLRepository{db: db, table: table, driver: driver}
}

const legColumns = "calldate, clid, src, dst, channel, dstchannel, dcontext, disposition, duration, billsec, uniqueid, linkedid, recordingfile"

func (r *SQLRepository) ListLegs(ctx context.Context, from, to time.Time) ([]cdr.CallLeg, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE calldate >= %s AND calldate <= %s ORDER BY calldate, uniqueid",
		legColumns, r.table, r.placeholder(1), r.placeholder(2),
	)

	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("report: cdr query failed: %w", err)
	}
	defer rows.Close()

	var out []cdr.CallLeg
	for rows.Next() {
		var (
			l         cdr.CallLeg
			linkedid  sql.NullString
			recording sql.NullString
		)
		err := rows.Scan(
			&l.CallDate, &l.CallerID, &l.Source, &l.Destination,
			&l.Channel, &l.DstChannel, &l.Context, &l.Disposition,
			&l.DurationSeconds, &l.BilledSeconds, &l.UniqueID,
			&linkedid, &recording,
		)
		if err != nil {
			return nil, fmt.Errorf("report: cdr scan failed: %w", err)
		}
		l.LinkedID = linkedid.String
		l.RecordingFile = recording.String
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("report: cdr read failed: %w", err)
	}
	return out, nil
}

// Gateways mines distinct channel identifiers from both channel columns.
// The identifier split happens engine-side so the query stays portable
// across both supported drivers.
func (r *SQLRepository) Gateways(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT DISTINCT channel FROM %[1]s
		WHERE channel LIKE 'SIP/%%' OR channel LIKE 'PJSIP/%%' OR channel LIKE 'DAHDI/%%' OR channel LIKE 'IAX2/%%'
		UNION
		SELECT DISTINCT dstchannel FROM %[1]s
		WHERE dstchannel LIKE 'SIP/%%' OR dstchannel LIKE 'PJSIP/%%' OR dstchannel LIKE 'DAHDI/%%' OR dstchannel LIKE 'IAX2/%%'`,
		r.table,
	)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("report: gateway discovery failed: %w", err)
	}
	defer rows.Close()

	seen := make(map[string]struct{})
	var out []string
	for rows.Next() {
		var channel string
		if err := rows.Scan(&channel); err != nil {
			return nil, fmt.Errorf("report: gateway scan failed: %w", err)
		}
		id, ok := cdr.GatewayIdentifierFromChannel(channel)
		if !ok {
			continue
		}
		// Extension channels are digits; trunks are what is left.
		if _, isExt := cdr.ExtensionFromChannel(channel); isExt {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
		if len(out) >= 100 {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("report: gateway read failed: %w", err)
	}
	return out, nil
}

func (r *SQLRepository) placeholder(n int) string {
	if r.driver == "pgx" {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}
