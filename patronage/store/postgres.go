package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/commonshare/lib-patronage/patronage"
	"github.com/commonshare/lib-patronage/patronage/event"
	libLog "github.com/commonshare/lib-patronage/patronage/log"
)

const uniqueViolationCode = "23505"

const selectEvents = `SELECT event_id, event_type, ts, member_id, amount, metadata FROM patronage_events`

// Postgres is a pgx-backed event log. The table is append-only; the unique
// primary key on event_id turns duplicate deliveries into explicit errors
// instead of silent double-application.
//
// Expected schema:
//
//	CREATE TABLE patronage_events (
//	    event_id   UUID PRIMARY KEY,
//	    event_type TEXT NOT NULL,
//	    ts         TIMESTAMPTZ NOT NULL,
//	    member_id  TEXT NOT NULL,
//	    amount     NUMERIC NOT NULL,
//	    metadata   JSONB
//	);
type Postgres struct {
	pool   *pgxpool.Pool
	logger libLog.Logger
}

// NewPostgres connects a pooled pgx client and verifies connectivity.
func NewPostgres(ctx context.Context, connString string, logger libLog.Logger) (*Postgres, error) {
	if logger == nil {
		logger = libLog.NewNop()
	}

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	logger.Log(ctx, libLog.LevelInfo, "connected to postgres event log")

	return &Postgres{pool: pool, logger: logger}, nil
}

// Close releases the connection pool.
func (p *Postgres) Close() {
	p.pool.Close()
}

// Append inserts new events inside one transaction.
func (p *Postgres) Append(ctx context.Context, events ...event.Envelope) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin append transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, e := range events {
		if e.EventID == uuid.Nil {
			return patronage.NewDomainError(patronage.ErrorInvalidInput, "eventId", "event id is required")
		}

		_, err := tx.Exec(ctx,
			`INSERT INTO patronage_events (event_id, event_type, ts, member_id, amount, metadata)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			e.EventID, string(e.Type), e.Timestamp, e.MemberID, e.Amount.String(), e.Metadata)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
				return patronage.NewDomainError(patronage.ErrorDataCorruption, "eventId",
					"event "+e.EventID.String()+" was already appended; upstream deduplication is broken")
			}

			return fmt.Errorf("insert event %s: %w", e.EventID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit append transaction: %w", err)
	}

	return nil
}

// AllEvents returns every stored event in replay order.
func (p *Postgres) AllEvents(ctx context.Context) ([]event.Envelope, error) {
	return p.query(ctx, selectEvents+` ORDER BY ts, event_id`)
}

// EventsByMember returns a member's events in replay order.
func (p *Postgres) EventsByMember(ctx context.Context, memberID string) ([]event.Envelope, error) {
	return p.query(ctx, selectEvents+` WHERE member_id = $1 ORDER BY ts, event_id`, memberID)
}

// EventsInRange returns events with from ≤ timestamp ≤ to in replay order.
func (p *Postgres) EventsInRange(ctx context.Context, from, to time.Time) ([]event.Envelope, error) {
	return p.query(ctx, selectEvents+` WHERE ts >= $1 AND ts <= $2 ORDER BY ts, event_id`, from, to)
}

func (p *Postgres) query(ctx context.Context, sql string, args ...any) ([]event.Envelope, error) {
	rows, err := p.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []event.Envelope

	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}

		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	return events, nil
}

func scanEvent(row pgx.Row) (event.Envelope, error) {
	var (
		e         event.Envelope
		eventType string
		amount    string
	)

	if err := row.Scan(&e.EventID, &eventType, &e.Timestamp, &e.MemberID, &amount, &e.Metadata); err != nil {
		return event.Envelope{}, fmt.Errorf("scan event row: %w", err)
	}

	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return event.Envelope{}, patronage.NewDomainError(patronage.ErrorDataCorruption, "amount",
			fmt.Sprintf("stored amount is not a decimal: %q", amount))
	}

	e.Type = event.Type(eventType)
	e.Amount = parsed

	return e, nil
}
