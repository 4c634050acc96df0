package eventlog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mind-engage/quizsystem/internal/db"
)

const (
	TypeResultRecorded    = "ResultRecorded"
	TypeInstructorDeleted = "InstructorDeleted"
)

// Known reports whether typ is an event type this package writes.
func Known(typ string) bool {
	switch typ {
	case TypeResultRecorded, TypeInstructorDeleted:
		return true
	}
	return false
}

type Event struct {
	Seq       int64           `json:"seq"`
	Type      string          `json:"type"`
	Key       string          `json:"key"`
	Data      json.RawMessage `json:"data"`
	CreatedAt int64           `json:"created_at"`
}

// Append writes an event through q, so callers pass their *sql.Tx to make the
// event part of the mutation it describes.
func Append(ctx context.Context, q db.Querier, typ, key string, data any) error {
	buf, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("eventlog: marshal %s: %w", typ, err)
	}
	_, err = q.ExecContext(ctx,
		`INSERT INTO event_log (typ, key, data, created_at) VALUES ($1,$2,$3,$4)`,
		typ, key, string(buf), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("eventlog: append %s: %w", typ, err)
	}
	return nil
}

// List returns events of one type in append order.
func List(ctx context.Context, q db.Querier, typ string) ([]Event, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT seq, typ, key, data, created_at FROM event_log WHERE typ=$1 ORDER BY seq`, typ)
	if err != nil {
		return nil, fmt.Errorf("eventlog: list %s: %w", typ, err)
	}
	defer rows.Close()

	out := []Event{}
	for rows.Next() {
		var e Event
		var data string
		if err := rows.Scan(&e.Seq, &e.Type, &e.Key, &data, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("eventlog: scan: %w", err)
		}
		e.Data = json.RawMessage(data)
		out = append(out, e)
	}
	return out, rows.Err()
}
