// Package events appends analytics and grade events to the event_log table.
// Publishing is best-effort; callers treat failures as non-fatal.
package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

type Event struct {
	Offset    int64
	SiteID    string
	Type      string
	Key       string
	DataJSON  string
	CreatedAt int64
}

type EventRepo struct {
	db     *sql.DB
	siteID string
}

func NewEventRepo(db *sql.DB, siteID string) *EventRepo {
	if siteID == "" {
		siteID = "local"
	}
	return &EventRepo{db: db, siteID: siteID}
}

func (r *EventRepo) Append(ctx context.Context, e Event) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO event_log (site_id, typ, key, data, created_at)
		 VALUES ($1,$2,$3,$4,$5)`,
		r.siteID, e.Type, e.Key, e.DataJSON, time.Now().Unix())
	return err
}

// Publish satisfies the mentoring.Publisher interface.
func (r *EventRepo) Publish(ctx context.Context, name string, payload map[string]interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	key, _ := payload["key"].(string)
	return r.Append(ctx, Event{Type: name, Key: key, DataJSON: string(data)})
}
