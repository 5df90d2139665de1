package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	Store(ctx context.Context, entry Entry) error
	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]Entry, error)
}

type RepositoryImpl struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

type entryRow struct {
	ID         string `db:"id"`
	Actor      string `db:"actor"`
	Action     string `db:"action"`
	Subject    string `db:"subject"`
	Detail     string `db:"detail"`
	OccurredAt int64  `db:"occurred_at"`
}

func (r *RepositoryImpl) Store(ctx context.Context, entry Entry) error {
	query := r.db.Rebind(`INSERT INTO audit_log (id, actor, action, subject, detail, occurred_at)
		VALUES (?, ?, ?, ?, ?, ?)`)
	_, err := r.db.ExecContext(ctx, query,
		entry.ID.String(),
		entry.Actor,
		entry.Action,
		entry.Subject,
		entry.Detail,
		entry.OccurredAt.UnixMilli(),
	)
	if err != nil {
		err = fmt.Errorf("could not store audit entry: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepositoryImpl) Recent(ctx context.Context, limit int) ([]Entry, error) {
	var rows []entryRow
	query := r.db.Rebind(`SELECT id, actor, action, subject, detail, occurred_at
		FROM audit_log ORDER BY occurred_at DESC LIMIT ?`)
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, limit); err != nil {
		err = fmt.Errorf("could not load audit entries: %w", err)
		log.Error(err)
		return nil, err
	}

	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		id, err := uuid.Parse(row.ID)
		if err != nil {
			return nil, fmt.Errorf("could not parse audit entry id: %w", err)
		}
		entries = append(entries, Entry{
			ID:         id,
			Actor:      row.Actor,
			Action:     row.Action,
			Subject:    row.Subject,
			Detail:     row.Detail,
			OccurredAt: time.UnixMilli(row.OccurredAt),
		})
	}
	return entries, nil
}
