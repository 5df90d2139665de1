package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"
)

// Repository stores and retrieves events. Implementations never inspect
// field values on insert; validation happens before events reach storage.
type Repository interface {
	WithTransaction(ctx context.Context, fn func(repo Repository) error) error
	// StoreEvents persists the whole batch atomically. If any row fails,
	// none are kept.
	StoreEvents(ctx context.Context, events []Event) error
	// FindByOwner returns the owner's events ordered by start time.
	FindByOwner(ctx context.Context, owner string) ([]Event, error)
	// FindAll returns every stored event in no particular order.
	FindAll(ctx context.Context) ([]Event, error)
	// FindOnDay returns events starting within the calendar day of the
	// given instant, ordered by start time.
	FindOnDay(ctx context.Context, day time.Time) ([]Event, error)
	// Find returns events matching the filter, ordered by start time.
	Find(ctx context.Context, filter Filter) ([]Event, error)
	// Delete removes the event with the given id and reports whether a
	// row was actually removed.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	CountTotal(ctx context.Context) (int, error)
	CountActive(ctx context.Context) (int, error)
	CountSeries(ctx context.Context) (int, error)
	CountByPriority(ctx context.Context, priority Priority) (int, error)
}

type RepositoryImpl struct {
	db *sqlx.DB
	tx *sqlx.Tx
}

func NewRepository(db *sqlx.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) ext() sqlx.ExtContext {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func (r *RepositoryImpl) WithTransaction(ctx context.Context, fn func(repo Repository) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			log.Errorf("could not rollback transaction: %v", err)
		}
	}()

	txRepo := &RepositoryImpl{db: r.db, tx: tx}
	if err := fn(txRepo); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}
	return nil
}

type eventRow struct {
	ID         string `db:"id"`
	SeriesID   string `db:"series_id"`
	Title      string `db:"title"`
	Owner      string `db:"owner"`
	StartTime  int64  `db:"start_time"`
	EndTime    int64  `db:"end_time"`
	Priority   string `db:"priority"`
	Status     string `db:"status"`
	Recurrence string `db:"recurrence"`
	Notes      string `db:"notes"`
}

func (row eventRow) toEvent() (Event, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return Event{}, fmt.Errorf("could not parse event id: %w", err)
	}
	seriesID, err := uuid.Parse(row.SeriesID)
	if err != nil {
		return Event{}, fmt.Errorf("could not parse series id: %w", err)
	}
	return Event{
		ID:         id,
		SeriesID:   seriesID,
		Title:      row.Title,
		Owner:      row.Owner,
		StartTime:  time.UnixMilli(row.StartTime),
		EndTime:    time.UnixMilli(row.EndTime),
		Priority:   Priority(row.Priority),
		Status:     Status(row.Status),
		Recurrence: Recurrence(row.Recurrence),
		Notes:      row.Notes,
	}, nil
}

func rowsToEvents(rows []eventRow) ([]Event, error) {
	events := make([]Event, 0, len(rows))
	for _, row := range rows {
		event, err := row.toEvent()
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}

const selectEventColumns = "SELECT id, series_id, title, owner, start_time, end_time, priority, status, recurrence, notes FROM events"

func (r *RepositoryImpl) StoreEvents(ctx context.Context, events []Event) error {
	if len(events) == 0 {
		return nil
	}
	if r.tx != nil {
		return r.insertEvents(ctx, events)
	}
	return r.WithTransaction(ctx, func(repo Repository) error {
		return repo.StoreEvents(ctx, events)
	})
}

func (r *RepositoryImpl) insertEvents(ctx context.Context, events []Event) error {
	query := r.db.Rebind(`INSERT INTO events (id, series_id, title, owner, start_time, end_time, priority, status, recurrence, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	stmt, err := r.tx.PreparexContext(ctx, query)
	if err != nil {
		err = fmt.Errorf("could not prepare event insert: %w", err)
		log.Error(err)
		return err
	}
	defer func() {
		if err := stmt.Close(); err != nil {
			log.Errorf("could not close statement: %v", err)
		}
	}()

	for _, event := range events {
		_, err := stmt.ExecContext(ctx,
			event.ID.String(),
			event.SeriesID.String(),
			event.Title,
			event.Owner,
			event.StartTime.UnixMilli(),
			event.EndTime.UnixMilli(),
			string(event.Priority),
			string(event.Status),
			string(event.Recurrence),
			event.Notes,
		)
		if err != nil {
			err = fmt.Errorf("could not store event %s: %w", event.ID, err)
			log.Error(err)
			return err
		}
	}
	return nil
}

func (r *RepositoryImpl) FindByOwner(ctx context.Context, owner string) ([]Event, error) {
	var rows []eventRow
	query := r.db.Rebind(selectEventColumns + " WHERE owner = ? ORDER BY start_time")
	if err := sqlx.SelectContext(ctx, r.ext(), &rows, query, owner); err != nil {
		err = fmt.Errorf("could not find events by owner: %w", err)
		log.Error(err)
		return nil, err
	}
	return rowsToEvents(rows)
}

func (r *RepositoryImpl) FindAll(ctx context.Context) ([]Event, error) {
	var rows []eventRow
	if err := sqlx.SelectContext(ctx, r.ext(), &rows, selectEventColumns); err != nil {
		err = fmt.Errorf("could not find events: %w", err)
		log.Error(err)
		return nil, err
	}
	return rowsToEvents(rows)
}

func (r *RepositoryImpl) FindOnDay(ctx context.Context, day time.Time) ([]Event, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	var rows []eventRow
	query := r.db.Rebind(selectEventColumns + " WHERE start_time >= ? AND start_time < ? ORDER BY start_time")
	if err := sqlx.SelectContext(ctx, r.ext(), &rows, query, dayStart.UnixMilli(), dayEnd.UnixMilli()); err != nil {
		err = fmt.Errorf("could not find events on day: %w", err)
		log.Error(err)
		return nil, err
	}
	return rowsToEvents(rows)
}

func (r *RepositoryImpl) Find(ctx context.Context, filter Filter) ([]Event, error) {
	conditions := make([]string, 0, 4)
	args := make([]interface{}, 0, 4)
	if filter.Owner != "" {
		conditions = append(conditions, "owner = ?")
		args = append(args, filter.Owner)
	}
	if filter.Priority != "" {
		conditions = append(conditions, "priority = ?")
		args = append(args, string(filter.Priority))
	}
	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.Recurrence != "" {
		conditions = append(conditions, "recurrence = ?")
		args = append(args, string(filter.Recurrence))
	}

	query := selectEventColumns
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY start_time"

	var rows []eventRow
	if err := sqlx.SelectContext(ctx, r.ext(), &rows, r.db.Rebind(query), args...); err != nil {
		err = fmt.Errorf("could not find events by filter: %w", err)
		log.Error(err)
		return nil, err
	}
	return rowsToEvents(rows)
}

func (r *RepositoryImpl) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	query := r.db.Rebind("DELETE FROM events WHERE id = ?")
	result, err := r.ext().ExecContext(ctx, query, id.String())
	if err != nil {
		err = fmt.Errorf("could not delete event: %w", err)
		log.Error(err)
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		err = fmt.Errorf("could not read affected rows: %w", err)
		log.Error(err)
		return false, err
	}
	return affected > 0, nil
}

func (r *RepositoryImpl) CountTotal(ctx context.Context) (int, error) {
	var count int
	if err := sqlx.GetContext(ctx, r.ext(), &count, "SELECT COUNT(*) FROM events"); err != nil {
		err = fmt.Errorf("could not count events: %w", err)
		log.Error(err)
		return 0, err
	}
	return count, nil
}

func (r *RepositoryImpl) CountActive(ctx context.Context) (int, error) {
	var count int
	query := r.db.Rebind("SELECT COUNT(*) FROM events WHERE status != ?")
	if err := sqlx.GetContext(ctx, r.ext(), &count, query, string(StatusCompleted)); err != nil {
		err = fmt.Errorf("could not count active events: %w", err)
		log.Error(err)
		return 0, err
	}
	return count, nil
}

func (r *RepositoryImpl) CountSeries(ctx context.Context) (int, error) {
	var count int
	if err := sqlx.GetContext(ctx, r.ext(), &count, "SELECT COUNT(DISTINCT series_id) FROM events"); err != nil {
		err = fmt.Errorf("could not count series: %w", err)
		log.Error(err)
		return 0, err
	}
	return count, nil
}

func (r *RepositoryImpl) CountByPriority(ctx context.Context, priority Priority) (int, error) {
	var count int
	query := r.db.Rebind("SELECT COUNT(*) FROM events WHERE priority = ?")
	if err := sqlx.GetContext(ctx, r.ext(), &count, query, string(priority)); err != nil {
		err = fmt.Errorf("could not count events by priority: %w", err)
		log.Error(err)
		return 0, err
	}
	return count, nil
}
