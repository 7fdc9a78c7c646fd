package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/baechuer/alchies-rsvp/internal/domain"
)

// Repo keeps each event as one JSONB document. Date, archive flag and
// timestamps are mirrored into columns for ordering and filtering.
type Repo struct {
	db *sql.DB
}

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) List(ctx context.Context) ([]domain.Event, error) {
	rows, err := r.db.QueryContext(ctx, listEventsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Event{}
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		e, err := decode(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *Repo) Get(ctx context.Context, id string) (domain.Event, error) {
	var doc []byte
	err := r.db.QueryRowContext(ctx, getEventSQL, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Event{}, domain.ErrNotFound("Event not found")
	}
	if err != nil {
		return domain.Event{}, err
	}
	return decode(doc)
}

func (r *Repo) Insert(ctx context.Context, e domain.Event) error {
	doc, err := json.Marshal(e)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, insertEventSQL,
		e.ID, e.Date, e.IsArchived, doc, e.CreatedAt, e.UpdatedAt,
	)
	return err
}

// Update locks the row for the read-modify-write so concurrent updates to
// the same event serialize instead of overwriting each other's document.
func (r *Repo) Update(ctx context.Context, id string, mutate func(*domain.Event)) (domain.Event, error) {
	var out domain.Event
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		var doc []byte
		err := tx.QueryRowContext(ctx, lockEventSQL, id).Scan(&doc)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound("Event not found")
		}
		if err != nil {
			return err
		}

		e, err := decode(doc)
		if err != nil {
			return err
		}
		mutate(&e)
		e.ID = id

		next, err := json.Marshal(e)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, updateEventSQL, id, e.Date, e.IsArchived, next, e.UpdatedAt); err != nil {
			return err
		}
		out = e
		return nil
	})
	if err != nil {
		return domain.Event{}, err
	}
	return out, nil
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, deleteEventSQL, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound("Event not found")
	}
	return nil
}

func (r *Repo) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func decode(doc []byte) (domain.Event, error) {
	var e domain.Event
	if err := json.Unmarshal(doc, &e); err != nil {
		return domain.Event{}, fmt.Errorf("decode event document: %w", err)
	}
	if e.RSVPs == nil {
		e.RSVPs = []domain.RSVP{}
	}
	return e, nil
}
