package events

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bsobat/inventra/internal/common"
	"github.com/bsobat/inventra/internal/dbx"
	"github.com/bsobat/inventra/internal/models"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Add(ctx context.Context, e models.Event) error {
	query := `INSERT INTO events (event_id, title, description, start_date, end_date)
		VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		e.EventID, e.Title, dbx.Nullable(e.Description), e.StartDate, e.EndDate)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Update(ctx context.Context, e models.Event) error {
	query := `UPDATE events SET title = ?, description = ?, start_date = ?, end_date = ?
		WHERE event_id = ?`
	res, err := r.db.ExecContext(ctx, query,
		e.Title, dbx.Nullable(e.Description), e.StartDate, e.EndDate, e.EventID)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	return dbx.RequireRowAffected(res)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE event_id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return dbx.RequireRowAffected(res)
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Event, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT event_id, title, description, start_date, end_date FROM events WHERE event_id = ?`, id)
	e, err := scanEvent(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return e, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Event, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT event_id, title, description, start_date, end_date FROM events ORDER BY start_date`)
	if err != nil {
		return nil, fmt.Errorf("failed to select events: %w", err)
	}
	defer rows.Close()

	var result []models.Event
	for rows.Next() {
		e, err := scanEvent(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, *e)
	}
	return result, rows.Err()
}

func (r *SQLiteRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM events`); err != nil {
		return fmt.Errorf("failed to clear events: %w", err)
	}
	return nil
}

func scanEvent(scan func(dest ...any) error) (*models.Event, error) {
	var e models.Event
	var description sql.NullString
	if err := scan(&e.EventID, &e.Title, &description, &e.StartDate, &e.EndDate); err != nil {
		return nil, err
	}
	e.Description = description.String
	return &e, nil
}
