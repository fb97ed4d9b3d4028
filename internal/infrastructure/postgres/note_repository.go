package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/andromeda-crm/internal/domain"
	"github.com/jhoicas/andromeda-crm/internal/domain/entity"
	"github.com/jhoicas/andromeda-crm/internal/domain/repository"
)

var _ repository.NoteRepository = (*NoteRepo)(nil)

const noteSelect = `
	SELECT n.id, n.note_title, n.note_content, n.customer_id, COALESCE(c.customer_name, ''),
	       n.created_at, n.updated_at
	FROM notes n
	LEFT JOIN customers c ON c.id = n.customer_id`

// NoteRepo implementación de NoteRepository.
type NoteRepo struct {
	q Querier
}

func NewNoteRepository(q Querier) *NoteRepo {
	return &NoteRepo{q: q}
}

func scanNote(row pgx.Row) (*entity.Note, error) {
	var n entity.Note
	if err := row.Scan(&n.ID, &n.Title, &n.Content, &n.CustomerID, &n.CustomerName,
		&n.CreatedAt, &n.UpdatedAt); err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *NoteRepo) Create(ctx context.Context, note *entity.Note) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO notes (id, note_title, note_content, customer_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		note.ID, note.Title, note.Content, note.CustomerID, note.CreatedAt, note.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert note: %w", err)
	}
	return nil
}

func (r *NoteRepo) GetByID(ctx context.Context, id string) (*entity.Note, error) {
	n, err := scanNote(r.q.QueryRow(ctx, noteSelect+` WHERE n.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get note: %w", err)
	}
	return n, nil
}

func (r *NoteRepo) List(ctx context.Context, limit, offset int) ([]*entity.Note, error) {
	limit, offset = clampPage(limit, offset)
	return r.query(ctx, noteSelect+` ORDER BY n.created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
}

func (r *NoteRepo) ListByCustomer(ctx context.Context, customerID string) ([]*entity.Note, error) {
	return r.query(ctx, noteSelect+` WHERE n.customer_id = $1 ORDER BY n.created_at DESC`, customerID)
}

func (r *NoteRepo) query(ctx context.Context, sql string, args ...any) ([]*entity.Note, error) {
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Note, 0)
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		list = append(list, n)
	}
	return list, rows.Err()
}

func (r *NoteRepo) Update(ctx context.Context, note *entity.Note) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE notes SET note_title = $2, note_content = $3, customer_id = $4, updated_at = $5
		WHERE id = $1`,
		note.ID, note.Title, note.Content, note.CustomerID, note.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *NoteRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
