package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"resume-builder/internal/domain"

	"github.com/google/uuid"
)

type ResumesRepo struct {
	pool PgxPoolIface
}

func NewResumesRepo(pool PgxPoolIface) *ResumesRepo {
	return &ResumesRepo{pool: pool}
}

const resumeColumns = `id, user_id, data, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanResume(row rowScanner) (*domain.Resume, error) {
	var (
		r    domain.Resume
		data []byte
	)
	if err := row.Scan(&r.ID, &r.UserID, &data, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &r.Data); err != nil {
		return nil, fmt.Errorf("decode resume %s: %w", r.ID, err)
	}
	return &r, nil
}

func (r *ResumesRepo) ListByOwner(ctx context.Context, owner uuid.UUID) ([]domain.Resume, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+resumeColumns+` FROM resumes WHERE user_id = $1 ORDER BY created_at DESC`, owner)
	if err != nil {
		return nil, fmt.Errorf("pool.Query: %w", err)
	}
	defer rows.Close()

	out := []domain.Resume{}
	for rows.Next() {
		res, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	return out, rows.Err()
}

// FindByID returns domain.ErrNotFound when id does not exist or belongs to
// another user.
func (r *ResumesRepo) FindByID(ctx context.Context, id, owner uuid.UUID) (*domain.Resume, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+resumeColumns+` FROM resumes WHERE id = $1 AND user_id = $2`, id, owner)
	res, err := scanResume(row)
	if err != nil {
		return nil, notFoundIfNoRows(err)
	}
	return res, nil
}

func (r *ResumesRepo) Create(ctx context.Context, res *domain.Resume) error {
	data, err := json.Marshal(res.Data)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `INSERT INTO resumes (id, user_id, data, created_at, updated_at) VALUES ($1,$2,$3,$4,$5)`,
		res.ID, res.UserID, data, res.CreatedAt, res.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("pool.Exec: %w", err)
	}
	return nil
}

func (r *ResumesRepo) Update(ctx context.Context, res *domain.Resume) error {
	data, err := json.Marshal(res.Data)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx, `UPDATE resumes SET data = $3, updated_at = $4 WHERE id = $1 AND user_id = $2`,
		res.ID, res.UserID, data, res.UpdatedAt)
	if err != nil {
		return fmt.Errorf("pool.Exec: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ResumesRepo) Delete(ctx context.Context, id, owner uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM resumes WHERE id = $1 AND user_id = $2`, id, owner)
	if err != nil {
		return fmt.Errorf("pool.Exec: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
