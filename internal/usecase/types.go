package usecase

import (
	"context"

	"resume-builder/internal/domain"

	"github.com/google/uuid"
)

type Renderer interface {
	RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error)
}

// ResumeRepo stores resumes. Lookups are scoped to the owner: a resume that
// belongs to someone else is reported as domain.ErrNotFound.
type ResumeRepo interface {
	ListByOwner(ctx context.Context, owner uuid.UUID) ([]domain.Resume, error)
	FindByID(ctx context.Context, id, owner uuid.UUID) (*domain.Resume, error)
	Create(ctx context.Context, r *domain.Resume) error
	Update(ctx context.Context, r *domain.Resume) error
	Delete(ctx context.Context, id, owner uuid.UUID) error
}

type UserRepo interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
}
