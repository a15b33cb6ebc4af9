package usecase

import (
	"context"
	"time"

	"resume-builder/internal/domain"
	"resume-builder/internal/model"

	"github.com/google/uuid"
)

type ResumeService struct {
	repo ResumeRepo
	now  func() time.Time
}

func NewResumeService(repo ResumeRepo) *ResumeService {
	return &ResumeService{repo: repo, now: time.Now}
}

func (s *ResumeService) List(ctx context.Context, owner uuid.UUID) ([]domain.Resume, error) {
	return s.repo.ListByOwner(ctx, owner)
}

func (s *ResumeService) Get(ctx context.Context, id, owner uuid.UUID) (*domain.Resume, error) {
	return s.repo.FindByID(ctx, id, owner)
}

// Create validates data and stores it under a new id.
func (s *ResumeService) Create(ctx context.Context, owner uuid.UUID, data model.Resume) (*domain.Resume, error) {
	if err := model.Validate(data); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	r := &domain.Resume{
		ID:        uuid.New(),
		UserID:    owner,
		Data:      data,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Update replaces the document of an existing resume.
func (s *ResumeService) Update(ctx context.Context, id, owner uuid.UUID, data model.Resume) (*domain.Resume, error) {
	if err := model.Validate(data); err != nil {
		return nil, err
	}
	r, err := s.repo.FindByID(ctx, id, owner)
	if err != nil {
		return nil, err
	}
	r.Data = data
	r.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *ResumeService) Delete(ctx context.Context, id, owner uuid.UUID) error {
	return s.repo.Delete(ctx, id, owner)
}
