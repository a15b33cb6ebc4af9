package usecase

import (
	"context"
	"sort"
	"sync"

	"resume-builder/internal/domain"

	"github.com/google/uuid"
)

type memResumeRepo struct {
	mu   sync.Mutex
	byID map[uuid.UUID]domain.Resume
}

func newMemResumeRepo() *memResumeRepo {
	return &memResumeRepo{byID: map[uuid.UUID]domain.Resume{}}
}

func (m *memResumeRepo) ListByOwner(_ context.Context, owner uuid.UUID) ([]domain.Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Resume
	for _, r := range m.byID {
		if r.UserID == owner {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memResumeRepo) FindByID(_ context.Context, id, owner uuid.UUID) (*domain.Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.byID[id]
	if !ok || r.UserID != owner {
		return nil, domain.ErrNotFound
	}
	return &r, nil
}

func (m *memResumeRepo) Create(_ context.Context, r *domain.Resume) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[r.ID] = *r
	return nil
}

func (m *memResumeRepo) Update(_ context.Context, r *domain.Resume) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.byID[r.ID]
	if !ok || cur.UserID != r.UserID {
		return domain.ErrNotFound
	}
	m.byID[r.ID] = *r
	return nil
}

func (m *memResumeRepo) Delete(_ context.Context, id, owner uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.byID[id]
	if !ok || cur.UserID != owner {
		return domain.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

type memUserRepo struct {
	mu      sync.Mutex
	byEmail map[string]domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byEmail: map[string]domain.User{}}
}

func (m *memUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (m *memUserRepo) Create(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byEmail[u.Email]; ok {
		return domain.ErrAlreadyExists
	}
	m.byEmail[u.Email] = *u
	return nil
}

// fakePDF records the HTML it was asked to print.
type fakePDF struct {
	mu    sync.Mutex
	calls []string
	out   []byte
	err   error
}

func (f *fakePDF) RenderHTMLToPDF(_ context.Context, html string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, html)
	if f.err != nil {
		return nil, f.err
	}
	return f.out, nil
}
