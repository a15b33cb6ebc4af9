package usecase

import (
	"context"
	"testing"
	"time"

	"resume-builder/internal/domain"
	"resume-builder/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResumeService() (*ResumeService, *memResumeRepo, *time.Time) {
	repo := newMemResumeRepo()
	svc := NewResumeService(repo)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	return svc, repo, &now
}

func TestResumeService_CreateAndGet(t *testing.T) {
	svc, _, _ := newTestResumeService()
	owner := uuid.New()

	created, err := svc.Create(context.Background(), owner, fullResume())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, owner, created.UserID)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	got, err := svc.Get(context.Background(), created.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, fullResume(), got.Data)
}

func TestResumeService_CreateRejectsInvalid(t *testing.T) {
	svc, repo, _ := newTestResumeService()
	doc := minimalResume()
	doc.Profile.FirstName = ""

	_, err := svc.Create(context.Background(), uuid.New(), doc)
	var ve *model.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Empty(t, repo.byID)
}

func TestResumeService_Update(t *testing.T) {
	svc, _, now := newTestResumeService()
	owner := uuid.New()
	created, err := svc.Create(context.Background(), owner, minimalResume())
	require.NoError(t, err)

	*now = now.Add(time.Hour)
	doc := minimalResume()
	doc.Profile.JobTitle = "Staff Engineer"
	updated, err := svc.Update(context.Background(), created.ID, owner, doc)
	require.NoError(t, err)
	assert.Equal(t, "Staff Engineer", updated.Data.Profile.JobTitle)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))

	_, err = svc.Update(context.Background(), created.ID, uuid.New(), doc)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResumeService_ListIsOwnerScoped(t *testing.T) {
	svc, _, now := newTestResumeService()
	alice, bob := uuid.New(), uuid.New()

	first, err := svc.Create(context.Background(), alice, minimalResume())
	require.NoError(t, err)
	*now = now.Add(time.Minute)
	second, err := svc.Create(context.Background(), alice, minimalResume())
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), bob, minimalResume())
	require.NoError(t, err)

	list, err := svc.List(context.Background(), alice)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "newest first")
	assert.Equal(t, first.ID, list[1].ID)

	*now = now.Add(time.Minute)
	_, err = svc.Update(context.Background(), first.ID, alice, minimalResume())
	require.NoError(t, err)
	list, err = svc.List(context.Background(), alice)
	require.NoError(t, err)
	assert.Equal(t, second.ID, list[0].ID, "editing does not reorder")
}

func TestResumeService_Delete(t *testing.T) {
	svc, _, _ := newTestResumeService()
	owner := uuid.New()
	created, err := svc.Create(context.Background(), owner, minimalResume())
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(context.Background(), created.ID, uuid.New()), domain.ErrNotFound)
	require.NoError(t, svc.Delete(context.Background(), created.ID, owner))

	_, err = svc.Get(context.Background(), created.ID, owner)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
