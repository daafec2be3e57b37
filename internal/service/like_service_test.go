package service

import (
	"context"
	"testing"

	"toolkit/internal/models"
	"toolkit/internal/observability"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// likeRepoStub is a stub for repository.LikeRepository.
type likeRepoStub struct {
	existsFn func(context.Context, uint, uint) (bool, error)
	createFn func(context.Context, uint, uint) (bool, error)
	deleteFn func(context.Context, uint, uint) (bool, error)
	countFn  func(context.Context, uint) (int64, error)
}

func (s *likeRepoStub) Exists(ctx context.Context, userID, resourceID uint) (bool, error) {
	return s.existsFn(ctx, userID, resourceID)
}
func (s *likeRepoStub) Create(ctx context.Context, userID, resourceID uint) (bool, error) {
	return s.createFn(ctx, userID, resourceID)
}
func (s *likeRepoStub) Delete(ctx context.Context, userID, resourceID uint) (bool, error) {
	return s.deleteFn(ctx, userID, resourceID)
}
func (s *likeRepoStub) Count(ctx context.Context, resourceID uint) (int64, error) {
	return s.countFn(ctx, resourceID)
}
func (s *likeRepoStub) CountByResources(context.Context, []uint) (map[uint]int64, error) {
	return map[uint]int64{}, nil
}

func TestLikeService_Toggle_Guards(t *testing.T) {
	t.Parallel()

	repo := &likeRepoStub{}
	t.Run("unauthenticated", func(t *testing.T) {
		t.Parallel()
		_, err := NewLikeService(repo, existingResources()).Toggle(context.Background(), 0, 1)
		assertUnauthorizedError(t, err)
	})
	t.Run("missing resource", func(t *testing.T) {
		t.Parallel()
		_, err := NewLikeService(repo, missingResources()).Toggle(context.Background(), 1, 1)
		assertNotFoundError(t, err)
	})
}

func TestLikeService_Toggle_InsertRaceIsAlreadyLiked(t *testing.T) {
	before := testutil.ToFloat64(observability.LikeInsertConflicts)

	repo := &likeRepoStub{
		existsFn: func(context.Context, uint, uint) (bool, error) { return false, nil },
		// Another request inserted between Exists and Create.
		createFn: func(context.Context, uint, uint) (bool, error) { return false, nil },
		countFn:  func(context.Context, uint) (int64, error) { return 1, nil },
	}

	state, err := NewLikeService(repo, existingResources()).Toggle(context.Background(), 7, 1)
	require.NoError(t, err)
	assert.True(t, state.Liked)
	assert.Equal(t, int64(1), state.Count)
	assert.Equal(t, before+1, testutil.ToFloat64(observability.LikeInsertConflicts))
}

func TestLikeService_Toggle_ConcurrentUnlikeStillUnliked(t *testing.T) {
	t.Parallel()

	repo := &likeRepoStub{
		existsFn: func(context.Context, uint, uint) (bool, error) { return true, nil },
		deleteFn: func(context.Context, uint, uint) (bool, error) { return false, nil },
		countFn:  func(context.Context, uint) (int64, error) { return 0, nil },
	}

	state, err := NewLikeService(repo, existingResources()).Toggle(context.Background(), 7, 1)
	require.NoError(t, err)
	assert.False(t, state.Liked)
	assert.Zero(t, state.Count)
}

func TestLikeService_EvenTogglesRestoreState(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	resource := seedPublished(t, s, "Foo", "Bar Baz")
	other := s.user(t, "other@example.com", models.RoleUser)
	me := s.user(t, "me@example.com", models.RoleUser)

	_, err := s.likes.Toggle(ctx, other.ID, resource.ID)
	require.NoError(t, err)

	initial, err := s.likes.Status(ctx, me.ID, resource.ID)
	require.NoError(t, err)
	assert.False(t, initial.Liked)
	assert.Equal(t, int64(1), initial.Count)

	for i := 0; i < 4; i++ {
		state, err := s.likes.Toggle(ctx, me.ID, resource.ID)
		require.NoError(t, err)
		assert.Equal(t, i%2 == 0, state.Liked)
	}

	final, err := s.likes.Status(ctx, me.ID, resource.ID)
	require.NoError(t, err)
	assert.Equal(t, initial, final)

	anon, err := s.likes.Status(ctx, 0, resource.ID)
	require.NoError(t, err)
	assert.False(t, anon.Liked)
}
