package service

import (
	"context"

	"toolkit/internal/models"
	"toolkit/internal/observability"
	"toolkit/internal/repository"
)

type LikeService struct {
	likes     repository.LikeRepository
	resources repository.ResourceRepository
}

func NewLikeService(likes repository.LikeRepository, resources repository.ResourceRepository) *LikeService {
	return &LikeService{likes: likes, resources: resources}
}

func (s *LikeService) requireResource(ctx context.Context, resourceID uint) error {
	exists, err := s.resources.Exists(ctx, resourceID)
	if err != nil {
		return err
	}
	if !exists {
		return models.NewNotFoundError("Resource")
	}
	return nil
}

// Toggle flips the caller's like on a resource. The returned count always comes from a
// fresh COUNT after the mutation. An insert absorbed by the unique index means another
// request already liked it, which is the same outcome.
func (s *LikeService) Toggle(ctx context.Context, userID, resourceID uint) (_ *models.LikeState, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "LikeService", "Toggle")
	defer func() { observability.EndSpan(span, err) }()

	if err := requireActor(userID); err != nil {
		return nil, err
	}
	if err := s.requireResource(ctx, resourceID); err != nil {
		return nil, err
	}

	existing, err := s.likes.Exists(ctx, userID, resourceID)
	if err != nil {
		return nil, err
	}

	liked := !existing
	if existing {
		// Zero rows means a concurrent unlike won; the state is unliked either way.
		if _, err := s.likes.Delete(ctx, userID, resourceID); err != nil {
			return nil, err
		}
	} else {
		inserted, err := s.likes.Create(ctx, userID, resourceID)
		if err != nil {
			return nil, err
		}
		if !inserted {
			observability.LikeInsertConflicts.Inc()
		}
	}

	count, err := s.likes.Count(ctx, resourceID)
	if err != nil {
		return nil, err
	}

	outcome := "unliked"
	if liked {
		outcome = "liked"
	}
	observability.LikeToggles.WithLabelValues(outcome).Inc()
	return &models.LikeState{Liked: liked, Count: count}, nil
}

// Status reports the viewer's like state without changing it. A zero userID yields liked=false.
func (s *LikeService) Status(ctx context.Context, userID, resourceID uint) (*models.LikeState, error) {
	if err := s.requireResource(ctx, resourceID); err != nil {
		return nil, err
	}
	count, err := s.likes.Count(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	state := &models.LikeState{Count: count}
	if userID != 0 {
		if state.Liked, err = s.likes.Exists(ctx, userID, resourceID); err != nil {
			return nil, err
		}
	}
	return state, nil
}
