package service

import (
	"context"

	"toolkit/internal/models"
	"toolkit/internal/repository"
)

// Stats are the admin dashboard counters.
type Stats struct {
	Resources          int64 `json:"resources"`
	Categories         int64 `json:"categories"`
	Tags               int64 `json:"tags"`
	PendingSubmissions int64 `json:"pendingSubmissions"`
	Comments           int64 `json:"comments"`
}

type StatsService struct {
	resources   repository.ResourceRepository
	categories  repository.CategoryRepository
	tags        repository.TagRepository
	submissions repository.SubmissionRepository
	comments    repository.CommentRepository
}

func NewStatsService(
	resources repository.ResourceRepository,
	categories repository.CategoryRepository,
	tags repository.TagRepository,
	submissions repository.SubmissionRepository,
	comments repository.CommentRepository,
) *StatsService {
	return &StatsService{
		resources:   resources,
		categories:  categories,
		tags:        tags,
		submissions: submissions,
		comments:    comments,
	}
}

func (s *StatsService) Stats(ctx context.Context) (*Stats, error) {
	var out Stats
	var err error
	if out.Resources, err = s.resources.Count(ctx); err != nil {
		return nil, err
	}
	if out.Categories, err = s.categories.Count(ctx); err != nil {
		return nil, err
	}
	if out.Tags, err = s.tags.Count(ctx); err != nil {
		return nil, err
	}
	if out.PendingSubmissions, err = s.submissions.CountByStatus(ctx, models.SubmissionStatusPending); err != nil {
		return nil, err
	}
	if out.Comments, err = s.comments.Count(ctx); err != nil {
		return nil, err
	}
	return &out, nil
}
