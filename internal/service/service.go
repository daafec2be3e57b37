// Package service holds the business rules of the toolkit. Handlers call services with
// explicit input structs carrying the acting user's id; services never read request state.
package service

import (
	"context"

	"toolkit/internal/models"
	"toolkit/internal/repository"
)

// IsAdminFunc reports whether userID currently holds the ADMIN role.
type IsAdminFunc func(ctx context.Context, userID uint) (bool, error)

// AdminChecker loads the user on every call so a revoked role takes effect immediately.
func AdminChecker(users repository.UserRepository) IsAdminFunc {
	return func(ctx context.Context, userID uint) (bool, error) {
		user, err := users.GetByID(ctx, userID)
		if err != nil {
			if models.HasCode(err, models.CodeNotFound) {
				return false, nil
			}
			return false, err
		}
		return user.IsAdmin(), nil
	}
}

func requireActor(userID uint) error {
	if userID == 0 {
		return models.NewUnauthorizedError("Authentication required")
	}
	return nil
}

func requireAdmin(ctx context.Context, isAdmin IsAdminFunc, userID uint) error {
	if err := requireActor(userID); err != nil {
		return err
	}
	if isAdmin == nil {
		return nil
	}
	ok, err := isAdmin(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return models.NewForbiddenError("Admin access required")
	}
	return nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
