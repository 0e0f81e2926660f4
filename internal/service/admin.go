package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/omega-events/omega-backend/internal/cache"
	"github.com/omega-events/omega-backend/internal/domain"
	"github.com/omega-events/omega-backend/internal/repository"
	apperrors "github.com/omega-events/omega-backend/pkg/errors"
)

// AdminService lists user profiles and updates roles. Callers are authorized
// in two tiers: a static email allow-list, or an admin role flag on the
// caller's stored profile.
type AdminService struct {
	profiles      repository.ProfileRepository
	roles         *cache.RoleCache
	allowedEmails map[string]struct{}
	logger        *slog.Logger
}

func NewAdminService(profiles repository.ProfileRepository, roles *cache.RoleCache, allowedEmails []string, l *slog.Logger) *AdminService {
	allowed := make(map[string]struct{}, len(allowedEmails))
	for _, e := range allowedEmails {
		allowed[strings.ToLower(strings.TrimSpace(e))] = struct{}{}
	}
	return &AdminService{
		profiles:      profiles,
		roles:         roles,
		allowedEmails: allowed,
		logger:        l,
	}
}

// Authorize checks the caller against the allow-list first, then the stored
// profile role. Returns Forbidden when neither tier grants access.
func (s *AdminService) Authorize(ctx context.Context, userID, email string) error {
	if _, ok := s.allowedEmails[strings.ToLower(email)]; ok {
		return nil
	}

	role, err := s.callerRole(ctx, userID)
	if err != nil {
		return err
	}
	if role != domain.RoleAdmin {
		return apperrors.Forbidden("admin access required")
	}
	return nil
}

func (s *AdminService) callerRole(ctx context.Context, userID string) (domain.Role, error) {
	if s.roles != nil {
		if role, err := s.roles.Get(ctx, userID); err == nil {
			return role, nil
		} else if !errors.Is(err, cache.ErrMiss) {
			s.logger.WarnContext(ctx, "role cache unavailable", slog.String("error", err.Error()))
		}
	}

	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", apperrors.Forbidden("admin access required")
		}
		return "", apperrors.Upstream("record store", err)
	}

	if s.roles != nil {
		if err := s.roles.Set(ctx, userID, profile.Role); err != nil {
			s.logger.WarnContext(ctx, "failed to cache role", slog.String("error", err.Error()))
		}
	}

	return profile.Role, nil
}

// ListUsers returns a page of user profiles.
func (s *AdminService) ListUsers(ctx context.Context, page, perPage int) ([]domain.Profile, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	profiles, total, err := s.profiles.List(ctx, page, perPage)
	if err != nil {
		return nil, 0, apperrors.Upstream("record store", err)
	}
	return profiles, total, nil
}

// SetUserRole upserts the role on a user's profile and invalidates the
// cached role.
func (s *AdminService) SetUserRole(ctx context.Context, userID string, role domain.Role) (*domain.Profile, error) {
	if !domain.IsValidRole(role) {
		return nil, apperrors.InvalidInput("invalid role: " + string(role))
	}

	profile, err := s.profiles.UpsertRole(ctx, userID, role)
	if err != nil {
		return nil, apperrors.Upstream("record store", err)
	}

	if s.roles != nil {
		if err := s.roles.Invalidate(ctx, userID); err != nil {
			s.logger.WarnContext(ctx, "failed to invalidate cached role",
				slog.String("user_id", userID),
				slog.String("error", err.Error()),
			)
		}
	}

	return profile, nil
}
