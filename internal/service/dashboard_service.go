package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/straye-as/chirps-api/internal/cache"
	"github.com/straye-as/chirps-api/internal/domain"
	"github.com/straye-as/chirps-api/internal/mapper"
	"github.com/straye-as/chirps-api/internal/metrics"
	"github.com/straye-as/chirps-api/internal/repository"
	"go.uber.org/zap"
)

const (
	latestCommentsLimit = 5
	topUsersLimit       = 3
	dailyStatsDays      = 7
)

// DashboardInvalidator drops cached dashboard stats for the given users
type DashboardInvalidator interface {
	Invalidate(ctx context.Context, userIDs ...uuid.UUID)
}

// DashboardService aggregates engagement statistics for the current user
type DashboardService struct {
	repo   *repository.DashboardRepository
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// NewDashboardService creates a new DashboardService. A nil cache disables caching.
func NewDashboardService(repo *repository.DashboardRepository, c cache.Cache, ttl time.Duration, logger *zap.Logger) *DashboardService {
	if c == nil {
		c = cache.NoopCache{}
	}
	return &DashboardService{
		repo:   repo,
		cache:  c,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock replaces the time source used for the daily series
func (s *DashboardService) WithClock(now func() time.Time) *DashboardService {
	s.now = now
	return s
}

func dashboardCacheKey(userID uuid.UUID) string {
	return "dashboard:stats:" + userID.String()
}

// GetStats returns the dashboard for the current user, served from cache when fresh
func (s *DashboardService) GetStats(ctx context.Context) (*domain.DashboardStats, error) {
	userCtx, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	key := dashboardCacheKey(userCtx.UserID)

	var cached domain.DashboardStats
	found, err := s.cache.Get(ctx, key, &cached)
	switch {
	case err != nil:
		metrics.RecordCacheLookup("error")
		s.logger.Warn("dashboard cache read failed", zap.String("userID", userCtx.UserID.String()), zap.Error(err))
	case found:
		metrics.RecordCacheLookup("hit")
		return &cached, nil
	default:
		metrics.RecordCacheLookup("miss")
	}

	stats, err := s.compute(ctx, userCtx.UserID)
	if err != nil {
		return nil, err
	}

	if s.ttl > 0 {
		if err := s.cache.Set(ctx, key, stats, s.ttl); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.String("userID", userCtx.UserID.String()), zap.Error(err))
		}
	}

	return stats, nil
}

// Invalidate drops cached stats; failures are logged only
func (s *DashboardService) Invalidate(ctx context.Context, userIDs ...uuid.UUID) {
	if len(userIDs) == 0 {
		return
	}
	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = dashboardCacheKey(id)
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
	}
}

func (s *DashboardService) compute(ctx context.Context, userID uuid.UUID) (*domain.DashboardStats, error) {
	all := repository.TimeRange{}
	stats := &domain.DashboardStats{}

	var err error
	if stats.NumberOfPosts, err = s.repo.CountChirps(ctx, userID, all); err != nil {
		return nil, fmt.Errorf("failed to count chirps: %w", err)
	}
	if stats.ReactionsReceived, err = s.repo.CountReactionsReceived(ctx, userID, all); err != nil {
		return nil, fmt.Errorf("failed to count reactions: %w", err)
	}
	if stats.CommentsReceived, err = s.repo.CountCommentsReceived(ctx, userID, all); err != nil {
		return nil, fmt.Errorf("failed to count comments: %w", err)
	}

	comments, err := s.repo.LatestCommentsReceived(ctx, userID, latestCommentsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load latest comments: %w", err)
	}
	stats.LatestComments = make([]domain.LatestCommentDTO, len(comments))
	for i, c := range comments {
		name := mapper.UnknownUserName
		if c.User != nil {
			name = c.User.Name
		}
		stats.LatestComments[i] = domain.LatestCommentDTO{
			User:      name,
			Content:   c.Content,
			CreatedAt: mapper.FormatTime(c.CreatedAt),
		}
	}

	reactors, err := s.repo.TopReactors(ctx, userID, topUsersLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to rank reactors: %w", err)
	}
	stats.TopReactors = make([]domain.TopReactorDTO, len(reactors))
	for i, r := range reactors {
		stats.TopReactors[i] = domain.TopReactorDTO{Name: r.Name, ReactionsCount: r.Total}
	}

	commenters, err := s.repo.TopCommenters(ctx, userID, topUsersLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to rank commenters: %w", err)
	}
	stats.TopCommenters = make([]domain.TopCommenterDTO, len(commenters))
	for i, c := range commenters {
		stats.TopCommenters[i] = domain.TopCommenterDTO{Name: c.Name, CommentsCount: c.Total}
	}

	if stats.DailyStats, err = s.daily(ctx, userID); err != nil {
		return nil, err
	}

	return stats, nil
}

// daily builds the last seven UTC calendar days, oldest first, today included
func (s *DashboardService) daily(ctx context.Context, userID uuid.UUID) (domain.DailyStatsDTO, error) {
	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	out := domain.DailyStatsDTO{
		Dates:     make([]string, dailyStatsDays),
		Posts:     make([]int64, dailyStatsDays),
		Reactions: make([]int64, dailyStatsDays),
		Comments:  make([]int64, dailyStatsDays),
	}

	for i := 0; i < dailyStatsDays; i++ {
		start := today.AddDate(0, 0, i-(dailyStatsDays-1))
		end := start.AddDate(0, 0, 1)
		day := repository.TimeRange{From: &start, To: &end}

		out.Dates[i] = start.Format("2006-01-02")

		var err error
		if out.Posts[i], err = s.repo.CountChirps(ctx, userID, day); err != nil {
			return out, fmt.Errorf("failed to count daily chirps: %w", err)
		}
		if out.Reactions[i], err = s.repo.CountReactionsReceived(ctx, userID, day); err != nil {
			return out, fmt.Errorf("failed to count daily reactions: %w", err)
		}
		if out.Comments[i], err = s.repo.CountCommentsReceived(ctx, userID, day); err != nil {
			return out, fmt.Errorf("failed to count daily comments: %w", err)
		}
	}

	return out, nil
}
