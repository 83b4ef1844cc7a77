package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/straye-as/chirps-api/internal/domain"
	"gorm.io/gorm"
)

// UserCount is a per-user aggregate row
type UserCount struct {
	UserID uuid.UUID
	Name   string
	Total  int64
}

// TimeRange bounds a query to [From, To). A nil bound is open.
type TimeRange struct {
	From *time.Time
	To   *time.Time
}

// DashboardRepository runs the engagement aggregates for a chirp author.
// Reactions and comments are counted only when made by someone other than the author.
type DashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

func applyRange(query *gorm.DB, column string, r TimeRange) *gorm.DB {
	if r.From != nil {
		query = query.Where(column+" >= ?", *r.From)
	}
	if r.To != nil {
		query = query.Where(column+" < ?", *r.To)
	}
	return query
}

// CountChirps counts chirps authored by the user
func (r *DashboardRepository) CountChirps(ctx context.Context, userID uuid.UUID, tr TimeRange) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&domain.Chirp{}).Where("user_id = ?", userID)
	err := applyRange(query, "created_at", tr).Count(&count).Error
	return count, err
}

// CountReactionsReceived counts reactions other users left on the user's chirps
func (r *DashboardRepository) CountReactionsReceived(ctx context.Context, userID uuid.UUID, tr TimeRange) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&domain.Reaction{}).
		Joins("JOIN chirps ON chirps.id = reactions.chirp_id").
		Where("chirps.user_id = ? AND reactions.user_id <> ?", userID, userID)
	err := applyRange(query, "reactions.created_at", tr).Count(&count).Error
	return count, err
}

// CountCommentsReceived counts comments other users left on the user's chirps
func (r *DashboardRepository) CountCommentsReceived(ctx context.Context, userID uuid.UUID, tr TimeRange) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&domain.Comment{}).
		Joins("JOIN chirps ON chirps.id = comments.chirp_id").
		Where("chirps.user_id = ? AND comments.user_id <> ?", userID, userID)
	err := applyRange(query, "comments.created_at", tr).Count(&count).Error
	return count, err
}

// LatestCommentsReceived returns the newest comments other users left on the user's chirps
func (r *DashboardRepository) LatestCommentsReceived(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Comment, error) {
	var comments []domain.Comment
	err := r.db.WithContext(ctx).
		Select("comments.*").
		Joins("JOIN chirps ON chirps.id = comments.chirp_id").
		Where("chirps.user_id = ? AND comments.user_id <> ?", userID, userID).
		Preload("User").
		Order("comments.created_at DESC").
		Limit(limit).
		Find(&comments).Error
	return comments, err
}

// TopReactors ranks other users by reactions on the user's chirps, count desc then name asc
func (r *DashboardRepository) TopReactors(ctx context.Context, userID uuid.UUID, limit int) ([]UserCount, error) {
	var rows []UserCount
	err := r.db.WithContext(ctx).
		Table("reactions").
		Select("reactions.user_id AS user_id, users.name AS name, COUNT(reactions.id) AS total").
		Joins("JOIN chirps ON chirps.id = reactions.chirp_id").
		Joins("JOIN users ON users.id = reactions.user_id").
		Where("chirps.user_id = ? AND reactions.user_id <> ?", userID, userID).
		Group("reactions.user_id, users.name").
		Order("total DESC, users.name ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// TopCommenters ranks other users by comments on the user's chirps, count desc then name asc
func (r *DashboardRepository) TopCommenters(ctx context.Context, userID uuid.UUID, limit int) ([]UserCount, error) {
	var rows []UserCount
	err := r.db.WithContext(ctx).
		Table("comments").
		Select("comments.user_id AS user_id, users.name AS name, COUNT(comments.id) AS total").
		Joins("JOIN chirps ON chirps.id = comments.chirp_id").
		Joins("JOIN users ON users.id = comments.user_id").
		Where("chirps.user_id = ? AND comments.user_id <> ?", userID, userID).
		Group("comments.user_id, users.name").
		Order("total DESC, users.name ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
