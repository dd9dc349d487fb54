package repositories

import (
	"errors"
	"time"

	"github.com/anonto42/microblog/internal/models"
	"gorm.io/gorm"
)

// FollowRepository defines the interface for follow data operations
type FollowRepository interface {
	Follow(followerID, followedID uint) error
	Unfollow(followerID, followedID uint) error
	IsFollowing(followerID, followedID uint) (bool, error)
	GetFollowers(userID uint) ([]models.User, error)
	GetFollowed(userID uint) ([]models.User, error)
	GetFollowersCount(userID uint) (int64, error)
	GetFollowedCount(userID uint) (int64, error)
}

// PostgresFollowRepository implements FollowRepository over the followers table
type PostgresFollowRepository struct {
	db *gorm.DB
}

// NewPostgresFollowRepository creates a new PostgresFollowRepository
func NewPostgresFollowRepository(db *gorm.DB) *PostgresFollowRepository {
	return &PostgresFollowRepository{db: db}
}

func (r *PostgresFollowRepository) Follow(followerID, followedID uint) error {
	if followerID == followedID {
		return ErrSelfFollow
	}
	following, err := r.IsFollowing(followerID, followedID)
	if err != nil {
		return err
	}
	if following {
		return ErrAlreadyFollowing
	}
	return r.insert(&models.Follow{
		FollowerID: followerID,
		FollowedID: followedID,
		CreatedAt:  time.Now().UTC(),
	})
}

// insert maps a primary key clash from a concurrent follow onto ErrAlreadyFollowing.
func (r *PostgresFollowRepository) insert(f *models.Follow) error {
	err := r.db.Create(f).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrAlreadyFollowing
	}
	return err
}

func (r *PostgresFollowRepository) Unfollow(followerID, followedID uint) error {
	res := r.db.Where("follower_id = ? AND followed_id = ?", followerID, followedID).Delete(&models.Follow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFollowing
	}
	return nil
}

func (r *PostgresFollowRepository) IsFollowing(followerID, followedID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Follow{}).Where("follower_id = ? AND followed_id = ?", followerID, followedID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetFollowers returns the users following userID.
func (r *PostgresFollowRepository) GetFollowers(userID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.Where("id IN (?)",
		r.db.Model(&models.Follow{}).Select("follower_id").Where("followed_id = ?", userID),
	).Order("username").Find(&users).Error
	return users, err
}

// GetFollowed returns the users userID follows.
func (r *PostgresFollowRepository) GetFollowed(userID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.Where("id IN (?)",
		r.db.Model(&models.Follow{}).Select("followed_id").Where("follower_id = ?", userID),
	).Order("username").Find(&users).Error
	return users, err
}

func (r *PostgresFollowRepository) GetFollowersCount(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).Where("followed_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *PostgresFollowRepository) GetFollowedCount(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&count).Error
	return count, err
}
