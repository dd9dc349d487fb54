package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/anonto42/microblog/internal/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(user *models.User) error
	GetUserByID(id uint) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByFirebaseUID(firebaseUID string) (*models.User, error)
	UpdateUser(user *models.User) error
	DeleteUser(id uint) error
	SearchUsers(query string) ([]models.User, error)
	TouchLastSeen(id uint, at time.Time) error
}

// PostgresUserRepository implements UserRepository on any GORM dialect
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// CreateUser inserts user after checking that username and email are free.
func (r *PostgresUserRepository) CreateUser(user *models.User) error {
	if err := r.ensureUnique(user); err != nil {
		return err
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	if err := r.duplicate(user, r.db.Create(user).Error); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// duplicate turns a unique index violation into ErrUsernameTaken or ErrEmailTaken.
// The pre-insert check cannot see a row committed by a concurrent request.
func (r *PostgresUserRepository) duplicate(user *models.User, err error) error {
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}
	if uerr := r.ensureUnique(user); uerr != nil {
		return uerr
	}
	return ErrUsernameTaken
}

func (r *PostgresUserRepository) ensureUnique(user *models.User) error {
	var count int64
	if err := r.db.Model(&models.User{}).Where("username = ? AND id <> ?", user.Username, user.ID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrUsernameTaken
	}
	if err := r.db.Model(&models.User{}).Where("email = ? AND id <> ?", user.Email, user.ID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrEmailTaken
	}
	return nil
}

// GetUserByID retrieves a user by ID
func (r *PostgresUserRepository) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *PostgresUserRepository) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *PostgresUserRepository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// GetUserByFirebaseUID retrieves a user linked to a Firebase account
func (r *PostgresUserRepository) GetUserByFirebaseUID(firebaseUID string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("firebase_uid = ?", firebaseUID).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// UpdateUser saves user, rejecting a username or email that belongs to someone else.
func (r *PostgresUserRepository) UpdateUser(user *models.User) error {
	if err := r.ensureUnique(user); err != nil {
		return err
	}
	return r.duplicate(user, r.db.Save(user).Error)
}

// DeleteUser removes a user together with their posts and follow rows.
func (r *PostgresUserRepository) DeleteUser(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("follower_id = ? OR followed_id = ?", id, id).Delete(&models.Follow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Post{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// SearchUsers searches for users by username or email
func (r *PostgresUserRepository) SearchUsers(query string) ([]models.User, error) {
	var users []models.User
	like := "%" + query + "%"
	if err := r.db.Where("LOWER(username) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?)", like, like).
		Order("username").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *PostgresUserRepository) TouchLastSeen(id uint, at time.Time) error {
	res := r.db.Model(&models.User{}).Where("id = ?", id).Update("last_seen", at.UTC())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// IsNotFound reports whether err means the row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
