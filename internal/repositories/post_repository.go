package repositories

import (
	"time"

	"github.com/anonto42/microblog/internal/models"
	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(post *models.Post) error
	GetPostByID(id uint) (*models.Post, error)
	DeletePost(id uint) error
	FollowedPosts(userID uint, page, perPage int) ([]models.Post, int64, error)
	AllPosts(page, perPage int) ([]models.Post, int64, error)
	PostsByAuthor(userID uint, page, perPage int) ([]models.Post, int64, error)
	PostsByIDs(ids []uint) ([]models.Post, error)
	EachPost(batchSize int, fn func(posts []models.Post) error) error
	PostsForExport(userID uint) ([]models.Post, error)
}

// PostgresPostRepository implements PostRepository
type PostgresPostRepository struct {
	db *gorm.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

func (r *PostgresPostRepository) CreatePost(post *models.Post) error {
	if post.Timestamp.IsZero() {
		post.Timestamp = time.Now().UTC()
	}
	return r.db.Create(post).Error
}

func (r *PostgresPostRepository) GetPostByID(id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.Preload("Author").First(&post, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &post, nil
}

func (r *PostgresPostRepository) DeletePost(id uint) error {
	res := r.db.Delete(&models.Post{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// FollowedPosts is the timeline of userID: their own posts plus the posts of
// everyone they follow, newest first.
func (r *PostgresPostRepository) FollowedPosts(userID uint, page, perPage int) ([]models.Post, int64, error) {
	followed := r.db.Model(&models.Follow{}).Select("followed_id").Where("follower_id = ?", userID)
	query := r.db.Model(&models.Post{}).Where("posts.user_id = ? OR posts.user_id IN (?)", userID, followed)
	return r.page(query, page, perPage)
}

// AllPosts lists every post, newest first.
func (r *PostgresPostRepository) AllPosts(page, perPage int) ([]models.Post, int64, error) {
	return r.page(r.db.Model(&models.Post{}), page, perPage)
}

func (r *PostgresPostRepository) PostsByAuthor(userID uint, page, perPage int) ([]models.Post, int64, error) {
	return r.page(r.db.Model(&models.Post{}).Where("posts.user_id = ?", userID), page, perPage)
}

func (r *PostgresPostRepository) page(query *gorm.DB, page, perPage int) ([]models.Post, int64, error) {
	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	off, limit := offset(page, perPage)
	var posts []models.Post
	err := query.Session(&gorm.Session{}).
		Preload("Author").
		Order("posts.timestamp DESC").Order("posts.id DESC").
		Offset(off).Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// PostsByIDs loads posts and returns them in the order of ids; unknown ids are skipped.
func (r *PostgresPostRepository) PostsByIDs(ids []uint) ([]models.Post, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []models.Post
	if err := r.db.Preload("Author").Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Post, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	posts := make([]models.Post, 0, len(found))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			posts = append(posts, p)
		}
	}
	return posts, nil
}

// EachPost walks every post in id order, batchSize at a time.
func (r *PostgresPostRepository) EachPost(batchSize int, fn func(posts []models.Post) error) error {
	var batch []models.Post
	return r.db.Model(&models.Post{}).FindInBatches(&batch, batchSize, func(tx *gorm.DB, _ int) error {
		return fn(batch)
	}).Error
}

// PostsForExport returns all of a user's posts, oldest first.
func (r *PostgresPostRepository) PostsForExport(userID uint) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.Where("user_id = ?", userID).Order("timestamp").Order("id").Find(&posts).Error
	return posts, err
}
