package repositories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/anonto42/microblog/internal/migrations"
	"github.com/anonto42/microblog/internal/models"
	"github.com/anonto42/microblog/pkg/config"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := config.InitDB("sqlite://")
	require.NoError(t, err)
	t.Cleanup(db.CloseDB)
	require.NoError(t, migrations.Upgrade(db.Gorm, ""))
	return db.Gorm
}

func createUsers(t *testing.T, repo UserRepository, names ...string) []*models.User {
	t.Helper()
	users := make([]*models.User, len(names))
	for i, name := range names {
		u := &models.User{Username: name, Email: name + "@whatever.com"}
		require.NoError(t, repo.CreateUser(u))
		users[i] = u
	}
	return users
}

func createPost(t *testing.T, repo PostRepository, author *models.User, body string, ts time.Time) *models.Post {
	t.Helper()
	p := &models.Post{Body: body, UserID: author.ID, Timestamp: ts}
	require.NoError(t, repo.CreatePost(p))
	return p
}

func postIDs(posts []models.Post) []uint {
	ids := make([]uint, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	return ids
}
