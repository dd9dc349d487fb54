// Package migrations holds the versioned, reversible schema history.
//
// Every step declares its own copy of the tables it touches so later model
// changes never rewrite history.
package migrations

import (
	"errors"
	"time"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

const historyTable = "migrations"

func options() *gormigrate.Options {
	opts := *gormigrate.DefaultOptions
	opts.TableName = historyTable
	return &opts
}

func steps() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		{
			ID: "0001_users_posts",
			Migrate: func(tx *gorm.DB) error {
				type user struct {
					ID           uint    `gorm:"primaryKey"`
					Username     string  `gorm:"size:64;uniqueIndex"`
					Email        string  `gorm:"size:120;uniqueIndex"`
					PasswordHash string  `gorm:"size:128"`
					FirebaseUID  *string `gorm:"size:128;uniqueIndex"`
					CreatedAt    time.Time
				}
				type post struct {
					ID        uint      `gorm:"primaryKey"`
					Body      string    `gorm:"size:140"`
					Timestamp time.Time `gorm:"index"`
					UserID    uint      `gorm:"index"`
				}
				return tx.Migrator().CreateTable(&user{}, &post{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("posts", "users")
			},
		},
		{
			ID: "0002_followers",
			Migrate: func(tx *gorm.DB) error {
				type follower struct {
					FollowerID uint `gorm:"primaryKey;autoIncrement:false"`
					FollowedID uint `gorm:"primaryKey;autoIncrement:false;index"`
					CreatedAt  time.Time
				}
				return tx.Migrator().CreateTable(&follower{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("followers")
			},
		},
		{
			ID: "0003_user_about_me_last_seen",
			Migrate: func(tx *gorm.DB) error {
				type user struct {
					AboutMe  *string `gorm:"size:140"`
					LastSeen *time.Time
				}
				m := tx.Migrator()
				if err := m.AddColumn(&user{}, "AboutMe"); err != nil {
					return err
				}
				return m.AddColumn(&user{}, "LastSeen")
			},
			Rollback: func(tx *gorm.DB) error {
				type user struct {
					AboutMe  *string `gorm:"size:140"`
					LastSeen *time.Time
				}
				m := tx.Migrator()
				if err := m.DropColumn(&user{}, "LastSeen"); err != nil {
					return err
				}
				return m.DropColumn(&user{}, "AboutMe")
			},
		},
		{
			ID: "0004_messages_notifications",
			Migrate: func(tx *gorm.DB) error {
				type user struct {
					LastMessageReadTime *time.Time
				}
				type message struct {
					ID          uint      `gorm:"primaryKey"`
					SenderID    uint      `gorm:"index"`
					RecipientID uint      `gorm:"index"`
					Body        string    `gorm:"size:140"`
					Timestamp   time.Time `gorm:"index"`
				}
				type notification struct {
					ID          uint    `gorm:"primaryKey"`
					Name        string  `gorm:"size:128;index"`
					UserID      uint    `gorm:"index"`
					Timestamp   float64 `gorm:"index"`
					PayloadJSON string  `gorm:"type:text"`
				}
				m := tx.Migrator()
				if err := m.AddColumn(&user{}, "LastMessageReadTime"); err != nil {
					return err
				}
				return m.CreateTable(&message{}, &notification{})
			},
			Rollback: func(tx *gorm.DB) error {
				type user struct {
					LastMessageReadTime *time.Time
				}
				m := tx.Migrator()
				if err := m.DropTable("notifications", "messages"); err != nil {
					return err
				}
				return m.DropColumn(&user{}, "LastMessageReadTime")
			},
		},
		{
			ID: "0005_tasks",
			Migrate: func(tx *gorm.DB) error {
				type task struct {
					ID          string `gorm:"primaryKey;size:36"`
					Name        string `gorm:"size:128;index"`
					Description string `gorm:"size:128"`
					UserID      uint   `gorm:"index"`
					Complete    bool   `gorm:"default:false"`
					Progress    int    `gorm:"default:0"`
				}
				return tx.Migrator().CreateTable(&task{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("tasks")
			},
		},
		{
			ID: "0006_post_language",
			Migrate: func(tx *gorm.DB) error {
				type post struct {
					Language string `gorm:"size:5"`
				}
				return tx.Migrator().AddColumn(&post{}, "Language")
			},
			Rollback: func(tx *gorm.DB) error {
				type post struct {
					Language string `gorm:"size:5"`
				}
				return tx.Migrator().DropColumn(&post{}, "Language")
			},
		},
	}
}

// IDs lists every migration in apply order.
func IDs() []string {
	s := steps()
	ids := make([]string, len(s))
	for i, m := range s {
		ids[i] = m.ID
	}
	return ids
}

func newMigrator(db *gorm.DB) *gormigrate.Gormigrate {
	return gormigrate.New(db, options(), steps())
}

// Upgrade applies pending migrations up to and including target, or all of them when target is empty.
func Upgrade(db *gorm.DB, target string) error {
	m := newMigrator(db)
	if target == "" {
		return m.Migrate()
	}
	return m.MigrateTo(target)
}

// Downgrade reverts the most recent migration, or every migration applied after target.
func Downgrade(db *gorm.DB, target string) error {
	m := newMigrator(db)
	if target == "" {
		return m.RollbackLast()
	}
	return m.RollbackTo(target)
}

// Current returns the ID of the latest applied migration, or "" on a fresh database.
func Current(db *gorm.DB) (string, error) {
	if !db.Migrator().HasTable(historyTable) {
		return "", nil
	}
	var id string
	err := db.Table(historyTable).Select("id").Order("id DESC").Limit(1).Scan(&id).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}
	return id, nil
}
