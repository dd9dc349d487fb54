package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"time"

	"github.com/anonto42/microblog/internal/models"
	"github.com/anonto42/microblog/pkg/mail"
)

type postExporter interface {
	PostsForExport(userID uint) ([]models.Post, error)
}

type userGetter interface {
	GetUserByID(id uint) (*models.User, error)
}

type exportedPost struct {
	Body      string `json:"body"`
	Timestamp string `json:"timestamp"`
}

// ExportPostsHandler emails the user every post they wrote as posts.json.
func ExportPostsHandler(posts postExporter, users userGetter, mailer mail.Mailer, sender string) Handler {
	return func(ctx context.Context, job Job, progress func(int)) error {
		user, err := users.GetUserByID(job.UserID)
		if err != nil {
			return fmt.Errorf("load user: %w", err)
		}
		all, err := posts.PostsForExport(user.ID)
		if err != nil {
			return fmt.Errorf("load posts: %w", err)
		}

		data := make([]exportedPost, 0, len(all))
		for i, p := range all {
			if err := ctx.Err(); err != nil {
				return err
			}
			data = append(data, exportedPost{
				Body:      p.Body,
				Timestamp: p.Timestamp.UTC().Format(time.RFC3339),
			})
			progress(100 * (i + 1) / len(all))
		}

		attachment, err := json.MarshalIndent(map[string]any{"posts": data}, "", "    ")
		if err != nil {
			return err
		}
		return mailer.Send(ctx, mail.Message{
			Subject:    "[Microblog] Your blog posts",
			Sender:     sender,
			Recipients: []string{user.Email},
			TextBody: fmt.Sprintf("Dear %s,\n\nPlease find attached the archive of your posts that you requested.\n\nSincerely,\n\nThe Microblog Team\n",
				user.Username),
			HTMLBody: fmt.Sprintf("<p>Dear %s,</p><p>Please find attached the archive of your posts that you requested.</p><p>Sincerely,</p><p>The Microblog Team</p>",
				html.EscapeString(user.Username)),
			Attachments: []mail.Attachment{{
				Filename:    "posts.json",
				ContentType: "application/json",
				Data:        attachment,
			}},
		})
	}
}
