package admin

import (
	"context"
	"errors"

	"backend-trollfeed/internal/db"
	"backend-trollfeed/internal/feed"
)

const (
	ActionApprove = "approve"
	ActionDelete  = "delete"
)

var (
	ErrNotFound  = errors.New("post not found")
	ErrBadAction = errors.New("action must be approve or delete")
)

type Service struct {
	db db.Querier
}

func NewService(q db.Querier) *Service {
	return &Service{db: q}
}

// ListByStatus returns every post in the given status regardless of
// requester, newest first.
func (s *Service) ListByStatus(ctx context.Context, status string) ([]feed.Post, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, prompt, original_images, ai_image, ai_text, user_avatar, user_name, status, created_at
		FROM posts
		WHERE status=$1
		ORDER BY created_at DESC
	`, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := make([]feed.Post, 0)
	for rows.Next() {
		var p feed.Post
		if err := rows.Scan(&p.ID, &p.Prompt, &p.OriginalImages, &p.AIImage, &p.AIText, &p.UserAvatar, &p.UserName, &p.Status, &p.CreatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// Moderate approves or removes one post. Approving an already-approved post
// is a no-op success; an unknown id is ErrNotFound. No audit trail is kept.
func (s *Service) Moderate(ctx context.Context, id, action string) error {
	var sql string
	switch action {
	case ActionApprove:
		sql = `UPDATE posts SET status='approved' WHERE id=$1`
	case ActionDelete:
		sql = `DELETE FROM posts WHERE id=$1`
	default:
		return ErrBadAction
	}

	tag, err := s.db.Exec(ctx, sql, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
