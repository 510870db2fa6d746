package feed

import (
	"context"
	"errors"
	"strings"

	"backend-trollfeed/internal/db"
	"backend-trollfeed/internal/genai"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrEmptySubmission = errors.New("at least one image or a prompt is required")
	ErrEmptyRebuttal   = errors.New("post id and rebuttal text are required")
	ErrRateLimited     = errors.New("rate limit exceeded")
	ErrNotFound        = errors.New("post not found")
)

const (
	defaultAvatar = "https://api.dicebear.com/7.x/avataaars/svg?seed=James"
	defaultName   = "James"
)

// Generator is the external AI collaborator: images + prompt + history in,
// commentary and an edited image out.
type Generator interface {
	Generate(ctx context.Context, images []string, prompt string, history []genai.Turn) (genai.Result, error)
}

type Limiter interface {
	Admit(key string) bool
}

type ThreadStore interface {
	Turns(ctx context.Context, postID string) ([]genai.Turn, error)
	Append(ctx context.Context, postID string, turns ...genai.Turn) error
}

type Notifier interface {
	NotifyPending(post Post)
}

type Service struct {
	db      db.Querier
	ai      Generator
	limiter Limiter
	threads ThreadStore
	hub     Notifier
}

func NewService(q db.Querier, ai Generator, limiter Limiter, threads ThreadStore, hub Notifier) *Service {
	return &Service{db: q, ai: ai, limiter: limiter, threads: threads, hub: hub}
}

// List returns the public feed: approved posts plus pending posts whose ids
// the caller presented, newest first.
func (s *Service) List(ctx context.Context, requesterIDs []string) ([]Post, error) {
	if requesterIDs == nil {
		requesterIDs = []string{}
	}
	rows, err := s.db.Query(ctx, `
		SELECT id, prompt, original_images, ai_image, ai_text, user_avatar, user_name, status, created_at
		FROM posts
		WHERE status='approved' OR (status='pending' AND id = ANY($1))
		ORDER BY created_at DESC
	`, requesterIDs)
	if err != nil {
		return nil, err
	}
	return scanPosts(rows)
}

// Submit runs the whole pipeline: validate, rate-limit, call the model, then
// persist the result as a pending post. Nothing is stored when the model
// call fails.
func (s *Service) Submit(ctx context.Context, clientKey string, req SubmitRequest) (SubmitResult, error) {
	images := req.Images
	if len(images) == 0 && req.Image != "" {
		images = []string{req.Image}
	}
	prompt := strings.TrimSpace(req.Prompt)
	if len(images) == 0 && prompt == "" {
		return SubmitResult{}, ErrEmptySubmission
	}

	if s.limiter != nil && !s.limiter.Admit(clientKey) {
		return SubmitResult{}, ErrRateLimited
	}

	generated, err := s.ai.Generate(ctx, images, prompt, req.History)
	if err != nil {
		return SubmitResult{}, err
	}

	post := Post{
		ID:             uuid.NewString(),
		Prompt:         prompt,
		OriginalImages: images,
		AIImage:        generated.Image,
		AIText:         generated.Text,
		UserAvatar:     req.UserAvatar,
		UserName:       req.UserName,
		Status:         StatusPending,
	}
	if post.UserAvatar == "" {
		post.UserAvatar = defaultAvatar
	}
	if post.UserName == "" {
		post.UserName = defaultName
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO posts (id, prompt, original_images, ai_image, ai_text, user_avatar, user_name, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at
	`, post.ID, post.Prompt, post.OriginalImages, post.AIImage, post.AIText, post.UserAvatar, post.UserName, post.Status)
	if err := row.Scan(&post.CreatedAt); err != nil {
		return SubmitResult{}, err
	}

	if s.threads != nil {
		_ = s.threads.Append(ctx, post.ID,
			genai.Turn{Role: genai.RoleUser, Text: prompt},
			genai.Turn{Role: genai.RoleAI, Text: generated.Text},
		)
	}
	if s.hub != nil {
		s.hub.NotifyPending(post)
	}

	return SubmitResult{Image: generated.Image, Text: generated.Text, ID: post.ID}, nil
}

// Rebut continues a post's comment thread: the original images are replayed
// to the model with the rebuttal text and accumulated history. No new post
// is created; the exchange lives in the thread store until it expires.
func (s *Service) Rebut(ctx context.Context, clientKey string, req RebutRequest) (RebutResult, error) {
	rebuttal := strings.TrimSpace(req.Rebuttal)
	if req.ID == "" || rebuttal == "" {
		return RebutResult{}, ErrEmptyRebuttal
	}

	if s.limiter != nil && !s.limiter.Admit(clientKey) {
		return RebutResult{}, ErrRateLimited
	}

	post, err := s.byID(ctx, req.ID)
	if err != nil {
		return RebutResult{}, err
	}

	// history sent by the client wins; otherwise fall back to the stored thread
	history := req.History
	if len(history) == 0 && s.threads != nil {
		history, _ = s.threads.Turns(ctx, post.ID)
	}

	generated, err := s.ai.Generate(ctx, post.OriginalImages, rebuttal, history)
	if err != nil {
		return RebutResult{}, err
	}

	if s.threads != nil {
		_ = s.threads.Append(ctx, post.ID,
			genai.Turn{Role: genai.RoleUser, Text: rebuttal},
			genai.Turn{Role: genai.RoleAI, Text: generated.Text},
		)
	}

	return RebutResult{Image: generated.Image, Text: generated.Text}, nil
}

func (s *Service) byID(ctx context.Context, id string) (Post, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, prompt, original_images, ai_image, ai_text, user_avatar, user_name, status, created_at
		FROM posts WHERE id=$1
	`, id)
	var p Post
	err := row.Scan(&p.ID, &p.Prompt, &p.OriginalImages, &p.AIImage, &p.AIText, &p.UserAvatar, &p.UserName, &p.Status, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Post{}, ErrNotFound
	}
	if err != nil {
		return Post{}, err
	}
	return p, nil
}

func scanPosts(rows pgx.Rows) ([]Post, error) {
	defer rows.Close()
	posts := make([]Post, 0)
	for rows.Next() {
		var p Post
		if err := rows.Scan(&p.ID, &p.Prompt, &p.OriginalImages, &p.AIImage, &p.AIText, &p.UserAvatar, &p.UserName, &p.Status, &p.CreatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}
