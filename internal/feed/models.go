package feed

import (
	"time"

	"backend-trollfeed/internal/genai"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
)

// Post is one submission and its generated reply. Pending posts are visible
// only to callers who present the post's id; approved posts are public.
type Post struct {
	ID             string    `json:"id"`
	Prompt         string    `json:"prompt"`
	OriginalImages []string  `json:"originalImages"`
	AIImage        string    `json:"aiImage"`
	AIText         string    `json:"aiText"`
	UserAvatar     string    `json:"userAvatar"`
	UserName       string    `json:"userName"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"timestamp"`
}

type SubmitRequest struct {
	Images []string `json:"images"`
	// Image is the singular field the first client version sent.
	Image      string       `json:"image"`
	Prompt     string       `json:"prompt"`
	UserAvatar string       `json:"userAvatar"`
	UserName   string       `json:"userName"`
	History    []genai.Turn `json:"history"`
}

type SubmitResult struct {
	Image string `json:"image"`
	Text  string `json:"text"`
	ID    string `json:"id"`
}

type RebutRequest struct {
	ID       string       `json:"id"`
	Rebuttal string       `json:"rebuttal"`
	History  []genai.Turn `json:"history"`
}

type RebutResult struct {
	Image string `json:"image"`
	Text  string `json:"text"`
}
