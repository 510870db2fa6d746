package genai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"backend-trollfeed/internal/config"
)

func testClient(url string) *Client {
	return NewClient(config.Config{
		GeminiBaseURL:    url,
		GeminiAPIKey:     "test-key",
		GeminiModel:      "test-model",
		GeminiTimeoutSec: 5,
	})
}

func TestGenerateSuccess(t *testing.T) {
	var captured generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "test-model:generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("expected api key in query")
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{
			"candidates": [{"content": {"parts": [
				{"text": "완벽"},
				{"text": "하죠?"},
				{"inlineData": {"mimeType": "image/png", "data": "BBB"}}
			]}}]
		}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	res, err := c.Generate(context.Background(),
		[]string{"data:image/png;base64,AAA"}, "다리 늘려주세요",
		[]Turn{{Role: RoleUser, Text: "hi"}, {Role: RoleAI, Text: "ho"}})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if res.Text != "완벽하죠?" {
		t.Fatalf("unexpected text %q", res.Text)
	}
	if res.Image != "data:image/png;base64,BBB" {
		t.Fatalf("unexpected image %q", res.Image)
	}

	if captured.SystemInstruction == nil || len(captured.SystemInstruction.Parts) == 0 {
		t.Fatalf("expected system instruction")
	}
	// history turns + final user turn
	if len(captured.Contents) != 3 {
		t.Fatalf("expected 3 contents, got %d", len(captured.Contents))
	}
	if captured.Contents[0].Role != "user" || captured.Contents[1].Role != "model" {
		t.Fatalf("unexpected history roles")
	}
	last := captured.Contents[2]
	if last.Role != "user" || len(last.Parts) != 2 {
		t.Fatalf("unexpected final turn shape")
	}
	if !strings.Contains(last.Parts[0].Text, "다리 늘려주세요") {
		t.Fatalf("prompt missing from final turn")
	}
	if last.Parts[1].InlineData == nil || last.Parts[1].InlineData.MimeType != "image/png" || last.Parts[1].InlineData.Data != "AAA" {
		t.Fatalf("unexpected inline image part")
	}
	if len(captured.GenerationConfig.ResponseModalities) != 2 {
		t.Fatalf("expected TEXT and IMAGE modalities")
	}
}

func TestGenerateSnakeCaseImagePart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{
			"candidates": [{"content": {"parts": [
				{"inline_data": {"mime_type": "image/webp", "data": "CCC"}}
			]}}]
		}`))
	}))
	defer srv.Close()

	res, err := testClient(srv.URL).Generate(context.Background(), nil, "x", nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if res.Image != "data:image/webp;base64,CCC" {
		t.Fatalf("unexpected image %q", res.Image)
	}
}

func TestGenerateUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "quota exceeded"}}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Generate(context.Background(), nil, "x", nil)
	var up *UpstreamError
	if !errors.As(err, &up) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if up.StatusCode != http.StatusTooManyRequests || up.Message != "quota exceeded" {
		t.Fatalf("unexpected upstream error: %+v", up)
	}
}

func TestGenerateUpstreamErrorNoBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Generate(context.Background(), nil, "x", nil)
	var up *UpstreamError
	if !errors.As(err, &up) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if up.Message != "model request failed" {
		t.Fatalf("expected generic message, got %q", up.Message)
	}
}

func TestGenerateNoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"candidates": []}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Generate(context.Background(), nil, "x", nil)
	var up *UpstreamError
	if !errors.As(err, &up) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if up.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", up.StatusCode)
	}
}

func TestGenerateMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Generate(context.Background(), nil, "x", nil)
	var up *UpstreamError
	if !errors.As(err, &up) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}

func TestGenerateInvalidImage(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		called = true
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Generate(context.Background(), []string{"garbage"}, "x", nil)
	if !errors.Is(err, ErrInvalidImage) {
		t.Fatalf("expected invalid image error, got %v", err)
	}
	if called {
		t.Fatalf("expected no upstream call for invalid image")
	}
}

func TestSplitDataURI(t *testing.T) {
	mime, data, err := splitDataURI("data:image/webp;base64,Zm9v")
	if err != nil || mime != "image/webp" || data != "Zm9v" {
		t.Fatalf("unexpected split result: %s %s %v", mime, data, err)
	}

	mime, data, err = splitDataURI("data:;base64,Zm9v")
	if err != nil || mime != "image/jpeg" || data != "Zm9v" {
		t.Fatalf("expected jpeg fallback: %s %s %v", mime, data, err)
	}

	if _, _, err := splitDataURI("data:image/png;base64,"); err == nil {
		t.Fatalf("expected error for empty payload")
	}
	if _, _, err := splitDataURI("http://example.com/a.png"); err == nil {
		t.Fatalf("expected error for non data uri")
	}
}
