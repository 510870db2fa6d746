package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"backend-trollfeed/internal/config"
)

const (
	RoleUser = "user"
	RoleAI   = "ai"
)

// Turn is one side of a post's comment-thread exchange, sent back to the
// model as conversation context on rebuttals.
type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Result carries the model's reply: commentary text and, when the model
// produced one, the edited image as a data URI.
type Result struct {
	Text  string
	Image string
}

// ErrInvalidImage marks a submission whose image payload is not a usable
// data URI. Detected before any network call.
var ErrInvalidImage = errors.New("invalid image data uri")

// UpstreamError is a failure reported by the model API; its status code and
// message are propagated to the HTTP caller verbatim.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
}

func NewClient(cfg config.Config) *Client {
	timeout := time.Duration(cfg.GeminiTimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL: strings.TrimSuffix(cfg.GeminiBaseURL, "/"),
		apiKey:  cfg.GeminiAPIKey,
		model:   cfg.GeminiModel,
		http:    &http.Client{Timeout: timeout},
	}
}

type generateRequest struct {
	SystemInstruction *content         `json:"systemInstruction,omitempty"`
	Contents          []content        `json:"contents"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generationConfig struct {
	ResponseModalities []string `json:"responseModalities"`
}

type responsePart struct {
	Text string `json:"text"`
	// the API answers with either naming depending on the transport
	InlineData      *responseInlineData `json:"inline_data"`
	InlineDataCamel *responseInlineData `json:"inlineData"`
}

type responseInlineData struct {
	MimeType      string `json:"mime_type"`
	MimeTypeCamel string `json:"mimeType"`
	Data          string `json:"data"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []responsePart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate asks the model to mangle the given images according to the user's
// request, conditioned on any prior turns of the same thread.
func (c *Client) Generate(ctx context.Context, images []string, prompt string, history []Turn) (Result, error) {
	contents := make([]content, 0, len(history)+1)
	for _, turn := range history {
		role := "user"
		if turn.Role == RoleAI {
			role = "model"
		}
		contents = append(contents, content{Role: role, Parts: []part{{Text: turn.Text}}})
	}

	parts := []part{{Text: userInstruction(prompt)}}
	for _, img := range images {
		mime, data, err := splitDataURI(img)
		if err != nil {
			return Result{}, err
		}
		parts = append(parts, part{InlineData: &inlineData{MimeType: mime, Data: data}})
	}
	contents = append(contents, content{Role: "user", Parts: parts})

	body, err := json.Marshal(generateRequest{
		SystemInstruction: &content{Parts: []part{{Text: personaInstruction}}},
		Contents:          contents,
		GenerationConfig:  generationConfig{ResponseModalities: []string{"TEXT", "IMAGE"}},
	})
	if err != nil {
		return Result{}, err
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiError
		msg := "model request failed"
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error.Message != "" {
			msg = apiErr.Error.Message
		}
		return Result{}, &UpstreamError{StatusCode: resp.StatusCode, Message: msg}
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return Result{}, &UpstreamError{StatusCode: http.StatusBadGateway, Message: "malformed model response"}
	}
	if len(decoded.Candidates) == 0 {
		return Result{}, &UpstreamError{StatusCode: http.StatusBadGateway, Message: "model returned no candidates"}
	}

	var result Result
	for _, p := range decoded.Candidates[0].Content.Parts {
		result.Text += p.Text
		img := p.InlineData
		if img == nil {
			img = p.InlineDataCamel
		}
		if img != nil && result.Image == "" {
			mime := img.MimeType
			if mime == "" {
				mime = img.MimeTypeCamel
			}
			if mime == "" {
				mime = "image/jpeg"
			}
			result.Image = fmt.Sprintf("data:%s;base64,%s", mime, img.Data)
		}
	}
	return result, nil
}

// splitDataURI takes "data:image/png;base64,AAAA" apart into mime type and
// raw base64 payload.
func splitDataURI(uri string) (string, string, error) {
	header, data, ok := strings.Cut(uri, ",")
	if !ok || data == "" || !strings.HasPrefix(header, "data:") {
		return "", "", ErrInvalidImage
	}
	mime := strings.TrimPrefix(header, "data:")
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	if mime == "" {
		mime = "image/jpeg"
	}
	return mime, data, nil
}
