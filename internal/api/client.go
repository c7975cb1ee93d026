package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"ragchat/internal/domain"
)

// Client talks to the chatbot server over its JSON/multipart HTTP API.
type Client struct {
	baseURL   string
	sessionID string
	client    *http.Client
}

// Config configures the API client.
type Config struct {
	BaseURL   string
	SessionID string
	// Timeout of zero means requests may wait forever.
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Error is returned for any non-2xx response.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// New creates a client. A random session id is generated when none is configured.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:5000"
	}
	if cfg.SessionID == "" {
		cfg.SessionID = uuid.NewString()
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		sessionID: cfg.SessionID,
		client:    hc,
	}
}

// SessionID is the conversation key sent with every chat request.
func (c *Client) SessionID() string { return c.sessionID }

// ListIndexed fetches the indexed-document collection. A missing list decodes to nil.
func (c *Client) ListIndexed(ctx context.Context) ([]domain.IndexedDocument, error) {
	var out IndexedResponse
	if err := c.getJSON(ctx, "/api/indexed", &out); err != nil {
		return nil, fmt.Errorf("list indexed documents: %w", err)
	}
	return out.Documents, nil
}

// Upload posts every path as a repeated "files" field of one multipart request.
func (c *Client) Upload(ctx context.Context, paths []string) (*UploadResult, error) {
	if len(paths) == 0 {
		return nil, ErrNoFiles
	}
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(writeFiles(mw, paths))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload", pr)
	if err != nil {
		pr.Close()
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out UploadResult
	if err := c.do(req, &out); err != nil {
		pr.CloseWithError(err)
		return nil, fmt.Errorf("upload %d file(s): %w", len(paths), err)
	}
	return &out, nil
}

func writeFiles(mw *multipart.Writer, paths []string) error {
	for _, p := range paths {
		if err := writeFile(mw, p); err != nil {
			return err
		}
	}
	return mw.Close()
}

func writeFile(mw *multipart.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	part, err := mw.CreateFormFile("files", filepath.Base(path))
	if err != nil {
		return err
	}
	_, err = io.Copy(part, f)
	return err
}

// Chat posts one user message and returns the decoded reply.
func (c *Client) Chat(ctx context.Context, message string) (*ChatReply, error) {
	body := ChatRequest{Message: message, SessionID: c.sessionID}
	var out ChatReply
	if err := c.postJSON(ctx, "/api/chat", body, &out); err != nil {
		return nil, fmt.Errorf("chat: %w", err)
	}
	return &out, nil
}

// History returns the turns the server recorded for this client's session.
func (c *Client) History(ctx context.Context) ([]domain.ChatMessage, error) {
	var out HistoryResponse
	path := "/api/history?session_id=" + url.QueryEscape(c.sessionID)
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	return out.Messages, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return &Error{StatusCode: resp.StatusCode, Message: errorMessage(payload)}
	}
	if out == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func errorMessage(payload []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return strings.TrimSpace(string(payload))
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}

// IsStatus reports whether err is an *Error carrying the given HTTP status.
func IsStatus(err error, code int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}
