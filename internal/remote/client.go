// ABOUTME: HTTP client for the RepQuest server API.
// ABOUTME: Fetches the lift catalog and reads/writes opaque workout-data archives.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/repquest/internal/models"
)

// DefaultTimeout bounds every request.
const DefaultTimeout = 10 * time.Second

// ErrOffline wraps transport failures: the server could not be reached.
var ErrOffline = errors.New("server unreachable")

// ErrNoServer is returned when no server URL is configured.
var ErrNoServer = errors.New("no server configured")

// StatusError is a non-2xx response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("server returned status %d", e.Code)
	}
	return fmt.Sprintf("server returned status %d: %s", e.Code, e.Body)
}

// Client talks to the RepQuest server.
type Client struct {
	serverURL  string
	httpClient *http.Client
	logger     *log.Logger
}

// NewClient creates a client for serverURL. A zero timeout uses DefaultTimeout.
func NewClient(serverURL string, timeout time.Duration, logger *log.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Client{
		serverURL:  strings.TrimRight(serverURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// ServerURL returns the configured base URL.
func (c *Client) ServerURL() string {
	return c.serverURL
}

// FetchLifts retrieves the server's lift catalog.
func (c *Client) FetchLifts(ctx context.Context) ([]models.RemoteLift, error) {
	var lifts []models.RemoteLift
	if err := c.getJSON(ctx, "/api/lifts", &lifts); err != nil {
		return nil, fmt.Errorf("fetching lifts: %w", err)
	}
	c.logger.Debug("fetched lifts", "count", len(lifts))
	return lifts, nil
}

type workoutDataRequest struct {
	UserID int             `json:"userId"`
	Data   json.RawMessage `json:"data"`
}

// SaveWorkoutData posts an archive of the user's data. Any 2xx is success.
func (c *Client) SaveWorkoutData(ctx context.Context, userID int, data json.RawMessage) error {
	body, err := json.Marshal(workoutDataRequest{UserID: userID, Data: data})
	if err != nil {
		return fmt.Errorf("marshaling workout data: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/api/workout-data", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("saving workout data: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	c.logger.Debug("saved workout data", "user", userID, "bytes", len(data))
	return nil
}

// GetWorkoutData reads the user's latest archive. A server-side null returns nil.
func (c *Client) GetWorkoutData(ctx context.Context, userID int) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.getJSON(ctx, "/api/workout-data/"+strconv.Itoa(userID), &raw); err != nil {
		return nil, fmt.Errorf("fetching workout data: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 || string(bytes.TrimSpace(raw)) == "null" {
		return nil, nil
	}
	return raw, nil
}

// Ping reports whether the server answers at all.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "/api/lifts", nil)
	var se *StatusError
	if errors.As(err, &se) {
		return nil
	}
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// do sends a request and returns the response for 2xx statuses. Transport
// failures wrap ErrOffline; other statuses return a *StatusError.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	if c.serverURL == "" {
		return nil, ErrNoServer
	}
	req, err := http.NewRequestWithContext(ctx, method, c.serverURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "method", method, "path", path, "err", err)
		return nil, fmt.Errorf("%w: %v", ErrOffline, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}
	return resp, nil
}
