// Package api is the HTTP client for the remote story service. The server's
// loosely structured JSON is decoded exactly once here, at the boundary;
// the rest of the codebase only ever sees typed results and classified
// errors (network-class vs application-class).
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/graminsta/storysync/internal/common"
	"github.com/graminsta/storysync/internal/models"
)

const defaultTimeout = 15 * time.Second

// Client talks to the story service over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a Client for the service at baseURL. A non-positive timeout
// falls back to the default so a single unreachable request can never stall
// a sync run indefinitely.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Submission carries one story submission to POST /stories.
type Submission struct {
	Description string
	Photo       []byte
	PhotoMime   string
	Lat         *float64
	Lon         *float64

	// ClientRef, when set, is sent as X-Client-Ref so the server can
	// recognize replays of the same submission.
	ClientRef string
}

// LoginResult is the typed shape of a successful login.
type LoginResult struct {
	UserID string
	Name   string
	Token  string
}

// envelope is the common wrapper the service puts around every response.
type envelope struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`

	LoginResult *struct {
		UserID string `json:"userId"`
		Name   string `json:"name"`
		Token  string `json:"token"`
	} `json:"loginResult"`
	ListStory []wireStory `json:"listStory"`
	Story     *wireStory  `json:"story"`
}

type wireStory struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PhotoURL    string    `json:"photoUrl"`
	CreatedAt   time.Time `json:"createdAt"`
	Lat         *float64  `json:"lat"`
	Lon         *float64  `json:"lon"`
}

func (w wireStory) toModel() models.Story {
	return models.Story{
		ID:          w.ID,
		Name:        w.Name,
		Description: w.Description,
		PhotoURL:    w.PhotoURL,
		CreatedAt:   w.CreatedAt,
		Lat:         w.Lat,
		Lon:         w.Lon,
	}
}

// PostStory uploads a story as multipart form data. On success it returns
// the server's human-readable message. 4xx responses become RejectedError
// with the server message verbatim; transport errors and 5xx responses are
// returned as-is (network-class).
func (c *Client) PostStory(ctx context.Context, token string, sub Submission) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	if err := mw.WriteField("description", sub.Description); err != nil {
		return "", fmt.Errorf("writing description field: %w", err)
	}

	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="photo"; filename="photo"`)
	if sub.PhotoMime != "" {
		hdr.Set("Content-Type", sub.PhotoMime)
	}
	part, err := mw.CreatePart(hdr)
	if err != nil {
		return "", fmt.Errorf("creating photo part: %w", err)
	}
	if _, err := part.Write(sub.Photo); err != nil {
		return "", fmt.Errorf("writing photo part: %w", err)
	}

	if sub.Lat != nil {
		if err := mw.WriteField("lat", strconv.FormatFloat(*sub.Lat, 'f', -1, 64)); err != nil {
			return "", fmt.Errorf("writing lat field: %w", err)
		}
	}
	if sub.Lon != nil {
		if err := mw.WriteField("lon", strconv.FormatFloat(*sub.Lon, 'f', -1, 64)); err != nil {
			return "", fmt.Errorf("writing lon field: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("closing multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/stories", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, "Bearer "+token)
	}
	if sub.ClientRef != "" {
		req.Header.Set(common.ClientRefHeaderName, sub.ClientRef)
	}

	env, err := c.do(req)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

// Login authenticates and returns the session token.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	payload, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/login", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	env, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if env.LoginResult == nil {
		return nil, fmt.Errorf("login response missing loginResult")
	}
	return &LoginResult{
		UserID: env.LoginResult.UserID,
		Name:   env.LoginResult.Name,
		Token:  env.LoginResult.Token,
	}, nil
}

// GetStories lists stories visible to the authenticated user.
func (c *Client) GetStories(ctx context.Context, token string) ([]models.Story, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/stories", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set(common.AuthorizationHeaderName, "Bearer "+token)

	env, err := c.do(req)
	if err != nil {
		return nil, err
	}

	result := make([]models.Story, 0, len(env.ListStory))
	for _, w := range env.ListStory {
		result = append(result, w.toModel())
	}
	return result, nil
}

// GetStory fetches a single story by its server id.
func (c *Client) GetStory(ctx context.Context, token, id string) (*models.Story, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/stories/"+id, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set(common.AuthorizationHeaderName, "Bearer "+token)

	env, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if env.Story == nil {
		return nil, fmt.Errorf("story response missing story payload")
	}
	story := env.Story.toModel()
	return &story, nil
}

// Ping probes service reachability. Any HTTP response counts as reachable,
// including 4xx: the point is the network path, not authorization.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/stories", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// do executes the request and decodes the response envelope. Classification:
//   - transport error: returned as-is (network-class)
//   - 5xx: network-class error carrying the status
//   - 4xx: *RejectedError with the server message verbatim
//   - 2xx with error=true in the body: *RejectedError as well
func (c *Client) do(req *http.Request) (*envelope, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	var env envelope
	if jsonErr := json.Unmarshal(raw, &env); jsonErr != nil && resp.StatusCode < 400 {
		return nil, fmt.Errorf("decoding response: %w", jsonErr)
	}

	switch {
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("server error: %s", resp.Status)
	case resp.StatusCode >= 400:
		return nil, &RejectedError{StatusCode: resp.StatusCode, Message: env.Message}
	case env.Error:
		return nil, &RejectedError{StatusCode: resp.StatusCode, Message: env.Message}
	}
	return &env, nil
}
