package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/viant/afs"
	"github.com/viant/detect/client/auth"
	"github.com/viant/detect/client/auth/store"
	"github.com/viant/detect/schema"
)

// DefaultSummaryDays is used when Summary is asked for less than one day
const DefaultSummaryDays = 7

// MaxSummaryDays is the longest range the backend aggregates
const MaxSummaryDays = 90

type Client struct {
	baseURL     string
	authOptions []auth.Option
	session     *auth.Service
	httpClient  *http.Client
	fs          afs.Service
	logger      zerolog.Logger
}

// Session returns the client session
func (c *Client) Session() *auth.Service {
	return c.session
}

// Login starts a session, see auth.Service.Login
func (c *Client) Login(ctx context.Context, username, password string) (store.Credentials, error) {
	return c.session.Login(ctx, username, password)
}

// Logout ends the session, see auth.Service.Logout
func (c *Client) Logout(ctx context.Context) {
	c.session.Logout(ctx)
}

func (c *Client) Me(ctx context.Context) (*schema.User, error) {
	return send[schema.User](ctx, c, http.MethodGet, "/api/auth/me/", nil, "")
}

func (c *Client) Detect(ctx context.Context, fileID string) (*schema.Detection, error) {
	payload, err := json.Marshal(map[string]string{"file_id": fileID})
	if err != nil {
		return nil, err
	}
	return send[schema.Detection](ctx, c, http.MethodPost, "/api/detect/detect", payload, "application/json")
}

func (c *Client) UploadAndDetect(ctx context.Context, URL string) (*schema.Detection, error) {
	upload, err := c.Upload(ctx, URL)
	if err != nil {
		return nil, err
	}
	return c.Detect(ctx, upload.FileID)
}

func (c *Client) Results(ctx context.Context) ([]*schema.Detection, error) {
	results, err := send[[]*schema.Detection](ctx, c, http.MethodGet, "/api/detect/results", nil, "")
	if err != nil {
		return nil, err
	}
	return *results, nil
}

func (c *Client) Result(ctx context.Context, id string) (*schema.Detection, error) {
	return send[schema.Detection](ctx, c, http.MethodGet, "/api/detect/results/"+url.PathEscape(id), nil, "")
}

// Summary returns analytics over the last days, clamped to 1..90 with non
// positive values falling back to 7.
func (c *Client) Summary(ctx context.Context, days int) (*schema.Summary, error) {
	days = SummaryDays(days)
	return send[schema.Summary](ctx, c, http.MethodGet, "/api/detect/summary?days="+strconv.Itoa(days), nil, "")
}

// SummaryDays normalizes a summary day range
func SummaryDays(days int) int {
	if days < 1 {
		return DefaultSummaryDays
	}
	return min(days, MaxSummaryDays)
}

func send[O any](ctx context.Context, c *Client, method, path string, body []byte, contentType string) (*O, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		request.Header.Set("Content-Type", contentType)
	}
	request.Header.Set("Accept", "application/json")
	response, err := c.httpClient.Do(request)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return nil, err
	}
	defer response.Body.Close()
	if response.StatusCode < 200 || response.StatusCode > 299 {
		apiErr := schema.ReadAPIError(response)
		c.logger.Debug().Str("method", method).Str("path", path).Int("status", apiErr.Status).Msg(apiErr.Detail)
		return nil, apiErr
	}
	var output O
	if err = json.NewDecoder(response.Body).Decode(&output); err != nil {
		return nil, fmt.Errorf("failed to decode %v %v response: %w", method, path, err)
	}
	return &output, nil
}

// New creates a client for the backend at baseURL
func New(ctx context.Context, baseURL string, options ...Option) *Client {
	ret := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  zerolog.Nop(),
	}
	for _, opt := range options {
		opt(ret)
	}
	if ret.fs == nil {
		ret.fs = afs.New()
	}
	ret.session = auth.New(ctx, ret.baseURL, ret.authOptions...)
	ret.httpClient = ret.session.HTTPClient()
	return ret
}
