package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/viant/detect/schema"
)

// Service calls token endpoints
type Service struct {
	baseURL   string
	endpoints Endpoints
	client    *http.Client
}

// Option customizes Service
type Option func(s *Service)

// WithEndpoints overrides endpoint paths
func WithEndpoints(endpoints Endpoints) Option {
	return func(s *Service) {
		s.endpoints = endpoints
	}
}

// WithHTTPClient sets http client
func WithHTTPClient(client *http.Client) Option {
	return func(s *Service) {
		s.client = client
	}
}

// Issue exchanges username and password for a token pair. A rejection is
// reported as schema.ErrInvalidCredentials carrying the server reason.
func (s *Service) Issue(ctx context.Context, username, password string) (*schema.TokenPair, error) {
	pair := &schema.TokenPair{}
	err := s.post(ctx, s.endpoints.Token, &schema.LoginRequest{Username: username, Password: password}, pair)
	if err != nil {
		if apiErr, ok := err.(*schema.APIError); ok && apiErr.Status < http.StatusInternalServerError {
			return nil, schema.NewInvalidCredentials(apiErr)
		}
		return nil, err
	}
	if pair.Access == "" || pair.Refresh == "" {
		return nil, fmt.Errorf("token response from %v is missing tokens", s.endpoints.Token)
	}
	return pair, nil
}

// Refresh exchanges refresh token for a new access token; the returned pair
// has Refresh set only when the backend rotates it.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*schema.TokenPair, error) {
	pair := &schema.TokenPair{}
	if err := s.post(ctx, s.endpoints.Refresh, &schema.RefreshRequest{Refresh: refreshToken}, pair); err != nil {
		return nil, err
	}
	if pair.Access == "" {
		return nil, fmt.Errorf("refresh response from %v is missing access token", s.endpoints.Refresh)
	}
	return pair, nil
}

// Invalidate asks the backend to revoke refresh token
func (s *Service) Invalidate(ctx context.Context, refreshToken string) error {
	return s.post(ctx, s.endpoints.Logout, &schema.RefreshRequest{Refresh: refreshToken}, nil)
}

func (s *Service) post(ctx context.Context, path string, payload, output interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	URL := s.baseURL + path
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, URL, bytes.NewReader(data))
	if err != nil {
		return err
	}
	request.Header.Set("Content-Type", "application/json")
	response, err := s.client.Do(request)
	if err != nil {
		return &schema.NetworkError{Op: http.MethodPost, URL: URL, Err: err}
	}
	defer response.Body.Close()
	if response.StatusCode < 200 || response.StatusCode > 299 {
		return schema.ReadAPIError(response)
	}
	if output == nil {
		_, _ = io.Copy(io.Discard, response.Body)
		return nil
	}
	if err = json.NewDecoder(response.Body).Decode(output); err != nil {
		return fmt.Errorf("failed to decode %v response: %w", path, err)
	}
	return nil
}

// New creates a token endpoint service
func New(baseURL string, options ...Option) *Service {
	ret := &Service{
		baseURL:   strings.TrimRight(baseURL, "/"),
		endpoints: DefaultEndpoints(),
		client:    http.DefaultClient,
	}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}
