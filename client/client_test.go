package client

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/detect/client/auth/mock"
	"github.com/viant/detect/schema"
)

var (
	pngImage  = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)
	jpegImage = append([]byte("\xff\xd8\xff\xe0"), bytes.Repeat([]byte{0}, 64)...)
)

func newTestClient(t *testing.T) (*Client, *mock.HTTPTestBackend, afs.Service) {
	t.Helper()
	server := mock.NewHTTPTestBackend()
	t.Cleanup(server.Close)
	fs := afs.New()
	ctx := context.Background()
	cli := New(ctx, server.URL, WithFileSystem(fs))
	_, err := cli.Login(ctx, "alice", "pw")
	require.NoError(t, err)
	return cli, server, fs
}

func putImage(t *testing.T, fs afs.Service, URL string, data []byte) {
	t.Helper()
	require.NoError(t, fs.Upload(context.Background(), URL, 0644, bytes.NewReader(data)))
}

func TestClient_Me(t *testing.T) {
	cli, _, _ := newTestClient(t)
	user, err := cli.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
}

func TestClient_UploadAndDetect(t *testing.T) {
	cli, _, fs := newTestClient(t)
	ctx := context.Background()
	putImage(t, fs, "mem://localhost/images/street.png", pngImage)
	putImage(t, fs, "mem://localhost/images/road.jpg", jpegImage)

	first, err := cli.UploadAndDetect(ctx, "mem://localhost/images/street.png")
	require.NoError(t, err)
	assert.Equal(t, 2, first.TotalObjects)
	assert.Len(t, first.Items, 2)
	require.NotNil(t, first.AnnotatedURL)

	second, err := cli.UploadAndDetect(ctx, "mem://localhost/images/road.jpg")
	require.NoError(t, err)

	results, err := cli.Results(ctx)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, second.ID, results[0].ID)
	assert.Equal(t, first.ID, results[1].ID)

	result, err := cli.Result(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Filename, result.Filename)

	summary, err := cli.Summary(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultSummaryDays, summary.RangeDays)
	assert.Equal(t, 2, summary.TotalImages)
	assert.Equal(t, 4, summary.TotalObjects)
	assert.Len(t, summary.Latest, 2)
}

func TestClient_UploadRejectedLocally(t *testing.T) {
	cli, _, fs := newTestClient(t)
	ctx := context.Background()

	putImage(t, fs, "mem://localhost/images/notes.txt", []byte("plain text, not an image"))
	_, err := cli.Upload(ctx, "mem://localhost/images/notes.txt")
	var apiErr *schema.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnsupportedMediaType, apiErr.Status)

	putImage(t, fs, "mem://localhost/images/huge.png", append(pngImage, make([]byte, MaxUploadSize)...))
	_, err = cli.Upload(ctx, "mem://localhost/images/huge.png")
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusRequestEntityTooLarge, apiErr.Status)

	_, err = cli.Upload(ctx, "mem://localhost/images/missing.png")
	assert.Error(t, err)

	_, err = cli.Upload(ctx, "mem://localhost/images")
	assert.ErrorContains(t, err, "is a directory")
}

func TestClient_ResultNotFound(t *testing.T) {
	cli, _, _ := newTestClient(t)
	_, err := cli.Result(context.Background(), "missing")
	var apiErr *schema.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Not found.", apiErr.Detail)
	assert.False(t, schema.IsUnauthenticated(err))
}

func TestClient_RefreshIsTransparent(t *testing.T) {
	cli, server, _ := newTestClient(t)
	ctx := context.Background()
	server.RevokeAccessTokens()

	user, err := cli.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, 1, server.RefreshCalls())
}

func TestClient_SessionExpired(t *testing.T) {
	cli, server, _ := newTestClient(t)
	ctx := context.Background()
	server.RevokeAccessTokens()
	server.RejectRefresh(true)

	_, err := cli.Results(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, schema.ErrSessionExpired)
	assert.True(t, schema.IsUnauthenticated(err))
	assert.False(t, cli.Session().State().IsAuthenticated())
}

func TestSummaryDays(t *testing.T) {
	var useCases = []struct {
		description string
		days        int
		expect      int
	}{
		{description: "zero falls back to default", days: 0, expect: 7},
		{description: "negative falls back to default", days: -3, expect: 7},
		{description: "in range", days: 30, expect: 30},
		{description: "lower bound", days: 1, expect: 1},
		{description: "clamped to max", days: 365, expect: 90},
	}
	for _, useCase := range useCases {
		assert.Equal(t, useCase.expect, SummaryDays(useCase.days), useCase.description)
	}
}
