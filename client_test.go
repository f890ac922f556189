package detect

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/detect/client/auth/kv"
	"github.com/viant/detect/client/auth/mock"
)

func TestNewClient(t *testing.T) {
	server := mock.NewHTTPTestBackend()
	defer server.Close()
	ctx := context.Background()

	var useCases = []struct {
		description string
		options     *ClientOptions
		expectErr   bool
	}{
		{description: "default memory store", options: &ClientOptions{URL: server.URL}},
		{description: "injected persistence", options: &ClientOptions{URL: server.URL, Auth: &ClientAuth{Persistence: kv.NewMemoryStore()}}},
		{description: "file store", options: &ClientOptions{URL: server.URL, Auth: &ClientAuth{Store: "file", StorePath: filepath.Join(t.TempDir(), "session")}}},
		{description: "bolt store", options: &ClientOptions{URL: server.URL, Auth: &ClientAuth{Store: "bolt", StorePath: filepath.Join(t.TempDir(), "nested", "session.db")}}},
		{description: "unsupported store", options: &ClientOptions{URL: server.URL, Auth: &ClientAuth{Store: "s3"}}, expectErr: true},
		{description: "missing url", options: &ClientOptions{}, expectErr: true},
	}
	for _, useCase := range useCases {
		cli, release, err := NewClient(ctx, useCase.options)
		if useCase.expectErr {
			assert.Error(t, err, useCase.description)
			continue
		}
		require.NoError(t, err, useCase.description)
		_, err = cli.Login(ctx, "alice", "pw")
		require.NoError(t, err, useCase.description)
		user, err := cli.Me(ctx)
		require.NoError(t, err, useCase.description)
		assert.Equal(t, "alice", user.Username, useCase.description)
		assert.NoError(t, release(), useCase.description)
	}
}

func TestNewClient_RestoresSession(t *testing.T) {
	server := mock.NewHTTPTestBackend()
	defer server.Close()
	ctx := context.Background()
	options := func() *ClientOptions {
		return &ClientOptions{URL: server.URL, Auth: &ClientAuth{Store: "bolt", StorePath: filepath.Join(t.TempDir(), "session.db")}}
	}
	first := options()
	cli, release, err := NewClient(ctx, first)
	require.NoError(t, err)
	_, err = cli.Login(ctx, "alice", "pw")
	require.NoError(t, err)
	require.NoError(t, release())

	second := options()
	second.Auth.StorePath = first.Auth.StorePath
	cli, release, err = NewClient(ctx, second)
	require.NoError(t, err)
	defer release()
	assert.True(t, cli.Session().State().IsAuthenticated())
	assert.Equal(t, "alice", cli.Session().Subject())
}
