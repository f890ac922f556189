package detect

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/viant/detect/client"
	"github.com/viant/detect/client/auth"
	"github.com/viant/detect/client/auth/kv"
)

const (
	appDirectory = ".detectctl"
	redisPrefix  = "detectctl:"
)

// ClientOptions defines options for configuring a detection client.
type ClientOptions struct {
	URL  string      `yaml:"url" json:"url"`
	Auth *ClientAuth `yaml:"auth,omitempty" json:"auth,omitempty"`

	Logger *zerolog.Logger `yaml:"-" json:"-"`
}

// ClientAuth defines session options for a detection client.
type ClientAuth struct {
	// Store selects credential persistence: memory, file, bolt or redis
	Store     string `yaml:"store,omitempty" json:"store,omitempty"`
	StorePath string `yaml:"storePath,omitempty" json:"storePath,omitempty"`
	RedisAddr string `yaml:"redisAddr,omitempty" json:"redisAddr,omitempty"`
	// LogoutTimeoutMs bounds the best-effort token revocation on logout
	LogoutTimeoutMs int `yaml:"logoutTimeoutMs,omitempty" json:"logoutTimeoutMs,omitempty"`

	// Persistence allows injecting a credential store, Store is ignored when set.
	Persistence kv.Store `yaml:"-" json:"-"`
}

func (c *ClientOptions) Init() {
	if c.Auth == nil {
		c.Auth = &ClientAuth{}
	}
	if c.Auth.Store == "" {
		c.Auth.Store = "memory"
	}
	if c.Auth.RedisAddr == "" {
		c.Auth.RedisAddr = "localhost:6379"
	}
}

// NewClient creates a detection client with its credential persistence. The
// returned function releases the persistence and must be called once the client is no longer used.
func NewClient(ctx context.Context, options *ClientOptions) (*client.Client, func() error, error) {
	if options.URL == "" {
		return nil, nil, fmt.Errorf("url was empty")
	}
	options.Init()
	persistence, release, err := options.persistence(ctx)
	if err != nil {
		return nil, nil, err
	}
	authOptions := []auth.Option{auth.WithPersistence(persistence)}
	if options.Auth.LogoutTimeoutMs > 0 {
		authOptions = append(authOptions, auth.WithLogoutTimeout(time.Duration(options.Auth.LogoutTimeoutMs)*time.Millisecond))
	}
	clientOptions := []client.Option{client.WithAuthOptions(authOptions...)}
	if options.Logger != nil {
		clientOptions = append(clientOptions, client.WithLogger(*options.Logger))
	}
	cli := client.New(ctx, options.URL, clientOptions...)
	return cli, release, nil
}

// persistence returns credential persistence selected by Auth.Store with its release function
func (c *ClientOptions) persistence(ctx context.Context) (kv.Store, func() error, error) {
	noop := func() error { return nil }
	if c.Auth.Persistence != nil {
		return c.Auth.Persistence, noop, nil
	}
	switch c.Auth.Store {
	case "memory":
		return kv.NewMemoryStore(), noop, nil
	case "file":
		location, err := c.storePath("")
		if err != nil {
			return nil, nil, err
		}
		return kv.NewFileStore(location), noop, nil
	case "bolt":
		location, err := c.storePath("session.db")
		if err != nil {
			return nil, nil, err
		}
		if err = os.MkdirAll(filepath.Dir(location), 0700); err != nil {
			return nil, nil, err
		}
		store, err := kv.OpenBoltStore(location)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case "redis":
		redisClient := redis.NewClient(&redis.Options{Addr: c.Auth.RedisAddr})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			_ = redisClient.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis %v: %w", c.Auth.RedisAddr, err)
		}
		return kv.NewRedisStore(redisClient, redisPrefix), redisClient.Close, nil
	}
	return nil, nil, fmt.Errorf("unsupported store: %v", c.Auth.Store)
}

func (c *ClientOptions) storePath(name string) (string, error) {
	if c.Auth.StorePath != "" {
		return c.Auth.StorePath, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory, set store path: %w", err)
	}
	return filepath.Join(home, appDirectory, name), nil
}
