package neo4jdb

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/yungbote/shelfsignal-backend/internal/platform/logger"
	"github.com/yungbote/shelfsignal-backend/internal/utils"
)

// Config carries the graph store connection settings. The catalog graph is
// an optional projection of the relational catalog, so an empty URI means
// "no graph store" rather than an error.
type Config struct {
	URI         string
	User        string
	Password    string
	Database    string
	ConnTimeout time.Duration
	MaxPoolSize int
}

type Client struct {
	Driver   neo4j.DriverWithContext
	Database string
	log      *logger.Logger
}

func configFromEnv(log *logger.Logger) Config {
	timeoutSec := utils.GetEnvAsInt("NEO4J_TIMEOUT_SECONDS", 10, log)
	return Config{
		URI:         strings.TrimSpace(os.Getenv("NEO4J_URI")),
		User:        utils.GetEnv("NEO4J_USER", "neo4j", log),
		Password:    os.Getenv("NEO4J_PASSWORD"),
		Database:    strings.TrimSpace(os.Getenv("NEO4J_DATABASE")),
		ConnTimeout: time.Duration(timeoutSec) * time.Second,
		MaxPoolSize: utils.GetEnvAsInt("NEO4J_MAX_POOL_SIZE", 50, log),
	}
}

// NewFromEnv returns (nil, nil) when NEO4J_URI is unset so callers can treat
// the graph store as optional.
func NewFromEnv(log *logger.Logger) (*Client, error) {
	if log == nil {
		return nil, fmt.Errorf("neo4jdb: logger required")
	}
	cfg := configFromEnv(log)
	if cfg.URI == "" {
		return nil, nil
	}
	return New(log, cfg)
}

// New connects, verifies connectivity, and returns a ready client.
func New(log *logger.Logger, cfg Config) (*Client, error) {
	if log == nil {
		return nil, fmt.Errorf("neo4jdb: logger required")
	}
	if cfg.URI == "" {
		return nil, fmt.Errorf("neo4jdb: missing uri")
	}
	if cfg.ConnTimeout <= 0 {
		cfg.ConnTimeout = 10 * time.Second
	}
	if cfg.MaxPoolSize <= 0 {
		cfg.MaxPoolSize = 50
	}

	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.User, cfg.Password, ""), func(c *neo4j.Config) {
		c.MaxConnectionPoolSize = cfg.MaxPoolSize
		c.SocketConnectTimeout = cfg.ConnTimeout
	})
	if err != nil {
		return nil, fmt.Errorf("neo4jdb: init driver: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnTimeout)
	defer cancel()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("neo4jdb: verify connectivity: %w", err)
	}

	return &Client{
		Driver:   driver,
		Database: cfg.Database,
		log:      log.With("client", "Neo4jDB"),
	}, nil
}

func (c *Client) Close(ctx context.Context) error {
	if c == nil || c.Driver == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := c.Driver.Close(ctx)
	c.Driver = nil
	return err
}
