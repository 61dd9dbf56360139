// Package datawarehouse reads curated facility insights and the program overview from
// the MS SQL Server data warehouse. Access is read-only.
package datawarehouse

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "github.com/microsoft/go-mssqldb" // MS SQL Server driver
	"github.com/straye-as/portfolio-api/internal/config"
	"go.uber.org/zap"
)

const (
	connectAttempts       = 3
	connectInitialBackoff = 1 * time.Second
	connectMaxBackoff     = 10 * time.Second

	pingTimeout         = 5 * time.Second
	defaultQueryTimeout = 30 * time.Second
	defaultPort         = "1433"
)

// Client is a pooled, read-only warehouse connection
type Client struct {
	db           *sql.DB
	logger       *zap.Logger
	queryTimeout time.Duration
}

// HealthStatus is reported by the readiness probe
type HealthStatus struct {
	Status    string `json:"status"`
	LatencyMs int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
	Open      int    `json:"open_connections"`
	InUse     int    `json:"in_use"`
	Idle      int    `json:"idle"`
}

// NewClient connects to the warehouse. It returns a nil client and no error when the
// warehouse is disabled or its credentials are missing, so callers can run without it.
func NewClient(cfg *config.DataWarehouseConfig, logger *zap.Logger) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		logger.Info("Data warehouse connection disabled")
		return nil, nil
	}
	if cfg.URL == "" || cfg.User == "" || cfg.Password == "" {
		logger.Warn("Data warehouse enabled but missing credentials, skipping connection",
			zap.Bool("url_present", cfg.URL != ""),
			zap.Bool("user_present", cfg.User != ""),
			zap.Bool("password_present", cfg.Password != ""),
		)
		return nil, nil
	}

	dsn, err := buildConnectionString(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build connection string: %w", err)
	}

	db, err := connect(dsn, cfg, logger)
	if err != nil {
		return nil, err
	}

	logger.Info("Data warehouse connected",
		zap.Int("max_open_conns", cfg.MaxOpenConns),
		zap.Int("query_timeout_seconds", cfg.QueryTimeout),
	)
	return NewClientFromDB(db, cfg.QueryTimeoutDuration(), logger), nil
}

// connect opens and pings the pool, backing off between failed attempts
func connect(dsn string, cfg *config.DataWarehouseConfig, logger *zap.Logger) (*sql.DB, error) {
	backoff := connectInitialBackoff
	var lastErr error

	for attempt := 1; attempt <= connectAttempts; attempt++ {
		if attempt > 1 {
			time.Sleep(backoff)
			backoff = min(backoff*2, connectMaxBackoff)
		}

		db, err := sql.Open("sqlserver", dsn)
		if err != nil {
			lastErr = err
			logger.Warn("Failed to open data warehouse connection", zap.Int("attempt", attempt), zap.Error(err))
			continue
		}

		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

		ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		err = db.PingContext(ctx)
		cancel()
		if err != nil {
			lastErr = err
			_ = db.Close()
			logger.Warn("Data warehouse ping failed", zap.Int("attempt", attempt), zap.Error(err))
			continue
		}
		return db, nil
	}

	return nil, fmt.Errorf("failed to connect to data warehouse after %d attempts: %w", connectAttempts, lastErr)
}

// NewClientFromDB wraps an already opened handle. Close closes it.
func NewClientFromDB(db *sql.DB, queryTimeout time.Duration, logger *zap.Logger) *Client {
	if queryTimeout <= 0 {
		queryTimeout = defaultQueryTimeout
	}
	return &Client{
		db:           db,
		logger:       logger,
		queryTimeout: queryTimeout,
	}
}

// buildConnectionString turns "host[:port][/database]" into a sqlserver URL
func buildConnectionString(cfg *config.DataWarehouseConfig) (string, error) {
	hostPort, database, _ := strings.Cut(cfg.URL, "/")
	host, port, found := strings.Cut(hostPort, ":")
	if !found || port == "" {
		port = defaultPort
	}
	if host == "" {
		return "", fmt.Errorf("warehouse URL %q has no host", cfg.URL)
	}

	query := url.Values{}
	query.Add("encrypt", "true")
	query.Add("TrustServerCertificate", "false")
	query.Add("connection timeout", "30")
	if database != "" {
		query.Add("database", database)
	}

	u := &url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     host + ":" + port,
		RawQuery: query.Encode(),
	}
	return u.String(), nil
}

// Close releases the pool. It is safe on a nil client.
func (c *Client) Close() error {
	if !c.IsEnabled() {
		return nil
	}
	if err := c.db.Close(); err != nil {
		return fmt.Errorf("failed to close data warehouse connection: %w", err)
	}
	c.logger.Info("Data warehouse connection closed")
	return nil
}

// HealthCheck pings the warehouse. A nil client reports "disabled".
func (c *Client) HealthCheck(ctx context.Context) *HealthStatus {
	if !c.IsEnabled() {
		return &HealthStatus{Status: "disabled"}
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	start := time.Now()
	err := c.db.PingContext(ctx)
	stats := c.db.Stats()

	status := &HealthStatus{
		Status:    "healthy",
		LatencyMs: time.Since(start).Milliseconds(),
		Open:      stats.OpenConnections,
		InUse:     stats.InUse,
		Idle:      stats.Idle,
	}
	if err != nil {
		c.logger.Warn("Data warehouse health check failed", zap.Error(err))
		status.Status = "unhealthy"
		status.Error = err.Error()
	}
	return status
}

// IsEnabled reports whether the client holds an open pool
func (c *Client) IsEnabled() bool {
	return c != nil && c.db != nil
}

// queryRow runs a query expected to return at most one row and returns it keyed by
// column name, or nil when there is no row
func (c *Client) queryRow(ctx context.Context, query string, args ...interface{}) (map[string]interface{}, error) {
	if !c.IsEnabled() {
		return nil, fmt.Errorf("data warehouse client not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, c.queryTimeout)
	defer cancel()

	start := time.Now()
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		c.logger.Error("Data warehouse query failed",
			zap.String("query", query),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("query execution failed: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get column names: %w", err)
	}
	if !rows.Next() {
		return nil, rows.Err()
	}

	values := make([]interface{}, len(columns))
	ptrs := make([]interface{}, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, fmt.Errorf("failed to scan row: %w", err)
	}

	row := make(map[string]interface{}, len(columns))
	for i, col := range columns {
		row[col] = values[i]
	}
	return row, nil
}
