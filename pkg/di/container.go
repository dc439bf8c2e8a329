// Package di provides dependency injection container
package di

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/ssargent/stdfkit/pkg/api" //nolint:depguard
	"github.com/ssargent/stdfkit/pkg/config"
	"github.com/ssargent/stdfkit/pkg/index"
	"github.com/ssargent/stdfkit/pkg/metrics"
	"github.com/ssargent/stdfkit/pkg/schema"
	"github.com/ssargent/stdfkit/pkg/stdfile"
)

// Container holds all the dependencies for the application
type Container struct {
	config        *config.Config
	logger        *zap.Logger
	registry      *schema.Registry
	promRegistry  *prometheus.Registry
	metrics       *metrics.Metrics
	serverFactory api.ServerFactory

	indexOnce sync.Once
	index     *index.Index
	indexErr  error
}

// NewContainer creates a new dependency injection container. The config must
// have passed Validate.
func NewContainer(cfg *config.Config, logger *zap.Logger) *Container {
	if logger == nil {
		logger = zap.NewNop()
	}
	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Container{
		config:        cfg,
		logger:        logger,
		registry:      schema.MustV4(),
		promRegistry:  promRegistry,
		metrics:       metrics.New(promRegistry),
		serverFactory: api.NewServerFactory(),
	}
}

// Config returns the loaded configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the application logger
func (c *Container) Logger() *zap.Logger {
	return c.logger
}

// Registry returns the record schema registry
func (c *Container) Registry() *schema.Registry {
	return c.registry
}

// Metrics returns the Prometheus instrumentation
func (c *Container) Metrics() *metrics.Metrics {
	return c.metrics
}

// Gatherer returns the registry backing /metrics
func (c *Container) Gatherer() prometheus.Gatherer {
	return c.promRegistry
}

// ReaderConfig builds a file reader configuration for path from the config.
func (c *Container) ReaderConfig(path string) stdfile.ReaderConfig {
	cur, _ := c.config.Codec.CursorConfig()
	return stdfile.ReaderConfig{
		FilePath:        path,
		Cursor:          cur,
		DetectByteOrder: c.config.Reader.DetectByteOrder,
		Codec:           c.config.Codec.Options(),
		SkipMalformed:   c.config.Reader.SkipMalformed,
		Logger:          c.logger,
		Observer:        c.metrics,
	}
}

// WriterConfig builds a file writer configuration for path from the config.
func (c *Container) WriterConfig(path string) stdfile.WriterConfig {
	cur, _ := c.config.Codec.CursorConfig()
	return stdfile.WriterConfig{
		FilePath: path,
		Cursor:   cur,
		Logger:   c.logger,
		Observer: c.metrics,
	}
}

// ServerConfig builds the HTTP server configuration from the config.
func (c *Container) ServerConfig() api.ServerConfig {
	cur, _ := c.config.Codec.CursorConfig()
	s := c.config.Server
	return api.ServerConfig{
		Bind:            s.Bind,
		Port:            s.Port,
		APIKey:          s.APIKey,
		MaxBodySize:     s.MaxBodySize,
		CORSOrigins:     s.CORSOrigins,
		Cursor:          cur,
		Codec:           c.config.Codec.Options(),
		DetectByteOrder: c.config.Reader.DetectByteOrder,
		SkipMalformed:   c.config.Reader.SkipMalformed,
	}
}

// Index opens the record index on first use.
func (c *Container) Index() (*index.Index, error) {
	c.indexOnce.Do(func() {
		cur, _ := c.config.Codec.CursorConfig()
		c.index, c.indexErr = index.Open(index.Options{
			Dir:      c.config.Index.Dir,
			Registry: c.registry,
			Cursor:   cur,
			Logger:   c.logger,
			Metrics:  c.metrics,
		})
	})
	return c.index, c.indexErr
}

// GetServerFactory returns the server factory
func (c *Container) GetServerFactory() api.ServerFactory {
	return c.serverFactory
}

// SetServerFactory allows overriding the server factory (for testing)
func (c *Container) SetServerFactory(factory api.ServerFactory) {
	c.serverFactory = factory
}

// ErrClosed is returned by Index after Close.
var ErrClosed = errors.New("container closed")

// Close releases the index if it was opened. Later Index calls fail.
func (c *Container) Close() error {
	c.indexOnce.Do(func() {})
	idx := c.index
	c.index, c.indexErr = nil, ErrClosed
	if idx != nil {
		return idx.Close()
	}
	return nil
}
