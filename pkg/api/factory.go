package api

import (
	"go.uber.org/zap"

	"github.com/ssargent/stdfkit/pkg/metrics"
	"github.com/ssargent/stdfkit/pkg/schema"
)

// DefaultServerFactory is the default implementation of ServerFactory
type DefaultServerFactory struct{}

// NewServerFactory creates a new server factory
func NewServerFactory() ServerFactory {
	return &DefaultServerFactory{}
}

// CreateServer creates a server starter
func (f *DefaultServerFactory) CreateServer(
	idx IRecordIndex,
	reg *schema.Registry,
	config ServerConfig,
	m *metrics.Metrics,
	logger *zap.Logger,
) ServerStarter {
	return NewServer(idx, reg, config, m, logger)
}
