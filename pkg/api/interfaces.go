package api

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ssargent/stdfkit/pkg/index"
	"github.com/ssargent/stdfkit/pkg/metrics"
	"github.com/ssargent/stdfkit/pkg/record"
	"github.com/ssargent/stdfkit/pkg/schema"
)

// IRecordIndex defines the index operations the server exposes
type IRecordIndex interface {
	Add(path string) (index.FileMeta, error)
	Files() ([]index.FileMeta, error)
	File(id string) (index.FileMeta, error)
	Entries(id string, code record.TypeCode) ([]index.Entry, error)
	Lookup(id string, code record.TypeCode, seq uint32) (index.Entry, error)
	ReadRecord(id string, code record.TypeCode, seq uint32) (record.Record, error)
	Remove(id string) error
}

var _ IRecordIndex = (*index.Index)(nil)

// ServerStarter runs the HTTP service until ctx is cancelled
type ServerStarter interface {
	ListenAndServe(ctx context.Context, gatherer prometheus.Gatherer) error
}

// ServerFactory creates server instances
type ServerFactory interface {
	CreateServer(idx IRecordIndex, reg *schema.Registry, config ServerConfig, m *metrics.Metrics, logger *zap.Logger) ServerStarter
}
