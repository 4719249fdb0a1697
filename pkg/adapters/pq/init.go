package pq

import (
	"log/slog"

	"github.com/leapstack-labs/sqlscript/pkg/adapter"
)

func init() {
	adapter.Register("pq", func(logger *slog.Logger) adapter.Adapter { return New(logger) })
}
