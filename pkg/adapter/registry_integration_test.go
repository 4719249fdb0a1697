package adapter_test

import (
	"testing"

	"github.com/leapstack-labs/sqlscript/pkg/adapter"
	"github.com/leapstack-labs/sqlscript/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	// Import adapter packages to ensure adapters are registered via init()
	_ "github.com/leapstack-labs/sqlscript/pkg/adapters/duckdb"
	_ "github.com/leapstack-labs/sqlscript/pkg/adapters/postgres"
	_ "github.com/leapstack-labs/sqlscript/pkg/adapters/pq"
	_ "github.com/leapstack-labs/sqlscript/pkg/adapters/sqlite"
)

func TestSelfRegistration(t *testing.T) {
	for _, name := range []string{"duckdb", "postgres", "pq", "sqlite"} {
		assert.True(t, adapter.IsRegistered(name), "%s adapter should be auto-registered", name)
	}
}

func TestListAdapters(t *testing.T) {
	adapters := adapter.ListAdapters()

	assert.Contains(t, adapters, "duckdb")
	assert.Contains(t, adapters, "postgres")
	assert.Contains(t, adapters, "pq")
	assert.Contains(t, adapters, "sqlite")
}

func TestIsRegistered(t *testing.T) {
	tests := []struct {
		name        string
		adapterName string
		expected    bool
	}{
		{"duckdb registered", "duckdb", true},
		{"postgres registered", "postgres", true},
		{"postgres uppercase", "POSTGRES", true},
		{"unknown not registered", "unknown_db", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := adapter.IsRegistered(tt.adapterName)
			assert.Equal(t, tt.expected, got, "IsRegistered(%q)", tt.adapterName)
		})
	}
}

func TestNewAdapter_Success(t *testing.T) {
	tests := []struct {
		typ     string
		dialect string
	}{
		{"postgres", "postgres"},
		{"pq", "pq"},
		{"duckdb", "duckdb"},
		{"sqlite", "sqlite"},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			adp, err := adapter.NewAdapter(core.AdapterConfig{Type: tt.typ}, nil)
			require.NoError(t, err)
			require.NotNil(t, adp)
			assert.Equal(t, tt.dialect, adp.DialectName())
			assert.NoError(t, adp.Close(), "closing an unconnected adapter is a no-op")
		})
	}
}
