package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Host:         "127.0.0.1",
			Port:         3306,
			User:         "root",
			Database:     "library",
			MaxOpenConns: 25,
			MaxIdleConns: 5,
		},
		Server: ServerConfig{
			Port:            8080,
			ShutdownTimeout: 10 * time.Second,
		},
		Observability: ObservabilityConfig{
			ServiceName: "graphql-pagequery",
			Logging:     LoggingConfig{Level: "info", Format: "json"},
		},
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		message string
	}{
		{"missing host", func(c *Config) { c.Database.Host = "" }, "database.host"},
		{"missing user", func(c *Config) { c.Database.User = "" }, "database.user"},
		{"missing database", func(c *Config) { c.Database.Database = "" }, "database.database"},
		{"bad db port", func(c *Config) { c.Database.Port = 0 }, "database.port"},
		{"bad server port", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"idle exceeds open", func(c *Config) { c.Database.MaxIdleConns = 50 }, "max_idle_conns"},
		{"bad log level", func(c *Config) { c.Observability.Logging.Level = "verbose" }, "logging.level"},
		{"bad log format", func(c *Config) { c.Observability.Logging.Format = "xml" }, "logging.format"},
		{"colliding reserved names", func(c *Config) { c.Query.PageArg = "where" }, "both use the name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestReservedNamesOverrides(t *testing.T) {
	q := QueryConfig{PageArg: "paging", DistinctArg: "dedupe"}
	names := q.ReservedNames()
	assert.Equal(t, "paging", names.Page)
	assert.Equal(t, "dedupe", names.Distinct)
	assert.Equal(t, "where", names.Where)
}

func TestDSN(t *testing.T) {
	db := DatabaseConfig{Host: "db.internal", Port: 4000, User: "svc", Password: "secret", Database: "library"}
	assert.Equal(t, "svc:secret@tcp(db.internal:4000)/library?parseTime=true", db.DSN())
}
