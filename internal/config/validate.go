package config

import (
	"fmt"
	"strings"
)

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
var validLogFormats = map[string]bool{"json": true, "text": true}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	var problems []string

	if c.Database.Host == "" {
		problems = append(problems, "database.host is required")
	}
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		problems = append(problems, fmt.Sprintf("database.port must be between 1 and 65535, got %d", c.Database.Port))
	}
	if c.Database.User == "" {
		problems = append(problems, "database.user is required")
	}
	if c.Database.Database == "" {
		problems = append(problems, "database.database is required")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		problems = append(problems, "database.max_idle_conns cannot exceed database.max_open_conns")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("server.port must be between 1 and 65535, got %d", c.Server.Port))
	}

	names := c.Query.ReservedNames()
	seen := map[string]string{}
	for key, name := range map[string]string{
		"query.page_arg":     names.Page,
		"query.distinct_arg": names.Distinct,
		"query.where_arg":    names.Where,
	} {
		if other, dup := seen[name]; dup {
			problems = append(problems, fmt.Sprintf("%s and %s both use the name %q", key, other, name))
		}
		seen[name] = key
	}

	if !validLogLevels[c.Observability.Logging.Level] {
		problems = append(problems, fmt.Sprintf("observability.logging.level must be debug, info, warn, or error, got %q", c.Observability.Logging.Level))
	}
	if !validLogFormats[c.Observability.Logging.Format] {
		problems = append(problems, fmt.Sprintf("observability.logging.format must be json or text, got %q", c.Observability.Logging.Format))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}

// DSN builds the MySQL driver connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
		c.User, c.Password, c.Host, c.Port, c.Database)
}
