package recorder

import (
	"fmt"
	"net/url"

	"StonksPoller/internal/config"
)

// BuildConnString builds a PostgreSQL connection string addressing namespace.
// A configured URL keeps its credentials and query and gets namespace as its
// database; otherwise the string is assembled from the host fields.
func BuildConnString(cfg config.DatabaseConfig, namespace string) string {
	if cfg.URL != "" {
		u, err := url.Parse(cfg.URL)
		if err != nil || u.Scheme == "" {
			return cfg.URL + namespace
		}
		u.Path = "/" + namespace
		u.RawPath = ""
		return u.String()
	}

	// URL-encode password to handle special characters
	escapedPassword := url.QueryEscape(cfg.Password)

	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = config.DefaultDBSSLMode
	}
	port := cfg.Port
	if port == 0 {
		port = config.DefaultDBPort
	}

	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(cfg.User),
		escapedPassword,
		cfg.Host,
		port,
		url.PathEscape(namespace),
		sslMode,
	)
}
