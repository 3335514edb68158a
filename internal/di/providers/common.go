package providers

import "time"

const (
	// shutdownTimeout is the maximum time to wait for graceful shutdown of services.
	shutdownTimeout = 30 * time.Second

	// startupTimeout bounds connecting to the database and rebuilding the search index.
	startupTimeout = 2 * time.Minute
)
