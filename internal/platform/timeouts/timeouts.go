// Package timeouts defines shared timeout constants used by the server and
// its storage backends.
package timeouts

import "time"

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// StorageDial caps the wait time when connecting to an external store.
const StorageDial = 2 * time.Second
