// Package api implements the HTTP REST API for scanservd.
//
// This package provides:
//   - REST endpoints for the device capability model (get, refresh, reset)
//   - Refresh history queries backed by SQLite
//   - Middleware stack (request ID, logging, recovery, CORS)
//   - TLS support for production deployments
//
// # Architecture
//
// The API server sits between HTTP clients and the capability provider.
// GET requests serve the cached device model when it is valid; refresh
// and reset requests manipulate the cache and re-run the scanner tool.
//
// # Graceful Degradation
//
// The server runs without the history repository: capability endpoints
// keep working and only /history returns 503, so the service stays up
// when the database is unavailable.
package api
