// Package http provides the HTTP API of the bluegreen server.
//
// The HTTP server exposes endpoints for:
//   - A greeting that echoes the deployment colour
//   - Health checks
//   - Prometheus metrics (optional)
//
// Every other path answers 404.
package http
