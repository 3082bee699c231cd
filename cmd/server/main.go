// cmd/server/main.go
// ------------------------------------------------------------------
// Zona Ei voice skill – HTTPS endpoint (Go)
// ------------------------------------------------------------------
// Responsibilities:
//   - Accept skill request envelopes from the voice platform over HTTPS
//   - Route each turn to the handler for its (intent, app state) pair
//   - Read programs and projects from the data API (or Postgres)
//   - Keep a short transcript of each session in Redis
//   - Serve gRPC health and Prometheus metrics
//
// Build:
//
//	go run ./cmd/server serve      # dev
//	CGO_ENABLED=0 go build -o zonaei ./cmd/server
//
// Env vars: see internal/config (ZONAEI_*), LOG_LEVEL, LOG_FORMAT.
// ------------------------------------------------------------------
package main

func main() {
	Execute()
}
