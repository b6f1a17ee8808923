// Package metrics holds the service's Prometheus collectors and the echo
// middleware and handler that expose them.
//
// Collectors are registered on the default registry when the package is
// loaded, so /metrics also carries the Go runtime and process collectors.
package metrics
