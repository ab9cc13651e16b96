package apiclient

import "time"

// HealthStatus is the server's answer to a health probe.
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Data      map[string]string `json:"data,omitempty"`
	Error     string            `json:"error,omitempty"`
}

// Healthy returns true if the server reported itself healthy.
func (h *HealthStatus) Healthy() bool {
	return h.Status == "healthy"
}

// Health checks server liveness. It needs no token.
func (c *Client) Health() (*HealthStatus, error) {
	return getResource[HealthStatus](c, "/health")
}

// Ready checks server readiness, including the metadata store and the blob
// backend. A degraded server answers 503; the returned APIError carries the
// failing dependency in its detail.
func (c *Client) Ready() (*HealthStatus, error) {
	return getResource[HealthStatus](c, "/health/ready")
}
