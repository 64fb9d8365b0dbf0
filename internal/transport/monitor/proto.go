// Package monitor exposes the daemon's loopback observation endpoint: a
// bootstrap snapshot, a live WebSocket feed of journal entries, and a dev
// command injector. It is a debugging surface for the developer's machine,
// not the external tool's protocol, and it refuses non-loopback callers.
package monitor

import "stagelink.dev/internal/bridge"

// Version of the monitor handshake.
const Version = "1.0"

// SubscribeMsg must be the first message on the feed socket.
type SubscribeMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
}

// BootstrapResponse answers GET /v1/bootstrap.
type BootstrapResponse struct {
	ProtocolVersion string `json:"protocol_version"`
	bridge.Status
}
