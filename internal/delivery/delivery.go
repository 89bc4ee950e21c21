// Package delivery defines the contract every inbound adapter fulfils.
package delivery

import "context"

// Delivery is a long-running inbound adapter, e.g. the HTTP server.
// Serve blocks until the adapter stops or the context is cancelled.
type Delivery interface {
	Serve(ctx context.Context) error
}
