// Package delivery defines the contract every transport front end implements.
package delivery

import "context"

// Delivery is a long-running request front end, e.g. the HTTP server.
// Implementations block in Serve until the context ends or the server stops.
type Delivery interface {
	Serve(ctx context.Context) error
}
