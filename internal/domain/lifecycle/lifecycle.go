// Package lifecycle holds shared process lifecycle constants.
package lifecycle

import "time"

// DefaultTimeout bounds startup and shutdown hooks (DB ping, HTTP drain).
const DefaultTimeout = 10 * time.Second
