// Package lifecycle holds process-wide lifecycle constants shared by the
// infrastructure and delivery layers.
package lifecycle

import "time"

// DefaultTimeout bounds start and stop hooks (database ping, server shutdown).
const DefaultTimeout = 10 * time.Second
