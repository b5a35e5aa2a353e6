package clock

import (
	"context"
	"time"
)

// Clock supplies the current time to components that make time-dependent
// decisions (peak-hour pricing rules, session expiry). It is injected rather
// than read ambiently so evaluations stay deterministic under test.
type Clock interface {
	Now(ctx context.Context) time.Time
}
