// Package pricing implements the charge amount engine: the service amount
// calculator, the per-rule evaluator, and the ordered rule chain that
// produces a final amount with its audit breakdown. Everything here is pure
// computation; persistence belongs to the callers.
package pricing

import (
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/sysnyx/syspay/internal/clock"
)

// EvalContext carries optional overrides for a single evaluation. A nil
// context or a nil Time falls back to the engine clock.
type EvalContext struct {
	Time *time.Time
}

type Engine struct {
	clk clock.Clock
	log *zap.Logger
}

type Params struct {
	fx.In

	Clock clock.Clock
	Log   *zap.Logger
}

func New(p Params) *Engine {
	return &Engine{
		clk: p.Clock,
		log: p.Log.Named("pricing.engine"),
	}
}

var Module = fx.Module("pricing",
	fx.Provide(New),
)
