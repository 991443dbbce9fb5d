package engine

import "go.uber.org/fx"

// FXModule wires the recommendation engine into Fx.
//
// It provides:
//   - Config   (NewConfig)
//   - *Engine  (NewEngine)
var FXModule = fx.Module("engine",
	fx.Provide(
		NewConfig,
		NewEngine,
	),
)
