package weft

import "github.com/weft-rt/weft/core"

// Run drives f to completion on a fresh default-configured Runtime and
// returns its result. One-shot convenience for programs that need a single
// entry point and no handle on the runtime afterwards; everything else
// should create a Runtime and use BlockOn.
func Run[T any](f Future[T]) T {
	rt := core.NewRuntime()
	return core.BlockOn(rt, f)
}
