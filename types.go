package weft

import "github.com/weft-rt/weft/core"

// Re-export commonly used types from core package for convenience.
// This allows users to import only the weft package for most use cases.

// Future is the unit of suspended work
type Future[T any] = core.Future[T]

// FutureFunc adapts a plain function to the Future interface
type FutureFunc[T any] = core.FutureFunc[T]

// Context carries the Waker a poll uses to arrange its next wake-up
type Context = core.Context

// Waker marks one task runnable and unparks the executor
type Waker = core.Waker

// Runtime drives tasks on the goroutine that calls BlockOn
type Runtime = core.Runtime

// RuntimeConfig holds configuration options for a Runtime
type RuntimeConfig = core.RuntimeConfig

// JoinHandle is a Future for the result of a spawned task
type JoinHandle[T any] = core.JoinHandle[T]

// Sender is a cloneable producer handle of a channel
type Sender[T any] = core.Sender[T]

// Receiver is the single consumer handle of a channel
type Receiver[T any] = core.Receiver[T]

// RecvFuture is one pending receive
type RecvFuture[T any] = core.RecvFuture[T]

// Item is one step of a receive stream (a message, or end of stream)
type Item[T any] = core.Item[T]

// Mutex is an asynchronous, ticket-fair lock around a value
type Mutex[T any] = core.Mutex[T]

// Acquire is the Future side of Mutex.Lock
type Acquire[T any] = core.Acquire[T]

// Guard is exclusive access to a Mutex-protected value
type Guard[T any] = core.Guard[T]

// Delay is a Future that completes once a deadline has passed
type Delay = core.Delay

// Either is the result of a Select; exactly one side is populated
type Either[L, R any] = core.Either[L, R]

// Observability types
type (
	Logger       = core.Logger
	Field        = core.Field
	Metrics      = core.Metrics
	RuntimeStats = core.RuntimeStats
	TaskRecord   = core.TaskRecord
)

// ErrReceiverClosed is returned by Sender.Send once the receiver is gone
var ErrReceiverClosed = core.ErrReceiverClosed

// Convenience re-exports
var (
	NewRuntime           = core.NewRuntime
	NewRuntimeWithConfig = core.NewRuntimeWithConfig
	DefaultRuntimeConfig = core.DefaultRuntimeConfig
	NewDefaultLogger     = core.NewDefaultLogger
	NewNoOpLogger        = core.NewNoOpLogger
	F                    = core.F
	After                = core.After
	AtTime               = core.AtTime
)

// BlockOn runs the Runtime until f completes and returns f's result.
func BlockOn[T any](rt *Runtime, f Future[T]) T {
	return core.BlockOn(rt, f)
}

// Spawn submits f to the runtime as an independent task.
func Spawn[T any](rt *Runtime, f Future[T]) *JoinHandle[T] {
	return core.Spawn(rt, f)
}

// NewChannel creates an unbounded multi-producer single-consumer channel.
func NewChannel[T any]() (*Sender[T], *Receiver[T]) {
	return core.NewChannel[T]()
}

// NewMutex creates an unlocked Mutex guarding v.
func NewMutex[T any](v T) *Mutex[T] {
	return core.NewMutex(v)
}

// Ready returns a Future that is immediately complete with v.
func Ready[T any](v T) Future[T] {
	return core.Ready(v)
}

// Map returns a Future that applies fn to f's result.
func Map[A, B any](f Future[A], fn func(A) B) Future[B] {
	return core.Map(f, fn)
}

// Then chains a second future built from the first one's result.
func Then[A, B any](f Future[A], fn func(A) Future[B]) Future[B] {
	return core.Then(f, fn)
}

// Select races two futures and completes with the first winner.
func Select[L, R any](left Future[L], right Future[R]) Future[Either[L, R]] {
	return core.Select(left, right)
}
