// Package weft provides a single-threaded, poll-driven cooperative task
// runtime for Go.
//
// This library implements an execution model where futures are inert values
// that make progress only when polled, and an executor drives them on one
// goroutine, parking when nothing is runnable. Concurrency comes from
// interleaving many tasks at their suspension points, not from running
// them in parallel.
//
// # Quick Start
//
// Run a future to completion on a fresh runtime:
//
//	result := weft.Run(weft.Ready(42))
//
// Or keep the runtime around, spawn tasks and wait for them:
//
//	rt := weft.NewRuntime()
//	handle := weft.Spawn(rt, weft.After(10*time.Millisecond))
//	weft.BlockOn(rt, handle)
//
// # Key Concepts
//
// Future: the unit of suspended work. A Future's Poll either completes with
// a value or arranges, via the Waker in its Context, to be polled again
// once it can make progress.
//
// Waker: a cloneable, thread-safe handle that marks one task runnable and
// unparks the executor. Wakers may fire from any goroutine, which is how
// ordinary goroutines feed events into the runtime.
//
// Runtime: the executor. BlockOn drives a root future and every spawned
// task on the calling goroutine, sleeping until a wake or the nearest
// timer deadline when nothing is ready.
//
// Channel: an unbounded multi-producer single-consumer channel whose
// receive side is a Future. Messages from all senders arrive in global
// send order.
//
// Mutex: an asynchronous lock with strict ticket fairness. Waiting tasks
// are suspended, not blocked, and a waiter that gives up hands an
// already-granted lock onward instead of stranding it.
//
// # Single-Threaded Execution
//
// All polling happens on the goroutine that called BlockOn, so task code
// needs no locks for state only tasks touch. Senders, Wakers, Spawn and
// Cancel are safe from any goroutine; they are the boundary where the
// outside world synchronizes with the runtime.
//
// # Example
//
//	import (
//		"fmt"
//
//		weft "github.com/weft-rt/weft"
//	)
//
//	func main() {
//		rt := weft.NewRuntime()
//		tx, rx := weft.NewChannel[int]()
//
//		go func() {
//			for i := 1; i <= 3; i++ {
//				tx.Send(i)
//			}
//			tx.Close()
//		}()
//
//		sum := 0
//		recv := rx.Recv()
//		weft.BlockOn(rt, weft.FutureFunc[struct{}](func(cx *weft.Context) (struct{}, bool) {
//			for {
//				item, ok := recv.Poll(cx)
//				if !ok {
//					return struct{}{}, false // waker registered, poll again on wake
//				}
//				if !item.OK {
//					return struct{}{}, true // all senders closed, stream drained
//				}
//				sum += item.Value
//				recv = rx.Recv()
//			}
//		}))
//		fmt.Println(sum) // 6
//	}
//
// For more details, see https://github.com/weft-rt/weft
package weft
