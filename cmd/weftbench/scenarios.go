package main

import (
	"fmt"
	"time"

	weft "github.com/weft-rt/weft"
	"golang.org/x/sync/errgroup"
)

type scenarioReport struct {
	headline string
	details  []string
}

type scenario struct {
	description string
	run         func(rt *weft.Runtime, cfg ScenarioConfig) (scenarioReport, error)
}

var scenarios = map[string]scenario{
	"pipeline": {
		description: "external producer goroutines feed one consumer task over the channel",
		run:         runPipelineScenario,
	},
	"fairlock": {
		description: "tasks contend for the ticket-fair mutex while holding it across sleeps",
		run:         runFairlockScenario,
	},
	"race": {
		description: "a lock attempt races a timeout and withdraws its ticket on loss",
		run:         runRaceScenario,
	},
}

func joinAll[T any](handles []*weft.JoinHandle[T]) weft.Future[struct{}] {
	done := make([]bool, len(handles))
	return weft.FutureFunc[struct{}](func(cx *weft.Context) (struct{}, bool) {
		all := true
		for i, h := range handles {
			if done[i] {
				continue
			}
			if _, ok := h.Poll(cx); ok {
				done[i] = true
			} else {
				all = false
			}
		}
		return struct{}{}, all
	})
}

type message struct {
	Producer int
	Seq      int
}

// runPipelineScenario feeds the runtime from outside: plain goroutines send
// over the channel while the consumer task drains it, so every wake crosses
// a thread boundary and exercises the park/unpark path.
func runPipelineScenario(rt *weft.Runtime, cfg ScenarioConfig) (scenarioReport, error) {
	tx, rx := weft.NewChannel[message]()

	var g errgroup.Group
	for p := 0; p < cfg.Producers; p++ {
		handle := tx.Clone()
		id := p
		g.Go(func() error {
			defer handle.Close()
			for i := 0; i < cfg.MessagesPerProducer; i++ {
				if err := handle.Send(message{Producer: id, Seq: i}); err != nil {
					return fmt.Errorf("producer %d: %w", id, err)
				}
				if gap := cfg.producerGap(); gap > 0 {
					time.Sleep(gap)
				}
			}
			return nil
		})
	}
	tx.Close()

	total := 0
	violations := 0
	next := make([]int, cfg.Producers)
	recv := rx.Recv()
	weft.BlockOn(rt, weft.FutureFunc[struct{}](func(cx *weft.Context) (struct{}, bool) {
		for {
			item, ok := recv.Poll(cx)
			if !ok {
				return struct{}{}, false
			}
			if !item.OK {
				return struct{}{}, true
			}
			m := item.Value
			if m.Seq != next[m.Producer] {
				violations++
			}
			next[m.Producer] = m.Seq + 1
			total++
			recv = rx.Recv()
		}
	}))

	if err := g.Wait(); err != nil {
		return scenarioReport{}, err
	}

	want := cfg.Producers * cfg.MessagesPerProducer
	if total != want {
		return scenarioReport{}, fmt.Errorf("received %d messages, want %d", total, want)
	}

	return scenarioReport{
		headline: fmt.Sprintf("pipeline: %d messages from %d producers", total, cfg.Producers),
		details: []string{
			fmt.Sprintf("per-producer order violations: %d", violations),
			"end of stream observed after the last producer closed",
		},
	}, nil
}

type lockLedger struct {
	order []int
}

func lockWorker(m *weft.Mutex[lockLedger], id, rounds int, hold time.Duration) weft.Future[int] {
	var acq *weft.Acquire[lockLedger]
	var g *weft.Guard[lockLedger]
	var wait *weft.Delay
	round := 0
	return weft.FutureFunc[int](func(cx *weft.Context) (int, bool) {
		for {
			if round == rounds {
				return round, true
			}
			if acq == nil {
				acq = m.Lock()
			}
			if g == nil {
				gg, ok := acq.Poll(cx)
				if !ok {
					return 0, false
				}
				g = gg
				wait = weft.After(hold)
			}
			if _, ok := wait.Poll(cx); !ok {
				return 0, false
			}
			led := g.Get()
			led.order = append(led.order, id)
			g.Unlock()
			acq, g, wait = nil, nil, nil
			round++
		}
	})
}

// runFairlockScenario verifies that relocking joins the back of the queue:
// with a hold long enough for every worker to queue up, acquisitions cycle
// round-robin through the workers in spawn order.
func runFairlockScenario(rt *weft.Runtime, cfg ScenarioConfig) (scenarioReport, error) {
	m := weft.NewMutex(lockLedger{})

	handles := make([]*weft.JoinHandle[int], 0, cfg.Workers)
	for w := 0; w < cfg.Workers; w++ {
		handles = append(handles, weft.Spawn(rt, lockWorker(m, w, cfg.Rounds, cfg.holdFor())))
	}
	weft.BlockOn(rt, joinAll(handles))

	g := weft.BlockOn(rt, m.Lock())
	order := append([]int(nil), g.Get().order...)
	g.Unlock()

	want := cfg.Workers * cfg.Rounds
	if len(order) != want {
		return scenarioReport{}, fmt.Errorf("recorded %d acquisitions, want %d", len(order), want)
	}
	deviations := 0
	for k, id := range order {
		if id != k%cfg.Workers {
			deviations++
		}
	}

	return scenarioReport{
		headline: fmt.Sprintf("fairlock: %d workers, %d rounds each, %d acquisitions", cfg.Workers, cfg.Rounds, want),
		details: []string{
			fmt.Sprintf("round-robin deviations: %d", deviations),
			fmt.Sprintf("lock held %v per acquisition", cfg.holdFor()),
		},
	}, nil
}

// runRaceScenario holds the lock, races a second attempt against a timeout,
// and then proves the loser withdrew its ticket by reacquiring immediately.
func runRaceScenario(rt *weft.Runtime, cfg ScenarioConfig) (scenarioReport, error) {
	m := weft.NewMutex(0)

	g := weft.BlockOn(rt, m.Lock())

	start := time.Now()
	res := weft.BlockOn(rt, weft.Select(m.Lock(), weft.After(cfg.raceTimeout())))
	waited := time.Since(start)
	if res.IsLeft {
		res.Left.Unlock()
		g.Unlock()
		return scenarioReport{}, fmt.Errorf("lock attempt won while the lock was held")
	}

	g.Unlock()

	reacquireStart := time.Now()
	res2 := weft.BlockOn(rt, weft.Select(m.Lock(), weft.After(5*time.Second)))
	if !res2.IsLeft {
		return scenarioReport{}, fmt.Errorf("reacquire timed out, the losing attempt stranded the lock")
	}
	res2.Left.Unlock()
	reacquired := time.Since(reacquireStart)

	return scenarioReport{
		headline: "race: timeout beat the lock attempt, lock stayed healthy",
		details: []string{
			fmt.Sprintf("timed out after %v (configured %v)", waited.Round(time.Millisecond), cfg.raceTimeout()),
			fmt.Sprintf("reacquired in %v after release", reacquired.Round(time.Millisecond)),
		},
	}, nil
}
