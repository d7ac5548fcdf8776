package prometheus

import (
	"context"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/weft-rt/weft/core"
)

// RuntimeSnapshotProvider provides current runtime stats snapshots.
type RuntimeSnapshotProvider interface {
	Stats() core.RuntimeStats
}

// SnapshotPoller periodically exports runtime Stats() snapshots into Prometheus gauges.
type SnapshotPoller struct {
	interval time.Duration

	runtimesMu sync.RWMutex
	runtimes   map[string]RuntimeSnapshotProvider

	runtimeRunning   *prom.GaugeVec
	readyTasks       *prom.GaugeVec
	liveTasks        *prom.GaugeVec
	pendingTimers    *prom.GaugeVec
	polls            *prom.GaugeVec
	wakes            *prom.GaugeVec
	spawned          *prom.GaugeVec
	completed        *prom.GaugeVec
	parks            *prom.GaugeVec
	timersRegistered *prom.GaugeVec
	timersFired      *prom.GaugeVec

	stateMu sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewSnapshotPoller creates a snapshot poller and registers its collectors.
func NewSnapshotPoller(reg prom.Registerer, interval time.Duration) (*SnapshotPoller, error) {
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	if interval <= 0 {
		interval = time.Second
	}

	runtimeRunning := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "weft",
		Name:      "runtime_running",
		Help:      "Runtime running state (1=running, 0=idle).",
	}, []string{"runtime"})
	readyTasks := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "weft",
		Name:      "runtime_ready_tasks",
		Help:      "Number of tasks in the ready queue.",
	}, []string{"runtime"})
	liveTasks := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "weft",
		Name:      "runtime_live_tasks",
		Help:      "Number of spawned tasks not yet completed.",
	}, []string{"runtime"})
	pendingTimers := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "weft",
		Name:      "runtime_pending_timers",
		Help:      "Number of registered timers not yet fired.",
	}, []string{"runtime"})
	polls := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "weft",
		Name:      "runtime_polls_total",
		Help:      "Runtime poll count snapshot.",
	}, []string{"runtime"})
	wakes := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "weft",
		Name:      "runtime_wakes_total",
		Help:      "Runtime wake count snapshot.",
	}, []string{"runtime"})
	spawned := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "weft",
		Name:      "runtime_spawned_total",
		Help:      "Runtime spawned task count snapshot.",
	}, []string{"runtime"})
	completed := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "weft",
		Name:      "runtime_completed_total",
		Help:      "Runtime completed task count snapshot.",
	}, []string{"runtime"})
	parks := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "weft",
		Name:      "runtime_parks_total",
		Help:      "Runtime park count snapshot.",
	}, []string{"runtime"})
	timersRegistered := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "weft",
		Name:      "runtime_timers_registered_total",
		Help:      "Runtime registered timer count snapshot.",
	}, []string{"runtime"})
	timersFired := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "weft",
		Name:      "runtime_timers_fired_total",
		Help:      "Runtime fired timer count snapshot.",
	}, []string{"runtime"})

	var err error
	if runtimeRunning, err = registerCollector(reg, runtimeRunning); err != nil {
		return nil, err
	}
	if readyTasks, err = registerCollector(reg, readyTasks); err != nil {
		return nil, err
	}
	if liveTasks, err = registerCollector(reg, liveTasks); err != nil {
		return nil, err
	}
	if pendingTimers, err = registerCollector(reg, pendingTimers); err != nil {
		return nil, err
	}
	if polls, err = registerCollector(reg, polls); err != nil {
		return nil, err
	}
	if wakes, err = registerCollector(reg, wakes); err != nil {
		return nil, err
	}
	if spawned, err = registerCollector(reg, spawned); err != nil {
		return nil, err
	}
	if completed, err = registerCollector(reg, completed); err != nil {
		return nil, err
	}
	if parks, err = registerCollector(reg, parks); err != nil {
		return nil, err
	}
	if timersRegistered, err = registerCollector(reg, timersRegistered); err != nil {
		return nil, err
	}
	if timersFired, err = registerCollector(reg, timersFired); err != nil {
		return nil, err
	}

	return &SnapshotPoller{
		interval:         interval,
		runtimes:         make(map[string]RuntimeSnapshotProvider),
		runtimeRunning:   runtimeRunning,
		readyTasks:       readyTasks,
		liveTasks:        liveTasks,
		pendingTimers:    pendingTimers,
		polls:            polls,
		wakes:            wakes,
		spawned:          spawned,
		completed:        completed,
		parks:            parks,
		timersRegistered: timersRegistered,
		timersFired:      timersFired,
	}, nil
}

// AddRuntime adds or replaces a runtime snapshot provider by name.
func (p *SnapshotPoller) AddRuntime(name string, provider RuntimeSnapshotProvider) {
	if p == nil || provider == nil {
		return
	}
	name = normalizeLabel(name, "runtime")
	p.runtimesMu.Lock()
	p.runtimes[name] = provider
	p.runtimesMu.Unlock()
}

// Start begins periodic polling; repeated calls are no-ops.
func (p *SnapshotPoller) Start(ctx context.Context) {
	if p == nil {
		return
	}

	p.stateMu.Lock()
	if p.running {
		p.stateMu.Unlock()
		return
	}
	pollCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.running = true
	p.stateMu.Unlock()

	go p.loop(pollCtx)
}

// Stop stops periodic polling; repeated calls are safe.
func (p *SnapshotPoller) Stop() {
	if p == nil {
		return
	}

	p.stateMu.Lock()
	if !p.running {
		p.stateMu.Unlock()
		return
	}
	cancel := p.cancel
	done := p.done
	p.stateMu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}

	p.stateMu.Lock()
	p.running = false
	p.cancel = nil
	p.done = nil
	p.stateMu.Unlock()
}

func (p *SnapshotPoller) loop(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.collectOnce()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.collectOnce()
		}
	}
}

func (p *SnapshotPoller) collectOnce() {
	p.runtimesMu.RLock()
	for name, provider := range p.runtimes {
		stats := provider.Stats()
		if stats.Running {
			p.runtimeRunning.WithLabelValues(name).Set(1)
		} else {
			p.runtimeRunning.WithLabelValues(name).Set(0)
		}
		p.readyTasks.WithLabelValues(name).Set(float64(stats.ReadyTasks))
		p.liveTasks.WithLabelValues(name).Set(float64(stats.LiveTasks))
		p.pendingTimers.WithLabelValues(name).Set(float64(stats.PendingTimers))
		p.polls.WithLabelValues(name).Set(float64(stats.Polls))
		p.wakes.WithLabelValues(name).Set(float64(stats.Wakes))
		p.spawned.WithLabelValues(name).Set(float64(stats.Spawned))
		p.completed.WithLabelValues(name).Set(float64(stats.Completed))
		p.parks.WithLabelValues(name).Set(float64(stats.Parks))
		p.timersRegistered.WithLabelValues(name).Set(float64(stats.TimersRegistered))
		p.timersFired.WithLabelValues(name).Set(float64(stats.TimersFired))
	}
	p.runtimesMu.RUnlock()
}
