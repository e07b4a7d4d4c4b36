// Package countdown provides second-resolution remaining-time breakdowns
// against a target timestamp, plus a shared registry that drives every
// live countdown off a single ticker.
package countdown

import (
	"sync"
	"time"
)

// State is one snapshot of the remaining time to a target.
type State struct {
	Days    int           `json:"days"`
	Hours   int           `json:"hours"`
	Minutes int           `json:"minutes"`
	Seconds int           `json:"seconds"`
	Total   time.Duration `json:"-"`
	Expired bool          `json:"isExpired"`
}

// Remaining computes the breakdown of target-now. A target at or before
// now yields an expired state with all fields zero.
func Remaining(target, now time.Time) State {
	total := target.Sub(now)
	if total <= 0 {
		return State{Expired: true}
	}

	secs := int(total / time.Second)
	return State{
		Days:    secs / 86400,
		Hours:   (secs / 3600) % 24,
		Minutes: (secs / 60) % 60,
		Seconds: secs % 60,
		Total:   total,
	}
}

// Registry fans one periodic tick out to every live countdown. Observers
// subscribe per target; the ticker starts with the first subscription and
// stops with the last, so an idle registry holds no timer.
type Registry struct {
	mu       sync.Mutex
	now      func() time.Time
	interval time.Duration
	subs     map[uint64]*Subscription
	nextID   uint64
	stop     chan struct{}
}

// Option configures a Registry.
type Option func(*Registry)

// WithClock substitutes the wall clock, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// WithInterval overrides the 1-second tick cadence.
func WithInterval(d time.Duration) Option {
	return func(r *Registry) { r.interval = d }
}

// NewRegistry creates an idle registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		now:      time.Now,
		interval: time.Second,
		subs:     make(map[uint64]*Subscription),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Subscription is one observed countdown. States are delivered on a
// buffered channel; a slow consumer only ever misses intermediate ticks,
// never the newest state.
type Subscription struct {
	id       uint64
	registry *Registry

	mu     sync.Mutex
	target time.Time
	ch     chan State
	done   bool
}

// Subscribe registers a live countdown to target and emits the current
// state immediately. A zero target means no departure constraint: no
// subscription is created and nil is returned.
func (r *Registry) Subscribe(target time.Time) *Subscription {
	if target.IsZero() {
		return nil
	}

	r.mu.Lock()
	r.nextID++
	sub := &Subscription{
		id:       r.nextID,
		registry: r,
		target:   target,
		ch:       make(chan State, 1),
	}
	r.subs[sub.id] = sub
	if len(r.subs) == 1 {
		r.stop = make(chan struct{})
		go r.run(r.stop)
	}
	now := r.now()
	r.mu.Unlock()

	sub.emit(Remaining(target, now))
	return sub
}

// Active returns the number of live subscriptions.
func (r *Registry) Active() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs)
}

// Close stops every live subscription and releases the ticker.
func (r *Registry) Close() {
	r.mu.Lock()
	subs := make([]*Subscription, 0, len(r.subs))
	for _, sub := range r.subs {
		subs = append(subs, sub)
	}
	r.mu.Unlock()

	for _, sub := range subs {
		sub.Stop()
	}
}

func (r *Registry) run(stop chan struct{}) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			r.broadcast()
		}
	}
}

// broadcast recomputes and delivers the state of every subscription.
func (r *Registry) broadcast() {
	r.mu.Lock()
	now := r.now()
	subs := make([]*Subscription, 0, len(r.subs))
	for _, sub := range r.subs {
		subs = append(subs, sub)
	}
	r.mu.Unlock()

	for _, sub := range subs {
		sub.mu.Lock()
		target := sub.target
		done := sub.done
		sub.mu.Unlock()
		if done {
			continue
		}
		sub.emit(Remaining(target, now))
	}
}

// States returns the channel countdown snapshots are delivered on.
func (s *Subscription) States() <-chan State {
	return s.ch
}

// Reset switches the countdown to a new target and recomputes
// immediately rather than waiting for the next tick. A zero target stops
// the subscription.
func (s *Subscription) Reset(target time.Time) {
	if target.IsZero() {
		s.Stop()
		return
	}

	s.mu.Lock()
	s.target = target
	s.mu.Unlock()

	s.emit(Remaining(target, s.registry.nowFn()))
}

// Stop unregisters the subscription. The registry's ticker is released
// when the last subscription stops.
func (s *Subscription) Stop() {
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return
	}
	s.done = true
	s.mu.Unlock()

	r := s.registry
	r.mu.Lock()
	delete(r.subs, s.id)
	if len(r.subs) == 0 && r.stop != nil {
		close(r.stop)
		r.stop = nil
	}
	r.mu.Unlock()
}

func (r *Registry) nowFn() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.now()
}

// emit replaces any undelivered state with the newest one.
func (s *Subscription) emit(st State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return
	}
	for {
		select {
		case s.ch <- st:
			return
		default:
			select {
			case <-s.ch:
			default:
			}
		}
	}
}
