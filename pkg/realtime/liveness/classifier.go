package liveness

import (
	"context"
	"sync"
	"time"

	"github.com/fastroute/fastroute/pkg/ctdf"
	"github.com/fastroute/fastroute/pkg/metrics"
	"github.com/rs/zerolog/log"
)

const (
	DefaultWaitingAfter  = 60 * time.Second
	DefaultOfflineAfter  = 65 * time.Second
	DefaultSweepInterval = time.Second
)

type Config struct {
	// Stationary for longer than this moves a vehicle to WAITING
	WaitingAfter time.Duration
	// Silent for this long moves a vehicle to OFFLINE
	OfflineAfter time.Duration
}

func DefaultConfig() Config {
	return Config{
		WaitingAfter: DefaultWaitingAfter,
		OfflineAfter: DefaultOfflineAfter,
	}
}

// TransitionHandler receives each status change with the vehicle state right after it.
// It runs while that vehicle is locked, so one vehicle's transitions arrive in order, and it
// must not call back into the classifier.
type TransitionHandler func(transition ctdf.StatusTransition, status *ctdf.VehicleStatus)

// UpdateHandler receives the vehicle state after every applied observation or sweep,
// under the same lock as TransitionHandler.
type UpdateHandler func(status *ctdf.VehicleStatus)

type vehicleState struct {
	mu sync.Mutex

	hasPosition bool
	latitude    float64
	longitude   float64

	lastMovement time.Time
	lastUpdate   time.Time
	deadline     time.Time

	status ctdf.ServiceStatus
}

// Classifier tracks the reporting status of every vehicle it has seen.
// Each vehicle has its own lock so different vehicles never contend, and a single
// sweep enforces the offline deadline instead of a timer per vehicle.
type Classifier struct {
	config Config

	mu       sync.RWMutex
	vehicles map[string]*vehicleState

	onTransition TransitionHandler
	onUpdate     UpdateHandler
}

func New(config Config) *Classifier {
	if config.WaitingAfter <= 0 {
		config.WaitingAfter = DefaultWaitingAfter
	}
	if config.OfflineAfter <= 0 {
		config.OfflineAfter = DefaultOfflineAfter
	}

	return &Classifier{
		config:   config,
		vehicles: map[string]*vehicleState{},
	}
}

// OnTransition registers a handler called whenever a vehicle changes status.
// It must be set before the classifier is shared between goroutines.
func (c *Classifier) OnTransition(handler TransitionHandler) {
	c.onTransition = handler
}

// OnUpdate registers a handler called whenever a vehicle's state changes.
// It must be set before the classifier is shared between goroutines.
func (c *Classifier) OnUpdate(handler UpdateHandler) {
	c.onUpdate = handler
}

func (c *Classifier) Config() Config {
	return c.config
}

func (c *Classifier) vehicle(vehicleRef string) *vehicleState {
	c.mu.RLock()
	state, exists := c.vehicles[vehicleRef]
	c.mu.RUnlock()

	if exists {
		return state
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if state, exists = c.vehicles[vehicleRef]; !exists {
		state = &vehicleState{status: ctdf.ServiceStatusOffline}
		c.vehicles[vehicleRef] = state
	}

	return state
}

// Classify applies one position observation and returns the resulting status.
// Observations older than the last one applied are ignored.
func (c *Classifier) Classify(vehicleRef string, latitude float64, longitude float64, now time.Time) ctdf.ServiceStatus {
	state := c.vehicle(vehicleRef)

	state.mu.Lock()
	defer state.mu.Unlock()

	if state.hasPosition && now.Before(state.lastUpdate) {
		log.Debug().
			Str("vehicle", vehicleRef).
			Time("observed", now).
			Time("lastUpdate", state.lastUpdate).
			Msg("Ignoring out of order observation")
		return state.status
	}

	previous := state.status

	if !state.hasPosition || state.latitude != latitude || state.longitude != longitude {
		state.hasPosition = true
		state.latitude = latitude
		state.longitude = longitude
		state.lastMovement = now
		state.status = ctdf.ServiceStatusActive
	} else if now.Sub(state.lastMovement) > c.config.WaitingAfter {
		state.status = ctdf.ServiceStatusWaiting
	} else {
		state.status = ctdf.ServiceStatusActive
	}

	state.lastUpdate = now
	state.deadline = now.Add(c.config.OfflineAfter)

	if previous != state.status {
		c.transition(vehicleRef, state, previous, now)
	}
	c.updated(vehicleRef, state)

	return state.status
}

// Status returns the current status, OFFLINE for vehicles never observed
func (c *Classifier) Status(vehicleRef string) ctdf.ServiceStatus {
	c.mu.RLock()
	state, exists := c.vehicles[vehicleRef]
	c.mu.RUnlock()

	if !exists {
		return ctdf.ServiceStatusOffline
	}

	state.mu.Lock()
	defer state.mu.Unlock()

	return state.status
}

func (c *Classifier) VehicleStatus(vehicleRef string) (*ctdf.VehicleStatus, bool) {
	c.mu.RLock()
	state, exists := c.vehicles[vehicleRef]
	c.mu.RUnlock()

	if !exists {
		return nil, false
	}

	return state.snapshot(vehicleRef), true
}

// Snapshot returns the state of every vehicle seen so far
func (c *Classifier) Snapshot() []*ctdf.VehicleStatus {
	c.mu.RLock()
	refs := make([]string, 0, len(c.vehicles))
	states := make([]*vehicleState, 0, len(c.vehicles))
	for ref, state := range c.vehicles {
		refs = append(refs, ref)
		states = append(states, state)
	}
	c.mu.RUnlock()

	statuses := make([]*ctdf.VehicleStatus, 0, len(states))
	for i, state := range states {
		statuses = append(statuses, state.snapshot(refs[i]))
	}

	return statuses
}

func (s *vehicleState) snapshot(vehicleRef string) *ctdf.VehicleStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshotLocked(vehicleRef)
}

func (s *vehicleState) snapshotLocked(vehicleRef string) *ctdf.VehicleStatus {
	status := &ctdf.VehicleStatus{
		VehicleRef:   vehicleRef,
		Status:       s.status,
		LastMovement: s.lastMovement,
		LastUpdate:   s.lastUpdate,
	}
	if s.hasPosition {
		status.LastLocation = ctdf.NewPoint(s.latitude, s.longitude)
	}

	return status
}

// Sweep moves every vehicle whose deadline has passed to OFFLINE
func (c *Classifier) Sweep(now time.Time) []ctdf.StatusTransition {
	c.mu.RLock()
	refs := make([]string, 0, len(c.vehicles))
	states := make([]*vehicleState, 0, len(c.vehicles))
	for ref, state := range c.vehicles {
		refs = append(refs, ref)
		states = append(states, state)
	}
	c.mu.RUnlock()

	var transitions []ctdf.StatusTransition

	for i, state := range states {
		state.mu.Lock()

		if state.status == ctdf.ServiceStatusOffline || state.deadline.IsZero() || now.Before(state.deadline) {
			state.mu.Unlock()
			continue
		}

		previous := state.status
		state.status = ctdf.ServiceStatusOffline
		transitions = append(transitions, c.transition(refs[i], state, previous, now))
		c.updated(refs[i], state)

		state.mu.Unlock()
	}

	return transitions
}

// Run sweeps on every tick until the context is cancelled
func (c *Classifier) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			c.Sweep(now)
		}
	}
}

// transition must be called with state locked and state.status already moved on
func (c *Classifier) transition(vehicleRef string, state *vehicleState, from ctdf.ServiceStatus, now time.Time) ctdf.StatusTransition {
	to := state.status
	transition := ctdf.StatusTransition{
		VehicleRef: vehicleRef,
		From:       from,
		To:         to,
		Timestamp:  now,
	}

	metrics.StatusTransitions.WithLabelValues(string(to)).Inc()

	log.Debug().
		Str("vehicle", vehicleRef).
		Str("from", string(from)).
		Str("to", string(to)).
		Msg("Vehicle status changed")

	if c.onTransition != nil {
		c.onTransition(transition, state.snapshotLocked(vehicleRef))
	}

	return transition
}

func (c *Classifier) updated(vehicleRef string, state *vehicleState) {
	if c.onUpdate != nil {
		c.onUpdate(state.snapshotLocked(vehicleRef))
	}
}
