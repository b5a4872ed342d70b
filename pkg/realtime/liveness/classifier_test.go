package liveness

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/fastroute/fastroute/pkg/ctdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2024, 5, 12, 8, 0, 0, 0, time.UTC)

func TestUnknownVehicleIsOffline(t *testing.T) {
	classifier := New(DefaultConfig())

	assert.Equal(t, ctdf.ServiceStatusOffline, classifier.Status("bus-1"))

	_, exists := classifier.VehicleStatus("bus-1")
	assert.False(t, exists)
}

func TestFirstObservationIsActive(t *testing.T) {
	classifier := New(DefaultConfig())

	assert.Equal(t, ctdf.ServiceStatusActive, classifier.Classify("bus-1", -15.84, -70.02, start))
	assert.Equal(t, ctdf.ServiceStatusActive, classifier.Status("bus-1"))
}

func TestMovingVehicleStaysActive(t *testing.T) {
	classifier := New(DefaultConfig())

	for i := 0; i < 30; i++ {
		now := start.Add(time.Duration(i) * 5 * time.Second)
		status := classifier.Classify("bus-1", -15.84+float64(i)*0.0001, -70.02, now)
		assert.Equal(t, ctdf.ServiceStatusActive, status)
	}
}

func TestStationaryVehicleBecomesWaiting(t *testing.T) {
	classifier := New(DefaultConfig())

	classifier.Classify("bus-1", -15.84, -70.02, start)

	var status ctdf.ServiceStatus
	for elapsed := 5 * time.Second; elapsed <= 60*time.Second; elapsed += 5 * time.Second {
		status = classifier.Classify("bus-1", -15.84, -70.02, start.Add(elapsed))
		assert.Equal(t, ctdf.ServiceStatusActive, status, "after %s", elapsed)
	}

	status = classifier.Classify("bus-1", -15.84, -70.02, start.Add(61*time.Second))
	assert.Equal(t, ctdf.ServiceStatusWaiting, status)

	status = classifier.Classify("bus-1", -15.8401, -70.02, start.Add(66*time.Second))
	assert.Equal(t, ctdf.ServiceStatusActive, status)
}

func TestSilentVehicleGoesOffline(t *testing.T) {
	classifier := New(DefaultConfig())
	classifier.Classify("bus-1", -15.84, -70.02, start)

	assert.Empty(t, classifier.Sweep(start.Add(64*time.Second)))
	assert.Equal(t, ctdf.ServiceStatusActive, classifier.Status("bus-1"))

	transitions := classifier.Sweep(start.Add(66 * time.Second))
	require.Len(t, transitions, 1)
	assert.Equal(t, ctdf.StatusTransition{
		VehicleRef: "bus-1",
		From:       ctdf.ServiceStatusActive,
		To:         ctdf.ServiceStatusOffline,
		Timestamp:  start.Add(66 * time.Second),
	}, transitions[0])
	assert.Equal(t, ctdf.ServiceStatusOffline, classifier.Status("bus-1"))

	assert.Empty(t, classifier.Sweep(start.Add(120*time.Second)))
}

func TestObservationRearmsDeadline(t *testing.T) {
	classifier := New(DefaultConfig())
	classifier.Classify("bus-1", -15.84, -70.02, start)
	classifier.Classify("bus-1", -15.85, -70.02, start.Add(50*time.Second))

	assert.Empty(t, classifier.Sweep(start.Add(100*time.Second)))
	assert.Len(t, classifier.Sweep(start.Add(116*time.Second)), 1)
}

func TestOfflineVehicleReturns(t *testing.T) {
	classifier := New(DefaultConfig())
	classifier.Classify("bus-1", -15.84, -70.02, start)
	classifier.Sweep(start.Add(70 * time.Second))

	// Same spot after a long silence has not moved for over a minute
	status := classifier.Classify("bus-1", -15.84, -70.02, start.Add(80*time.Second))
	assert.Equal(t, ctdf.ServiceStatusWaiting, status)

	status = classifier.Classify("bus-1", -15.83, -70.02, start.Add(85*time.Second))
	assert.Equal(t, ctdf.ServiceStatusActive, status)
}

func TestCustomThresholds(t *testing.T) {
	classifier := New(Config{WaitingAfter: 10 * time.Second, OfflineAfter: 20 * time.Second})
	classifier.Classify("bus-1", 1, 1, start)

	assert.Equal(t, ctdf.ServiceStatusWaiting, classifier.Classify("bus-1", 1, 1, start.Add(11*time.Second)))
	assert.Len(t, classifier.Sweep(start.Add(31*time.Second)), 1)
}

func TestTransitionHandler(t *testing.T) {
	classifier := New(DefaultConfig())

	var transitions []ctdf.StatusTransition
	classifier.OnTransition(func(transition ctdf.StatusTransition, status *ctdf.VehicleStatus) {
		assert.Equal(t, transition.To, status.Status)
		transitions = append(transitions, transition)
	})

	classifier.Classify("bus-1", 1, 1, start)
	classifier.Classify("bus-1", 1, 2, start.Add(5*time.Second))
	classifier.Classify("bus-1", 1, 2, start.Add(70*time.Second))
	classifier.Sweep(start.Add(140 * time.Second))

	require.Len(t, transitions, 3)
	assert.Equal(t, ctdf.ServiceStatusActive, transitions[0].To)
	assert.Equal(t, ctdf.ServiceStatusWaiting, transitions[1].To)
	assert.Equal(t, ctdf.ServiceStatusOffline, transitions[2].To)
}

func TestOlderObservationIsIgnored(t *testing.T) {
	classifier := New(DefaultConfig())
	classifier.Classify("bus-1", 1, 1, start)
	classifier.Classify("bus-1", 2, 2, start.Add(10*time.Second))

	status := classifier.Classify("bus-1", 1, 1, start.Add(5*time.Second))
	assert.Equal(t, ctdf.ServiceStatusActive, status)

	snapshot, exists := classifier.VehicleStatus("bus-1")
	require.True(t, exists)
	assert.Equal(t, []float64{2, 2}, snapshot.LastLocation.Coordinates)
	assert.Equal(t, start.Add(10*time.Second), snapshot.LastMovement)
	assert.Equal(t, start.Add(10*time.Second), snapshot.LastUpdate)

	// deadline still follows the newest observation
	assert.Empty(t, classifier.Sweep(start.Add(74*time.Second)))
	assert.Len(t, classifier.Sweep(start.Add(75*time.Second)), 1)
}

func TestSameInstantObservationApplies(t *testing.T) {
	classifier := New(DefaultConfig())
	classifier.Classify("bus-1", 1, 1, start)
	classifier.Classify("bus-1", 2, 2, start)

	snapshot, _ := classifier.VehicleStatus("bus-1")
	assert.Equal(t, []float64{2, 2}, snapshot.LastLocation.Coordinates)
}

func TestUpdateHandler(t *testing.T) {
	classifier := New(DefaultConfig())

	var updates []*ctdf.VehicleStatus
	classifier.OnUpdate(func(status *ctdf.VehicleStatus) {
		updates = append(updates, status)
	})

	classifier.Classify("bus-1", 1, 1, start)
	classifier.Classify("bus-1", 1, 1, start.Add(5*time.Second))
	classifier.Classify("bus-1", 2, 2, start.Add(time.Second))
	classifier.Sweep(start.Add(80 * time.Second))

	require.Len(t, updates, 3)
	assert.Equal(t, start.Add(5*time.Second), updates[1].LastUpdate)
	assert.Equal(t, ctdf.ServiceStatusOffline, updates[2].Status)
}

func TestTransitionsStayOrderedUnderConcurrentSweeps(t *testing.T) {
	classifier := New(DefaultConfig())

	var mu sync.Mutex
	var transitions []ctdf.StatusTransition
	classifier.OnTransition(func(transition ctdf.StatusTransition, _ *ctdf.VehicleStatus) {
		mu.Lock()
		transitions = append(transitions, transition)
		mu.Unlock()
	})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			classifier.Classify("bus-1", float64(i%2), 0, start.Add(time.Duration(i)*time.Second))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			classifier.Sweep(start.Add(time.Hour))
		}
	}()
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()

	require.NotEmpty(t, transitions)
	previous := ctdf.ServiceStatusOffline
	for i, transition := range transitions {
		assert.Equal(t, previous, transition.From, "transition %d", i)
		previous = transition.To
	}
	assert.Equal(t, classifier.Status("bus-1"), previous)
}

func TestVehiclesAreIndependent(t *testing.T) {
	classifier := New(DefaultConfig())
	classifier.Classify("bus-1", 1, 1, start)
	classifier.Classify("bus-2", 2, 2, start.Add(60*time.Second))

	transitions := classifier.Sweep(start.Add(70 * time.Second))
	require.Len(t, transitions, 1)
	assert.Equal(t, "bus-1", transitions[0].VehicleRef)
	assert.Equal(t, ctdf.ServiceStatusActive, classifier.Status("bus-2"))
	assert.Len(t, classifier.Snapshot(), 2)
}

func TestVehicleStatusSnapshot(t *testing.T) {
	classifier := New(DefaultConfig())
	classifier.Classify("bus-1", -15.84, -70.02, start)
	classifier.Classify("bus-1", -15.84, -70.02, start.Add(5*time.Second))

	status, exists := classifier.VehicleStatus("bus-1")
	require.True(t, exists)
	assert.Equal(t, start, status.LastMovement)
	assert.Equal(t, start.Add(5*time.Second), status.LastUpdate)
	assert.Equal(t, -15.84, status.LastLocation.Latitude())
}

func TestConcurrentClassify(t *testing.T) {
	classifier := New(DefaultConfig())

	var wg sync.WaitGroup
	for vehicle := 0; vehicle < 10; vehicle++ {
		wg.Add(1)
		go func(vehicle int) {
			defer wg.Done()
			ref := string(rune('a' + vehicle))
			for i := 0; i < 100; i++ {
				classifier.Classify(ref, float64(i), 0, start.Add(time.Duration(i)*time.Second))
			}
		}(vehicle)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			classifier.Sweep(start)
		}
	}()
	wg.Wait()

	assert.Len(t, classifier.Snapshot(), 10)
}

func TestRunStopsWithContext(t *testing.T) {
	classifier := New(Config{WaitingAfter: time.Millisecond, OfflineAfter: time.Millisecond})
	classifier.Classify("bus-1", 1, 1, time.Now().Add(-time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		classifier.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return classifier.Status("bus-1") == ctdf.ServiceStatusOffline
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done
}
