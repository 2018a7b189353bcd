// README: Per-ride lifecycle driver; advances an assigned ride to completion on a timer.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"hail/internal/modules/ride"
	"hail/internal/modules/user"
	"hail/internal/notify"
	"hail/internal/types"
)

type RideStore interface {
	Get(ctx context.Context, id types.ID) (*ride.Ride, error)
	UpdateStatus(ctx context.Context, id types.ID, from, to ride.Status) (bool, error)
}

type UserStore interface {
	ClearRideState(ctx context.Context, id types.ID, expected user.RideState) (bool, error)
}

// ProgressSource decides when the next transition is due. The fixed-delay
// implementation simulates it; a real system would feed driver telemetry in.
type ProgressSource interface {
	Await(ctx context.Context, next ride.Status) error
}

type FixedDelay struct {
	Step time.Duration
}

func (f FixedDelay) Await(ctx context.Context, _ ride.Status) error {
	t := time.NewTimer(f.Step)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

var ErrAlreadyRunning = errors.New("lifecycle already running for ride")

const (
	msgDriverArrived = "Your driver has arrived!"
	msgTripStarted   = "Your trip has started."
	msgTripCompleted = "You have arrived at your destination. Total fare: %s. Thank you for riding with us!"
)

// Registry tracks at most one live driver per ride id and owns their
// cancellation on shutdown.
type Registry struct {
	rides    RideStore
	users    UserStore
	sink     notify.Sink
	progress ProgressSource
	log      *zap.Logger

	mu      sync.Mutex
	running map[types.ID]context.CancelFunc
	wg      sync.WaitGroup
}

func NewRegistry(rides RideStore, users UserStore, sink notify.Sink, progress ProgressSource, log *zap.Logger) *Registry {
	return &Registry{
		rides:    rides,
		users:    users,
		sink:     sink,
		progress: progress,
		log:      log,
		running:  make(map[types.ID]context.CancelFunc),
	}
}

// Start launches the progression for one assigned ride. A second start for
// the same ride id is rejected.
func (g *Registry) Start(ownerID, rideID types.ID) error {
	g.mu.Lock()
	if _, ok := g.running[rideID]; ok {
		g.mu.Unlock()
		return ErrAlreadyRunning
	}
	ctx, cancel := context.WithCancel(context.Background())
	g.running[rideID] = cancel
	g.wg.Add(1)
	g.mu.Unlock()

	go func() {
		defer g.wg.Done()
		defer g.remove(rideID)
		g.run(ctx, ownerID, rideID)
	}()
	return nil
}

// Running reports whether a driver is live for the ride.
func (g *Registry) Running(rideID types.ID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.running[rideID]
	return ok
}

// Shutdown cancels every live driver and waits for them to stop.
func (g *Registry) Shutdown() {
	g.mu.Lock()
	for _, cancel := range g.running {
		cancel()
	}
	g.mu.Unlock()
	g.wg.Wait()
}

func (g *Registry) remove(rideID types.ID) {
	g.mu.Lock()
	if cancel, ok := g.running[rideID]; ok {
		cancel()
		delete(g.running, rideID)
	}
	g.mu.Unlock()
}

type step struct {
	from ride.Status
	to   ride.Status
}

var progression = []step{
	{ride.StatusDriverAssigned, ride.StatusDriverArrived},
	{ride.StatusDriverArrived, ride.StatusOnTrip},
	{ride.StatusOnTrip, ride.StatusCompleted},
}

// run walks the ride forward one step at a time. No lock is held across
// waits; the ride is re-read immediately before every write and the write
// itself is a compare-and-swap, so a ride mutated out-of-band simply ends
// the progression without error.
func (g *Registry) run(ctx context.Context, ownerID, rideID types.ID) {
	for _, st := range progression {
		if err := g.progress.Await(ctx, st.to); err != nil {
			return
		}

		r, err := g.rides.Get(ctx, rideID)
		if err != nil {
			g.log.Warn("lifecycle read", zap.String("ride_id", string(rideID)), zap.Error(err))
			return
		}
		if r.Status != st.from {
			g.log.Info("ride moved out-of-band, stopping",
				zap.String("ride_id", string(rideID)),
				zap.String("status", string(r.Status)),
			)
			return
		}

		ok, err := g.rides.UpdateStatus(ctx, rideID, st.from, st.to)
		if err != nil {
			g.log.Error("lifecycle transition", zap.String("ride_id", string(rideID)), zap.Error(err))
			return
		}
		if !ok {
			// Lost the swap between read and write; someone else owns the
			// record now.
			return
		}

		msg := transitionMessage(st.to, r.FareEstimate)
		if st.to == ride.StatusCompleted {
			if cleared, err := g.users.ClearRideState(ctx, ownerID, user.RideInProgress); err != nil {
				g.log.Error("clear ride state", zap.String("owner", string(ownerID)), zap.Error(err))
			} else if !cleared {
				g.log.Warn("ride state already moved", zap.String("owner", string(ownerID)))
			}
		}

		if err := g.sink.Send(ctx, string(ownerID), msg); err != nil {
			g.log.Warn("notification delivery failed",
				zap.String("owner", string(ownerID)),
				zap.String("ride_id", string(rideID)),
				zap.Error(err),
			)
		}
	}
}

func transitionMessage(to ride.Status, fare types.Money) string {
	switch to {
	case ride.StatusDriverArrived:
		return msgDriverArrived
	case ride.StatusOnTrip:
		return msgTripStarted
	case ride.StatusCompleted:
		return fmt.Sprintf(msgTripCompleted, fare.Display())
	}
	return ""
}
