// README: Ride offer provider; the simulator stands in for a real matching/pricing engine.
package offer

import (
	"context"
	"math/rand"

	"hail/internal/modules/ride"
	"hail/internal/types"
)

// Offer is what gets attached to a ride at driver assignment.
type Offer struct {
	DriverName string
	CarDetails string
	EtaMinutes int
	Fare       types.Money
}

// Provider produces an offer for a confirmed ride type. Swap this for a
// real dispatch/pricing engine without touching the conversation machine.
type Provider interface {
	Offer(ctx context.Context, rideType ride.Type) (Offer, error)
}

var (
	defaultDrivers = []string{"Alice", "Bob", "Charlie"}
	defaultCars    = []string{"Toyota Camry - XYZ123", "Honda Accord - ABC789"}
)

// Simulator draws drivers and cars from the redis-backed candidate pool,
// falling back to the built-in defaults when the pool is empty or down.
type Simulator struct {
	store *Store
}

func NewSimulator(store *Store) *Simulator {
	return &Simulator{store: store}
}

func (s *Simulator) Offer(ctx context.Context, rideType ride.Type) (Offer, error) {
	driver := s.poolOrDefault(ctx, s.randomDriver, defaultDrivers)
	car := s.poolOrDefault(ctx, s.randomCar, defaultCars)
	return Offer{
		DriverName: driver,
		CarDetails: car,
		EtaMinutes: 2 + rand.Intn(9),
		Fare:       types.Money{Amount: int64(10 + rand.Intn(41)), Currency: "USD"},
	}, nil
}

func (s *Simulator) poolOrDefault(ctx context.Context, pick func(context.Context) (string, error), defaults []string) string {
	if s.store != nil {
		if v, err := pick(ctx); err == nil && v != "" {
			return v
		}
	}
	return defaults[rand.Intn(len(defaults))]
}

func (s *Simulator) randomDriver(ctx context.Context) (string, error) {
	return s.store.RandomDriver(ctx)
}

func (s *Simulator) randomCar(ctx context.Context) (string, error) {
	return s.store.RandomCar(ctx)
}
