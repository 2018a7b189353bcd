// README: Ride aggregate and status definitions.
package ride

import (
	"strings"
	"time"

	"hail/internal/types"
)

type Status string

const (
	StatusRequested      Status = "requested"
	StatusDriverAssigned Status = "driver_assigned"
	StatusDriverArrived  Status = "driver_arrived"
	StatusOnTrip         Status = "on_trip"
	StatusCompleted      Status = "completed"
	StatusCanceled       Status = "canceled"
)

type Type string

const (
	TypeEconomy Type = "Economy"
	TypePremium Type = "Premium"
)

// ParseType matches user input against the known ride types, ignoring case.
func ParseType(s string) (Type, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "economy":
		return TypeEconomy, true
	case "premium":
		return TypePremium, true
	}
	return "", false
}

type Ride struct {
	ID      types.ID
	OwnerID types.ID

	Pickup      types.Point
	Destination types.Point
	RideType    *Type

	Status Status

	// Assigned atomically at requested→driver_assigned, immutable after.
	DriverName   string
	CarDetails   string
	EtaMinutes   int
	FareEstimate types.Money

	CreatedAt   time.Time
	CompletedAt *time.Time
}

// AllowedTransitions represents the ride state flow as code. Status only
// moves forward, with a single side exit from requested to canceled.
var AllowedTransitions = map[Status][]Status{
	StatusRequested:      {StatusDriverAssigned, StatusCanceled},
	StatusDriverAssigned: {StatusDriverArrived},
	StatusDriverArrived:  {StatusOnTrip},
	StatusOnTrip:         {StatusCompleted},
	StatusCompleted:      {},
	StatusCanceled:       {},
}

func CanTransition(from, to Status) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}

// Terminal reports whether the ride can never transition again.
func Terminal(s Status) bool {
	return s == StatusCompleted || s == StatusCanceled
}
