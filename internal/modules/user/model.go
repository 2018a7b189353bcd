// README: User aggregate with conversation and ride dialogue states.
package user

import (
	"time"

	"hail/internal/types"
)

// ConvState is the user's position in the onboarding/profile dialogue.
type ConvState string

const (
	ConvAwaitingName             ConvState = "awaiting_name"
	ConvAwaitingRole             ConvState = "awaiting_role"
	ConvAwaitingEmergencyContact ConvState = "awaiting_emergency_contact"
	ConvRegistered               ConvState = "registered"
	ConvEditingProfile           ConvState = "editing_profile"
	ConvUpdatingName             ConvState = "updating_name"
	ConvUpdatingContact          ConvState = "updating_contact"
)

// RideState is the user's position in the ride-booking dialogue. It takes
// dispatch priority over ConvState and is nil whenever the user has no
// active ride.
type RideState string

const (
	RideAwaitingPickup      RideState = "awaiting_pickup"
	RideAwaitingDestination RideState = "awaiting_destination"
	RideAwaitingRideType    RideState = "awaiting_ride_type"
	RideInProgress          RideState = "ride_in_progress"
)

type Role string

const (
	RoleDriver    Role = "driver"
	RolePassenger Role = "passenger"
)

type User struct {
	ID        types.ID // phone/channel address, immutable once created
	ConvState ConvState
	RideState *RideState

	FullName         string
	Role             Role
	EmergencyContact string

	// PendingPickup stages the pickup point between awaiting_pickup and
	// ride creation.
	PendingPickup *types.Point

	// StateVersion guards load-mutate-save round trips; Save is rejected
	// when the stored version moved underneath the caller.
	StateVersion int

	CreatedAt time.Time
	UpdatedAt time.Time
}
