// README: Conversation dispatcher; maps (user state, ride state, inbound event) to mutations and a reply.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hail/internal/modules/offer"
	"hail/internal/modules/ride"
	"hail/internal/modules/user"
	"hail/internal/types"
)

// UserStore is the narrow repository surface the dispatcher needs.
type UserStore interface {
	Get(ctx context.Context, id types.ID) (*user.User, error)
	Create(ctx context.Context, u *user.User) error
	Save(ctx context.Context, u *user.User) error
}

type RideStore interface {
	Create(ctx context.Context, r *ride.Ride) error
	GetActiveByOwner(ctx context.Context, owner types.ID, status ride.Status) (*ride.Ride, error)
	Assign(ctx context.Context, id types.ID, rideType ride.Type, driverName, carDetails string, etaMinutes int, fare types.Money) (bool, error)
	UpdateStatus(ctx context.Context, id types.ID, from, to ride.Status) (bool, error)
}

// TripStarter launches the asynchronous ride progression for an assigned
// ride. Implemented by the lifecycle registry.
type TripStarter interface {
	Start(ownerID, rideID types.ID) error
}

// Event is one inbound message. Location is non-nil only when the channel
// delivered both coordinate fields.
type Event struct {
	Sender   types.ID
	Body     string
	Location *types.Point
}

// Emergency contacts: optional leading '+', 10 to 15 digits.
var contactPattern = regexp.MustCompile(`^\+?\d{10,15}$`)

type Service struct {
	users  UserStore
	rides  RideStore
	offers offer.Provider
	trips  TripStarter
	log    *zap.Logger
}

func NewService(users UserStore, rides RideStore, offers offer.Provider, trips TripStarter, log *zap.Logger) *Service {
	return &Service{users: users, rides: rides, offers: offers, trips: trips, log: log}
}

// Handle processes one inbound event and returns the single reply for the
// turn. Every failure is turn-scoped: the reply degrades to a re-prompt or
// the generic processing error, never a panic or a partial ride flow.
func (s *Service) Handle(ctx context.Context, ev Event) string {
	u, err := s.users.Get(ctx, ev.Sender)
	if errors.Is(err, user.ErrNotFound) {
		nu := &user.User{
			ID:        ev.Sender,
			ConvState: user.ConvAwaitingName,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.users.Create(ctx, nu); err != nil {
			s.log.Error("create user", zap.String("sender", string(ev.Sender)), zap.Error(err))
			return replyProcessingError
		}
		// The rest of the message is intentionally not processed this turn.
		return replyWelcome
	}
	if err != nil {
		s.log.Error("load user", zap.String("sender", string(ev.Sender)), zap.Error(err))
		return replyProcessingError
	}

	// Ride flow pre-empts profile flow. ride_in_progress expects no input
	// and passes through to the conversation-state commands.
	if u.RideState != nil && *u.RideState != user.RideInProgress {
		return s.handleRideState(ctx, u, ev)
	}
	return s.handleConvState(ctx, u, ev)
}

func (s *Service) handleRideState(ctx context.Context, u *user.User, ev Event) string {
	switch *u.RideState {
	case user.RideAwaitingPickup:
		if ev.Location == nil {
			return replySharePickup
		}
		u.PendingPickup = ev.Location
		return s.advanceRideState(ctx, u, user.RideAwaitingDestination, replyPickupReceived)

	case user.RideAwaitingDestination:
		return s.createRide(ctx, u, ev)

	case user.RideAwaitingRideType:
		return s.confirmRideType(ctx, u, ev)
	}

	s.log.Warn("unhandled ride state", zap.String("sender", string(u.ID)), zap.String("ride_state", string(*u.RideState)))
	return replyProcessingError
}

func (s *Service) createRide(ctx context.Context, u *user.User, ev Event) string {
	if ev.Location == nil {
		return replyShareDestination
	}
	if u.PendingPickup == nil {
		// awaiting_destination without a staged pickup is a broken record.
		s.log.Warn("missing pending pickup", zap.String("sender", string(u.ID)))
		return replyProcessingError
	}

	r := &ride.Ride{
		ID:          types.ID(uuid.NewString()),
		OwnerID:     u.ID,
		Pickup:      *u.PendingPickup,
		Destination: *ev.Location,
		Status:      ride.StatusRequested,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.rides.Create(ctx, r); err != nil {
		s.log.Error("create ride", zap.String("sender", string(u.ID)), zap.Error(err))
		return replyProcessingError
	}

	u.PendingPickup = nil
	reply := s.advanceRideState(ctx, u, user.RideAwaitingRideType, replyAskRideType)
	if reply == replyProcessingError {
		// Compensate so the orphaned request can't strand the user.
		if ok, err := s.rides.UpdateStatus(ctx, r.ID, ride.StatusRequested, ride.StatusCanceled); err != nil || !ok {
			s.log.Warn("compensating cancel failed", zap.String("ride_id", string(r.ID)), zap.Error(err))
		}
	}
	return reply
}

func (s *Service) confirmRideType(ctx context.Context, u *user.User, ev Event) string {
	rideType, ok := ride.ParseType(ev.Body)
	if !ok {
		return replyBadRideType
	}

	r, err := s.rides.GetActiveByOwner(ctx, u.ID, ride.StatusRequested)
	if errors.Is(err, ride.ErrNotFound) {
		s.log.Warn("no requested ride for confirmation", zap.String("sender", string(u.ID)))
		return replyProcessingError
	}
	if err != nil {
		s.log.Error("load requested ride", zap.String("sender", string(u.ID)), zap.Error(err))
		return replyProcessingError
	}

	off, err := s.offers.Offer(ctx, rideType)
	if err != nil {
		s.log.Error("ride offer", zap.String("ride_id", string(r.ID)), zap.Error(err))
		return replyProcessingError
	}

	assigned, err := s.rides.Assign(ctx, r.ID, rideType, off.DriverName, off.CarDetails, off.EtaMinutes, off.Fare)
	if err != nil {
		s.log.Error("assign driver", zap.String("ride_id", string(r.ID)), zap.Error(err))
		return replyProcessingError
	}
	if !assigned {
		s.log.Warn("ride left requested before assignment", zap.String("ride_id", string(r.ID)))
		return replyProcessingError
	}

	if reply := s.advanceRideState(ctx, u, user.RideInProgress, ""); reply == replyProcessingError {
		return reply
	}

	// The single spawn point for a ride's lifecycle driver.
	if err := s.trips.Start(u.ID, r.ID); err != nil {
		s.log.Warn("start lifecycle", zap.String("ride_id", string(r.ID)), zap.Error(err))
	}

	return fmt.Sprintf(replyRideConfirmed, rideType, off.DriverName, off.CarDetails, off.EtaMinutes, off.Fare.Display())
}

func (s *Service) handleConvState(ctx context.Context, u *user.User, ev Event) string {
	text := strings.TrimSpace(ev.Body)
	command := strings.ToLower(text)

	switch u.ConvState {
	case user.ConvAwaitingName:
		if text == "" {
			return replyWelcome
		}
		u.FullName = text
		return s.advanceConvState(ctx, u, user.ConvAwaitingRole, fmt.Sprintf(replyAskRole, u.FullName))

	case user.ConvAwaitingRole:
		role, ok := parseRole(command)
		if !ok {
			return replyBadRole
		}
		u.Role = role
		return s.advanceConvState(ctx, u, user.ConvAwaitingEmergencyContact, replyAskContact)

	case user.ConvAwaitingEmergencyContact:
		if text == "" {
			return replyAskContact
		}
		u.EmergencyContact = text
		return s.advanceConvState(ctx, u, user.ConvRegistered, replyRegistered)

	case user.ConvRegistered:
		return s.handleRegistered(ctx, u, command)

	case user.ConvEditingProfile:
		switch command {
		case "update name":
			return s.advanceConvState(ctx, u, user.ConvUpdatingName, replyAskNewName)
		case "update contact":
			return s.advanceConvState(ctx, u, user.ConvUpdatingContact, replyAskNewContact)
		case "cancel":
			return s.advanceConvState(ctx, u, user.ConvRegistered, replyEditCanceled)
		}
		return replyBadEditCommand

	case user.ConvUpdatingName:
		if text == "" {
			return replyAskNewName
		}
		u.FullName = text
		return s.advanceConvState(ctx, u, user.ConvRegistered, fmt.Sprintf(replyNameUpdated, u.FullName))

	case user.ConvUpdatingContact:
		if !contactPattern.MatchString(text) {
			return replyBadContact
		}
		u.EmergencyContact = text
		return s.advanceConvState(ctx, u, user.ConvRegistered, replyContactUpdated)
	}

	s.log.Warn("unhandled conversation state", zap.String("sender", string(u.ID)), zap.String("conv_state", string(u.ConvState)))
	return replyProcessingError
}

func (s *Service) handleRegistered(ctx context.Context, u *user.User, command string) string {
	switch command {
	case "help":
		return replyHelp

	case "edit profile":
		return s.advanceConvState(ctx, u, user.ConvEditingProfile, replyEditingProfile)

	case "book ride":
		// A live ride still holds the single active slot, so a fresh
		// booking could never reach the request step.
		if u.RideState != nil && *u.RideState == user.RideInProgress {
			return replyRideActive
		}
		return s.advanceRideState(ctx, u, user.RideAwaitingPickup, replyBookRide)

	case "ride status":
		r, err := s.rides.GetActiveByOwner(ctx, u.ID, ride.StatusDriverAssigned)
		if errors.Is(err, ride.ErrNotFound) {
			return replyNoOngoingRides
		}
		if err != nil {
			s.log.Error("ride status lookup", zap.String("sender", string(u.ID)), zap.Error(err))
			return replyProcessingError
		}
		return fmt.Sprintf(replyRideStatus, r.EtaMinutes)

	case "cancel ride":
		return s.cancelRide(ctx, u)
	}
	return replyUnknownCommand
}

func (s *Service) cancelRide(ctx context.Context, u *user.User) string {
	r, err := s.rides.GetActiveByOwner(ctx, u.ID, ride.StatusRequested)
	if errors.Is(err, ride.ErrNotFound) {
		return replyNothingToCancel
	}
	if err != nil {
		s.log.Error("cancel ride lookup", zap.String("sender", string(u.ID)), zap.Error(err))
		return replyProcessingError
	}

	canceled, err := s.rides.UpdateStatus(ctx, r.ID, ride.StatusRequested, ride.StatusCanceled)
	if err != nil {
		s.log.Error("cancel ride", zap.String("ride_id", string(r.ID)), zap.Error(err))
		return replyProcessingError
	}
	if !canceled {
		// Someone advanced the ride between lookup and cancel.
		s.log.Warn("ride left requested before cancel", zap.String("ride_id", string(r.ID)))
		return replyProcessingError
	}

	u.RideState = nil
	u.PendingPickup = nil
	if err := s.users.Save(ctx, u); err != nil {
		s.log.Error("save user", zap.String("sender", string(u.ID)), zap.Error(err))
		return replyProcessingError
	}
	return replyRideCanceled
}

// advanceConvState persists a conversation-state move and returns the reply,
// degrading to the processing error when the save is rejected.
func (s *Service) advanceConvState(ctx context.Context, u *user.User, next user.ConvState, reply string) string {
	u.ConvState = next
	if err := s.users.Save(ctx, u); err != nil {
		s.log.Error("save user", zap.String("sender", string(u.ID)), zap.Error(err))
		return replyProcessingError
	}
	return reply
}

func (s *Service) advanceRideState(ctx context.Context, u *user.User, next user.RideState, reply string) string {
	u.RideState = &next
	if err := s.users.Save(ctx, u); err != nil {
		s.log.Error("save user", zap.String("sender", string(u.ID)), zap.Error(err))
		return replyProcessingError
	}
	return reply
}

func parseRole(command string) (user.Role, bool) {
	switch command {
	case "driver":
		return user.RoleDriver, true
	case "passenger":
		return user.RolePassenger, true
	}
	return "", false
}
