// README: User store backed by PostgreSQL with versioned saves.
package user

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hail/internal/types"
)

var (
	ErrNotFound = errors.New("user not found")
	ErrConflict = errors.New("user state conflict")
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Get(ctx context.Context, id types.ID) (*User, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, conv_state, ride_state, full_name, role, emergency_contact,
		       pickup_lat, pickup_lng, state_version, created_at, updated_at
		FROM users
		WHERE id = $1`, string(id),
	)
	return scanUser(row)
}

func (s *Store) Create(ctx context.Context, u *User) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO users (
			id, conv_state, ride_state, full_name, role, emergency_contact,
			pickup_lat, pickup_lng, state_version, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)`,
		string(u.ID),
		string(u.ConvState),
		rideStatePtr(u.RideState),
		u.FullName,
		string(u.Role),
		u.EmergencyContact,
		pointLat(u.PendingPickup), pointLng(u.PendingPickup),
		u.StateVersion,
		u.CreatedAt,
	)
	return err
}

// Save writes the full user row guarded by the state version read at load
// time. A version mismatch means another writer got there first.
func (s *Store) Save(ctx context.Context, u *User) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE users
		SET conv_state = $1,
		    ride_state = $2,
		    full_name = $3,
		    role = $4,
		    emergency_contact = $5,
		    pickup_lat = $6,
		    pickup_lng = $7,
		    state_version = state_version + 1,
		    updated_at = $8
		WHERE id = $9 AND state_version = $10`,
		string(u.ConvState),
		rideStatePtr(u.RideState),
		u.FullName,
		string(u.Role),
		u.EmergencyContact,
		pointLat(u.PendingPickup), pointLng(u.PendingPickup),
		time.Now().UTC(),
		string(u.ID),
		u.StateVersion,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() != 1 {
		return ErrConflict
	}
	u.StateVersion++
	return nil
}

// ClearRideState resets ride_state to NULL only while it still holds the
// expected value, so the lifecycle driver never clobbers a fresher booking.
func (s *Store) ClearRideState(ctx context.Context, id types.ID, expected RideState) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE users
		SET ride_state = NULL,
		    state_version = state_version + 1,
		    updated_at = $1
		WHERE id = $2 AND ride_state = $3`,
		time.Now().UTC(),
		string(id),
		string(expected),
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func scanUser(row pgx.Row) (*User, error) {
	var u User
	var rideState sql.NullString
	var pickupLat, pickupLng sql.NullFloat64

	err := row.Scan(
		&u.ID, &u.ConvState, &rideState, &u.FullName, &u.Role, &u.EmergencyContact,
		&pickupLat, &pickupLng, &u.StateVersion, &u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if rideState.Valid {
		rs := RideState(rideState.String)
		u.RideState = &rs
	}
	if pickupLat.Valid && pickupLng.Valid {
		u.PendingPickup = &types.Point{Lat: pickupLat.Float64, Lng: pickupLng.Float64}
	}
	return &u, nil
}

func rideStatePtr(rs *RideState) *string {
	if rs == nil {
		return nil
	}
	v := string(*rs)
	return &v
}

func pointLat(p *types.Point) *float64 {
	if p == nil {
		return nil
	}
	v := p.Lat
	return &v
}

func pointLng(p *types.Point) *float64 {
	if p == nil {
		return nil
	}
	v := p.Lng
	return &v
}
