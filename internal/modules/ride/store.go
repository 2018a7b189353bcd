// README: Ride store backed by PostgreSQL with compare-and-swap status updates.
package ride

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hail/internal/types"
)

var ErrNotFound = errors.New("ride not found")

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, r *Ride) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO rides (
			id, owner_id, status,
			pickup_lat, pickup_lng, dest_lat, dest_lng,
			ride_type, driver_name, car_details, eta_minutes,
			fare_amount, fare_currency, created_at
		) VALUES (
			$1, $2, $3,
			$4, $5, $6, $7,
			$8, $9, $10, $11,
			$12, $13, $14
		)`,
		string(r.ID),
		string(r.OwnerID),
		string(r.Status),
		r.Pickup.Lat, r.Pickup.Lng,
		r.Destination.Lat, r.Destination.Lng,
		typePtr(r.RideType),
		r.DriverName,
		r.CarDetails,
		r.EtaMinutes,
		r.FareEstimate.Amount,
		r.FareEstimate.Currency,
		r.CreatedAt,
	)
	return err
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Ride, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, owner_id, status,
		       pickup_lat, pickup_lng, dest_lat, dest_lng,
		       ride_type, driver_name, car_details, eta_minutes,
		       fare_amount, fare_currency, created_at, completed_at
		FROM rides
		WHERE id = $1`, string(id),
	)
	return scanRide(row)
}

// GetActiveByOwner returns the owner's single ride in the given status.
func (s *Store) GetActiveByOwner(ctx context.Context, owner types.ID, status Status) (*Ride, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, owner_id, status,
		       pickup_lat, pickup_lng, dest_lat, dest_lng,
		       ride_type, driver_name, car_details, eta_minutes,
		       fare_amount, fare_currency, created_at, completed_at
		FROM rides
		WHERE owner_id = $1 AND status = $2
		ORDER BY created_at DESC
		LIMIT 1`,
		string(owner), string(status),
	)
	return scanRide(row)
}

// Assign populates the driver fields and advances requested→driver_assigned
// in one statement. Returns false when the ride already left "requested".
func (s *Store) Assign(ctx context.Context, id types.ID, rideType Type, driverName, carDetails string, etaMinutes int, fare types.Money) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE rides
		SET status = $1,
		    ride_type = $2,
		    driver_name = $3,
		    car_details = $4,
		    eta_minutes = $5,
		    fare_amount = $6,
		    fare_currency = $7
		WHERE id = $8 AND status = $9`,
		string(StatusDriverAssigned),
		string(rideType),
		driverName,
		carDetails,
		etaMinutes,
		fare.Amount,
		fare.Currency,
		string(id),
		string(StatusRequested),
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// UpdateStatus advances the ride only while it still sits in the expected
// prior status; completion also stamps completed_at.
func (s *Store) UpdateStatus(ctx context.Context, id types.ID, from, to Status) (bool, error) {
	if !CanTransition(from, to) {
		return false, nil
	}
	tag, err := s.db.Exec(ctx, `
		UPDATE rides
		SET status = $1,
		    completed_at = CASE WHEN $1 = 'completed' THEN NOW() ELSE completed_at END
		WHERE id = $2 AND status = $3`,
		string(to),
		string(id),
		string(from),
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func scanRide(row pgx.Row) (*Ride, error) {
	var r Ride
	var rideType sql.NullString
	var completedAt sql.NullTime

	err := row.Scan(
		&r.ID, &r.OwnerID, &r.Status,
		&r.Pickup.Lat, &r.Pickup.Lng, &r.Destination.Lat, &r.Destination.Lng,
		&rideType, &r.DriverName, &r.CarDetails, &r.EtaMinutes,
		&r.FareEstimate.Amount, &r.FareEstimate.Currency, &r.CreatedAt, &completedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if rideType.Valid {
		t := Type(rideType.String)
		r.RideType = &t
	}
	if completedAt.Valid {
		t := completedAt.Time
		r.CompletedAt = &t
	}
	return &r, nil
}

func typePtr(t *Type) *string {
	if t == nil {
		return nil
	}
	v := string(*t)
	return &v
}
