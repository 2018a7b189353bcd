// README: Operator read endpoint for a single ride.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"hail/internal/modules/ride"
	"hail/internal/types"
)

type RideGetter interface {
	Get(ctx context.Context, id types.ID) (*ride.Ride, error)
}

type RideHandler struct {
	rides RideGetter
}

func NewRideHandler(rides RideGetter) *RideHandler {
	return &RideHandler{rides: rides}
}

type rideResponse struct {
	ID          string     `json:"ride_id"`
	OwnerID     string     `json:"owner_id"`
	Status      string     `json:"status"`
	RideType    *string    `json:"ride_type,omitempty"`
	DriverName  string     `json:"driver_name,omitempty"`
	CarDetails  string     `json:"car_details,omitempty"`
	EtaMinutes  int        `json:"eta_minutes,omitempty"`
	Fare        string     `json:"fare_estimate,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func (h *RideHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing ride id")
		return
	}
	r, err := h.rides.Get(c.Request.Context(), types.ID(id))
	if err != nil {
		writeRideError(c, err)
		return
	}

	resp := rideResponse{
		ID:          string(r.ID),
		OwnerID:     string(r.OwnerID),
		Status:      string(r.Status),
		DriverName:  r.DriverName,
		CarDetails:  r.CarDetails,
		EtaMinutes:  r.EtaMinutes,
		CreatedAt:   r.CreatedAt,
		CompletedAt: r.CompletedAt,
	}
	if r.RideType != nil {
		t := string(*r.RideType)
		resp.RideType = &t
	}
	if r.Status != ride.StatusRequested && r.Status != ride.StatusCanceled {
		resp.Fare = r.FareEstimate.Display()
	}
	writeJSON(c, http.StatusOK, resp)
}
