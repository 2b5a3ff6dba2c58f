package dto

import (
	"time"

	"github.com/capitaldesk/desk/internal/fleet/domain"
)

// BusResponse represents a bus in API responses.
type BusResponse struct {
	ID          string    `json:"id"`
	FleetNumber string    `json:"fleet_number"`
	Plate       string    `json:"plate"`
	Model       string    `json:"model"`
	Depot       string    `json:"depot"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MapBusToResponse converts a domain bus into an API response.
func MapBusToResponse(b *domain.Bus) BusResponse {
	return BusResponse{
		ID:          b.ID.String(),
		FleetNumber: b.FleetNumber,
		Plate:       b.Plate,
		Model:       b.Model,
		Depot:       b.Depot,
		Status:      string(b.Status),
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

// ListBusesResponse represents a list of buses.
type ListBusesResponse struct {
	Data []BusResponse `json:"data"`
}

// MapBusesToListResponse converts a slice of buses into a list response.
func MapBusesToListResponse(buses []*domain.Bus) ListBusesResponse {
	data := make([]BusResponse, 0, len(buses))
	for _, b := range buses {
		data = append(data, MapBusToResponse(b))
	}
	return ListBusesResponse{Data: data}
}
