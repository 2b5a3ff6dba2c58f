package dto

import (
	"time"

	"github.com/capitaldesk/desk/internal/shift/domain"
)

// ShiftResponse represents a shift in API responses.
type ShiftResponse struct {
	ID           string    `json:"id"`
	TechnicianID string    `json:"technician_id"`
	StartsAt     time.Time `json:"starts_at"`
	EndsAt       time.Time `json:"ends_at"`
	Depot        string    `json:"depot"`
	Note         string    `json:"note"`
	CreatedBy    string    `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
}

// MapShiftToResponse converts a domain shift into an API response.
func MapShiftToResponse(s *domain.Shift) ShiftResponse {
	return ShiftResponse{
		ID:           s.ID.String(),
		TechnicianID: s.TechnicianID.String(),
		StartsAt:     s.StartsAt,
		EndsAt:       s.EndsAt,
		Depot:        s.Depot,
		Note:         s.Note,
		CreatedBy:    s.CreatedBy.String(),
		CreatedAt:    s.CreatedAt,
	}
}

// ListShiftsResponse represents the shifts of a date range.
type ListShiftsResponse struct {
	Data []ShiftResponse `json:"data"`
}

// MapShiftsToListResponse converts a slice of shifts into a list response.
func MapShiftsToListResponse(shifts []*domain.Shift) ListShiftsResponse {
	data := make([]ShiftResponse, 0, len(shifts))
	for _, s := range shifts {
		data = append(data, MapShiftToResponse(s))
	}
	return ListShiftsResponse{Data: data}
}
