package dto

import (
	"time"

	"github.com/capitaldesk/desk/internal/cases/domain"
)

// CaseResponse represents a service case in API responses.
type CaseResponse struct {
	ID          string    `json:"id"`
	BusID       string    `json:"bus_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
	CreatedBy   string    `json:"created_by"`
	AssigneeID  *string   `json:"assignee_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MapCaseToResponse converts a domain case into an API response.
func MapCaseToResponse(c *domain.Case) CaseResponse {
	resp := CaseResponse{
		ID:          c.ID.String(),
		BusID:       c.BusID.String(),
		Title:       c.Title,
		Description: c.Description,
		Priority:    string(c.Priority),
		Status:      string(c.Status),
		CreatedBy:   c.CreatedBy.String(),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
	if c.AssigneeID != nil {
		id := c.AssigneeID.String()
		resp.AssigneeID = &id
	}
	return resp
}

// ListCasesResponse represents a list of cases.
type ListCasesResponse struct {
	Data []CaseResponse `json:"data"`
}

// MapCasesToListResponse converts a slice of cases into a list response.
func MapCasesToListResponse(cases []*domain.Case) ListCasesResponse {
	data := make([]CaseResponse, 0, len(cases))
	for _, c := range cases {
		data = append(data, MapCaseToResponse(c))
	}
	return ListCasesResponse{Data: data}
}
