package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/capitaldesk/desk/internal/workorder/domain"
)

// WorkOrderResponse represents a work order in API responses.
type WorkOrderResponse struct {
	ID           string    `json:"id"`
	CaseID       *string   `json:"case_id"`
	BusID        string    `json:"bus_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Status       string    `json:"status"`
	TechnicianID *string   `json:"technician_id"`
	CreatedBy    string    `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func stringPtr(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

// MapWorkOrderToResponse converts a domain work order into an API response.
func MapWorkOrderToResponse(wo *domain.WorkOrder) WorkOrderResponse {
	return WorkOrderResponse{
		ID:           wo.ID.String(),
		CaseID:       stringPtr(wo.CaseID),
		BusID:        wo.BusID.String(),
		Title:        wo.Title,
		Description:  wo.Description,
		Status:       string(wo.Status),
		TechnicianID: stringPtr(wo.TechnicianID),
		CreatedBy:    wo.CreatedBy.String(),
		CreatedAt:    wo.CreatedAt,
		UpdatedAt:    wo.UpdatedAt,
	}
}

// ListWorkOrdersResponse represents a list of work orders.
type ListWorkOrdersResponse struct {
	Data []WorkOrderResponse `json:"data"`
}

// MapWorkOrdersToListResponse converts a slice of work orders into a list response.
func MapWorkOrdersToListResponse(workOrders []*domain.WorkOrder) ListWorkOrdersResponse {
	data := make([]WorkOrderResponse, 0, len(workOrders))
	for _, wo := range workOrders {
		data = append(data, MapWorkOrderToResponse(wo))
	}
	return ListWorkOrdersResponse{Data: data}
}
