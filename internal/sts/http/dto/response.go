package dto

import (
	"time"

	"github.com/capitaldesk/desk/internal/sts/domain"
)

// TicketResponse represents a ticket in API responses.
type TicketResponse struct {
	ID         string     `json:"id"`
	Subject    string     `json:"subject"`
	Body       string     `json:"body"`
	Category   string     `json:"category"`
	Priority   string     `json:"priority"`
	Status     string     `json:"status"`
	CreatedBy  string     `json:"created_by"`
	AssigneeID *string    `json:"assignee_id"`
	ClosedAt   *time.Time `json:"closed_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// MapTicketToResponse converts a domain ticket into an API response.
func MapTicketToResponse(t *domain.Ticket) TicketResponse {
	resp := TicketResponse{
		ID:        t.ID.String(),
		Subject:   t.Subject,
		Body:      t.Body,
		Category:  t.Category,
		Priority:  string(t.Priority),
		Status:    string(t.Status),
		CreatedBy: t.CreatedBy.String(),
		ClosedAt:  t.ClosedAt,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
	if t.AssigneeID != nil {
		id := t.AssigneeID.String()
		resp.AssigneeID = &id
	}
	return resp
}

// ListTicketsResponse represents a list of tickets.
type ListTicketsResponse struct {
	Data []TicketResponse `json:"data"`
}

// MapTicketsToListResponse converts a slice of tickets into a list response.
func MapTicketsToListResponse(tickets []*domain.Ticket) ListTicketsResponse {
	data := make([]TicketResponse, 0, len(tickets))
	for _, t := range tickets {
		data = append(data, MapTicketToResponse(t))
	}
	return ListTicketsResponse{Data: data}
}

// CommentResponse represents a ticket comment in API responses.
type CommentResponse struct {
	ID        string    `json:"id"`
	TicketID  string    `json:"ticket_id"`
	AuthorID  string    `json:"author_id"`
	Body      string    `json:"body"`
	Internal  bool      `json:"internal"`
	CreatedAt time.Time `json:"created_at"`
}

// MapCommentToResponse converts a domain comment into an API response.
func MapCommentToResponse(c *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID.String(),
		TicketID:  c.TicketID.String(),
		AuthorID:  c.AuthorID.String(),
		Body:      c.Body,
		Internal:  c.Internal,
		CreatedAt: c.CreatedAt,
	}
}

// ListCommentsResponse represents the comments of a ticket.
type ListCommentsResponse struct {
	Data []CommentResponse `json:"data"`
}

// MapCommentsToListResponse converts a slice of comments into a list response.
func MapCommentsToListResponse(comments []*domain.Comment) ListCommentsResponse {
	data := make([]CommentResponse, 0, len(comments))
	for _, c := range comments {
		data = append(data, MapCommentToResponse(c))
	}
	return ListCommentsResponse{Data: data}
}

// SummaryResponse counts tickets per status.
type SummaryResponse struct {
	Counts map[string]int `json:"counts"`
	Total  int            `json:"total"`
}

// MapSummaryToResponse converts a domain summary into an API response.
func MapSummaryToResponse(s *domain.Summary) SummaryResponse {
	counts := make(map[string]int, len(s.Counts))
	for status, n := range s.Counts {
		counts[string(status)] = n
	}
	return SummaryResponse{Counts: counts, Total: s.Total}
}
