package response

import (
	"time"

	"knowledge-assistant/internal/data/entity"
)

type EnquiryResponse struct {
	ID         string               `json:"id"`
	UserID     *string              `json:"user_id,omitempty"`
	Name       string               `json:"name"`
	Email      string               `json:"email"`
	Phone      string               `json:"phone"`
	Subject    string               `json:"subject"`
	Message    string               `json:"message"`
	Status     entity.EnquiryStatus `json:"status"`
	AdminNotes string               `json:"admin_notes,omitempty"`
	CreatedAt  time.Time            `json:"created_at"`
	UpdatedAt  time.Time            `json:"updated_at"`
}

func EnquiryToResponse(e *entity.Enquiry) EnquiryResponse {
	resp := EnquiryResponse{
		ID:         e.ID.String(),
		Name:       e.Name,
		Email:      e.Email,
		Phone:      e.Phone,
		Subject:    e.Subject,
		Message:    e.Message,
		Status:     e.Status,
		AdminNotes: e.AdminNotes,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
	if e.UserID != nil {
		id := e.UserID.String()
		resp.UserID = &id
	}
	return resp
}

func EnquiriesToResponse(items []*entity.Enquiry) []EnquiryResponse {
	result := make([]EnquiryResponse, 0, len(items))
	for _, e := range items {
		result = append(result, EnquiryToResponse(e))
	}
	return result
}
