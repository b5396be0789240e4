package request

type EnquiryRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email,max=254"`
	Phone   string `json:"phone" validate:"max=20"`
	Subject string `json:"subject" validate:"required,max=200"`
	Message string `json:"message" validate:"required"`
}

type EnquiryListRequest struct {
	PaginatedRequest
	Status string `json:"status" validate:"omitempty,oneof=pending in_progress resolved closed"`
}

type UpdateEnquiryRequest struct {
	Status     string `json:"status" validate:"required,oneof=pending in_progress resolved closed"`
	AdminNotes string `json:"admin_notes"`
}
