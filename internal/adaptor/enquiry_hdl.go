package adaptor

import (
	"net/http"

	"knowledge-assistant/internal/dto/request"
	"knowledge-assistant/internal/usecase"
	"knowledge-assistant/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EnquiryHandler struct {
	service usecase.EnquiryService
	log     *zap.Logger
}

func NewEnquiryHandler(service usecase.EnquiryService, log *zap.Logger) *EnquiryHandler {
	return &EnquiryHandler{
		service: service,
		log:     log.With(zap.String("handler", "enquiry")),
	}
}

// Submit handles POST /api/contact. Runs behind OptionalAuth; a signed in
// user is attached to the enquiry.
func (h *EnquiryHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req request.EnquiryRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	var userID *uuid.UUID
	if id, ok := utils.GetUserIDFromContext(r.Context()); ok {
		userID = &id
	}

	enquiry, err := h.service.Submit(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "submit enquiry", nil)
		return
	}

	utils.ResponseCreated(w, "Thank you for your enquiry! We will get back to you soon.", enquiry)
}

// List handles GET /api/admin/enquiries?status=&page=&per_page=
func (h *EnquiryHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.EnquiryListRequest{
		PaginatedRequest: request.PaginatedRequest{
			Page:    utils.ParseInt(query.Get("page"), 1),
			PerPage: utils.ParseInt(query.Get("per_page"), 10),
		},
		Status: query.Get("status"),
	}

	enquiries, err := h.service.List(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "list enquiries", nil)
		return
	}

	utils.ResponseSuccess(w, "success", enquiries)
}

// Update handles PUT /api/admin/enquiries/{id}
func (h *EnquiryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	var req request.UpdateEnquiryRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	enquiry, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update enquiry", nil)
		return
	}

	utils.ResponseSuccess(w, "Enquiry updated", enquiry)
}
