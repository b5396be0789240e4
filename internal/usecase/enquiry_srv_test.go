package usecase

import (
	"context"
	"errors"
	"testing"

	"knowledge-assistant/internal/data/entity"
	"knowledge-assistant/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEnquiry() *request.EnquiryRequest {
	return &request.EnquiryRequest{
		Name:    "Dana",
		Email:   "Dana@Example.com",
		Subject: "Pricing",
		Message: "Do you offer team plans?",
	}
}

func TestSubmitEnquiry_QueuesAdminAndConfirmation(t *testing.T) {
	h := newHarness(t)

	resp, err := h.svc.Enquiry.Submit(context.Background(), nil, validEnquiry())

	require.NoError(t, err)
	assert.Equal(t, entity.EnquiryPending, resp.Status)
	assert.Equal(t, "dana@example.com", resp.Email)
	assert.Nil(t, resp.UserID)
	assert.Len(t, h.db.enquiries, 1)

	require.Len(t, h.mail.jobs, 2)
	assert.Equal(t, []string{"admin@x.com"}, h.mail.jobs[0].To)
	assert.Contains(t, h.mail.jobs[0].Text, "/api/admin/enquiries/"+resp.ID)
	assert.Equal(t, []string{"dana@example.com"}, h.mail.jobs[1].To)
}

func TestSubmitEnquiry_SignedInUserAndQueueFailure(t *testing.T) {
	h := newHarness(t)
	h.mail.err = errors.New("queue full")
	userID := uuid.New()

	resp, err := h.svc.Enquiry.Submit(context.Background(), &userID, validEnquiry())

	require.NoError(t, err, "a full mail queue does not lose the enquiry")
	require.NotNil(t, resp.UserID)
	assert.Equal(t, userID.String(), *resp.UserID)
	assert.Len(t, h.db.enquiries, 1)
}

func TestSubmitEnquiry_Validation(t *testing.T) {
	h := newHarness(t)
	req := validEnquiry()
	req.Email = "not-an-email"

	_, err := h.svc.Enquiry.Submit(context.Background(), nil, req)

	assert.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, h.db.enquiries)
	assert.Empty(t, h.mail.jobs)
}

func TestEnquiryListAndUpdate(t *testing.T) {
	h := newHarness(t)
	first, err := h.svc.Enquiry.Submit(context.Background(), nil, validEnquiry())
	require.NoError(t, err)
	_, err = h.svc.Enquiry.Submit(context.Background(), nil, validEnquiry())
	require.NoError(t, err)

	updated, err := h.svc.Enquiry.Update(context.Background(), uuid.MustParse(first.ID), &request.UpdateEnquiryRequest{
		Status:     "resolved",
		AdminNotes: "Sent pricing sheet",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.EnquiryResolved, updated.Status)
	assert.Equal(t, "Sent pricing sheet", updated.AdminNotes)

	pending, err := h.svc.Enquiry.List(context.Background(), &request.EnquiryListRequest{Status: "pending"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, pending.Pagination.Total)

	all, err := h.svc.Enquiry.List(context.Background(), &request.EnquiryListRequest{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, all.Pagination.Total)

	_, err = h.svc.Enquiry.List(context.Background(), &request.EnquiryListRequest{Status: "archived"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = h.svc.Enquiry.Update(context.Background(), uuid.New(), &request.UpdateEnquiryRequest{Status: "closed"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = h.svc.Enquiry.Update(context.Background(), uuid.MustParse(first.ID), &request.UpdateEnquiryRequest{Status: "archived"})
	assert.ErrorIs(t, err, ErrValidation)
}
