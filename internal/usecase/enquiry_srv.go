package usecase

import (
	"context"
	"fmt"
	"strings"

	"knowledge-assistant/internal/data/entity"
	"knowledge-assistant/internal/data/repository"
	"knowledge-assistant/internal/dto/request"
	"knowledge-assistant/internal/dto/response"
	"knowledge-assistant/pkg/mailer"
	"knowledge-assistant/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EnquiryService interface {
	// Submit stores the enquiry and queues the admin notice and the
	// submitter's confirmation. userID is nil for anonymous visitors.
	Submit(ctx context.Context, userID *uuid.UUID, req *request.EnquiryRequest) (*response.EnquiryResponse, error)
	List(ctx context.Context, req *request.EnquiryListRequest) (*response.PaginatedResponse[response.EnquiryResponse], error)
	Update(ctx context.Context, id uuid.UUID, req *request.UpdateEnquiryRequest) (*response.EnquiryResponse, error)
}

type enquiryService struct {
	enquiryRepo repository.EnquiryRepository
	config      *utils.Config
	mail        EmailQueue
	log         *zap.Logger
	now         Clock
}

func NewEnquiryService(
	enquiryRepo repository.EnquiryRepository,
	config *utils.Config,
	mail EmailQueue,
	log *zap.Logger,
	now Clock,
) EnquiryService {
	return &enquiryService{
		enquiryRepo: enquiryRepo,
		config:      config,
		mail:        mail,
		log:         log.With(zap.String("service", "enquiry")),
		now:         now,
	}
}

func (s *enquiryService) Submit(ctx context.Context, userID *uuid.UUID, req *request.EnquiryRequest) (*response.EnquiryResponse, error) {
	// 1. Validasi
	req.Email = normalizeEmail(req.Email)
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Enquiry validation failed", zap.Any("errors", errs))
		return nil, validationError(utils.FormatValidationErrors(errs))
	}

	// 2. Simpan
	now := s.now()
	enquiry := &entity.Enquiry{
		BaseNoDelete: entity.NewBaseNoDelete(now),
		UserID:       userID,
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		Phone:        strings.TrimSpace(req.Phone),
		Subject:      strings.TrimSpace(req.Subject),
		Message:      req.Message,
		Status:       entity.EnquiryPending,
	}
	if err := s.enquiryRepo.Create(ctx, enquiry); err != nil {
		s.log.Error("Failed to create enquiry", zap.Error(err), zap.String("email", req.Email))
		return nil, fmt.Errorf("failed to submit enquiry")
	}

	// 3. Email admin + konfirmasi (async)
	s.queueEmails(enquiry)

	s.log.Info("Enquiry submitted",
		zap.String("enquiry_id", enquiry.ID.String()),
		zap.String("email", enquiry.Email))

	resp := response.EnquiryToResponse(enquiry)
	return &resp, nil
}

func (s *enquiryService) List(ctx context.Context, req *request.EnquiryListRequest) (*response.PaginatedResponse[response.EnquiryResponse], error) {
	// Set defaults
	if req.Page < 1 {
		req.Page = 1
	}
	req.PerPage = req.Limit()

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(utils.FormatValidationErrors(errs))
	}

	var status *string
	if req.Status != "" {
		status = &req.Status
	}

	items, err := s.enquiryRepo.FindAll(ctx, status, req.Offset(), req.PerPage)
	if err != nil {
		s.log.Error("Failed to list enquiries", zap.Error(err))
		return nil, fmt.Errorf("failed to get enquiries")
	}

	total, err := s.enquiryRepo.CountAll(ctx, status)
	if err != nil {
		s.log.Error("Failed to count enquiries", zap.Error(err))
		return nil, fmt.Errorf("failed to get enquiries")
	}

	return response.NewPaginatedResponse(response.EnquiriesToResponse(items), req.Page, req.PerPage, total), nil
}

func (s *enquiryService) Update(ctx context.Context, id uuid.UUID, req *request.UpdateEnquiryRequest) (*response.EnquiryResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(utils.FormatValidationErrors(errs))
	}

	enquiry, err := s.enquiryRepo.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to find enquiry", zap.Error(err), zap.String("enquiry_id", id.String()))
		return nil, fmt.Errorf("failed to update enquiry")
	}
	if enquiry == nil {
		return nil, fmt.Errorf("enquiry %w", ErrNotFound)
	}

	enquiry.Status = entity.EnquiryStatus(req.Status)
	enquiry.AdminNotes = req.AdminNotes
	enquiry.UpdatedAt = s.now()

	if err := s.enquiryRepo.Update(ctx, enquiry); err != nil {
		s.log.Error("Failed to update enquiry", zap.Error(err), zap.String("enquiry_id", id.String()))
		return nil, fmt.Errorf("failed to update enquiry")
	}

	s.log.Info("Enquiry updated",
		zap.String("enquiry_id", id.String()),
		zap.String("status", req.Status))

	resp := response.EnquiryToResponse(enquiry)
	return &resp, nil
}

func (s *enquiryService) queueEmails(enquiry *entity.Enquiry) {
	data := mailer.EnquiryData{
		AppName:      s.config.App.Name,
		Name:         enquiry.Name,
		Email:        enquiry.Email,
		Phone:        enquiry.Phone,
		Subject:      enquiry.Subject,
		Message:      enquiry.Message,
		CreatedAt:    enquiry.CreatedAt.Format("January 2, 2006 15:04"),
		AdminURL:     strings.TrimRight(s.config.App.SiteURL, "/") + "/api/admin/enquiries/" + enquiry.ID.String(),
		SupportEmail: s.config.Email.SupportEmail,
	}

	jobs := make([]mailer.Job, 0, 2)
	if admin := s.config.Email.AdminEmail; admin != "" {
		job, err := mailer.EnquiryAdminJob(admin, data)
		if err != nil {
			s.log.Error("Failed to render enquiry admin email", zap.Error(err))
		} else {
			jobs = append(jobs, job)
		}
	}
	job, err := mailer.EnquiryConfirmationJob(data)
	if err != nil {
		s.log.Error("Failed to render enquiry confirmation", zap.Error(err))
	} else {
		jobs = append(jobs, job)
	}

	for _, job := range jobs {
		if err := s.mail.Submit(job); err != nil {
			s.log.Error("Failed to queue enquiry email",
				zap.Error(err),
				zap.String("subject", job.Subject),
				zap.String("enquiry_id", enquiry.ID.String()))
		}
	}
}
