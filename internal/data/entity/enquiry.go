package entity

import "github.com/google/uuid"

type EnquiryStatus string

const (
	EnquiryPending    EnquiryStatus = "pending"
	EnquiryInProgress EnquiryStatus = "in_progress"
	EnquiryResolved   EnquiryStatus = "resolved"
	EnquiryClosed     EnquiryStatus = "closed"
)

type Enquiry struct {
	BaseNoDelete
	UserID     *uuid.UUID    `db:"user_id"`
	Name       string        `db:"name"`
	Email      string        `db:"email"`
	Phone      string        `db:"phone"`
	Subject    string        `db:"subject"`
	Message    string        `db:"message"`
	Status     EnquiryStatus `db:"status"`
	AdminNotes string        `db:"admin_notes"`
}
