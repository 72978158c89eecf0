package property

import (
	"time"

	"github.com/google/uuid"
)

type InquiryStatus string

const (
	InquiryRequested InquiryStatus = "Requested"
	InquiryAccepted  InquiryStatus = "Accepted"
	InquiryOngoing   InquiryStatus = "Ongoing"
	InquiryCompleted InquiryStatus = "Completed"
	InquiryCancelled InquiryStatus = "Cancelled"
)

func (s InquiryStatus) Valid() bool {
	switch s {
	case InquiryRequested, InquiryAccepted, InquiryOngoing, InquiryCompleted, InquiryCancelled:
		return true
	}
	return false
}

// Inquiry is a visitor's request about a listed property. UserID is set
// when the visitor was signed in.
type Inquiry struct {
	ID          uuid.UUID
	PropertyID  uuid.UUID
	Name        string
	Email       string
	PhoneNumber string
	Message     string
	Status      InquiryStatus
	UserID      *uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type InquiryFilter struct {
	PropertyID *uuid.UUID
	Status     InquiryStatus
}
