package contact

import (
	domainContact "estate-brokerage/internal/domain/contact"
	"time"
)

type MessageRequest struct {
	FullName    string `json:"fullname" validate:"required,min=2,max=255"`
	Email       string `json:"email" validate:"required,email,max=255"`
	PhoneNumber string `json:"phonenumber" validate:"required,phone"`
	Subject     string `json:"subject" validate:"required,max=200"`
	Message     string `json:"message" validate:"required,max=5000"`
}

type StatusRequest struct {
	Status string `json:"status" validate:"required,oneof=new read responded"`
}

type ListQuery struct {
	Status string `json:"status" form:"status" validate:"omitempty,oneof=new read responded"`
	Email  string `json:"email" form:"email" validate:"omitempty,email"`
	Date   string `json:"date" form:"date" validate:"omitempty,datetime=2006-01-02"`
}

type MessageResponse struct {
	ContactID   string    `json:"contact_id"`
	FullName    string    `json:"fullname"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phonenumber"`
	Subject     string    `json:"subject"`
	Message     string    `json:"message"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func ToMessageResponse(m *domainContact.Message) *MessageResponse {
	return &MessageResponse{
		ContactID:   m.Reference,
		FullName:    m.FullName,
		Email:       m.Email,
		PhoneNumber: m.PhoneNumber,
		Subject:     m.Subject,
		Message:     m.Body,
		Status:      string(m.Status),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
