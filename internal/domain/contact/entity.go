package contact

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusNew       Status = "new"
	StatusRead      Status = "read"
	StatusResponded Status = "responded"
)

func (s Status) Valid() bool {
	return s == StatusNew || s == StatusRead || s == StatusResponded
}

// Message is a submission of the public contact form.
type Message struct {
	ID          uuid.UUID
	Reference   string
	FullName    string
	Email       string
	PhoneNumber string
	Subject     string
	Body        string
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Filter narrows the inbox. Date matches the whole UTC day of submission.
type Filter struct {
	Status Status
	Email  string
	Date   *time.Time
}
