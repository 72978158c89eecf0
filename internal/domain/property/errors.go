package property

import "errors"

var (
	ErrPropertyNotFound = errors.New("property not found")
	ErrInquiryNotFound  = errors.New("property inquiry not found")
)
