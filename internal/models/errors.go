package models

import "errors"

var (
	ErrNotFound   = errors.New("record not found")
	ErrValidation = errors.New("validation error")
)

var (
	ErrTicketUsed     = errors.New("ticket already used")
	ErrIssuanceFailed = errors.New("ticket issuance failed")
)
