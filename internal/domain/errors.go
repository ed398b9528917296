package domain

import "errors"

var (
	ErrStorageUnavailable   = errors.New("storage unavailable")
	ErrInvalidFeedback      = errors.New("invalid feedback")
	ErrNotFound             = errors.New("not found")
	ErrUpstreamUnavailable  = errors.New("upstream unavailable")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrMessageNotFound      = errors.New("message not found")
	ErrInvalidSender        = errors.New("invalid sender")
	ErrUnknownAction        = errors.New("unknown action")
	ErrFileTypeNotAllowed   = errors.New("file type not allowed")
	ErrFileTooLarge         = errors.New("file too large")
	ErrEmptyFileName        = errors.New("no selected file")
	ErrInvalidRange         = errors.New("invalid date range")
)
