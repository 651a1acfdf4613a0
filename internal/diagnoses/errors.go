package diagnoses

import "errors"

var (
	ErrNotFound             = errors.New("diagnosis not found")
	ErrUnknownQuestion      = errors.New("unknown question")
	ErrNoAttachment         = errors.New("answer has no attachment")
	ErrNotSubmitted         = errors.New("diagnosis has no submitted report")
	ErrValidationPending    = errors.New("answers pending consultant validation")
	ErrInvalidValidation    = errors.New("invalid validation status")
	ErrGenerationInProgress = errors.New("report generation already in progress")
)
