package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrCampaignNotFound       = errors.New("campaign not found")
	ErrCampaignNotOpen        = errors.New("campaign is not open for responses")
	ErrCampaignFull           = errors.New("campaign has no spots left")
	ErrResponseNotFound       = errors.New("response not found")
	ErrInvalidRating          = errors.New("rating must be between 1 and 5")
	ErrInvalidReviewStatus    = errors.New("unsupported review status")
	ErrInvalidCampaignInput   = errors.New("invalid campaign input")
	ErrInvalidResponseInput   = errors.New("invalid response input")
	ErrUnsupportedField       = errors.New("field is not aggregatable")
	ErrFieldNotFound          = errors.New("field not found")
	ErrIdempotencyKeyConflict = errors.New("idempotency key conflict")
	ErrAttachmentStoreFailed  = errors.New("attachment storage failed")
)

type ViolationReason string

const (
	ReasonMissingValue        ViolationReason = "missing_value"
	ReasonInvalidOption       ViolationReason = "invalid_option"
	ReasonInvalidFormat       ViolationReason = "invalid_format"
	ReasonFileTooLarge        ViolationReason = "file_too_large"
	ReasonUnsupportedFileType ViolationReason = "unsupported_file_type"
	ReasonMalformedValue      ViolationReason = "malformed_value"
	ReasonUnknownField        ViolationReason = "unknown_field"
)

// FieldViolation pins a validation failure to a single field.
type FieldViolation struct {
	FieldID string          `json:"field_id"`
	Reason  ViolationReason `json:"reason"`
	Message string          `json:"message"`
}

// ValidationError aggregates every field violation found in a submission,
// so one round-trip reports all of them.
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, fmt.Sprintf("%s: %s", v.FieldID, v.Reason))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// AsValidationError unwraps err into a *ValidationError, if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var target *ValidationError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}
