package services

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"crewcall/contexts/recruitment/response-engine/domain/entities"
	domainerrors "crewcall/contexts/recruitment/response-engine/domain/errors"
)

var (
	reEmail = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	rePhone = regexp.MustCompile(`^\+?[0-9][0-9 ()\-.]{5,19}$`)
)

const dateLayout = "2006-01-02"

// FileInput is the metadata the validator inspects for file-upload fields.
// Byte contents never pass through the domain layer.
type FileInput struct {
	OriginalName string
	ContentType  string
	SizeBytes    int64
}

// AnswerInput is one raw answer as received from a submitter. Exactly one
// of Value, Values, or File is expected, matching the field's cardinality.
type AnswerInput struct {
	Value  string
	Values []string
	File   *FileInput
}

func (in AnswerInput) empty() bool {
	return strings.TrimSpace(in.Value) == "" && len(in.Values) == 0 && in.File == nil
}

type fieldValidator func(field entities.FieldDefinition, in AnswerInput) *domainerrors.FieldViolation

// fieldValidators dispatches per field type, keeping the validation
// contract exhaustive over the FieldType enum in one place.
var fieldValidators = map[entities.FieldType]fieldValidator{
	entities.FieldTypeShortText:      validateScalar,
	entities.FieldTypeLongText:       validateScalar,
	entities.FieldTypeEmail:          validateEmail,
	entities.FieldTypePhone:          validatePhone,
	entities.FieldTypeDropdown:       validateChoice,
	entities.FieldTypeMultipleChoice: validateChoice,
	entities.FieldTypeCheckboxes:     validateCheckboxes,
	entities.FieldTypeDate:           validateDate,
	entities.FieldTypeNumber:         validateNumber,
	entities.FieldTypeFileUpload:     validateFile,
}

// ValidateAnswer checks one raw answer against its field definition.
// It is a pure function: nil means the answer is acceptable.
// Section breaks are non-interactive and always pass.
func ValidateAnswer(field entities.FieldDefinition, in AnswerInput) *domainerrors.FieldViolation {
	if !field.Interactive() {
		return nil
	}
	if in.empty() {
		if field.Required {
			return violation(field, domainerrors.ReasonMissingValue, "a value is required")
		}
		return nil
	}

	validate, ok := fieldValidators[field.Type]
	if !ok {
		return violation(field, domainerrors.ReasonMalformedValue, "unsupported field type")
	}
	return validate(field, in)
}

func validateScalar(field entities.FieldDefinition, in AnswerInput) *domainerrors.FieldViolation {
	if len(in.Values) > 0 || in.File != nil {
		return violation(field, domainerrors.ReasonMalformedValue, "expected a single text value")
	}
	return nil
}

func validateEmail(field entities.FieldDefinition, in AnswerInput) *domainerrors.FieldViolation {
	if v := validateScalar(field, in); v != nil {
		return v
	}
	if !reEmail.MatchString(strings.TrimSpace(in.Value)) {
		return violation(field, domainerrors.ReasonInvalidFormat, "not a valid email address")
	}
	return nil
}

func validatePhone(field entities.FieldDefinition, in AnswerInput) *domainerrors.FieldViolation {
	if v := validateScalar(field, in); v != nil {
		return v
	}
	if !rePhone.MatchString(strings.TrimSpace(in.Value)) {
		return violation(field, domainerrors.ReasonInvalidFormat, "not a valid phone number")
	}
	return nil
}

func validateChoice(field entities.FieldDefinition, in AnswerInput) *domainerrors.FieldViolation {
	if len(in.Values) > 0 || in.File != nil {
		return violation(field, domainerrors.ReasonMalformedValue, "expected a single selected option")
	}
	if !field.HasOption(in.Value) {
		return violation(field, domainerrors.ReasonInvalidOption, "value is not among the field options")
	}
	return nil
}

func validateCheckboxes(field entities.FieldDefinition, in AnswerInput) *domainerrors.FieldViolation {
	if strings.TrimSpace(in.Value) != "" || in.File != nil {
		return violation(field, domainerrors.ReasonMalformedValue, "expected a set of selected options")
	}
	for _, value := range in.Values {
		if !field.HasOption(value) {
			return violation(field, domainerrors.ReasonInvalidOption, "selection is not among the field options")
		}
	}
	return nil
}

func validateDate(field entities.FieldDefinition, in AnswerInput) *domainerrors.FieldViolation {
	if v := validateScalar(field, in); v != nil {
		return v
	}
	if _, err := time.Parse(dateLayout, strings.TrimSpace(in.Value)); err != nil {
		return violation(field, domainerrors.ReasonInvalidFormat, "expected an ISO date (YYYY-MM-DD)")
	}
	return nil
}

func validateNumber(field entities.FieldDefinition, in AnswerInput) *domainerrors.FieldViolation {
	if v := validateScalar(field, in); v != nil {
		return v
	}
	if _, err := strconv.ParseFloat(strings.TrimSpace(in.Value), 64); err != nil {
		return violation(field, domainerrors.ReasonInvalidFormat, "expected a number")
	}
	return nil
}

func validateFile(field entities.FieldDefinition, in AnswerInput) *domainerrors.FieldViolation {
	if in.File == nil {
		return violation(field, domainerrors.ReasonMalformedValue, "expected a file upload")
	}
	if field.MaxSizeBytes > 0 && in.File.SizeBytes > field.MaxSizeBytes {
		return violation(field, domainerrors.ReasonFileTooLarge, "file exceeds the size limit")
	}
	if len(field.AcceptedTypes) > 0 && !matchesAcceptedType(field.AcceptedTypes, in.File) {
		return violation(field, domainerrors.ReasonUnsupportedFileType, "file type is not accepted")
	}
	return nil
}

// matchesAcceptedType checks patterns of three shapes: ".ext" filename
// suffixes, "type/*" MIME prefixes, and exact MIME types.
func matchesAcceptedType(patterns []string, file *FileInput) bool {
	contentType := strings.ToLower(strings.TrimSpace(file.ContentType))
	name := strings.ToLower(strings.TrimSpace(file.OriginalName))
	for _, raw := range patterns {
		pattern := strings.ToLower(strings.TrimSpace(raw))
		switch {
		case pattern == "":
			continue
		case strings.HasPrefix(pattern, "."):
			if strings.HasSuffix(name, pattern) {
				return true
			}
		case strings.HasSuffix(pattern, "/*"):
			if strings.HasPrefix(contentType, strings.TrimSuffix(pattern, "*")) {
				return true
			}
		default:
			if contentType == pattern {
				return true
			}
		}
	}
	return false
}

func violation(field entities.FieldDefinition, reason domainerrors.ViolationReason, message string) *domainerrors.FieldViolation {
	return &domainerrors.FieldViolation{
		FieldID: field.FieldID,
		Reason:  reason,
		Message: message,
	}
}
