package services

import (
	"testing"

	"crewcall/contexts/recruitment/response-engine/domain/entities"
	domainerrors "crewcall/contexts/recruitment/response-engine/domain/errors"
)

func textField(fieldType entities.FieldType, required bool) entities.FieldDefinition {
	return entities.FieldDefinition{
		FieldID:  "f1",
		Type:     fieldType,
		Label:    entities.LocalizedText{"en": "Field"},
		Required: required,
	}
}

func choiceField(fieldType entities.FieldType, options ...string) entities.FieldDefinition {
	field := entities.FieldDefinition{
		FieldID: "f1",
		Type:    fieldType,
		Label:   entities.LocalizedText{"en": "Field"},
	}
	for _, option := range options {
		field.Options = append(field.Options, entities.LocalizedText{"en": option})
	}
	return field
}

func TestValidateAnswerRequiredEmpty(t *testing.T) {
	v := ValidateAnswer(textField(entities.FieldTypeShortText, true), AnswerInput{})
	if v == nil || v.Reason != domainerrors.ReasonMissingValue {
		t.Fatalf("expected missing_value for empty required field, got %v", v)
	}
}

func TestValidateAnswerOptionalEmptyPasses(t *testing.T) {
	if v := ValidateAnswer(textField(entities.FieldTypeShortText, false), AnswerInput{}); v != nil {
		t.Fatalf("empty optional field must pass, got %v", v)
	}
}

func TestValidateAnswerSectionBreakAlwaysPasses(t *testing.T) {
	field := textField(entities.FieldTypeSectionBreak, true)
	if v := ValidateAnswer(field, AnswerInput{}); v != nil {
		t.Fatalf("section break must never produce a violation, got %v", v)
	}
}

func TestValidateAnswerEmail(t *testing.T) {
	field := textField(entities.FieldTypeEmail, true)
	if v := ValidateAnswer(field, AnswerInput{Value: "jane@example.com"}); v != nil {
		t.Fatalf("valid email rejected: %v", v)
	}
	v := ValidateAnswer(field, AnswerInput{Value: "not-an-email"})
	if v == nil || v.Reason != domainerrors.ReasonInvalidFormat {
		t.Fatalf("expected invalid_format for bad email, got %v", v)
	}
}

func TestValidateAnswerPhone(t *testing.T) {
	field := textField(entities.FieldTypePhone, true)
	if v := ValidateAnswer(field, AnswerInput{Value: "+49 170 1234567"}); v != nil {
		t.Fatalf("valid phone rejected: %v", v)
	}
	if v := ValidateAnswer(field, AnswerInput{Value: "call me"}); v == nil {
		t.Fatalf("expected violation for non-numeric phone")
	}
}

func TestValidateAnswerDropdownOption(t *testing.T) {
	field := choiceField(entities.FieldTypeDropdown, "Camera", "Sound")
	if v := ValidateAnswer(field, AnswerInput{Value: "Camera"}); v != nil {
		t.Fatalf("declared option rejected: %v", v)
	}
	v := ValidateAnswer(field, AnswerInput{Value: "Catering"})
	if v == nil || v.Reason != domainerrors.ReasonInvalidOption {
		t.Fatalf("expected invalid_option for undeclared value, got %v", v)
	}
}

func TestValidateAnswerCheckboxes(t *testing.T) {
	field := choiceField(entities.FieldTypeCheckboxes, "Mon", "Tue", "Wed")
	if v := ValidateAnswer(field, AnswerInput{Values: []string{"Mon", "Wed"}}); v != nil {
		t.Fatalf("valid selection rejected: %v", v)
	}
	v := ValidateAnswer(field, AnswerInput{Values: []string{"Mon", "Sun"}})
	if v == nil || v.Reason != domainerrors.ReasonInvalidOption {
		t.Fatalf("expected invalid_option for undeclared selection, got %v", v)
	}
	v = ValidateAnswer(field, AnswerInput{Value: "Mon"})
	if v == nil || v.Reason != domainerrors.ReasonMalformedValue {
		t.Fatalf("scalar answer to checkboxes must be malformed_value, got %v", v)
	}
}

func TestValidateAnswerDate(t *testing.T) {
	field := textField(entities.FieldTypeDate, true)
	if v := ValidateAnswer(field, AnswerInput{Value: "2026-03-15"}); v != nil {
		t.Fatalf("ISO date rejected: %v", v)
	}
	if v := ValidateAnswer(field, AnswerInput{Value: "15.03.2026"}); v == nil {
		t.Fatalf("expected violation for non-ISO date")
	}
}

func TestValidateAnswerNumber(t *testing.T) {
	field := textField(entities.FieldTypeNumber, true)
	if v := ValidateAnswer(field, AnswerInput{Value: "42.5"}); v != nil {
		t.Fatalf("numeric value rejected: %v", v)
	}
	if v := ValidateAnswer(field, AnswerInput{Value: "many"}); v == nil {
		t.Fatalf("expected violation for non-numeric value")
	}
}

func TestValidateAnswerFileSizeAndType(t *testing.T) {
	field := entities.FieldDefinition{
		FieldID:       "cv",
		Type:          entities.FieldTypeFileUpload,
		Label:         entities.LocalizedText{"en": "CV"},
		Required:      true,
		AcceptedTypes: []string{".pdf", "image/*"},
		MaxSizeBytes:  1024,
	}

	ok := AnswerInput{File: &FileInput{OriginalName: "cv.pdf", ContentType: "application/pdf", SizeBytes: 512}}
	if v := ValidateAnswer(field, ok); v != nil {
		t.Fatalf("accepted upload rejected: %v", v)
	}

	image := AnswerInput{File: &FileInput{OriginalName: "photo.png", ContentType: "image/png", SizeBytes: 512}}
	if v := ValidateAnswer(field, image); v != nil {
		t.Fatalf("image/* wildcard should accept image/png, got %v", v)
	}

	big := AnswerInput{File: &FileInput{OriginalName: "cv.pdf", ContentType: "application/pdf", SizeBytes: 4096}}
	if v := ValidateAnswer(field, big); v == nil || v.Reason != domainerrors.ReasonFileTooLarge {
		t.Fatalf("expected file_too_large, got %v", v)
	}

	exe := AnswerInput{File: &FileInput{OriginalName: "tool.exe", ContentType: "application/octet-stream", SizeBytes: 10}}
	if v := ValidateAnswer(field, exe); v == nil || v.Reason != domainerrors.ReasonUnsupportedFileType {
		t.Fatalf("expected unsupported_file_type, got %v", v)
	}
}
