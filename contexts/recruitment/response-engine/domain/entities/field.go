package entities

import "strings"

type FieldType string

const (
	FieldTypeSectionBreak   FieldType = "section-break"
	FieldTypeShortText      FieldType = "short-text"
	FieldTypeEmail          FieldType = "email"
	FieldTypePhone          FieldType = "phone"
	FieldTypeLongText       FieldType = "long-text"
	FieldTypeDropdown       FieldType = "dropdown"
	FieldTypeMultipleChoice FieldType = "multiple-choice"
	FieldTypeCheckboxes     FieldType = "checkboxes"
	FieldTypeDate           FieldType = "date"
	FieldTypeNumber         FieldType = "number"
	FieldTypeFileUpload     FieldType = "file-upload"
)

// LocalizedText maps a language code to a translation.
type LocalizedText map[string]string

// Resolve returns the translation for lang, falling back to "en",
// then to any available translation.
func (t LocalizedText) Resolve(lang string) string {
	if value, ok := t[lang]; ok && value != "" {
		return value
	}
	if value, ok := t["en"]; ok && value != "" {
		return value
	}
	for _, value := range t {
		if value != "" {
			return value
		}
	}
	return ""
}

// NumberSettings bounds a number field. Both bounds must be finite for the
// field to be aggregatable.
type NumberSettings struct {
	Min *float64
	Max *float64
}

type FieldDefinition struct {
	FieldID       string
	Type          FieldType
	Label         LocalizedText
	Placeholder   LocalizedText
	Required      bool
	Options       []LocalizedText
	AcceptedTypes []string
	MaxSizeBytes  int64
	Settings      *NumberSettings
}

// Interactive reports whether the field collects an answer.
func (f FieldDefinition) Interactive() bool {
	return f.Type != FieldTypeSectionBreak
}

// MultiValued reports whether answers to the field carry a value set
// rather than a scalar.
func (f FieldDefinition) MultiValued() bool {
	return f.Type == FieldTypeCheckboxes
}

// OptionValues flattens the field options to their canonical stored form.
func (f FieldDefinition) OptionValues(lang string) []string {
	values := make([]string, 0, len(f.Options))
	for _, option := range f.Options {
		values = append(values, option.Resolve(lang))
	}
	return values
}

func (f FieldDefinition) HasOption(value string) bool {
	for _, option := range f.Options {
		for _, translation := range option {
			if translation == value {
				return true
			}
		}
	}
	return false
}

func IsSupportedFieldType(value FieldType) bool {
	switch value {
	case FieldTypeSectionBreak, FieldTypeShortText, FieldTypeEmail,
		FieldTypePhone, FieldTypeLongText, FieldTypeDropdown,
		FieldTypeMultipleChoice, FieldTypeCheckboxes, FieldTypeDate,
		FieldTypeNumber, FieldTypeFileUpload:
		return true
	default:
		return false
	}
}

func IsChoiceType(value FieldType) bool {
	switch value {
	case FieldTypeDropdown, FieldTypeMultipleChoice, FieldTypeCheckboxes:
		return true
	default:
		return false
	}
}

// ValidateSchema checks the structural invariants of a form's field list:
// unique ids, supported types, options present on choice types.
func ValidateSchema(fields []FieldDefinition) bool {
	seen := make(map[string]bool, len(fields))
	for _, field := range fields {
		id := strings.TrimSpace(field.FieldID)
		if id == "" || seen[id] {
			return false
		}
		seen[id] = true
		if !IsSupportedFieldType(field.Type) {
			return false
		}
		if IsChoiceType(field.Type) && len(field.Options) == 0 {
			return false
		}
	}
	return true
}
