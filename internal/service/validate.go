package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"taskHelper/internal/models/task"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("priority", func(fl validator.FieldLevel) bool {
		p := fl.Field().Int()
		return p >= task.PriorityHigh && p <= task.PriorityLow
	})
	_ = v.RegisterValidation("status", func(fl validator.FieldLevel) bool {
		return task.Status(fl.Field().String()).Valid()
	})
	return v
}

var (
	priorityReason = fmt.Sprintf("must be an integer between %d and %d", task.PriorityHigh, task.PriorityLow)
	statusReason   = fmt.Sprintf("must be one of: %s %s", task.StatusOpen, task.StatusDone)
)

type createPayload struct {
	Title    string  `json:"title" validate:"required"`
	Notes    *string `json:"notes"`
	Priority *int    `json:"priority" validate:"omitnil,priority"`
	DueDate  *string `json:"dueDate"`
}

type updatePayload struct {
	Title    *string `json:"title" validate:"omitnil,min=1"`
	Priority *int    `json:"priority" validate:"omitnil,priority"`
	Status   *string `json:"status" validate:"omitnil,status"`
}

// fieldErrors collects one reason per field name.
type fieldErrors map[string]string

func (f fieldErrors) add(field, reason string) {
	if _, ok := f[field]; !ok {
		f[field] = reason
	}
}

func (f fieldErrors) addValidation(err error) {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return
	}
	for _, fe := range validationErrs {
		f.add(fe.Field(), reasonFor(fe))
	}
}

func reasonFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must not be empty"
	case "priority":
		return priorityReason
	case "status":
		return statusReason
	default:
		return "is invalid"
	}
}

// ValidateCreate checks a creation body: title is a non-empty string after
// trimming; priority, if present, an integer 1..3; notes and dueDate, if
// present, strings.
func ValidateCreate(body []byte) (task.CreateInput, error) {
	raw, err := decodeObject(body)
	if err != nil {
		return task.CreateInput{}, err
	}

	errs := fieldErrors{}
	var payload createPayload

	if v, ok := raw["title"]; ok {
		if s, ok := decodeString(v); ok {
			payload.Title = strings.TrimSpace(s)
		} else {
			errs.add("title", "must be a string")
		}
	}
	if v, ok := raw["notes"]; ok {
		if s, ok := decodeString(v); ok {
			payload.Notes = &s
		} else {
			errs.add("notes", "must be a string")
		}
	}
	if v, ok := raw["priority"]; ok {
		if p, reason := decodePriority(v); reason == "" {
			payload.Priority = &p
		} else {
			errs.add("priority", reason)
		}
	}
	if v, ok := raw["dueDate"]; ok {
		if s, ok := decodeString(v); ok {
			payload.DueDate = &s
		} else {
			errs.add("dueDate", "must be a string")
		}
	}

	errs.addValidation(validate.Struct(payload))
	if len(errs) > 0 {
		return task.CreateInput{}, NewValidationError(errs)
	}

	return task.CreateInput{
		Title:    payload.Title,
		Notes:    payload.Notes,
		Priority: payload.Priority,
		DueDate:  payload.DueDate,
	}, nil
}

// ValidateUpdate checks a sparse update body. notes, priority and dueDate
// accept null to clear the field; title and status do not. Unknown keys are
// ignored, and a body with no recognised field fails with NO_FIELDS.
func ValidateUpdate(body []byte) (task.Patch, error) {
	raw, err := decodeObject(body)
	if err != nil {
		return task.Patch{}, err
	}

	errs := fieldErrors{}
	var patch task.Patch
	var payload updatePayload

	if v, ok := raw["title"]; ok {
		if s, ok := decodeString(v); ok {
			s = strings.TrimSpace(s)
			payload.Title = &s
			patch.Title = task.Value(s)
		} else {
			errs.add("title", "must be a non-empty string")
		}
	}
	if v, ok := raw["notes"]; ok {
		if err := json.Unmarshal(v, &patch.Notes); err != nil {
			errs.add("notes", "must be a string or null")
		}
	}
	if v, ok := raw["priority"]; ok {
		if isNull(v) {
			patch.Priority = task.Null[int]()
		} else if p, reason := decodePriority(v); reason == "" {
			payload.Priority = &p
			patch.Priority = task.Value(p)
		} else {
			errs.add("priority", reason)
		}
	}
	if v, ok := raw["dueDate"]; ok {
		if err := json.Unmarshal(v, &patch.DueDate); err != nil {
			errs.add("dueDate", "must be a string or null")
		}
	}
	if v, ok := raw["status"]; ok {
		if s, ok := decodeString(v); ok {
			payload.Status = &s
			patch.Status = task.Value(task.Status(s))
		} else {
			errs.add("status", statusReason)
		}
	}

	errs.addValidation(validate.Struct(payload))
	if len(errs) > 0 {
		return task.Patch{}, NewValidationError(errs)
	}
	if patch.IsEmpty() {
		return task.Patch{}, NewNoFieldsError()
	}
	return patch, nil
}

func decodeObject(body []byte) (map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return nil, NewValidationError(map[string]string{"body": "must be a JSON object"})
	}
	return raw, nil
}

func isNull(raw json.RawMessage) bool {
	return strings.TrimSpace(string(raw)) == "null"
}

// decodeString rejects null as well as non-string values.
func decodeString(raw json.RawMessage) (string, bool) {
	if isNull(raw) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// decodePriority returns the integer or a reason it is not one. The range
// itself is left to the struct validator.
func decodePriority(raw json.RawMessage) (int, string) {
	if isNull(raw) {
		return 0, priorityReason
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, priorityReason
	}
	if f != math.Trunc(f) {
		return 0, "must be an integer"
	}
	if f < math.MinInt32 || f > math.MaxInt32 {
		return 0, priorityReason
	}
	return int(f), ""
}
