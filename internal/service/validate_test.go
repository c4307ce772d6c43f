package service_test

import (
	"testing"

	"taskHelper/internal/models/task"
	"taskHelper/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCreate(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		want        task.CreateInput
		errorFields []string
	}{
		{
			name: "title only",
			body: `{"title":"Write report"}`,
			want: task.CreateInput{Title: "Write report"},
		},
		{
			name: "all fields, title trimmed",
			body: `{"title":"  Plan trip ","notes":"book hotel","priority":2,"dueDate":"2025-06-01T10:00:00Z"}`,
			want: task.CreateInput{
				Title:    "Plan trip",
				Notes:    strPtr("book hotel"),
				Priority: intPtr(2),
				DueDate:  strPtr("2025-06-01T10:00:00Z"),
			},
		},
		{
			name: "priority written as float",
			body: `{"title":"x","priority":3.0}`,
			want: task.CreateInput{Title: "x", Priority: intPtr(3)},
		},
		{
			name: "unknown keys ignored",
			body: `{"title":"x","colour":"red"}`,
			want: task.CreateInput{Title: "x"},
		},
		{name: "missing title", body: `{"notes":"n"}`, errorFields: []string{"title"}},
		{name: "blank title", body: `{"title":"   "}`, errorFields: []string{"title"}},
		{name: "title not a string", body: `{"title":5}`, errorFields: []string{"title"}},
		{name: "priority out of range", body: `{"title":"x","priority":4}`, errorFields: []string{"priority"}},
		{name: "priority zero", body: `{"title":"x","priority":0}`, errorFields: []string{"priority"}},
		{name: "priority fractional", body: `{"title":"x","priority":1.5}`, errorFields: []string{"priority"}},
		{name: "priority string", body: `{"title":"x","priority":"1"}`, errorFields: []string{"priority"}},
		{name: "priority null", body: `{"title":"x","priority":null}`, errorFields: []string{"priority"}},
		{name: "due date not a string", body: `{"title":"x","dueDate":20250101}`, errorFields: []string{"dueDate"}},
		{name: "notes not a string", body: `{"title":"x","notes":["a"]}`, errorFields: []string{"notes"}},
		{name: "several errors", body: `{"priority":9,"dueDate":1}`, errorFields: []string{"title", "priority", "dueDate"}},
		{name: "not an object", body: `[1,2]`, errorFields: []string{"body"}},
		{name: "invalid json", body: `{"title":`, errorFields: []string{"body"}},
		{name: "null body", body: `null`, errorFields: []string{"body"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := service.ValidateCreate([]byte(tt.body))

			if tt.errorFields == nil {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
				return
			}

			businessErr, ok := service.AsBusinessError(err)
			require.True(t, ok)
			assert.Equal(t, service.CodeValidation, businessErr.Code)
			assert.Len(t, businessErr.Details, len(tt.errorFields))
			for _, field := range tt.errorFields {
				assert.Contains(t, businessErr.Details, field)
			}
		})
	}
}

func TestValidateUpdate(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		check       func(t *testing.T, p task.Patch)
		errorCode   string
		errorFields []string
	}{
		{
			name: "title only",
			body: `{"title":"Renamed"}`,
			check: func(t *testing.T, p task.Patch) {
				assert.Equal(t, []string{"title"}, p.Fields())
				v, ok := p.Title.Get()
				assert.True(t, ok)
				assert.Equal(t, "Renamed", v)
			},
		},
		{
			name: "explicit nulls clear fields",
			body: `{"notes":null,"priority":null,"dueDate":null}`,
			check: func(t *testing.T, p task.Patch) {
				assert.Equal(t, []string{"notes", "priority", "dueDate"}, p.Fields())
				assert.True(t, p.Notes.IsNull())
				assert.True(t, p.Priority.IsNull())
				assert.True(t, p.DueDate.IsNull())
			},
		},
		{
			name: "values and status",
			body: `{"notes":"n","priority":1,"dueDate":"tomorrow","status":"done"}`,
			check: func(t *testing.T, p task.Patch) {
				assert.False(t, p.Title.IsSet())
				assert.Equal(t, "n", *p.Notes.Ptr())
				assert.Equal(t, 1, *p.Priority.Ptr())
				assert.Equal(t, "tomorrow", *p.DueDate.Ptr())
				assert.Equal(t, task.StatusDone, *p.Status.Ptr())
			},
		},
		{name: "empty object", body: `{}`, errorCode: service.CodeNoFields},
		{name: "only unknown keys", body: `{"foo":1,"enhancedDescription":"x","id":3}`, errorCode: service.CodeNoFields},
		{name: "title null", body: `{"title":null}`, errorCode: service.CodeValidation, errorFields: []string{"title"}},
		{name: "title blank", body: `{"title":"  "}`, errorCode: service.CodeValidation, errorFields: []string{"title"}},
		{name: "status invalid", body: `{"status":"archived"}`, errorCode: service.CodeValidation, errorFields: []string{"status"}},
		{name: "status null", body: `{"status":null}`, errorCode: service.CodeValidation, errorFields: []string{"status"}},
		{name: "priority out of range", body: `{"priority":7}`, errorCode: service.CodeValidation, errorFields: []string{"priority"}},
		{name: "notes wrong type", body: `{"notes":false}`, errorCode: service.CodeValidation, errorFields: []string{"notes"}},
		{name: "not an object", body: `"title"`, errorCode: service.CodeValidation, errorFields: []string{"body"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := service.ValidateUpdate([]byte(tt.body))

			if tt.errorCode == "" {
				require.NoError(t, err)
				tt.check(t, got)
				return
			}

			businessErr, ok := service.AsBusinessError(err)
			require.True(t, ok)
			assert.Equal(t, tt.errorCode, businessErr.Code)
			for _, field := range tt.errorFields {
				assert.Contains(t, businessErr.Details, field)
			}
		})
	}
}

func TestValidateUpdate_Reasons(t *testing.T) {
	_, err := service.ValidateUpdate([]byte(`{"priority":7,"status":"archived","notes":3,"title":""}`))

	businessErr, ok := service.AsBusinessError(err)
	require.True(t, ok)
	assert.Equal(t, map[string]any{
		"priority": "must be an integer between 1 and 3",
		"status":   "must be one of: open done",
		"notes":    "must be a string or null",
		"title":    "must not be empty",
	}, businessErr.Details)
}
