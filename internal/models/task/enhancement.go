package task

import (
	"bytes"
	"encoding/json"
	"slices"
)

// Enhancement is the outcome of an enhancement call: either Structured or
// Fallback. The interface is sealed so callers must handle both cases.
type Enhancement interface {
	isEnhancement()
}

// Structured is a model response that parsed as a JSON object. Nil fields
// were absent from the response.
type Structured struct {
	Summary       *string  `json:"summary"`
	Steps         []string `json:"steps"`
	Risks         []string `json:"risks"`
	EstimateHours *float64 `json:"estimateHours"`
	Tags          []string `json:"tags"`
}

// Fallback keeps the cleaned response text when it could not be parsed.
type Fallback struct {
	Text string
}

func (Structured) isEnhancement() {}
func (Fallback) isEnhancement()   {}

type structuredJSON struct {
	Summary       *string   `json:"summary,omitempty"`
	Steps         *[]string `json:"steps,omitempty"`
	Risks         *[]string `json:"risks,omitempty"`
	EstimateHours *float64  `json:"estimateHours,omitempty"`
	Tags          *[]string `json:"tags,omitempty"`
}

// MarshalJSON omits absent keys but keeps present empty lists.
func (s Structured) MarshalJSON() ([]byte, error) {
	return json.Marshal(structuredJSON{
		Summary:       s.Summary,
		Steps:         presentSlice(s.Steps),
		Risks:         presentSlice(s.Risks),
		EstimateHours: s.EstimateHours,
		Tags:          presentSlice(s.Tags),
	})
}

// MarshalJSON renders the fallback the way clients see a result: a summary
// holding the raw text and nothing else.
func (f Fallback) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Summary string `json:"summary"`
	}{Summary: f.Text})
}

func (s Structured) clone() Structured {
	return Structured{
		Summary:       clonePtr(s.Summary),
		Steps:         slices.Clone(s.Steps),
		Risks:         slices.Clone(s.Risks),
		EstimateHours: clonePtr(s.EstimateHours),
		Tags:          slices.Clone(s.Tags),
	}
}

func presentSlice(s []string) *[]string {
	if s == nil {
		return nil
	}
	return &s
}

// DecodeEnhancement turns text into a Structured result when it is a JSON
// object whose known keys have the expected types, and into a Fallback
// otherwise. It never fails.
func DecodeEnhancement(text string) Enhancement {
	trimmed := bytes.TrimSpace([]byte(text))
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Fallback{Text: text}
	}

	var s Structured
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return Fallback{Text: text}
	}
	return s
}

// EncodeEnhancement produces the stored column value. Decoding the result with
// DecodeEnhancement yields an equivalent Enhancement.
func EncodeEnhancement(e Enhancement) (string, error) {
	switch v := e.(type) {
	case Structured:
		b, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(b), nil
	case Fallback:
		return v.Text, nil
	default:
		return "", nil
	}
}

// EncodeNullableEnhancement maps an unset enhancement to a NULL column.
func EncodeNullableEnhancement(e Enhancement) (*string, error) {
	if e == nil {
		return nil, nil
	}
	encoded, err := EncodeEnhancement(e)
	if err != nil {
		return nil, err
	}
	return &encoded, nil
}

// DecodeNullableEnhancement maps a NULL column to an unset enhancement.
func DecodeNullableEnhancement(stored *string) Enhancement {
	if stored == nil {
		return nil
	}
	return DecodeEnhancement(*stored)
}
