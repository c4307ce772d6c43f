// Package enhance holds the pure steps of the enhancement pipeline: building
// the prompt sent to the language model and turning its free-form answer into
// a task.Enhancement.
package enhance

import (
	"bytes"
	"regexp"
	"strings"
	"text/template"

	"taskHelper/internal/models/task"
)

const promptText = `
System: You are an assistant helping users elaborate tasks into actionable checklists.
User: Title: "{{.Title}}"
Notes: "{{.Notes}}"
Please return JSON with the following keys:
- summary (string)
- steps (array of strings)
- risks (array of strings)
- estimateHours (number)
- tags (array of strings)
`

var promptTemplate = template.Must(template.New("enhance").Parse(promptText))

type promptData struct {
	Title string
	Notes string
}

// Prompt renders the enhancement prompt. Absent notes render as "".
func Prompt(title string, notes *string) string {
	data := promptData{Title: title}
	if notes != nil {
		data.Notes = *notes
	}

	var buf bytes.Buffer
	// the template is fixed and the data only holds strings
	_ = promptTemplate.Execute(&buf, data)
	return buf.String()
}

// ImagePrompt is the prompt handed to image generators.
func ImagePrompt(title string) string {
	return `Create a minimal illustrative icon for a task titled "` + title + `"`
}

var openingFence = regexp.MustCompile("(?i)```json")

// Clean strips the first "```json" marker (any case) and every remaining
// "```" fence, then trims whitespace.
func Clean(raw string) string {
	if loc := openingFence.FindStringIndex(raw); loc != nil {
		raw = raw[:loc[0]] + raw[loc[1]:]
	}
	raw = strings.ReplaceAll(raw, "```", "")
	return strings.TrimSpace(raw)
}

// Parse cleans a raw model response and decodes it. Unparseable text becomes
// a task.Fallback holding the cleaned text; Parse never fails.
func Parse(raw string) task.Enhancement {
	return task.DecodeEnhancement(Clean(raw))
}
