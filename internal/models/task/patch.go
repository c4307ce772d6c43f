package task

import "time"

// Patch is a field-level update. Only set fields are written; UpdatedAt is
// always written by the stores.
type Patch struct {
	Title               Field[string]
	Notes               Field[string]
	Priority            Field[int]
	DueDate             Field[string]
	Status              Field[Status]
	EnhancedDescription Field[Enhancement]
	ImageURL            Field[string]
	UpdatedAt           time.Time
}

// IsEmpty ignores UpdatedAt.
func (p Patch) IsEmpty() bool {
	return len(p.Fields()) == 0
}

// Fields lists the set fields by their wire names.
func (p Patch) Fields() []string {
	var names []string
	if p.Title.IsSet() {
		names = append(names, "title")
	}
	if p.Notes.IsSet() {
		names = append(names, "notes")
	}
	if p.Priority.IsSet() {
		names = append(names, "priority")
	}
	if p.DueDate.IsSet() {
		names = append(names, "dueDate")
	}
	if p.Status.IsSet() {
		names = append(names, "status")
	}
	if p.EnhancedDescription.IsSet() {
		names = append(names, "enhancedDescription")
	}
	if p.ImageURL.IsSet() {
		names = append(names, "imageUrl")
	}
	return names
}

func (p Patch) Apply(t *Task) {
	if v, ok := p.Title.Get(); ok {
		t.Title = v
	}
	if p.Notes.IsSet() {
		t.Notes = p.Notes.Ptr()
	}
	if p.Priority.IsSet() {
		t.Priority = p.Priority.Ptr()
	}
	if p.DueDate.IsSet() {
		t.DueDate = p.DueDate.Ptr()
	}
	if v, ok := p.Status.Get(); ok {
		t.Status = v
	}
	if p.EnhancedDescription.IsSet() {
		v, _ := p.EnhancedDescription.Get()
		t.EnhancedDescription = v
	}
	if p.ImageURL.IsSet() {
		t.ImageURL = p.ImageURL.Ptr()
	}
	if !p.UpdatedAt.IsZero() {
		t.UpdatedAt = p.UpdatedAt
	}
}
