package service

import "taskHelper/internal/models/task"

// findDuplicate returns another task with exactly the same title and notes
// as target. Absent notes only match absent notes.
func findDuplicate(target *task.Task, all []*task.Task) (*task.Task, bool) {
	for _, other := range all {
		if other.ID == target.ID {
			continue
		}
		if other.Title == target.Title && equalNotes(other.Notes, target.Notes) {
			return other, true
		}
	}
	return nil, false
}

func equalNotes(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
