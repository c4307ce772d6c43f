package service

import (
	"testing"

	"taskHelper/internal/models/task"

	"github.com/stretchr/testify/assert"
)

func TestFindDuplicate(t *testing.T) {
	notes := func(s string) *string { return &s }
	target := &task.Task{ID: 1, Title: "Pay rent", Notes: notes("June")}

	tests := []struct {
		name   string
		target *task.Task
		others []*task.Task
		want   int64
	}{
		{name: "only itself", target: target, others: []*task.Task{target}},
		{name: "exact match", target: target, others: []*task.Task{target, {ID: 2, Title: "Pay rent", Notes: notes("June")}}, want: 2},
		{name: "case differs", target: target, others: []*task.Task{{ID: 2, Title: "pay rent", Notes: notes("June")}}},
		{name: "notes differ", target: target, others: []*task.Task{{ID: 2, Title: "Pay rent", Notes: notes("July")}}},
		{name: "absent against present notes", target: target, others: []*task.Task{{ID: 2, Title: "Pay rent"}}},
		{name: "both notes absent", target: &task.Task{ID: 1, Title: "Stretch"}, others: []*task.Task{{ID: 4, Title: "Stretch"}}, want: 4},
		{name: "empty notes are not absent", target: &task.Task{ID: 1, Title: "Stretch"}, others: []*task.Task{{ID: 4, Title: "Stretch", Notes: notes("")}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other, found := findDuplicate(tt.target, tt.others)
			if tt.want == 0 {
				assert.False(t, found)
				return
			}
			assert.True(t, found)
			assert.Equal(t, tt.want, other.ID)
		})
	}
}
