package inmemory

import (
	"context"
	"sync"

	"taskHelper/internal/logger"
	"taskHelper/internal/models/task"
	repo "taskHelper/internal/repository"
)

type TaskStorage struct {
	storage map[int64]*task.Task
	mtx     *sync.RWMutex
	ids     []int64
	lastID  int64
}

func NewTaskStorage() *TaskStorage {
	return &TaskStorage{
		storage: make(map[int64]*task.Task),
		mtx:     &sync.RWMutex{},
		ids:     []int64{},
	}
}

func (s *TaskStorage) HealthCheck(ctx context.Context) error {
	logger.Debug("Repository: in-memory storage is healthy")
	return nil
}

// Create assigns the next id. Ids are never reused, even after deletes.
func (s *TaskStorage) Create(ctx context.Context, taskToCreate *task.Task) (int64, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.lastID++
	stored := taskToCreate.Clone()
	stored.ID = s.lastID

	s.storage[stored.ID] = stored
	s.ids = append(s.ids, stored.ID)
	return stored.ID, nil
}

func (s *TaskStorage) GetByID(ctx context.Context, id int64) (*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	taskToGet, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return taskToGet.Clone(), nil
}

// List returns every task in insertion order.
func (s *TaskStorage) List(ctx context.Context) ([]*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := make([]*task.Task, 0, len(s.ids))
	for _, id := range s.ids {
		res = append(res, s.storage[id].Clone())
	}
	return res, nil
}

// UpdateFields behaves like an UPDATE statement: a missing id matches no row
// and is not an error.
func (s *TaskStorage) UpdateFields(ctx context.Context, id int64, patch task.Patch) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	existing, ok := s.storage[id]
	if !ok {
		return nil
	}

	updated := existing.Clone()
	patch.Apply(updated)
	s.storage[id] = updated.Clone()
	return nil
}

func (s *TaskStorage) Delete(ctx context.Context, id int64) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[id]; !ok {
		return nil
	}

	delete(s.storage, id)
	for ind, val := range s.ids {
		if val == id {
			s.ids = append(s.ids[:ind], s.ids[ind+1:]...)
			break
		}
	}
	return nil
}
