package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"taskHelper/internal/enhance"
	"taskHelper/internal/models/task"
	"taskHelper/internal/provider"
	"taskHelper/internal/repository"
	"taskHelper/internal/repository/task/inmemory"
	"taskHelper/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const fencedResponse = "```json\n{\"summary\":\"x\",\"steps\":[\"a\"],\"risks\":[],\"estimateHours\":2}\n```"

func TestEnhanceService_Enhance(t *testing.T) {
	ctx := context.Background()
	target := &task.Task{ID: 1, Title: "Write report", Notes: strPtr("quarterly")}

	tests := []struct {
		name      string
		others    []*task.Task
		setup     func(*MockTaskRepository, *MockCompleter)
		errorCode string
		check     func(t *testing.T, e task.Enhancement)
	}{
		{
			name: "structured result from fenced json",
			setup: func(r *MockTaskRepository, c *MockCompleter) {
				c.On("Complete", mock.Anything, enhance.Prompt("Write report", strPtr("quarterly"))).Return(fencedResponse, nil)
				r.On("UpdateFields", mock.Anything, int64(1), mock.MatchedBy(func(p task.Patch) bool {
					v, ok := p.EnhancedDescription.Get()
					_, structured := v.(task.Structured)
					return ok && structured && p.UpdatedAt.Equal(fixedNow) &&
						assert.ObjectsAreEqual([]string{"enhancedDescription"}, p.Fields())
				})).Return(nil)
			},
			check: func(t *testing.T, e task.Enhancement) {
				s, ok := e.(task.Structured)
				require.True(t, ok)
				assert.Equal(t, "x", *s.Summary)
				assert.Equal(t, []string{"a"}, s.Steps)
				assert.Equal(t, []string{}, s.Risks)
				assert.Equal(t, 2.0, *s.EstimateHours)
				assert.Nil(t, s.Tags)
			},
		},
		{
			name: "fallback for unparseable text",
			setup: func(r *MockTaskRepository, c *MockCompleter) {
				c.On("Complete", mock.Anything, mock.Anything).Return("not json", nil)
				r.On("UpdateFields", mock.Anything, int64(1), mock.Anything).Return(nil)
			},
			check: func(t *testing.T, e task.Enhancement) {
				assert.Equal(t, task.Fallback{Text: "not json"}, e)
			},
		},
		{
			name:      "duplicate blocks enhancement",
			others:    []*task.Task{{ID: 2, Title: "Write report", Notes: strPtr("quarterly")}},
			setup:     func(*MockTaskRepository, *MockCompleter) {},
			errorCode: service.CodeDuplicateDetected,
		},
		{
			name:   "same title with different notes is not a duplicate",
			others: []*task.Task{{ID: 2, Title: "Write report"}},
			setup: func(r *MockTaskRepository, c *MockCompleter) {
				c.On("Complete", mock.Anything, mock.Anything).Return("{}", nil)
				r.On("UpdateFields", mock.Anything, int64(1), mock.Anything).Return(nil)
			},
			check: func(t *testing.T, e task.Enhancement) {
				assert.Equal(t, task.Structured{}, e)
			},
		},
		{
			name: "provider failure",
			setup: func(r *MockTaskRepository, c *MockCompleter) {
				c.On("Complete", mock.Anything, mock.Anything).Return("", errors.New("quota exceeded"))
			},
			errorCode: service.CodeEnhancementUnavailable,
		},
		{
			name: "store write failure",
			setup: func(r *MockTaskRepository, c *MockCompleter) {
				c.On("Complete", mock.Anything, mock.Anything).Return("{}", nil)
				r.On("UpdateFields", mock.Anything, int64(1), mock.Anything).Return(errors.New("locked"))
			},
			errorCode: service.CodeStoreFault,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockTaskRepository)
			completer := new(MockCompleter)
			repo.On("GetByID", mock.Anything, int64(1)).Return(target, nil)
			repo.On("List", mock.Anything).Return(append([]*task.Task{target}, tt.others...), nil)
			tt.setup(repo, completer)

			svc := service.NewEnhanceService(repo, completer, service.WithClock(fixedClock))
			result, err := svc.Enhance(ctx, 1)

			if tt.errorCode != "" {
				assert.True(t, service.HasCode(err, tt.errorCode), "got %v", err)
				assert.Nil(t, result)
			} else {
				require.NoError(t, err)
				tt.check(t, result)
			}
			if tt.errorCode == service.CodeDuplicateDetected {
				completer.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
				repo.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything, mock.Anything)
			}
			if tt.errorCode == service.CodeEnhancementUnavailable {
				repo.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything, mock.Anything)
			}
			repo.AssertExpectations(t)
			completer.AssertExpectations(t)
		})
	}
}

func TestEnhanceService_NotFound(t *testing.T) {
	repo := new(MockTaskRepository)
	completer := new(MockCompleter)
	repo.On("GetByID", mock.Anything, int64(8)).Return(nil, repository.ErrNotFound)

	_, err := service.NewEnhanceService(repo, completer).Enhance(context.Background(), 8)
	assert.True(t, service.HasCode(err, service.CodeNotFound))
	completer.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestEnhanceService_DuplicateLeavesTaskUntouched(t *testing.T) {
	ctx := context.Background()
	store := inmemory.NewTaskStorage()
	tasks := service.NewTaskService(store)

	_, err := tasks.Create(ctx, task.CreateInput{Title: "Same", Notes: strPtr("n")})
	require.NoError(t, err)
	second, err := tasks.Create(ctx, task.CreateInput{Title: "Same", Notes: strPtr("n")})
	require.NoError(t, err)

	completer := new(MockCompleter)
	_, err = service.NewEnhanceService(store, completer).Enhance(ctx, second.ID)
	assert.True(t, service.HasCode(err, service.CodeDuplicateDetected))

	stored, err := tasks.Get(ctx, second.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.EnhancedDescription)
	assert.Equal(t, second.UpdatedAt, stored.UpdatedAt)
}

func TestEnhanceService_MockProviderFallsBack(t *testing.T) {
	ctx := context.Background()
	store := inmemory.NewTaskStorage()
	created, err := service.NewTaskService(store).Create(ctx, task.CreateInput{Title: "Offline"})
	require.NoError(t, err)

	result, err := service.NewEnhanceService(store, provider.NewMockCompleter()).Enhance(ctx, created.ID)
	require.NoError(t, err)

	fallback, ok := result.(task.Fallback)
	require.True(t, ok)
	assert.Equal(t, enhance.Clean(provider.MockResponse), fallback.Text)
}

// blockingCompleter holds every call until release is closed
type blockingCompleter struct {
	mu      sync.Mutex
	calls   int
	started chan struct{}
	release chan struct{}
}

func (b *blockingCompleter) Complete(context.Context, string) (string, error) {
	b.mu.Lock()
	b.calls++
	first := b.calls == 1
	b.mu.Unlock()
	if first {
		close(b.started)
	}
	<-b.release
	return `{"summary":"shared"}`, nil
}

func TestEnhanceService_CollapsesConcurrentCalls(t *testing.T) {
	ctx := context.Background()
	store := inmemory.NewTaskStorage()
	created, err := service.NewTaskService(store).Create(ctx, task.CreateInput{Title: "Busy"})
	require.NoError(t, err)

	completer := &blockingCompleter{started: make(chan struct{}), release: make(chan struct{})}
	svc := service.NewEnhanceService(store, completer)

	const callers = 5
	results := make([]task.Enhancement, callers)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], _ = svc.Enhance(ctx, created.ID)
	}()
	<-completer.started

	for i := 1; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = svc.Enhance(ctx, created.ID)
		}(i)
	}
	// give the followers time to join the in-flight call
	time.Sleep(50 * time.Millisecond)
	close(completer.release)
	wg.Wait()

	completer.mu.Lock()
	defer completer.mu.Unlock()
	assert.LessOrEqual(t, completer.calls, callers)
	assert.GreaterOrEqual(t, completer.calls, 1)
	for _, r := range results {
		require.IsType(t, task.Structured{}, r)
		assert.Equal(t, "shared", *r.(task.Structured).Summary)
	}
}

// cancellableCompleter blocks until release is closed or its context ends
type cancellableCompleter struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (c *cancellableCompleter) Complete(ctx context.Context, _ string) (string, error) {
	c.once.Do(func() { close(c.started) })
	select {
	case <-c.release:
		return `{"summary":"shared"}`, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func TestEnhanceService_FirstCallerCancelDoesNotFailOthers(t *testing.T) {
	store := inmemory.NewTaskStorage()
	created, err := service.NewTaskService(store).Create(context.Background(), task.CreateInput{Title: "Shared"})
	require.NoError(t, err)

	completer := &cancellableCompleter{started: make(chan struct{}), release: make(chan struct{})}
	svc := service.NewEnhanceService(store, completer)

	leaderCtx, cancelLeader := context.WithCancel(context.Background())
	defer cancelLeader()

	var wg sync.WaitGroup
	var leaderErr, followerErr error
	var followerResult task.Enhancement

	wg.Add(1)
	go func() {
		defer wg.Done()
		_, leaderErr = svc.Enhance(leaderCtx, created.ID)
	}()
	<-completer.started

	wg.Add(1)
	go func() {
		defer wg.Done()
		followerResult, followerErr = svc.Enhance(context.Background(), created.ID)
	}()
	time.Sleep(50 * time.Millisecond)

	cancelLeader()
	time.Sleep(20 * time.Millisecond)
	close(completer.release)
	wg.Wait()

	assert.NoError(t, leaderErr)
	require.NoError(t, followerErr)
	require.IsType(t, task.Structured{}, followerResult)
	assert.Equal(t, "shared", *followerResult.(task.Structured).Summary)

	stored, err := store.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, followerResult, stored.EnhancedDescription)
}
