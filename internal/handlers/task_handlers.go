package handlers

import (
	"net/http"
	"time"

	"taskHelper/internal/handlers/dto"
	"taskHelper/internal/logger"
	"taskHelper/internal/service"

	"go.uber.org/zap"
)

type TaskHandler struct {
	TaskService  TaskService
	Enhancer     Enhancer
	ImageService ImageService
}

func NewTaskHandler(taskService TaskService, enhancer Enhancer, images ImageService) *TaskHandler {
	return &TaskHandler{
		TaskService:  taskService,
		Enhancer:     enhancer,
		ImageService: images,
	}
}

func (h *TaskHandler) Root(w http.ResponseWriter, r *http.Request) {
	responseWithText(w, http.StatusOK, "API is running")
}

func (h *TaskHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP: health check")

	if err := h.TaskService.HealthCheck(r.Context()); err != nil {
		logger.Error("HTTP: health check failed", err)
		responseWithPayload(w, http.StatusServiceUnavailable,
			toPayload("status", "unavailable"),
			toPayload("error", err.Error()),
		)
		return
	}
	responseWithPayload(w, http.StatusOK, toPayload("status", "ok"))
}

func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	tasks, err := h.TaskService.List(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}

	logger.Info("HTTP: tasks listed",
		zap.Int("count", len(tasks)),
		zap.Duration("ms", time.Since(start)))
	responseWithJSON(w, http.StatusOK, dto.FromTaskList(tasks))
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	body, err := readBody(w, r)
	if err != nil {
		logger.Warn("HTTP: failed to read body", zap.Error(err), zap.String("client_ip", r.RemoteAddr))
		handleError(w, r, service.NewValidationError(map[string]string{"body": "could not be read"}))
		return
	}

	input, err := service.ValidateCreate(body)
	if err != nil {
		handleError(w, r, err)
		return
	}

	created, err := h.TaskService.Create(r.Context(), input)
	if err != nil {
		handleError(w, r, err)
		return
	}

	logger.Info("HTTP: task created",
		zap.Int64("task_id", created.ID),
		zap.Duration("ms", time.Since(start)))
	responseWithJSON(w, http.StatusOK, dto.FromTask(created))
}

// GetTask answers 404 for ids that are not integers, since no task can
// have them.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, token, ok := parseTaskID(r)
	if !ok {
		logger.Warn("HTTP: non-numeric task id", zap.String("id", token))
		handleError(w, r, service.NewNotFound(0))
		return
	}

	found, err := h.TaskService.Get(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	responseWithJSON(w, http.StatusOK, dto.FromTask(found))
}

// UpdateTask validates the body before looking at the id, so a bad body is
// reported even for a task that does not exist.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	body, err := readBody(w, r)
	if err != nil {
		logger.Warn("HTTP: failed to read body", zap.Error(err), zap.String("client_ip", r.RemoteAddr))
		handleError(w, r, service.NewValidationError(map[string]string{"body": "could not be read"}))
		return
	}

	patch, err := service.ValidateUpdate(body)
	if err != nil {
		handleError(w, r, err)
		return
	}

	id, token, ok := parseTaskID(r)
	if !ok {
		logger.Warn("HTTP: non-numeric task id", zap.String("id", token))
		handleError(w, r, service.NewNotFound(0))
		return
	}

	updated, err := h.TaskService.Update(r.Context(), id, patch)
	if err != nil {
		handleError(w, r, err)
		return
	}

	logger.Info("HTTP: task updated",
		zap.Int64("task_id", id),
		zap.Strings("fields", patch.Fields()),
		zap.Duration("ms", time.Since(start)))
	responseWithJSON(w, http.StatusOK, dto.FromTask(updated))
}

// DeleteTask always succeeds for ids that cannot exist.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, token, ok := parseTaskID(r)
	if !ok {
		logger.Info("HTTP: delete of non-numeric id ignored", zap.String("id", token))
		responseWithJSON(w, http.StatusOK, dto.DeleteResponse{Success: true})
		return
	}

	if err := h.TaskService.Delete(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	responseWithJSON(w, http.StatusOK, dto.DeleteResponse{Success: true})
}

func (h *TaskHandler) EnhanceTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, token, ok := parseTaskID(r)
	if !ok {
		handleError(w, r, service.NewInvalidID(token))
		return
	}

	result, err := h.Enhancer.Enhance(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}

	logger.Info("HTTP: task enhanced",
		zap.Int64("task_id", id),
		zap.Duration("ms", time.Since(start)))
	responseWithJSON(w, http.StatusOK, result)
}

func (h *TaskHandler) GenerateImage(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, token, ok := parseTaskID(r)
	if !ok {
		handleError(w, r, service.NewInvalidID(token))
		return
	}

	url, err := h.ImageService.GenerateImage(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}

	logger.Info("HTTP: task image generated",
		zap.Int64("task_id", id),
		zap.Duration("ms", time.Since(start)))
	responseWithJSON(w, http.StatusOK, dto.ImageResponse{ImageURL: url})
}
