package handlers

import "github.com/go-chi/chi/v5"

// Routes mounts the task endpoints on r, relative to its prefix.
func (h *TaskHandler) Routes(r chi.Router) {
	r.Get("/", h.ListTasks)
	r.Post("/", h.CreateTask)

	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.GetTask)
		r.Patch("/", h.UpdateTask)
		r.Delete("/", h.DeleteTask)

		r.Post("/enhance", h.EnhanceTask)
		r.Post("/image", h.GenerateImage)
	})
}
