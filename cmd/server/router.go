package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/mbecker/studycoach-api/internal/api"
	"github.com/mbecker/studycoach-api/internal/api/middleware"
)

// setupRouter builds the HTTP routing tree: public auth endpoints, the
// JWT-protected API surface and a health check.
func (app *application) setupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(
		app.userService,
		app.jwtService,
		app.passwordVerifier,
		app.logger,
	)
	userHandler := api.NewUserHandler(app.userService, app.logger)
	taskHandler := api.NewTaskHandler(app.taskService, app.logger)
	planHandler := api.NewPlanHandler(app.planService, app.logger)
	focusHandler := api.NewFocusHandler(app.focusService, app.logger)
	quizHandler := api.NewQuizHandler(app.quizService, app.reviewService, app.logger)
	recapHandler := api.NewRecapHandler(app.recapService, app.logger)

	authMiddleware := middleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		// Protected endpoints
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/users/me", userHandler.GetMe)
			r.Put("/users/me/preferences", userHandler.UpdatePreferences)

			r.Post("/tasks", taskHandler.CreateTask)
			r.Get("/tasks", taskHandler.ListTasks)
			r.Get("/tasks/{id}", taskHandler.GetTask)
			r.Post("/tasks/{id}/complete", taskHandler.CompleteTask)
			r.Delete("/tasks/{id}", taskHandler.DeleteTask)

			r.Get("/plan", planHandler.GetDailyPlan)

			r.Post("/focus/start", focusHandler.Start)
			r.Post("/focus/pause", focusHandler.Pause)
			r.Post("/focus/resume", focusHandler.Resume)
			r.Post("/focus/extend", focusHandler.Extend)
			r.Post("/focus/complete", focusHandler.Complete)
			r.Post("/focus/abandon", focusHandler.Abandon)
			r.Get("/focus", focusHandler.Status)

			r.Post("/items", quizHandler.CreateItem)
			r.Get("/items", quizHandler.ListItems)
			r.Delete("/items/{id}", quizHandler.DeleteItem)
			r.Post("/items/generate", quizHandler.GenerateFromNotes)

			r.Get("/quiz/due", quizHandler.DueItems)
			r.Post("/quiz/{id}/answer", quizHandler.SubmitAnswer)

			r.Get("/recap", recapHandler.GetDailyRecap)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
			app.logger.Error("failed to write health response", "error", err)
		}
	})

	return r
}
