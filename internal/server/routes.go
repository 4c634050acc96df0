package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	api "github.com/mind-engage/quizsystem/internal/api/http"
	"github.com/mind-engage/quizsystem/internal/auth"
	"github.com/mind-engage/quizsystem/internal/rbac"
	"github.com/mind-engage/quizsystem/internal/session"
)

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, requestLogger, middleware.Recoverer)
	if s.c.HTTP.RequestTimeout > 0 {
		r.Use(middleware.Timeout(s.c.HTTP.RequestTimeout))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.c.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(s.metrics.Middleware)

	r.Get("/healthz", api.Healthz)
	r.Get("/readyz", api.Readyz(map[string]api.Pinger{
		"db":    s.infra.db,
		"redis": redisPinger{s.infra.redis},
	}))
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	if s.c.Debug.PProf {
		r.Mount("/debug", middleware.Profiler())
	}

	r.Route("/quizsystem", s.quizsystemRoutes)
	return r
}

func (s *Server) quizsystemRoutes(r chi.Router) {
	var (
		store       = s.service.quizzes
		instructors = s.service.instructors
		students    = s.service.students
		login       = api.LoginConfig{
			Authenticator: s.service.authenticator,
			Sessions:      s.service.sessions,
			Cookie:        session.CookieConfig{Name: s.c.Session.CookieName, Secure: s.c.Session.CookieSecure},
			Metrics:       s.metrics,
		}
		selfInstructor = api.Self(auth.RoleInstructor, "id")
		selfStudent    = api.Self(auth.RoleStudent, "id")
	)

	// Registration and login are public.
	r.Post("/instruct", api.RegisterHandler(instructors))
	r.Post("/student", api.RegisterHandler(students))
	r.Post("/instructor-login", api.LoginHandler(login, auth.RoleInstructor))
	r.Post("/student-login", api.LoginHandler(login, auth.RoleStudent))
	r.Get("/logout", api.LogoutHandler(login))
	r.Post("/logout", api.LogoutHandler(login))

	// Protected API (bearer token → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.Middleware(s.service.tokens))

		// Instructors
		pr.With(rbac.Require("instructor:view")).
			Get("/instructors", api.ListUsernamesHandler(instructors))
		pr.With(rbac.Require("instructor:view")).
			Get("/instruct/{id}", api.GetAccountHandler(instructors))
		pr.With(rbac.Require("instructor:view")).
			Get("/instruct-email/{email}", api.GetAccountByEmailHandler(instructors))
		pr.With(rbac.RequireOwner(selfInstructor)).
			Put("/instruct/{id}", api.UpdateAccountHandler(instructors))
		pr.With(rbac.RequireOwner(selfInstructor)).
			Put("/instruct-pass/{id}", api.ChangePasswordHandler(instructors))
		pr.With(rbac.RequireOwner(selfInstructor)).
			Delete("/instruct/{id}", api.DeleteAccountHandler(instructors))

		// Students
		pr.With(rbac.Require("student:list")).
			Get("/student", api.ListUsernamesHandler(students))
		pr.With(rbac.RequireOwnerOr("student:view", selfStudent)).
			Get("/student/{id}", api.GetAccountHandler(students))
		pr.With(rbac.RequireOwnerOr("student:manage", selfStudent)).
			Put("/student/{id}", api.UpdateAccountHandler(students))
		pr.With(rbac.RequireOwnerOr("student:manage", selfStudent)).
			Put("/student-pass/{id}", api.ChangePasswordHandler(students))
		pr.With(rbac.RequireOwnerOr("student:manage", selfStudent)).
			Delete("/student/{id}", api.DeleteAccountHandler(students))

		// Quizzes; edits are further limited to the owning instructor.
		pr.With(rbac.Require("quiz:create")).
			Post("/quiz", api.CreateQuizHandler(store))
		pr.With(rbac.Require("quiz:view")).
			Get("/quiz", api.ListQuizzesHandler(store))
		pr.With(rbac.Require("quiz:view")).
			Get("/quiz/{quizID}", api.GetQuizHandler(store))
		pr.With(rbac.Require("quiz:view")).
			Get("/quiz/instructor/{instructorID}", api.ListInstructorQuizzesHandler(store))
		pr.With(rbac.Require("quiz:edit_own")).
			Put("/quiz/{quizID}", api.UpdateQuizHandler(store))
		pr.With(rbac.Require("quiz:edit_own")).
			Delete("/quiz/{quizID}", api.DeleteQuizHandler(store))
		pr.With(rbac.Require("quiz:view")).
			Get("/quiz/questions/{quizID}", api.QuizQuestionsHandler(store))
		pr.With(rbac.Require("quiz:view")).
			Get("/quiz/questionsAndChoices/{quizID}", api.QuizQuestionsWithChoicesHandler(store))
		pr.With(rbac.Require("quiz:take")).
			Post("/quiz/{quizID}/submit", api.SubmitQuizHandler(store, s.metrics))

		// Questions; mutations on questions, choices and results are further
		// limited to the instructor owning the quiz.
		pr.With(rbac.Require("question:manage")).
			Post("/question", api.CreateQuestionHandler(store))
		pr.With(rbac.Require("quiz:view")).
			Get("/question/{questionID}", api.GetQuestionHandler(store))
		pr.With(rbac.Require("question:manage")).
			Put("/question/{questionID}", api.UpdateQuestionHandler(store))
		pr.With(rbac.Require("question:manage")).
			Delete("/question/{questionID}", api.DeleteQuestionHandler(store))

		// Choices; GET takes a question id, PUT and DELETE a choice id.
		pr.With(rbac.Require("choice:manage")).
			Post("/choices", api.CreateChoiceHandler(store))
		pr.With(rbac.RequireAny("choice:view", "quiz:take")).
			Get("/choices/{id}", api.QuestionChoicesHandler(store))
		pr.With(rbac.RequireAny("choice:view", "quiz:take")).
			Get("/choices-quiz/{quizID}", api.QuizChoicesHandler(store))
		pr.With(rbac.Require("choice:view")).
			Get("/choices-correct/{quizID}", api.CorrectChoicesHandler(store))
		pr.With(rbac.Require("choice:manage")).
			Put("/choices/{id}", api.UpdateChoiceHandler(store))
		pr.With(rbac.Require("choice:manage")).
			Delete("/choices/{id}", api.DeleteChoiceHandler(store))

		// Results
		pr.With(rbac.Require("result:manage")).
			Post("/result", api.CreateResultHandler(store))
		pr.With(rbac.RequireOwnerOr("result:view_all", api.Self(auth.RoleStudent, "studentID"))).
			Get("/result-student/{studentID}", api.StudentResultsHandler(store))
		pr.With(rbac.Require("result:view_all")).
			Get("/result-quiz/{quizID}", api.QuizResultsHandler(store))
		pr.With(rbac.Require("result:view_all")).
			Get("/result/{id}/overall-score", api.OverallScoreHandler(store))
		pr.With(rbac.Require("result:manage")).
			Put("/result/{id}", api.UpdateResultHandler(store))
		pr.With(rbac.Require("result:manage")).
			Delete("/result/{id}", api.DeleteResultHandler(store))

		// Announcements; GET takes a student id.
		pr.With(rbac.Require("announcement:create")).
			Post("/announcement", api.CreateAnnouncementHandler(s.service.announcements))
		pr.With(rbac.RequireOwnerOr("student:view", selfStudent)).
			Get("/announcement/{id}", api.StudentAnnouncementsHandler(s.service.announcements))
		pr.With(rbac.Require("announcement:delete")).
			Delete("/announcement/{id}", api.DeleteAnnouncementHandler(s.service.announcements))

		// Audit trail
		pr.With(rbac.Require("event:view")).
			Get("/events", api.EventsHandler(s.infra.db.SQL))
	})
}
