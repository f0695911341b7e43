package routes

import (
	"database/sql"
	"net/http"

	"github.com/evn/scheduler_backendl/config"
	"github.com/evn/scheduler_backendl/internal/handlers"
	"github.com/evn/scheduler_backendl/internal/middleware"
	"github.com/evn/scheduler_backendl/internal/pkg/response"
	"github.com/evn/scheduler_backendl/internal/repositories"
	authService "github.com/evn/scheduler_backendl/internal/services/auth"
	"github.com/evn/scheduler_backendl/internal/services/live"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
	"github.com/redis/go-redis/v9"
)

// Setup инициализирует и возвращает настроенный маршрутизатор.
func Setup(cfg *config.Config, database *sql.DB, redisClient *redis.Client) *chi.Mux {
	jwtAuth := jwtauth.New("HS256", []byte(cfg.JwtSecret), nil)
	jwtService := authService.NewJWTService(cfg.JwtSecret, redisClient)

	userRepo := repositories.NewPostgresUserRepository(database)
	profileRepo := repositories.NewPostgresTeamMemberRepository(database)
	shiftRepo := repositories.NewPostgresShiftRepository(database)
	ptoRepo := repositories.NewPostgresPTORepository(database)

	hub := live.NewManager()

	authHandler := handlers.NewAuthHandler(userRepo, jwtService)
	shiftHandler := handlers.NewShiftHandler(userRepo, shiftRepo, hub)
	scheduleHandler := handlers.NewScheduleHandler(userRepo, shiftRepo, profileRepo)
	ptoHandler := handlers.NewPTOHandler(userRepo, ptoRepo, hub)
	profileHandler := handlers.NewProfileHandler(userRepo, profileRepo)

	router := chi.NewRouter()
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(jwtauth.Verifier(jwtAuth))
	router.Use(middleware.AddUserIDToContext())

	// Public routes
	router.Get("/login/", authHandler.LoginFormHandler)
	router.Post("/login/", authHandler.LoginHandler)
	router.Post("/register/", authHandler.RegisterHandler)
	router.Post("/refresh/", authHandler.RefreshTokenHandler)
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Authenticated routes
	router.Group(func(r chi.Router) {
		r.Use(jwtauth.Authenticator(jwtAuth))

		r.Get("/", handlers.DashboardHandler(userRepo, shiftRepo, ptoRepo))
		r.Post("/logout/", authHandler.LogoutHandler)

		r.Get("/my-schedule/", scheduleHandler.MyScheduleHandler)
		r.Get("/all-members/", scheduleHandler.AllMembersHandler)
		r.Get("/member-schedule/{username}/", scheduleHandler.MemberScheduleHandler)
		r.Get("/export-schedule/", scheduleHandler.ExportScheduleHandler)

		r.Get("/pto-requests/", ptoHandler.ListPTORequestsHandler)
		r.Post("/pto-requests/", ptoHandler.SubmitPTORequestHandler)

		r.Get("/profile-settings/", profileHandler.GetProfileSettingsHandler)
		r.Post("/profile-settings/", profileHandler.UpdateProfileSettingsHandler)

		r.Get("/ws/schedule", handlers.ScheduleFeedHandler(hub))

		// Admin-only routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.StaffOnly(userRepo))

			r.Get("/add-shift/", shiftHandler.AddShiftFormHandler)
			r.Post("/add-shift/", shiftHandler.AddShiftHandler)
			r.Get("/edit-shift/{shiftID}/", shiftHandler.EditShiftFormHandler)
			r.Post("/edit-shift/{shiftID}/", shiftHandler.EditShiftHandler)
			r.Get("/delete-shift/{shiftID}/", shiftHandler.DeleteShiftFormHandler)
			r.Post("/delete-shift/{shiftID}/", shiftHandler.DeleteShiftHandler)
			r.Post("/import-shifts/", shiftHandler.ImportShiftsHandler)
			r.Post("/update-pto-status/{ptoID}/", ptoHandler.UpdatePTOStatusHandler)
		})
	})

	return router
}
