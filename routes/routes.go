package routes

import (
	"github.com/footyops/carnival-system/handlers"
	"github.com/footyops/carnival-system/middleware"
	"github.com/footyops/carnival-system/models"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func SetupRoutes(
	router *chi.Mux,
	auth *middleware.Authenticator,
	authHandler *handlers.AuthHandler,
	clubHandler *handlers.ClubHandler,
	rosterHandler *handlers.RosterHandler,
	carnivalHandler *handlers.CarnivalHandler,
	registrationHandler *handlers.RegistrationHandler,
	sponsorHandler *handlers.SponsorHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Post("/auth/register", authHandler.Register)
	router.Post("/auth/login", authHandler.Login)

	router.Get("/ws/events", webSocketHandler.ServeWs)

	router.Route("/clubs", func(r chi.Router) {
		r.Get("/", clubHandler.ListClubs)
		r.Get("/{clubID}", clubHandler.GetClubByID)
		r.Get("/{clubID}/players", rosterHandler.ListClubPlayers)
		r.Get("/{clubID}/players/lookup", rosterHandler.FindPlayerByIdentity)
		r.Get("/{clubID}/sponsors", sponsorHandler.ListClubSponsors)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(middleware.Authorize(string(models.RoleOrganiser), string(models.RoleAdmin)))

			r.Post("/", clubHandler.CreateClub)
			r.Put("/{clubID}", clubHandler.UpdateClub)
			r.Delete("/{clubID}", clubHandler.DeleteClub)
			r.Post("/{clubID}/logo", clubHandler.UploadLogo)
			r.Post("/{clubID}/players", rosterHandler.AddPlayer)
			r.Post("/{clubID}/sponsors", sponsorHandler.AddSponsor)
		})
	})

	router.Route("/players", func(r chi.Router) {
		r.Use(auth.Authenticate)
		r.Use(middleware.Authorize(string(models.RoleOrganiser), string(models.RoleAdmin)))

		r.Patch("/{playerID}", rosterHandler.UpdatePlayer)
		r.Delete("/{playerID}", rosterHandler.DeactivatePlayer)
		r.Post("/{playerID}/replace-identity", rosterHandler.ReplaceIdentity)
	})

	router.Route("/carnivals", func(r chi.Router) {
		r.Get("/", carnivalHandler.ListCarnivals)
		r.Get("/unclaimed", carnivalHandler.ListUnclaimedCarnivals)
		r.Get("/{carnivalID}", carnivalHandler.GetCarnivalByID)
		r.Get("/{carnivalID}/attendances", registrationHandler.ListAttendingClubs)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(middleware.Authorize(string(models.RoleOrganiser), string(models.RoleAdmin)))

			r.Post("/", carnivalHandler.CreateCarnival)
			r.Patch("/{carnivalID}", carnivalHandler.EditCarnival)
			r.Post("/{carnivalID}/claim", carnivalHandler.ClaimCarnival)
			r.Post("/{carnivalID}/logo", carnivalHandler.UploadLogo)
			r.Post("/{carnivalID}/attendances", registrationHandler.RegisterClubAttendance)
		})
	})

	router.Route("/attendances", func(r chi.Router) {
		r.Get("/{attendanceID}/fees", registrationHandler.ComputeFees)
		r.Get("/{attendanceID}/assignments", registrationHandler.ListAssignments)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(middleware.Authorize(string(models.RoleOrganiser), string(models.RoleAdmin)))

			r.Patch("/{attendanceID}/teams", registrationHandler.ChangeNumberOfTeams)
			r.Post("/{attendanceID}/assignments", registrationHandler.AssignPlayer)
			r.Delete("/{attendanceID}", registrationHandler.CancelAttendance)
		})
	})

	router.Route("/assignments", func(r chi.Router) {
		r.Use(auth.Authenticate)
		r.Use(middleware.Authorize(string(models.RoleOrganiser), string(models.RoleAdmin)))

		r.Patch("/{assignmentID}/team", registrationHandler.ReassignTeam)
		r.Patch("/{assignmentID}/status", registrationHandler.SetAttendanceStatus)
		r.Post("/{assignmentID}/withdraw", registrationHandler.WithdrawPlayer)
		r.Delete("/{assignmentID}", registrationHandler.RemovePlayer)
	})

	router.Route("/sponsors", func(r chi.Router) {
		r.Use(auth.Authenticate)
		r.Use(middleware.Authorize(string(models.RoleOrganiser), string(models.RoleAdmin)))

		r.Patch("/{sponsorID}/level", sponsorHandler.UpdateSponsorLevel)
		r.Delete("/{sponsorID}", sponsorHandler.DeleteSponsor)
	})
}
