package api

import (
	"net/http"
	"time"

	"pencraft/internal/api/handler"
	"pencraft/internal/api/middleware"
	"pencraft/internal/app/service"
	"pencraft/internal/common"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth/v5"
)

// Services bundles what the router dispatches to.
type Services struct {
	Auth          *service.AuthService
	Writings      *service.WritingService
	Comments      *service.CommentService
	Interactions  *service.InteractionService
	Users         *service.UserService
	Challenges    *service.ChallengeService
	Notifications *service.NotificationService
	Uploads       *service.UploadService
}

type RouterOptions struct {
	TokenAuth    *jwtauth.JWTAuth
	Auth         *middleware.Auth
	FrontendURL  string
	SecureCookie bool
	// Health reports backend readiness; nil means always healthy.
	Health func(r *http.Request) error
}

func NewRouter(svc Services, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{opts.FrontendURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Tokens come from "Authorization: Bearer T" or the jwt cookie.
	r.Use(jwtauth.Verifier(opts.TokenAuth))
	r.Use(opts.Auth.Optional)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if opts.Health != nil {
			if err := opts.Health(r); err != nil {
				common.RespondWithError(w, http.StatusServiceUnavailable, "unhealthy")
				return
			}
		}
		w.Write([]byte("OK"))
	})

	writingHandler := handler.NewWritingHandler(svc.Writings)
	commentHandler := handler.NewCommentHandler(svc.Comments)
	interactionHandler := handler.NewInteractionHandler(svc.Interactions)

	r.Route("/api", func(api chi.Router) {
		handler.NewAuthHandler(svc.Auth, opts.SecureCookie).RegisterRoutes(api)

		api.Route("/writings", func(wr chi.Router) {
			writingHandler.RegisterRoutes(wr)
			commentHandler.RegisterWritingRoutes(wr)
			interactionHandler.RegisterWritingRoutes(wr)
		})
		api.Route("/comments", commentHandler.RegisterRoutes)
		api.With(middleware.Authenticator).Get("/bookmarks", interactionHandler.ListBookmarks)
		api.Get("/categories", writingHandler.ListCategories)

		api.Route("/users", handler.NewUserHandler(svc.Users).RegisterRoutes)
		api.Route("/challenges", handler.NewChallengeHandler(svc.Challenges).RegisterRoutes)
		api.Route("/notifications", handler.NewNotificationHandler(svc.Notifications).RegisterRoutes)
		api.Route("/admin", handler.NewAdminHandler(svc.Users, svc.Writings).RegisterRoutes)
		api.Route("/uploads", handler.NewUploadHandler(svc.Uploads).RegisterRoutes)
	})

	return r
}
