package routes

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/Dosada05/coforge-registration/docs"
	"github.com/Dosada05/coforge-registration/handlers"
	"github.com/Dosada05/coforge-registration/middleware"
	"github.com/Dosada05/coforge-registration/web"
)

type Options struct {
	Logger         *slog.Logger
	AllowedOrigins []string
}

func SetupRoutes(
	router *chi.Mux,
	opts Options,
	formHandler *handlers.FormHandler,
	registrationHandler *handlers.RegistrationHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RequestLogger(opts.Logger))
	router.Use(chiMiddleware.Recoverer)

	// Страница формы
	router.Get("/", formHandler.ShowForm)
	router.Post("/register", formHandler.SubmitForm)
	router.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(web.Static())))

	router.Get("/ws", webSocketHandler.ServeWs)
	router.Get("/healthz", registrationHandler.Health)

	router.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
			ExposedHeaders: []string{"X-Request-Id"},
			MaxAge:         300,
		}))

		r.Get("/options", registrationHandler.Options)
		r.Post("/registrations", registrationHandler.CreateRegistration)
	})

	router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
}
