package routes

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"leadmail/controllers"
	"leadmail/session"
)

// Options configure le routeur
type Options struct {
	Sessions *session.Store
	Handler  *controllers.Handler
	Logger   *slog.Logger

	// CSRFKey : clé gorilla/csrf de 32 octets ; nil désactive la protection CSRF
	CSRFKey []byte
	// SecureCookies marque les cookies CSRF Secure (déploiement HTTPS)
	SecureCookies bool
}

// Web construit le routeur de l'application
func Web(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(securityHeaders)

	// Sonde de disponibilité, hors session
	r.Get("/healthz", controllers.Health)

	r.Group(func(r chi.Router) {
		if opts.CSRFKey != nil {
			r.Use(csrfProtect(opts.CSRFKey, opts.SecureCookies))
		}
		r.Use(opts.Sessions.Middleware)

		// Page d'accueil (GET)
		r.Get("/", opts.Handler.Page)

		// Génération de l'email (POST)
		r.Post("/generate", opts.Handler.Generate)
		r.Post("/fields/{name}", opts.Handler.UpdateField)

		r.Post("/copy", opts.Handler.Copy)
		r.Get("/copy", opts.Handler.CopyState)
	})

	return r
}
