package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5/middleware"

	"leadmail/clipboard"
	"leadmail/config"
	"leadmail/controllers"
	"leadmail/logger"
	"leadmail/routes"
	"leadmail/server"
	"leadmail/service"
	"leadmail/session"
	"leadmail/views"
)

func main() {
	cfg, envLoaded, err := config.Load()
	if err != nil {
		slog.Error("configuration invalide", logger.Error(err))
		os.Exit(1)
	}

	log := logger.New(
		logger.WithEnvironment(cfg.AppEnv, cfg.ServiceName),
		logger.WithLevel(cfg.LogLevel),
		logger.WithFormat(logger.Format(cfg.LogFormat)),
		logger.WithContextValue("request_id", middleware.RequestIDKey),
	)
	slog.SetDefault(log)

	if !envLoaded {
		log.Info("Fichier .env non trouvé, utilisation des variables système")
	}
	if cfg.LLM.APIKey == "" {
		log.Warn("GROQ_API_KEY est vide, les générations seront refusées par le fournisseur")
	}

	csrfKey, err := loadCSRFKey(cfg)
	if err != nil {
		log.Error("clé CSRF invalide", logger.Error(err))
		os.Exit(1)
	}

	// SIGINT/SIGTERM sont gérés par server.Run ; ctx arrête le nettoyage des sessions
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	completer := service.NewCompletionClient(service.ClientConfig{
		APIKey:    cfg.LLM.APIKey,
		BaseURL:   cfg.LLM.BaseURL,
		Model:     cfg.LLM.Model,
		MaxTokens: cfg.LLM.MaxTokens,
		Timeout:   cfg.LLM.Timeout,
	}, log)

	store := session.NewStore(
		func() *service.Form {
			return service.NewForm(completer, clipboard.NewCopier(clipboard.System), log)
		},
		session.WithCookieName(cfg.Session.CookieName),
		session.WithIdleTimeout(cfg.Session.IdleTimeout),
		session.WithSecureCookie(cfg.IsProduction()),
		session.WithLogger(log),
	)
	go store.Run(ctx, 0)

	renderer, err := views.New()
	if err != nil {
		log.Error("erreur de chargement des templates", logger.Error(err))
		os.Exit(1)
	}

	handler := routes.Web(routes.Options{
		Sessions:      store,
		Handler:       controllers.New(renderer, log),
		Logger:        log,
		CSRFKey:       csrfKey,
		SecureCookies: cfg.IsProduction(),
	})

	srv := server.NewFromConfig(cfg.HTTP, server.WithLogger(log))
	err = srv.Run(ctx, handler)
	cancel()
	if err != nil {
		log.Error("le serveur s'est arrêté sur une erreur", logger.Error(err))
		os.Exit(1)
	}
}

// loadCSRFKey décode CSRF_KEY ; hors production une clé aléatoire est générée
// à chaque démarrage.
func loadCSRFKey(cfg config.Config) ([]byte, error) {
	if cfg.CSRFKey == "" {
		if cfg.IsProduction() {
			return nil, errors.New("CSRF_KEY is required in production")
		}
		key := make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, err
		}
		return key, nil
	}

	key, err := hex.DecodeString(cfg.CSRFKey)
	if err != nil {
		return nil, err
	}
	if len(key) != 32 {
		return nil, errors.New("CSRF_KEY must be 64 hex characters")
	}
	return key, nil
}
