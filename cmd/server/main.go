package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cedra_storefront/internal/app"
	"cedra_storefront/internal/config"
	"cedra_storefront/internal/database"
	"cedra_storefront/internal/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	log := utils.NewLogger(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))

	cfg, err := config.Load(log)
	if err != nil {
		log.WithError(err).Fatal("❌ Configuration invalide")
	}
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conns, err := database.ConnectDatabases(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("❌ Connexion aux bases impossible")
	}
	defer conns.Close()

	application, err := app.Build(ctx, cfg, conns, log)
	if err != nil {
		log.WithError(err).Fatal("❌ Initialisation des services impossible")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           application.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("🚀 Serveur Cedra lancé")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("❌ Arrêt inattendu du serveur")
		}
	}()

	<-ctx.Done()
	log.Info("🛑 Arrêt demandé, fermeture des connexions...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("⚠️ Arrêt forcé du serveur")
	}
}
