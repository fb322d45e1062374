package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"airbnb-clone/auth"
	"airbnb-clone/config"
	"airbnb-clone/controllers"
	"airbnb-clone/oauth"
	"airbnb-clone/repositories"
	"airbnb-clone/routes"
	"airbnb-clone/services"
	"airbnb-clone/storage"
	"airbnb-clone/utils"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("config load failed")
	}

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("database connect failed")
	}
	logrus.WithField("driver", cfg.DBDriver).Info("database connection established and migrations applied")

	avatars, err := newAvatarStore(context.Background(), cfg)
	if err != nil {
		logrus.WithError(err).Fatal("avatar storage init failed")
	}

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	roomRepo := repositories.NewRoomRepository(db)
	roomTypes := repositories.NewRoomTypeRepository(db)
	amenities := repositories.NewAmenityRepository(db)
	facilities := repositories.NewFacilityRepository(db)
	houseRules := repositories.NewHouseRuleRepository(db)

	// Identity providers
	httpClient := &http.Client{Timeout: 30 * time.Second}
	providers := oauth.NewRegistry(
		oauth.NewGithub(oauth.Config{
			ClientID:     cfg.GithubClientID,
			ClientSecret: cfg.GithubClientSecret,
			RedirectURL:  cfg.BaseURL + "/users/login/github/callback",
		}, httpClient),
		oauth.NewKakao(oauth.Config{
			ClientID:     cfg.KakaoClientID,
			ClientSecret: cfg.KakaoClientSecret,
			RedirectURL:  cfg.BaseURL + "/users/login/kakao/callback",
		}, httpClient),
	)

	// Services
	sessions := auth.NewSessionManager(cfg.SessionSecret, cfg.SessionTTL)
	roomService := services.NewRoomService(roomRepo, roomTypes, amenities, facilities, houseRules)
	userService := services.NewUserService(userRepo, utils.NewSMTPMailer(utils.SMTPFromEnv()), cfg.BaseURL).WithAvatarStore(avatars)
	identityService := services.NewIdentityService(userRepo, providers, avatars, httpClient)

	// Build router
	uploadsDir := ""
	if cfg.AvatarStorage != "s3" {
		uploadsDir = cfg.UploadsDir
	}
	router := routes.SetupRouter(routes.Router{
		CORSOrigins: cfg.CORSOrigins,
		AdminAPIKey: cfg.AdminAPIKey,
		UploadsDir:  uploadsDir,
		Sessions:    sessions,
		Users:       userRepo,
		RoomCtl:     controllers.NewRoomController(roomService),
		AuthCtl:     controllers.NewAuthController(userService, sessions),
		OAuthCtl:    controllers.NewOAuthController(identityService, sessions),
		UserCtl:     controllers.NewUserController(userService, avatars),
		Vocabularies: []*controllers.VocabularyController{
			controllers.NewVocabularyController(roomTypes),
			controllers.NewVocabularyController(amenities),
			controllers.NewVocabularyController(facilities),
			controllers.NewVocabularyController(houseRules),
		},
	})

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logrus.Infof("server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("ListenAndServe failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logrus.Info("shutdown signal received, shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Fatal("server forced to shutdown")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logrus.Info("server stopped gracefully")
}

func newAvatarStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	if cfg.AvatarStorage == "s3" {
		return storage.NewS3Store(ctx, storage.S3Config{
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
	}
	return storage.NewLocalStore(cfg.UploadsDir, "/uploads"), nil
}
