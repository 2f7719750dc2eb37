package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"hotelbooking/internal/config"
	"hotelbooking/internal/database"
	"hotelbooking/internal/middleware"
	"hotelbooking/internal/modules/auth"
	"hotelbooking/internal/modules/booking"
	"hotelbooking/internal/modules/catalog"
	jwtsvc "hotelbooking/internal/pkg/jwt"
	"hotelbooking/internal/pkg/mailer"
	"hotelbooking/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := database.Connect(cfg.Server.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	tokenRepo := repository.NewRefreshTokenRepository(db)
	resetRepo := repository.NewPasswordResetRepository(db)

	j := jwtsvc.New(cfg.Auth.JWTSecret, cfg.Auth.JWTAccessTTL)

	authService := auth.NewService(userRepo, tokenRepo, resetRepo, j, mailer.NewLogMailer(), cfg.Auth)
	authHandler := auth.NewHandler(authService, cfg.Auth)

	catalogService := catalog.NewService(roomRepo)
	catalogHandler := catalog.NewHandler(catalogService)

	bookingService := booking.NewService(bookingRepo, cfg.Booking)
	bookingHandler := booking.NewHandler(bookingService)

	authn := middleware.NewAuthenticator(j, userRepo).
		WithProactiveRefresh(authService, cfg.Auth.RefreshMargin, cfg.Auth.RefreshTTL, cfg.Auth.CookieSecure, cfg.Auth.CookiePath)

	r := gin.Default()
	r.Use(middleware.CORS())

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterRoutes(v1)
		catalogHandler.RegisterPublicRoutes(v1)
		bookingHandler.RegisterPublicRoutes(v1)

		// protected
		protected := v1.Group("/")
		protected.Use(authn.Handler())
		{
			authHandler.RegisterProtectedRoutes(protected)
			bookingHandler.RegisterRoutes(protected)
		}

		// admin
		admin := v1.Group("/admin")
		admin.Use(authn.Handler(), middleware.AdminOnly())
		{
			bookingHandler.RegisterAdminRoutes(admin)
			catalogHandler.RegisterAdminRoutes(admin)
		}
	}

	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal(err)
	}
}
