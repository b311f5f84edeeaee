package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/courseverse/course-marketplace/docs"
	"github.com/courseverse/course-marketplace/internal/api/handler"
	"github.com/courseverse/course-marketplace/internal/api/middleware"
	"github.com/courseverse/course-marketplace/internal/core/domain"
	"github.com/courseverse/course-marketplace/internal/core/service"
	"github.com/courseverse/course-marketplace/internal/core/token"
	"github.com/courseverse/course-marketplace/internal/infrastructure/config"
	mongodb "github.com/courseverse/course-marketplace/internal/infrastructure/db/mongo"
	redisdb "github.com/courseverse/course-marketplace/internal/infrastructure/db/redis"
	"github.com/courseverse/course-marketplace/internal/infrastructure/gateway"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// The audit sink is passed in because its workers are started (and stopped)
// by the caller.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, audit service.AuditSink, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("courseverse"))

	// --- Dependencies ---
	tokens := token.NewService(cfg.JWTSecret, cfg.TokenTTL)
	razorpay := gateway.NewClient(cfg.Razorpay.BaseURL, cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret, log)
	replay := redisdb.NewReplayMarker(rdb)

	userRepo := mongodb.NewAccountRepository(db, mongodb.CollectionUsers, domain.RoleUser)
	adminRepo := mongodb.NewAccountRepository(db, mongodb.CollectionAdmins, domain.RoleAdmin)
	courseRepo := mongodb.NewCourseRepository(db)

	userAccounts := service.NewAccountService(userRepo, tokens, domain.RoleUser, log)
	adminAccounts := service.NewAccountService(adminRepo, tokens, domain.RoleAdmin, log)
	courses := service.NewCourseService(courseRepo, log)
	payments := service.NewPaymentService(razorpay, userRepo, courseRepo, replay, audit, log)

	userHandler := handler.NewAccountHandler(userAccounts, domain.RoleUser)
	adminHandler := handler.NewAccountHandler(adminAccounts, domain.RoleAdmin)
	courseHandler := handler.NewCourseHandler(courses)
	paymentHandler := handler.NewPaymentHandler(payments)

	authenticated := middleware.Auth(tokens)

	// --- User routes ---
	users := e.Group("/users")
	users.POST("/signup", userHandler.Signup)
	users.POST("/login", userHandler.Login)

	userOnly := users.Group("", authenticated, middleware.RequireRole(domain.RoleUser))
	userOnly.GET("/profile", userHandler.Profile)
	userOnly.PUT("/profileupdate", userHandler.UpdateProfile)
	userOnly.POST("/changepassword", userHandler.ChangePassword)
	userOnly.GET("/courses", courseHandler.List)
	userOnly.POST("/check-course", paymentHandler.CheckCourse)
	userOnly.POST("/order", paymentHandler.CreateOrder)
	userOnly.POST("/validate", paymentHandler.ValidatePurchase)
	userOnly.GET("/purchased-courses", paymentHandler.PurchasedCourses)

	// --- Admin routes ---
	admin := e.Group("/admin")
	admin.POST("/signup", adminHandler.Signup)
	admin.POST("/login", adminHandler.Login)

	adminOnly := admin.Group("", authenticated, middleware.RequireRole(domain.RoleAdmin))
	adminOnly.GET("/profile", adminHandler.Profile)
	adminOnly.PUT("/profileupdate", adminHandler.UpdateProfile)
	adminOnly.POST("/changepassword", adminHandler.ChangePassword)
	adminOnly.POST("/courses", courseHandler.Create)
	adminOnly.GET("/courses", courseHandler.List)
	adminOnly.GET("/mycourses", courseHandler.MyCourses)
	adminOnly.PUT("/courses/:id", courseHandler.Update)
	adminOnly.DELETE("/courses/:id", courseHandler.Delete)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)          // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// --- Ops surface ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
