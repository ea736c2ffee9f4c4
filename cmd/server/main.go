package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	academicapp "github.com/schoolhub/backend/internal/application/academic"
	feesapp "github.com/schoolhub/backend/internal/application/fees"
	identityapp "github.com/schoolhub/backend/internal/application/identity"
	settingsapp "github.com/schoolhub/backend/internal/application/settings"
	"github.com/schoolhub/backend/internal/domain/identity"
	"github.com/schoolhub/backend/internal/infrastructure/auth"
	"github.com/schoolhub/backend/internal/infrastructure/config"
	"github.com/schoolhub/backend/internal/infrastructure/logger"
	"github.com/schoolhub/backend/internal/infrastructure/persistence"
	"github.com/schoolhub/backend/internal/infrastructure/persistence/tenant"
	"github.com/schoolhub/backend/internal/interfaces/http/dto"
	"github.com/schoolhub/backend/internal/interfaces/http/handler"
	"github.com/schoolhub/backend/internal/interfaces/http/middleware"
	"github.com/schoolhub/backend/internal/interfaces/http/router"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting SchoolHub Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.Connect(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	if err := tenant.EnableAutoFilter(db.DB); err != nil {
		log.Fatal("Failed to register tenant callbacks", zap.Error(err))
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing redis", zap.Error(err))
		}
	}()
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Warn("Redis unreachable at startup, token revocation degraded", zap.Error(err))
	} else {
		log.Info("Redis connected")
	}

	// Repositories
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	yearRepo := persistence.NewGormAcademicYearRepository(db.DB)
	classRepo := persistence.NewGormClassRepository(db.DB)
	studentRepo := persistence.NewGormStudentRepository(db.DB)
	guardianRepo := persistence.NewGormGuardianRepository(db.DB)
	attendanceRepo := persistence.NewGormAttendanceRepository(db.DB)
	leaveRepo := persistence.NewGormLeaveRequestRepository(db.DB)
	timetableRepo := persistence.NewGormTimetableRepository(db.DB)
	feeCategoryRepo := persistence.NewGormFeeCategoryRepository(db.DB)
	feeStructureRepo := persistence.NewGormFeeStructureRepository(db.DB)
	discountRepo := persistence.NewGormDiscountRepository(db.DB)
	allocationRepo := persistence.NewGormAllocationRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	ledger := persistence.NewGormLedger(db.DB)
	settingsRepo := persistence.NewGormSettingsRepository(db.DB)

	// Auth infrastructure
	jwtService := auth.NewJWTService(cfg.JWT)
	blacklist := auth.NewRedisTokenBlacklist(redisClient)

	// Application services
	authService := identityapp.NewAuthService(userRepo, tenantRepo, jwtService, blacklist, log)
	userService := identityapp.NewUserService(userRepo, log)
	tenantService := identityapp.NewTenantService(tenantRepo, userRepo, log)
	yearService := academicapp.NewAcademicYearService(yearRepo, log)
	classService := academicapp.NewClassService(classRepo, studentRepo, log)
	enrollmentService := academicapp.NewEnrollmentService(studentRepo, guardianRepo, classRepo, log)
	attendanceService := academicapp.NewAttendanceService(attendanceRepo, studentRepo, log)
	leaveService := academicapp.NewLeaveService(leaveRepo, log)
	timetableService := academicapp.NewTimetableService(timetableRepo, classRepo, log)
	feeService := feesapp.NewFeeService(feeCategoryRepo, feeStructureRepo, discountRepo, allocationRepo, log)
	paymentService := feesapp.NewPaymentService(ledger, paymentRepo, allocationRepo, feeStructureRepo, log)
	settingsService := settingsapp.NewService(settingsRepo, log)

	// HTTP handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService, authService)
	tenantHandler := handler.NewTenantHandler(tenantService)
	yearHandler := handler.NewAcademicYearHandler(yearService)
	classHandler := handler.NewClassHandler(classService)
	studentHandler := handler.NewStudentHandler(enrollmentService)
	attendanceHandler := handler.NewAttendanceHandler(attendanceService)
	leaveHandler := handler.NewLeaveHandler(leaveService)
	timetableHandler := handler.NewTimetableHandler(timetableService)
	feeHandler := handler.NewFeeHandler(feeService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	settingsHandler := handler.NewSettingsHandler(settingsService)
	healthHandler := handler.NewHealthHandler(db, redisClient, version)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := dto.RegisterValidations(); err != nil {
		log.Fatal("Failed to register validations", zap.Error(err))
	}

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health endpoints stay outside API versioning and authentication
	engine.GET("/health", healthHandler.Live)
	engine.GET("/health/ready", healthHandler.Ready)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	r.Use(middleware.JWTAuthWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		SkipPaths: []string{
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
		},
		Logger: log,
	}))
	r.Use(middleware.AccessResolver())

	// Auth routes. Login and refresh are public via the JWT skip list.
	loginLimit := middleware.DefaultLoginRateLimitConfig()
	loginLimit.Logger = log

	authRoutes := router.NewDomainGroup("auth", "/auth")
	authRoutes.POST("/login", middleware.LoginRateLimit(redisClient, loginLimit), authHandler.Login)
	authRoutes.POST("/refresh", authHandler.Refresh)
	authRoutes.POST("/logout", authHandler.Logout)
	authRoutes.POST("/logout-all", authHandler.RevokeAllSessions)
	authRoutes.GET("/me", authHandler.Me)
	authRoutes.PUT("/password", userHandler.ChangePassword)

	// Platform routes: super-admin operations on schools, platform
	// users and global settings.
	platformRoutes := router.NewDomainGroup("platform", "/platform")
	platformRoutes.Use(middleware.RequirePlatform())
	platformRoutes.POST("/tenants", middleware.RequirePermission(identity.PermTenantsManage), tenantHandler.Create)
	platformRoutes.GET("/tenants", middleware.RequirePermission(identity.PermTenantsManage), tenantHandler.List)
	platformRoutes.GET("/tenants/:id", middleware.RequirePermission(identity.PermTenantsManage), tenantHandler.GetByID)
	platformRoutes.GET("/tenants/slug/:slug", middleware.RequirePermission(identity.PermTenantsManage), tenantHandler.GetBySlug)
	platformRoutes.PUT("/tenants/:id", middleware.RequirePermission(identity.PermTenantsManage), tenantHandler.Update)
	platformRoutes.PUT("/tenants/:id/status", middleware.RequirePermission(identity.PermTenantsManage), tenantHandler.ChangeStatus)
	platformRoutes.POST("/tenants/:id/activate", middleware.RequirePermission(identity.PermTenantsManage), tenantHandler.Activate)
	platformRoutes.POST("/tenants/:id/suspend", middleware.RequirePermission(identity.PermTenantsManage), tenantHandler.Suspend)
	platformRoutes.PUT("/tenants/:id/plan", middleware.RequirePermission(identity.PermTenantsManage), tenantHandler.ChangePlan)
	platformRoutes.POST("/tenants/:id/subscription/extend", middleware.RequirePermission(identity.PermTenantsManage), tenantHandler.ExtendSubscription)
	platformRoutes.DELETE("/tenants/:id", middleware.RequirePermission(identity.PermTenantsManage), tenantHandler.Delete)
	platformRoutes.POST("/users", middleware.RequirePermission(identity.PermPlatformUsers), userHandler.CreatePlatformUser)
	platformRoutes.GET("/users", middleware.RequirePermission(identity.PermPlatformUsers), userHandler.ListPlatformUsers)
	platformRoutes.GET("/settings", middleware.RequirePermission(identity.PermSettingsManage), settingsHandler.GetAllPlatform)
	platformRoutes.GET("/settings/:section", middleware.RequirePermission(identity.PermSettingsManage), settingsHandler.GetPlatform)
	platformRoutes.PUT("/settings/:section", middleware.RequirePermission(identity.PermSettingsManage), settingsHandler.ReplacePlatform)
	platformRoutes.PATCH("/settings/:section", middleware.RequirePermission(identity.PermSettingsManage), settingsHandler.PatchPlatform)

	// School-scoped routes re-check the tenant's operational state on
	// every request so suspension bites before token expiry.
	guard := middleware.TenantGuard(tenantRepo, log)

	identityRoutes := router.NewDomainGroup("identity", "/identity")
	identityRoutes.Use(guard)
	identityRoutes.POST("/users", middleware.RequirePermission(identity.PermSchoolManage), userHandler.Create)
	identityRoutes.GET("/users", middleware.RequirePermission(identity.PermSchoolManage), userHandler.List)
	identityRoutes.GET("/users/:id", middleware.RequirePermission(identity.PermSchoolManage), userHandler.GetByID)
	identityRoutes.PUT("/users/:id", middleware.RequirePermission(identity.PermSchoolManage), userHandler.Update)
	identityRoutes.PUT("/users/:id/status", middleware.RequirePermission(identity.PermSchoolManage), userHandler.ChangeStatus)
	identityRoutes.DELETE("/users/:id", middleware.RequirePermission(identity.PermSchoolManage), userHandler.SoftDelete)
	identityRoutes.POST("/users/:id/restore", middleware.RequirePermission(identity.PermSchoolManage), userHandler.Restore)
	identityRoutes.DELETE("/users/:id/purge", middleware.RequirePermission(identity.PermSchoolManage), userHandler.Purge)

	academicRoutes := router.NewDomainGroup("academic", "/academic")
	academicRoutes.Use(guard)
	academicRoutes.POST("/years", middleware.RequirePermission(identity.PermAcademicsManage), yearHandler.Create)
	academicRoutes.GET("/years", yearHandler.List)
	academicRoutes.GET("/years/current", yearHandler.GetCurrent)
	academicRoutes.GET("/years/:id", yearHandler.GetByID)
	academicRoutes.POST("/years/:id/set-current", middleware.RequirePermission(identity.PermAcademicsManage), yearHandler.SetCurrent)
	academicRoutes.POST("/years/:id/close", middleware.RequirePermission(identity.PermAcademicsManage), yearHandler.Close)
	academicRoutes.DELETE("/years/:id", middleware.RequirePermission(identity.PermAcademicsManage), yearHandler.Delete)
	academicRoutes.POST("/classes", middleware.RequirePermission(identity.PermAcademicsManage), classHandler.CreateClass)
	academicRoutes.GET("/classes", classHandler.ListClasses)
	academicRoutes.GET("/classes/:id", classHandler.GetClass)
	academicRoutes.PUT("/classes/:id/teacher", middleware.RequirePermission(identity.PermAcademicsManage), classHandler.AssignClassTeacher)
	academicRoutes.DELETE("/classes/:id", middleware.RequirePermission(identity.PermAcademicsManage), classHandler.DeleteClass)
	academicRoutes.POST("/sections", middleware.RequirePermission(identity.PermAcademicsManage), classHandler.CreateSection)
	academicRoutes.GET("/sections/:id", classHandler.GetSection)
	academicRoutes.PUT("/sections/:id/capacity", middleware.RequirePermission(identity.PermAcademicsManage), classHandler.ResizeSection)
	academicRoutes.GET("/sections/:id/roster", middleware.RequirePermission(identity.PermStudentsRead), studentHandler.ListBySection)

	studentRoutes := router.NewDomainGroup("students", "/students")
	studentRoutes.Use(guard)
	studentRoutes.POST("", middleware.RequirePermission(identity.PermStudentsWrite), studentHandler.Enroll)
	studentRoutes.GET("", middleware.RequirePermission(identity.PermStudentsRead), studentHandler.List)
	studentRoutes.GET("/:id", middleware.RequirePermission(identity.PermStudentsRead), studentHandler.Get)
	studentRoutes.POST("/:id/transfer", middleware.RequirePermission(identity.PermStudentsWrite), studentHandler.Transfer)
	studentRoutes.PUT("/:id/status", middleware.RequirePermission(identity.PermStudentsWrite), studentHandler.ChangeStatus)
	studentRoutes.GET("/:id/guardians", middleware.RequirePermission(identity.PermStudentsRead), studentHandler.ListGuardians)
	studentRoutes.POST("/:id/guardians", middleware.RequirePermission(identity.PermStudentsWrite), studentHandler.LinkGuardian)
	studentRoutes.DELETE("/:id/guardians/:guardian_id", middleware.RequirePermission(identity.PermStudentsWrite), studentHandler.UnlinkGuardian)
	studentRoutes.GET("/:id/attendance", middleware.RequirePermission(identity.PermAttendanceRead), attendanceHandler.GetForStudent)
	studentRoutes.GET("/:id/attendance/summary", middleware.RequirePermission(identity.PermAttendanceRead), attendanceHandler.Summarize)
	studentRoutes.GET("/:id/fees", middleware.RequirePermission(identity.PermFeesRead), feeHandler.ListForStudent)
	studentRoutes.GET("/:id/fees/summary", middleware.RequirePermission(identity.PermFeesRead), feeHandler.SummaryForStudent)

	guardianRoutes := router.NewDomainGroup("guardians", "/guardians")
	guardianRoutes.Use(guard)
	guardianRoutes.POST("", middleware.RequirePermission(identity.PermStudentsWrite), studentHandler.CreateGuardian)

	attendanceRoutes := router.NewDomainGroup("attendance", "/attendance")
	attendanceRoutes.Use(guard)
	attendanceRoutes.POST("", middleware.RequirePermission(identity.PermAttendanceWrite), attendanceHandler.Mark)
	attendanceRoutes.POST("/bulk", middleware.RequirePermission(identity.PermAttendanceWrite), attendanceHandler.BulkMark)
	attendanceRoutes.GET("/sections/:id", middleware.RequirePermission(identity.PermAttendanceRead), attendanceHandler.GetForSection)

	leaveRoutes := router.NewDomainGroup("leaves", "/leaves")
	leaveRoutes.Use(guard)
	leaveRoutes.POST("", leaveHandler.File)
	leaveRoutes.GET("", leaveHandler.ListByRequester)
	leaveRoutes.GET("/pending", middleware.RequirePermission(identity.PermLeaveReview), leaveHandler.ListPending)
	leaveRoutes.GET("/:id", leaveHandler.Get)
	leaveRoutes.POST("/:id/review", middleware.RequirePermission(identity.PermLeaveReview), leaveHandler.Review)
	leaveRoutes.POST("/:id/cancel", leaveHandler.Cancel)

	timetableRoutes := router.NewDomainGroup("timetable", "/timetable")
	timetableRoutes.Use(guard)
	timetableRoutes.POST("/entries", middleware.RequirePermission(identity.PermTimetableManage), timetableHandler.CreateEntry)
	timetableRoutes.GET("/sections/:id", timetableHandler.GetForSection)
	timetableRoutes.GET("/teachers/:id", timetableHandler.GetForTeacher)
	timetableRoutes.PUT("/entries/:id/teacher", middleware.RequirePermission(identity.PermTimetableManage), timetableHandler.AssignTeacher)
	timetableRoutes.DELETE("/entries/:id/teacher", middleware.RequirePermission(identity.PermTimetableManage), timetableHandler.ClearTeacher)
	timetableRoutes.DELETE("/entries/:id", middleware.RequirePermission(identity.PermTimetableManage), timetableHandler.DeleteEntry)

	feeRoutes := router.NewDomainGroup("fees", "/fees")
	feeRoutes.Use(guard)
	feeRoutes.POST("/categories", middleware.RequirePermission(identity.PermFeesWrite), feeHandler.CreateCategory)
	feeRoutes.GET("/categories", middleware.RequirePermission(identity.PermFeesRead), feeHandler.ListCategories)
	feeRoutes.POST("/categories/:id/deactivate", middleware.RequirePermission(identity.PermFeesWrite), feeHandler.DeactivateCategory)
	feeRoutes.POST("/structures", middleware.RequirePermission(identity.PermFeesWrite), feeHandler.CreateStructure)
	feeRoutes.GET("/structures", middleware.RequirePermission(identity.PermFeesRead), feeHandler.ListStructures)
	feeRoutes.GET("/structures/applicable", middleware.RequirePermission(identity.PermFeesRead), feeHandler.ListApplicableStructures)
	feeRoutes.POST("/discounts", middleware.RequirePermission(identity.PermFeesWrite), feeHandler.CreateDiscount)
	feeRoutes.GET("/discounts", middleware.RequirePermission(identity.PermFeesRead), feeHandler.ListDiscounts)
	feeRoutes.POST("/allocations", middleware.RequirePermission(identity.PermFeesWrite), feeHandler.AssignToStudent)
	feeRoutes.POST("/allocations/:id/waive", middleware.RequirePermission(identity.PermFeesWrite), feeHandler.Waive)
	feeRoutes.GET("/allocations/:id/payments", middleware.RequirePermission(identity.PermFeesRead), paymentHandler.ListForAllocation)

	paymentRoutes := router.NewDomainGroup("payments", "/payments")
	paymentRoutes.Use(guard)
	paymentRoutes.POST("", middleware.RequirePermission(identity.PermPaymentsRecord), paymentHandler.Record)
	paymentRoutes.GET("/receipt/:receipt", middleware.RequirePermission(identity.PermFeesRead), paymentHandler.GetByReceipt)
	paymentRoutes.GET("/:id", middleware.RequirePermission(identity.PermFeesRead), paymentHandler.GetByID)
	paymentRoutes.DELETE("/:id", middleware.RequirePermission(identity.PermPaymentsRecord), paymentHandler.Void)

	settingsRoutes := router.NewDomainGroup("settings", "/settings")
	settingsRoutes.Use(guard)
	settingsRoutes.GET("", settingsHandler.GetAll)
	settingsRoutes.GET("/:section", settingsHandler.Get)
	settingsRoutes.PUT("/:section", middleware.RequirePermission(identity.PermSchoolManage), settingsHandler.Replace)
	settingsRoutes.PATCH("/:section", middleware.RequirePermission(identity.PermSchoolManage), settingsHandler.Patch)

	r.Register(authRoutes).
		Register(platformRoutes).
		Register(identityRoutes).
		Register(academicRoutes).
		Register(studentRoutes).
		Register(guardianRoutes).
		Register(attendanceRoutes).
		Register(leaveRoutes).
		Register(timetableRoutes).
		Register(feeRoutes).
		Register(paymentRoutes).
		Register(settingsRoutes)

	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
