package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"roadsense/api/internal/config"
	"roadsense/api/internal/middleware"
	"roadsense/api/internal/models"
	"roadsense/api/internal/repository"
	"roadsense/api/internal/service"
	"roadsense/api/internal/storage"
)

type HandlerSet struct {
	log           zerolog.Logger
	cfg           *config.AppConfig
	authService   *service.AuthService
	reportService *service.ReportService
	adminService  *service.AdminService
	db            *pgxpool.Pool
	cache         *redis.Client
	users         *repository.UserRepository
	reports       *repository.ReportRepository
	notifications *repository.NotificationRepository
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, cache *redis.Client, store *storage.ObjectStore, cfg *config.AppConfig) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	reportRepo := repository.NewReportRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	uploads := service.NewUploadService(store, cfg, log)
	auth := service.NewAuthService(userRepo, uploads, cfg, log)
	reports := service.NewReportService(reportRepo, notificationRepo, uploads, cache, cfg, log)
	admin := service.NewAdminService(userRepo, reportRepo, notificationRepo, log)

	return HandlerSet{
		log:           log,
		cfg:           cfg,
		authService:   auth,
		reportService: reports,
		adminService:  admin,
		db:            db,
		cache:         cache,
		users:         userRepo,
		reports:       reportRepo,
		notifications: notificationRepo,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	router.POST("/register/citizen", h.RegisterCitizen)
	router.POST("/register/official", h.RegisterOfficial)
	router.POST("/login", h.Login)
	router.POST("/admin/login", h.AdminLogin)

	authed := router.Group("")
	authed.Use(middleware.Auth(h.cfg, h.users))
	{
		authed.GET("/users/me", h.Me)
		authed.GET("/users/me/profile", h.Profile)
		authed.PATCH("/users/me/profile", h.UpdateProfile)
		authed.POST("/users/change-password", h.ChangePassword)
		authed.POST("/upload/profile-image", h.UploadProfileImage)

		authed.GET("/reports", h.ListReports)
		authed.GET("/reports/:id", h.GetReport)
		authed.DELETE("/reports/:id", h.DeleteReport)
		authed.POST("/reports/:id/comments", h.CommentReport)

		authed.GET("/notifications", h.ListNotifications)
		authed.GET("/notifications/unread-count", h.UnreadNotificationCount)
		authed.PATCH("/notifications/read-all", h.MarkAllNotificationsRead)
		authed.PATCH("/notifications/:id/read", h.MarkNotificationRead)
		authed.DELETE("/notifications/:id", h.DeleteNotification)
	}

	citizen := router.Group("")
	citizen.Use(middleware.Auth(h.cfg, h.users), middleware.RequireRoles(models.UserRoleCitizen))
	{
		citizen.POST("/reports", h.CreateReport)
		citizen.POST("/reports/:id/rate", h.RateReport)
		citizen.GET("/citizen/dashboard/stats", h.CitizenStats)
	}

	official := router.Group("/official")
	official.Use(middleware.Auth(h.cfg, h.users), middleware.RequireRoles(models.UserRoleOfficial))
	{
		official.GET("/reports", h.AssignedReports)
		official.GET("/dashboard/stats", h.OfficialStats)
	}

	triage := router.Group("")
	triage.Use(middleware.Auth(h.cfg, h.users), middleware.RequireRoles(models.UserRoleOfficial, models.UserRoleAdmin))
	{
		triage.PATCH("/reports/:id/status", h.UpdateReportStatus)
		triage.PATCH("/reports/:id/priority", h.UpdateReportPriority)
	}

	admin := router.Group("/admin")
	admin.Use(middleware.Auth(h.cfg, h.users), middleware.RequireRoles(models.UserRoleAdmin))
	{
		admin.GET("/stats", h.AdminStats)
		admin.GET("/users", h.AdminListUsers)
		admin.GET("/users/:id", h.AdminUserDetail)
		admin.PATCH("/users/:id/status", h.AdminSetUserStatus)
		admin.GET("/officials/pending", h.AdminPendingOfficials)
		admin.PATCH("/officials/:id/verify", h.AdminVerifyOfficial)
		admin.GET("/reports", h.AdminListReports)
		admin.PATCH("/reports/:id/assign", h.AdminAssignReport)
		admin.DELETE("/reports/:id", h.AdminDeleteReport)
	}
}
