package app

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/pixeloid/hgye-webinar/domain"
	"github.com/pixeloid/hgye-webinar/internal/config"
	httpx "github.com/pixeloid/hgye-webinar/internal/http"
	"github.com/pixeloid/hgye-webinar/internal/http/handlers"
	"github.com/pixeloid/hgye-webinar/internal/http/middleware"
	"github.com/pixeloid/hgye-webinar/internal/infrastructure/auth"
	"github.com/pixeloid/hgye-webinar/internal/infrastructure/database"
	"github.com/pixeloid/hgye-webinar/internal/infrastructure/notifications"
	"github.com/pixeloid/hgye-webinar/internal/infrastructure/repositories"
	"github.com/pixeloid/hgye-webinar/internal/services"
)

func Run(cfg *config.Config) error {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	gdb, err := database.Open(cfg.DSN)
	if err != nil {
		return err
	}
	if err := database.AutoMigrate(gdb); err != nil {
		return err
	}
	cas, err := auth.NewCasbinService(gdb, cfg.CasbinModelPath)
	if err != nil {
		return err
	}
	rdb := database.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB).Client
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return err
	}

	// Infrastructure services
	passwordSvc := auth.NewPasswordService()
	tokenSvc := auth.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTTL)
	issuer := auth.NewZoomService(cfg.ZoomSDKKey, cfg.ZoomSDKSecret, cfg.ZoomMeetingNumber, cfg.ZoomPassword)
	notifier := notifications.NewSendGridService(cfg.SendGridAPIKey, cfg.FromEmail, cfg.FromName, cfg.SiteURL)

	// Repositories
	inviteeRepo := repositories.NewInviteeRepository(gdb)
	sessionRepo := repositories.NewSessionRepository(gdb, cfg.StalenessThreshold)
	adminRepo := repositories.NewAdminRepository(gdb)
	accessLog := repositories.NewAccessLogRepository(gdb)

	// Services
	otpStore := services.NewOTPStore(rdb, services.OTPConfig{
		Length:      cfg.OTPLength,
		EmailTTL:    cfg.OTPEmailTTL,
		TransferTTL: cfg.OTPTransferTTL,
		MaxAttempts: cfg.OTPMaxAttempts,
		Grace:       cfg.OTPGrace,
	})
	admissionSvc := services.NewAdmissionService(inviteeRepo, sessionRepo, otpStore, issuer, notifier, accessLog,
		services.AdmissionConfig{LivenessWindow: cfg.LivenessWindow})
	loginSvc := services.NewLoginService(inviteeRepo, otpStore, tokenSvc, notifier, accessLog)
	inviteSvc := services.NewInvitationService(inviteeRepo, notifier, accessLog, services.InvitationConfig{
		SiteURL:       cfg.SiteURL,
		MeetingNumber: cfg.ZoomMeetingNumber,
		TokenTTL:      cfg.InviteTokenTTL,
	})
	adminSvc := services.NewAdminService(adminRepo, passwordSvc, tokenSvc, accessLog)

	// Handlers
	joinH := handlers.NewJoinHandlers(admissionSvc, cfg.HeartbeatInterval)
	authH := handlers.NewAuthHandlers(loginSvc, admissionSvc, cfg.HeartbeatInterval)
	adminH := handlers.NewAdminHandlers(adminSvc, inviteSvc, inviteeRepo)

	// Middleware
	jwtMW := middleware.AuthMiddleware(tokenSvc)
	casbinMW := middleware.NewCasbinMW(cas.E)

	r := httpx.BuildRouter(joinH, authH, adminH, jwtMW, casbinMW)

	policies, _ := cas.E.GetPolicy()
	if len(policies) == 0 {
		cas.E.AddPolicy(services.RoleAdmin, "/admin/*", "(GET|POST|PUT|DELETE)")
		_ = cas.E.SavePolicy()
		log.Println("casbin: seeded default policies")
	}

	bootstrapAdmin(adminSvc)

	addr := ":" + cfg.Port
	log.Printf("listening on %s", addr)
	return http.ListenAndServe(addr, r)
}

// bootstrapAdmin creates the first operator account from the environment so
// a fresh deployment is reachable. A no-op once any admin exists.
func bootstrapAdmin(adminSvc domain.AdminService) {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return
	}
	if _, err := adminSvc.CreateAdmin(context.Background(), "", email, password, "Bootstrap Admin"); err != nil {
		log.Printf("admin bootstrap skipped: %v", err)
	}
}
