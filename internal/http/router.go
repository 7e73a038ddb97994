package httpx

import (
	"github.com/gin-gonic/gin"
	"github.com/pixeloid/hgye-webinar/internal/http/handlers"
	"github.com/pixeloid/hgye-webinar/internal/http/middleware"
)

func BuildRouter(jh *handlers.JoinHandlers, ah *handlers.AuthHandlers, adh *handlers.AdminHandlers, jwtmw gin.HandlerFunc, cb *middleware.CasbinMW) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	// Join-link flow: no bearer token, the join link itself is the credential
	join := r.Group("/join")
	join.POST("", jh.Join)
	join.POST("/verify-device", jh.VerifyDevice)
	join.POST("/heartbeat", jh.Heartbeat)
	join.POST("/transfer/request", jh.RequestTransfer)
	join.POST("/transfer/confirm", jh.ConfirmTransfer)

	// Identity flow
	auth := r.Group("/auth")
	auth.POST("/otp/send", ah.SendCode)
	auth.POST("/otp/verify", ah.VerifyCode)
	auth.POST("/signature", jwtmw, ah.Signature)

	// Operator endpoints
	r.POST("/admin/login", adh.Login)

	adm := r.Group("/admin").Use(jwtmw, cb.Enforce())
	adm.GET("/invitees", adh.ListInvitees)
	adm.POST("/invitees", adh.BulkInvite)
	adm.POST("/admins", adh.CreateAdmin)

	return r
}
