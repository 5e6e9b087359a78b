package router // route registration for the dashboard API

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/otabek-dev/kinoteka-bot/internal/handler"
	"github.com/otabek-dev/kinoteka-bot/internal/middleware"
	"github.com/otabek-dev/kinoteka-bot/internal/model"
)

// RegisterRoutes registers routes that need no authentication: the
// health check and the Payme merchant webhook, which authenticates
// with its own Basic credentials.
func RegisterRoutes(e *echo.Echo, payme *handler.PaymeHandler) {
	e.GET("/healthz", handler.Health)
	if payme != nil {
		e.POST("/payme", payme.Webhook)
	}
}

// RegisterAuth registers the login endpoint, rate limited per IP.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, rdb *redis.Client) {
	g := e.Group("/v1/auth")
	g.POST("/login", a.Login, middleware.LoginLimit(rdb, 10, time.Minute))
}

// RegisterDashboard registers the protected CRUD surface.  Everything
// requires a valid token; destructive and settings routes additionally
// require the SUPERADMIN role.
func RegisterDashboard(e *echo.Echo, d *handler.DashboardHandler, p *handler.PaymentHandler, jwtSecret string) {
	v1 := e.Group("/v1")
	v1.Use(middleware.JWTAuth(jwtSecret))
	v1.Use(middleware.RequireRole(model.RoleAdmin, model.RoleSuperAdmin))

	v1.GET("/stats", d.GetStats)

	v1.GET("/users", d.ListUsers)
	v1.POST("/users/:id/block", d.BlockUser)
	v1.POST("/users/:id/unblock", d.UnblockUser)

	v1.GET("/fields", d.ListFields)
	v1.POST("/fields", d.CreateField)
	v1.DELETE("/fields/:id", d.DeactivateField)

	v1.GET("/movies", d.ListMovies)
	v1.GET("/movies/:id", d.GetMovie)
	v1.DELETE("/movies/:id", d.DeleteMovie)

	v1.GET("/serials", d.ListSerials)
	v1.GET("/serials/:id", d.GetSerial)
	v1.DELETE("/serials/:id", d.DeleteSerial)

	v1.GET("/payments/pending", p.ListPending)
	v1.POST("/payments/:id/approve", p.Approve)
	v1.POST("/payments/:id/reject", p.Reject)

	// superadmin-only management surface
	su := e.Group("/v1")
	su.Use(middleware.JWTAuth(jwtSecret))
	su.Use(middleware.RequireRole(model.RoleSuperAdmin))

	su.GET("/admins", d.ListAdmins)
	su.POST("/admins", d.CreateAdmin)
	su.DELETE("/admins/:id", d.DeleteAdmin)

	su.GET("/channels/mandatory", d.ListMandatoryChannels)
	su.POST("/channels/mandatory", d.CreateMandatoryChannel)
	su.DELETE("/channels/mandatory/:id", d.DeactivateMandatoryChannel)

	su.GET("/channels/storage", d.ListStorageChannels)
	su.POST("/channels/storage", d.CreateStorageChannel)
	su.DELETE("/channels/storage/:id", d.DeactivateStorageChannel)

	su.GET("/settings/premium", d.GetPremiumSettings)
	su.PUT("/settings/prices", d.UpdatePrices)
	su.PUT("/settings/card", d.UpdateCard)
	su.GET("/settings/bot", d.GetBotSettings)
	su.PUT("/settings/bot", d.UpdateBotSettings)
}
