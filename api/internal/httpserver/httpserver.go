package httpserver

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Melonns/PlantifyBE/api/internal/handle"
	"github.com/Melonns/PlantifyBE/api/internal/metrics"
	"github.com/Melonns/PlantifyBE/api/internal/middleware"
)

// NewRouter assembles the gin router. db may be nil; user routes are only
// registered when the store is wired. tm may be nil; the scan route is then
// left open (the mobile app ships without auth for now) and login is not
// registered, since there is no way to issue a token.
func NewRouter(h *handle.Handle, tm *middleware.TokenManager, db *sql.DB) *gin.Engine {
	metrics.Register()

	r := gin.Default()

	r.GET("/healthz", func(c *gin.Context) {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				c.String(http.StatusServiceUnavailable, "db: not ok\n"+err.Error())
				return
			}
		}
		c.String(http.StatusOK, "ok")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	plants := r.Group("/api/plants")
	{
		scanChain := []gin.HandlerFunc{}
		if tm != nil {
			scanChain = append(scanChain, middleware.Auth(tm))
		}
		scanChain = append(scanChain, h.ScanPlant)
		plants.POST("/scan", scanChain...)
		plants.GET("", h.GetAllPlants)
	}

	if h.Users != nil {
		users := r.Group("/api/users")
		{
			users.POST("/register", h.RegisterUser)
			if h.Tokens != nil {
				users.POST("/login", h.LoginUser)
			}
			users.GET("", h.GetAllUsers)
			users.GET("/:id", h.GetUserByID)
		}
	}

	return r
}
