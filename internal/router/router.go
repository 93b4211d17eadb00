package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/zenzmatz/homeassistant-bessa-lunch/internal/day"
	"github.com/zenzmatz/homeassistant-bessa-lunch/internal/middleware"
)

func New(source day.SnapshotSource, days *day.Handler) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.RequestID())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health reports degraded while no snapshot exists or the last
	// refresh cycle failed; a stale snapshot keeps being served either
	// way.
	r.GET("/health", func(c *gin.Context) {
		body := gin.H{"status": "ok"}
		code := http.StatusOK
		if !source.Healthy() {
			body["status"] = "degraded"
			code = http.StatusServiceUnavailable
		}
		if snap, ok := source.Current(); ok {
			body["fetched_at"] = snap.FetchedAt
			body["age_seconds"] = int(time.Since(snap.FetchedAt).Seconds())
		}
		c.JSON(code, body)
	})

	daysGroup := r.Group("/days")
	{
		daysGroup.GET("", days.ListDays)
		daysGroup.GET("/:offset", days.GetDay)
		daysGroup.GET("/:offset/order", days.GetDayOrder)
		daysGroup.GET("/:offset/menu", days.GetDayMenu)
	}

	r.POST("/orders/:id/cancel", days.CancelOrder)

	return r
}
