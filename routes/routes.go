package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"pgstay-backend/controllers"
	"pgstay-backend/middleware"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// SetupRouter wires the controllers into the route tree.
func SetupRouter(
	gc *controllers.GuestController,
	rc *controllers.RoomController,
	logger *logrus.Logger,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Static("/uploads", "./uploads")

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", middleware.UserIDHeader},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.Use(middleware.UserContext())
	{
		api.GET("/guests/pending", gc.PendingGuests)

		buildings := api.Group("/buildings/:buildingid")
		{
			guests := buildings.Group("/guests")
			{
				guests.GET("", gc.ListGuests)
				guests.PUT("", gc.UpdateGuest)
				guests.GET("/check/:finderid", gc.CheckGuest)
				guests.DELETE("/:id", gc.ReleaseGuest)
			}

			rooms := buildings.Group("/rooms")
			{
				rooms.GET("", rc.ListRooms)
				rooms.POST("", rc.CreateRoom)
				rooms.POST("/pics", rc.UploadRoomPics)
				rooms.POST("/:roomid/guests", gc.AdmitGuest)
				rooms.PUT("/:roomid", rc.UpdateRoom)
				rooms.PATCH("/:roomid", rc.UpdateRoom)
				rooms.DELETE("/:roomid", rc.DeleteRoom)
			}

			buildings.GET("/status", gc.BuildingStatus)
		}
	}

	return r
}
