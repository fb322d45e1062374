package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"airbnb-clone/auth"
	"airbnb-clone/controllers"
	"airbnb-clone/middleware"
	"airbnb-clone/repositories"
	"airbnb-clone/services"
)

// Router holds everything SetupRouter wires into the engine.
type Router struct {
	CORSOrigins []string
	AdminAPIKey string
	UploadsDir  string

	Sessions *auth.SessionManager
	Users    repositories.UserRepository

	RoomCtl      *controllers.RoomController
	AuthCtl      *controllers.AuthController
	OAuthCtl     *controllers.OAuthController
	UserCtl      *controllers.UserController
	Vocabularies []*controllers.VocabularyController
}

func SetupRouter(rt Router) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger())
	if rt.UploadsDir != "" {
		r.Static("/uploads", rt.UploadsDir)
	}

	origins := rt.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
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
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", middleware.AdminKeyHeader},
		ExposeHeaders:    []string{"Content-Length", "Location"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.LoadUser(rt.Sessions, rt.Users))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	login := middleware.RequireLogin()

	r.GET("/", rt.RoomCtl.Home)
	rooms := r.Group("/rooms")
	{
		rooms.GET("/search/", rt.RoomCtl.Search)
		rooms.GET("/:id", rt.RoomCtl.Detail)

		rooms.POST("", login, rt.RoomCtl.Create)
		rooms.PATCH("/:id", login, rt.RoomCtl.Update)
		rooms.DELETE("/:id", login, rt.RoomCtl.Delete)

		for _, kind := range []string{services.MemberAmenity, services.MemberFacility, services.MemberHouseRule} {
			rooms.POST("/:id/"+kind+"/:itemId", login, rt.RoomCtl.Membership(kind, true))
			rooms.DELETE("/:id/"+kind+"/:itemId", login, rt.RoomCtl.Membership(kind, false))
		}
	}

	users := r.Group("/users")
	{
		users.GET("/login", rt.AuthCtl.LoginForm)
		users.POST("/login", rt.AuthCtl.Login)
		users.POST("/logout", rt.AuthCtl.Logout)
		users.GET("/signup", rt.AuthCtl.SignupForm)
		users.POST("/signup", rt.AuthCtl.Signup)
		users.GET("/verify/:secret", rt.AuthCtl.Verify)
		users.POST("/verify/:secret", rt.AuthCtl.Verify)

		users.GET("/login/:provider", rt.OAuthCtl.Start)
		users.GET("/login/:provider/callback", rt.OAuthCtl.Callback)

		users.GET("/me", login, rt.UserCtl.Me)
		users.GET("/update", login, rt.UserCtl.EditForm)
		users.POST("/update", login, rt.UserCtl.Update)
		users.POST("/update-password", login, rt.UserCtl.UpdatePassword)
		users.GET("/:id", rt.UserCtl.Profile)
	}

	api := r.Group("/api")
	admin := middleware.RequireAdminKey(rt.AdminAPIKey)
	for _, vc := range rt.Vocabularies {
		g := api.Group("/" + vc.Repo.Kind())
		{
			g.GET("", vc.List)
			g.POST("", admin, vc.Create)
			g.DELETE("/:id", admin, vc.Delete)
		}
	}

	return r
}
