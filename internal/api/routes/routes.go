package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/talentsift/backend/internal/api/handlers"
	"github.com/talentsift/backend/internal/api/middleware"
	"github.com/talentsift/backend/internal/auth"
	pgrepo "github.com/talentsift/backend/internal/repositories/postgres"
)

type Deps struct {
	Auth     *handlers.AuthHandler
	Analysis *handlers.AnalysisHandler

	Tokens *auth.Issuer
	Users  pgrepo.UserRepository
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	authed := middleware.JWTAuth(d.Tokens, d.Users)

	ag := r.Group("/auth")
	ag.POST("/register", d.Auth.Register)
	ag.POST("/login", d.Auth.Login)
	ag.GET("/me", authed, d.Auth.Me)

	rg := r.Group("/resumes")
	rg.Use(authed)
	rg.POST("/analyze", d.Analysis.Analyze)
	rg.GET("/my-analyses", d.Analysis.MyAnalyses)
	rg.GET("/:id", d.Analysis.Get)
	rg.GET("/:id/download", d.Analysis.Download)
}
