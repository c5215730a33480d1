package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"library-backend/internal/shared/middleware"
	"library-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	v1 := router.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(v1, c)
		setupMemberRoutes(v1, c)
		setupBookRoutes(v1, c)
		setupTransactionRoutes(v1, c)
		setupWishlistRoutes(v1, c)
		setupProfessorRoutes(v1, c)
		setupAdminRoutes(v1, c)
	}

	return router
}

// ========================================
// AUTH ROUTES
// ========================================
func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := v1.Group("/auth")
	{
		auth.POST("/register", c.MemberHandler.Register)
		auth.POST("/login", c.MemberHandler.Login)
		auth.POST("/refresh", c.MemberHandler.Refresh)
	}
}

// ========================================
// MEMBER ROUTES
// ========================================
func setupMemberRoutes(v1 *gin.RouterGroup, c *container.Container) {
	members := v1.Group("/members")
	members.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		members.GET("/me", c.MemberHandler.GetProfile)
		members.PUT("/me", c.MemberHandler.UpdateProfile)
		members.POST("/me/image", c.MemberHandler.UploadImage)
	}
}

// ========================================
// BOOK ROUTES
// ========================================
func setupBookRoutes(v1 *gin.RouterGroup, c *container.Container) {
	books := v1.Group("/books")
	{
		books.GET("", c.BookHandler.ListBooks)
		books.GET("/:id", c.BookHandler.GetBookDetail)
		books.GET("/:id/ratings", c.RatingHandler.ListByBook)
	}

	// Rating a book requires a session
	authBooks := v1.Group("/books")
	authBooks.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		authBooks.PUT("/:id/rating", c.RatingHandler.Rate)
		authBooks.GET("/:id/rating/me", c.RatingHandler.GetMine)
	}
}

// ========================================
// TRANSACTION ROUTES
// ========================================
func setupTransactionRoutes(v1 *gin.RouterGroup, c *container.Container) {
	transactions := v1.Group("/transactions")
	transactions.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		transactions.POST("", c.TransactionHandler.CreateRequest)
		transactions.GET("/me", c.TransactionHandler.ListMyTransactions)
		transactions.GET("/:id", c.TransactionHandler.GetTransaction)
		transactions.PATCH("/:id/cancel", c.TransactionHandler.Cancel)
		transactions.PATCH("/:id/return", c.TransactionHandler.Return)
	}
}

// ========================================
// WISHLIST ROUTES
// ========================================
func setupWishlistRoutes(v1 *gin.RouterGroup, c *container.Container) {
	wishlist := v1.Group("/wishlist")
	wishlist.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		wishlist.GET("", c.WishlistHandler.ListMine)
		wishlist.GET("/:bookId", c.WishlistHandler.Has)
		wishlist.POST("/:bookId", c.WishlistHandler.Add)
		wishlist.DELETE("/:bookId", c.WishlistHandler.Remove)
	}
}

// ========================================
// PROFESSOR ROUTES
// ========================================
func setupProfessorRoutes(v1 *gin.RouterGroup, c *container.Container) {
	professors := v1.Group("/professors")
	professors.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		professors.GET("", c.ProfessorHandler.ListProfessors)
		professors.GET("/:id", c.ProfessorHandler.GetProfessor)
		professors.GET("/:id/appointments", c.ProfessorHandler.GetAppointments)
	}
}

// ========================================
// ADMIN ROUTES
// ========================================
func setupAdminRoutes(v1 *gin.RouterGroup, c *container.Container) {
	admin := v1.Group("/admin")
	admin.Use(middleware.AuthMiddleware(c.JWTManager), middleware.AdminMiddleware())
	{
		admin.GET("/members", c.MemberHandler.ListMembers)

		admin.POST("/books", c.BookHandler.CreateBook)
		admin.PUT("/books/:id", c.BookHandler.UpdateBook)
		admin.DELETE("/books/:id", c.BookHandler.DeleteBook)
		admin.POST("/books/:id/cover", c.BookHandler.UploadCover)

		admin.GET("/transactions", c.TransactionHandler.ListTransactions)
		admin.GET("/transactions/due-today", c.TransactionHandler.ListDueToday)
		admin.PATCH("/transactions/:id/approve", c.TransactionHandler.Approve)
		admin.PATCH("/transactions/:id/reject", c.TransactionHandler.Reject)

		admin.POST("/professors", c.ProfessorHandler.CreateProfessor)
		admin.PUT("/professors/:id", c.ProfessorHandler.UpdateProfessor)
		admin.DELETE("/professors/:id", c.ProfessorHandler.DeleteProfessor)
	}
}

// ========================================
// HEALTH CHECK HANDLER
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
			"services":  gin.H{},
		}

		// Check database
		dbStatus := "ok"
		if appCtx.DB == nil || appCtx.DB.Pool == nil {
			dbStatus = "disconnected"
			health["status"] = "degraded"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.DB.HealthCheck(ctx); err != nil {
				dbStatus = fmt.Sprintf("error: %v", err)
				health["status"] = "degraded"
			}
		}

		// Check redis
		redisStatus := "ok"
		if appCtx.Cache == nil {
			redisStatus = "disconnected"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.Cache.Ping(ctx); err != nil {
				redisStatus = fmt.Sprintf("error: %v", err)
			}
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
		}

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, health)
	}
}
