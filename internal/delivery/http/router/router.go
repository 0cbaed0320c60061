// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"bookbridge/internal/delivery/http/middleware"
	"bookbridge/internal/delivery/http/router/handler"
	"bookbridge/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// RouterParams holds every handler and middleware the router wires up.
type RouterParams struct {
	fx.In

	UserHandler     *handler.UserHandler
	DonationHandler *handler.DonationHandler
	AdminHandler    *handler.AdminHandler
	AuthMiddleware  *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	userHandler     *handler.UserHandler
	donationHandler *handler.DonationHandler
	adminHandler    *handler.AdminHandler
	authMiddleware  *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		userHandler:     params.UserHandler,
		donationHandler: params.DonationHandler,
		adminHandler:    params.AdminHandler,
		authMiddleware:  params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.userHandler.Register)
		authGroup.POST("/login", r.userHandler.Login)
		authGroup.POST("/refresh", r.userHandler.RefreshToken)
		authGroup.POST("/logout", r.userHandler.Logout)
		authGroup.POST("/logout-all", r.userHandler.LogoutAllDevices, r.authMiddleware.Authenticate)
		authGroup.POST("/password", r.userHandler.ChangePassword, r.authMiddleware.Authenticate)
	}

	// Public donation routes. The session is resolved when present so the
	// contact-visibility policy sees the caller's role, but nothing here
	// requires sign-in.
	donationGroup := e.Group("/donations")
	donationGroup.Use(r.authMiddleware.ResolveSession)
	{
		donationGroup.GET("", r.donationHandler.Browse)
		donationGroup.GET("/map", r.donationHandler.MapView)
		donationGroup.GET("/:id", r.donationHandler.Get)
	}

	// Donor routes: listing books requires a donor-capable account.
	donorGroup := e.Group("/donations")
	donorGroup.Use(r.authMiddleware.Authenticate)
	donorGroup.Use(r.authMiddleware.RequireRoles(entity.RoleDonor, entity.RoleBoth, entity.RoleAdmin))
	{
		donorGroup.POST("", r.donationHandler.Submit)
		donorGroup.GET("/mine", r.donationHandler.Mine)
	}

	// Profile routes for any signed-in account.
	userGroup := e.Group("/user")
	userGroup.Use(r.authMiddleware.Authenticate)
	{
		userGroup.GET("/profile", r.userHandler.GetProfile)
		userGroup.PUT("/profile", r.userHandler.UpdateProfile)
	}

	// Admin routes: authentication plus the admin role.
	adminGroup := e.Group("/admin")
	adminGroup.Use(r.authMiddleware.Authenticate)
	adminGroup.Use(r.authMiddleware.RequireRoles(entity.RoleAdmin))
	{
		adminGroup.GET("/donations", r.adminHandler.ReviewQueue)
		adminGroup.POST("/donations/:id/review", r.adminHandler.Review)
		adminGroup.GET("/users", r.adminHandler.ListUsers)
		adminGroup.PATCH("/users/:id/status", r.adminHandler.SetUserStatus)
		adminGroup.PATCH("/users/:id/role", r.adminHandler.SetUserRole)
		adminGroup.DELETE("/users/:id", r.adminHandler.DeleteUser)
		adminGroup.GET("/report", r.adminHandler.Report)
	}
}
