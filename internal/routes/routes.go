package routes

import (
	"github.com/zhenglaizhang/batter-store-api/internal/handlers"
	"github.com/zhenglaizhang/batter-store-api/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires all HTTP routes. uploadsPath is the local
// fallback root served under /uploads.
func RegisterRoutes(r *gin.Engine, h *handlers.AppHandlers, jwtSecret, uploadsPath string) {
	// Local fallback files are public by path.
	r.Static("/uploads", uploadsPath)

	api := r.Group("/api")

	authMW := middleware.AuthMiddleware(jwtSecret)
	adminMW := middleware.AdminMiddleware()

	auth := api.Group("/auth")
	{
		auth.POST("/sms/send", h.AuthHandler.SendSmsCode)
		auth.POST("/sms/verify", h.AuthHandler.VerifySmsCode)
		auth.POST("/login", h.AuthHandler.Login)
	}

	api.POST("/admin/login", h.AuthHandler.AdminLogin)

	user := api.Group("/user")
	{
		user.POST("/register", h.RegistrationHandler.Register)
		user.GET("/business-types", h.RegistrationHandler.ListBusinessTypes)
		user.GET("/roles", h.RegistrationHandler.ListRoles)

		user.GET("/profile", authMW, h.RegistrationHandler.GetProfile)

		admin := user.Group("/registrations", authMW, adminMW)
		{
			admin.GET("", h.RegistrationHandler.ListRegistrations)
			admin.PUT("/:registrationId/status", h.RegistrationHandler.ReviewRegistration)
		}
	}

	upload := api.Group("/upload", authMW)
	{
		upload.POST("/photos", h.UploadHandler.UploadPhotos)
		upload.GET("/photos", h.UploadHandler.ListLocalPhotos)
		upload.POST("/business-license", h.UploadHandler.UploadBusinessLicense)
	}

	orders := api.Group("/battery/orders", authMW)
	{
		orders.POST("", h.OrderHandler.CreateWeightOrder)
		orders.GET("", h.OrderHandler.ListOrders)
		orders.GET("/:orderId", h.OrderHandler.GetOrder)
		orders.PUT("/:orderId", h.OrderHandler.UpdateOrder)
		orders.DELETE("/:orderId", adminMW, h.OrderHandler.DeleteOrder)
	}
}
