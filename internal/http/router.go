package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/peakcomfort/backend/internal/config"
	"github.com/peakcomfort/backend/internal/db"
	"github.com/peakcomfort/backend/internal/http/handlers"
	"github.com/peakcomfort/backend/internal/http/middleware"
	"github.com/peakcomfort/backend/internal/service"

	_ "github.com/peakcomfort/backend/docs"
)

type Services struct {
	WorkOrders   *service.WorkOrderService
	Leads        *service.LeadService
	Calendar     *service.CalendarService
	Chat         *service.ChatService
	GeocodeBatch *service.GeocodeBatchService
}

func Router(cfg config.Config, store *db.Store, svc Services, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.CORSAllowed == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = []string{cfg.CORSAllowed}
	}
	r.Use(cors.New(corsCfg))

	h := &handlers.Handler{
		Store:        store,
		WorkOrders:   svc.WorkOrders,
		Leads:        svc.Leads,
		Calendar:     svc.Calendar,
		Chat:         svc.Chat,
		GeocodeBatch: svc.GeocodeBatch,
		Validator:    validator.New(),
		Logger:       logger,
		Config:       cfg,
	}

	r.GET("/healthz", h.Healthz)

	api := r.Group("/api")
	{
		api.POST("/auth/login", h.Login)
		api.POST("/estimates", h.EstimateSubmit)
		api.POST("/chat/message", h.ChatMessage)
		api.POST("/chat/work-order", h.ChatWorkOrder)
	}

	admin := api.Group("")
	admin.Use(middleware.AdminAuth(cfg.JWTSecret))
	{
		admin.GET("/dashboard", h.Dashboard)

		admin.GET("/customers", h.CustomersList)
		admin.POST("/customers", h.CustomerCreate)
		admin.GET("/customers/:id", h.CustomerDetails)
		admin.PUT("/customers/:id", h.CustomerUpdate)
		admin.DELETE("/customers/:id", h.CustomerDelete)
		admin.POST("/customers/geocode", h.CustomersGeocode)

		admin.GET("/technicians", h.TechniciansList)
		admin.POST("/technicians", h.TechnicianCreate)
		admin.PUT("/technicians/:id", h.TechnicianUpdate)
		admin.DELETE("/technicians/:id", h.TechnicianDeactivate)

		admin.GET("/work-orders", h.WorkOrdersList)
		admin.POST("/work-orders", h.WorkOrderCreate)
		admin.GET("/work-orders/:id", h.WorkOrderDetails)
		admin.PUT("/work-orders/:id", h.WorkOrderUpdate)
		admin.DELETE("/work-orders/:id", h.WorkOrderDelete)
		admin.PATCH("/work-orders/:id/status", h.WorkOrderStatus)
		admin.PATCH("/work-orders/:id/assign", h.WorkOrderAssign)
		admin.PATCH("/work-orders/:id/schedule", h.WorkOrderReschedule)

		admin.GET("/estimates", h.LeadsList)
		admin.GET("/estimates/:id", h.LeadDetails)
		admin.PATCH("/estimates/:id/status", h.LeadStatus)
		admin.POST("/estimates/:id/promote", h.LeadPromote)

		admin.GET("/ai-leads", h.AILeadsList)

		admin.GET("/calendar", h.CalendarEvents)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
