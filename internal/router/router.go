package router

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"coffee-order/internal/handlers"
	"coffee-order/internal/middleware"
	"coffee-order/internal/models"
	"coffee-order/internal/order"
	"coffee-order/internal/session"
	"coffee-order/web"
)

type Deps struct {
	Catalog       *models.Catalog
	Registry      *session.Registry
	Sender        order.Sender
	SessionSecret string
	SessionTTL    time.Duration
	CORSOrigins   []string
}

func NewRouter(d Deps) (*gin.Engine, error) {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := v.RegisterValidation("orderaction", handlers.ValidateOrderAction); err != nil {
			return nil, fmt.Errorf("register orderaction validator: %w", err)
		}
	}

	tmpl, err := web.Templates(handlers.TemplateFuncs())
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	r := gin.Default()
	// global so preflight requests reach it before routing
	r.Use(corsMiddleware(d.CORSOrigins))
	r.SetHTMLTemplate(tmpl)
	r.StaticFS("/public", http.FS(web.Static()))

	r.GET("/health", handlers.Health())

	withSession := middleware.Session(d.SessionSecret, d.SessionTTL)

	page := r.Group("/", withSession)
	{
		page.GET("/", handlers.OrderPage(d.Registry))
		page.POST("/order", handlers.SubmitOrderForm(d.Registry, d.Catalog, d.Sender))
	}

	api := r.Group("/api", withSession)
	{
		api.GET("/menu", handlers.GetMenu(d.Catalog))
		api.GET("/order", handlers.GetOrder(d.Registry))
		api.POST("/order/items/:id/increase", handlers.IncreaseItem(d.Registry, d.Catalog))
		api.POST("/order/items/:id/decrease", handlers.DecreaseItem(d.Registry, d.Catalog))
		api.PATCH("/order/customer", handlers.UpdateCustomer(d.Registry))
		api.POST("/order/submit", handlers.SubmitOrder(d.Registry, d.Sender))
	}

	return r, nil
}

// corsMiddleware allows credentialed requests only from listed origins;
// a wildcard disables cookies for cross-origin callers.
func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}
