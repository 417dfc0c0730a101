package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/imrishuroy/go-sales-orders/internal/accounts"
	"github.com/imrishuroy/go-sales-orders/internal/apperr"
	"github.com/imrishuroy/go-sales-orders/internal/customers"
	"github.com/imrishuroy/go-sales-orders/internal/dashboard"
	"github.com/imrishuroy/go-sales-orders/internal/idempotency"
	"github.com/imrishuroy/go-sales-orders/internal/orders"
	"github.com/imrishuroy/go-sales-orders/internal/products"
	"github.com/imrishuroy/go-sales-orders/internal/query"
	"github.com/imrishuroy/go-sales-orders/internal/validation"
)

// HandlerConfig groups dependencies for the API handlers.
type HandlerConfig struct {
	Orders      *orders.Service
	Customers   *customers.Service
	Products    *products.Service
	Dashboard   *dashboard.Service
	Accounts    *accounts.Service
	Idempotency idempotency.Store
}

type api struct {
	HandlerConfig
	v *validatorv10.Validate
}

// RegisterRoutes mounts every /api route on r. mw runs before each /api handler.
func RegisterRoutes(r *gin.Engine, cfg HandlerConfig, mw ...gin.HandlerFunc) {
	h := &api{HandlerConfig: cfg, v: validation.New()}

	g := r.Group("/api", mw...)

	g.GET("/dashboard/stats", h.dashboardStats)
	g.GET("/dashboard/recent-orders", h.recentOrders)
	g.GET("/analytics", h.analytics)
	g.GET("/analytics/metrics", h.salesMetrics)

	g.GET("/orders", h.listOrders)
	g.GET("/orders/:id", h.getOrder)
	g.GET("/orders/customer/:customerId", h.listCustomerOrders)
	g.GET("/orders/status/:status", h.listOrdersByStatus)
	g.POST("/orders", idempotency.Middleware(cfg.Idempotency, "orders"), h.createOrder)
	g.PATCH("/orders/:id/status", h.updateOrderStatus)

	g.GET("/customers", h.listCustomers)
	g.GET("/customers/:id", h.getCustomer)
	g.POST("/customers", idempotency.Middleware(cfg.Idempotency, "customers"), h.createCustomer)

	g.GET("/products", h.listProducts)
	g.GET("/products/categories", h.productCategories)
	g.GET("/products/:id", h.getProduct)

	g.GET("/users/me", h.currentUser)
	g.GET("/settings/profile", h.getProfile)
	g.PUT("/settings/profile", h.updateProfile)
	g.GET("/settings/company", h.getCompany)
	g.PUT("/settings/company", h.updateCompany)
}

// writeError maps domain errors onto HTTP responses.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		validation.WriteError(c, err)
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "msg": err.Error()})
	default:
		zap.L().Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
	}
}

// pathID parses the :id route parameter. On failure it writes a 400 and returns false.
func pathID(c *gin.Context) (int64, bool) {
	return pathInt(c, "id")
}

func pathInt(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		validation.WriteError(c, apperr.NewValidationError(name, "must be a positive integer"))
		return 0, false
	}
	return id, true
}

// listParams binds the shared paging query string.
func (h *api) listParams(c *gin.Context) (query.Params, bool) {
	var q validation.ListQuery
	if err := validation.BindQueryAndValidate(c, &q, h.v); err != nil {
		return query.Params{}, false
	}
	return query.Params{Page: q.Page, PageSize: q.Size, Search: q.Search, Status: q.Status}, true
}
