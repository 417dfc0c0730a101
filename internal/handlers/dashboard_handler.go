package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/go-sales-orders/internal/validation"
)

func (h *api) dashboardStats(c *gin.Context) {
	stats, err := h.Dashboard.Stats(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *api) recentOrders(c *gin.Context) {
	list, err := h.Dashboard.RecentOrders(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *api) analytics(c *gin.Context) {
	var q validation.AnalyticsQuery
	if err := validation.BindQueryAndValidate(c, &q, h.v); err != nil {
		return
	}
	// both parse: the struct validation above already rejected bad dates
	start, _ := validation.ParseDate(q.Start)
	end, _ := validation.ParseWindowEnd(q.End)

	out, err := h.Dashboard.Analytics(c.Request.Context(), start, end)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *api) salesMetrics(c *gin.Context) {
	m, err := h.Dashboard.SalesMetrics(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}
