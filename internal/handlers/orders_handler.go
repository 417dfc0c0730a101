package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/go-sales-orders/internal/apperr"
	"github.com/imrishuroy/go-sales-orders/internal/orders"
	"github.com/imrishuroy/go-sales-orders/internal/validation"
)

func (h *api) listOrders(c *gin.Context) {
	p, ok := h.listParams(c)
	if !ok {
		return
	}
	page, err := h.Orders.List(c.Request.Context(), p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *api) listCustomerOrders(c *gin.Context) {
	customerID, ok := pathInt(c, "customerId")
	if !ok {
		return
	}
	p, ok := h.listParams(c)
	if !ok {
		return
	}
	page, err := h.Orders.ListByCustomer(c.Request.Context(), customerID, p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// listOrdersByStatus is listOrders with the status taken from the path.
func (h *api) listOrdersByStatus(c *gin.Context) {
	status := c.Param("status")
	if !orders.ValidStatus(status) {
		validation.WriteError(c, apperr.NewValidationError("status",
			fmt.Sprintf("must be one of [%s]", strings.Join(orders.Statuses, " "))))
		return
	}
	p, ok := h.listParams(c)
	if !ok {
		return
	}
	p.Status = status
	page, err := h.Orders.List(c.Request.Context(), p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *api) getOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	o, err := h.Orders.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *api) createOrder(c *gin.Context) {
	// Bind + validate request
	var req validation.CreateOrderRequest
	if err := validation.BindAndValidate(c, &req, h.v); err != nil {
		// BindAndValidate already wrote a 400
		return
	}

	o, err := h.Orders.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("Location", fmt.Sprintf("/api/orders/%d", o.ID))
	c.JSON(http.StatusCreated, o)
}

func (h *api) updateOrderStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req validation.UpdateStatusRequest
	if err := validation.BindAndValidate(c, &req, h.v); err != nil {
		return
	}
	if _, err := h.Orders.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
