package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/go-sales-orders/internal/customers"
	"github.com/imrishuroy/go-sales-orders/internal/validation"
)

func (h *api) listCustomers(c *gin.Context) {
	p, ok := h.listParams(c)
	if !ok {
		return
	}
	page, err := h.Customers.List(c.Request.Context(), p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *api) getCustomer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	cust, err := h.Customers.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cust)
}

func (h *api) createCustomer(c *gin.Context) {
	var req validation.CreateCustomerRequest
	if err := validation.BindAndValidate(c, &req, h.v); err != nil {
		return
	}

	cust, err := h.Customers.Create(c.Request.Context(), customers.NewCustomer{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Company: req.Company,
		Address: customers.Address(req.Address),
		Notes:   req.Notes,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("Location", fmt.Sprintf("/api/customers/%d", cust.ID))
	c.JSON(http.StatusCreated, cust)
}
