package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/go-sales-orders/internal/accounts"
	"github.com/imrishuroy/go-sales-orders/internal/validation"
)

func (h *api) currentUser(c *gin.Context) {
	c.JSON(http.StatusOK, h.Accounts.CurrentUser(c.Request.Context()))
}

func (h *api) getProfile(c *gin.Context) {
	p, err := h.Accounts.Profile(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *api) updateProfile(c *gin.Context) {
	var req validation.ProfileRequest
	if err := validation.BindAndValidate(c, &req, h.v); err != nil {
		return
	}
	p, err := h.Accounts.UpdateProfile(c.Request.Context(), accounts.Profile{
		Username: req.Username,
		Email:    req.Email,
		Bio:      req.Bio,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *api) getCompany(c *gin.Context) {
	co, err := h.Accounts.Company(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, co)
}

func (h *api) updateCompany(c *gin.Context) {
	var req validation.CompanyRequest
	if err := validation.BindAndValidate(c, &req, h.v); err != nil {
		return
	}
	co, err := h.Accounts.UpdateCompany(c.Request.Context(), accounts.Company{
		Name:    req.Name,
		Website: req.Website,
		Address: req.Address,
		TaxID:   req.TaxID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, co)
}
