package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *api) listProducts(c *gin.Context) {
	p, ok := h.listParams(c)
	if !ok {
		return
	}
	page, err := h.Products.List(c.Request.Context(), p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *api) getProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	p, err := h.Products.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *api) productCategories(c *gin.Context) {
	cats, err := h.Products.Categories(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cats)
}
