package httpserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"grocery-backend/internal/domain"
	productrepo "grocery-backend/internal/repository/product"
	productsvc "grocery-backend/internal/service/product"
)

func listProductsHandler(products ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := productrepo.ListFilter{Search: c.Query("search")}
		if v := c.Query("category_id"); v != "" {
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category_id"})
				return
			}
			filter.CategoryID = &id
		}
		// Inactive products are an admin-only view.
		user := currentUser(c)
		if !user.IsAdmin() || c.Query("include_inactive") != "true" {
			filter.ActiveOnly = true
		}

		out, err := products.List(c.Request.Context(), filter)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"products": out})
	}
}

func getProductHandler(products ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "productID")
		if !ok {
			return
		}
		product, err := products.Get(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		if !product.IsActive && !currentUser(c).IsAdmin() {
			respondError(c, domain.ErrNotFound)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func createProductHandler(products ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req productsvc.SaveInput
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		product, err := products.Create(c.Request.Context(), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}

func updateProductHandler(products ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "productID")
		if !ok {
			return
		}
		var req productsvc.SaveInput
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		product, err := products.Update(c.Request.Context(), id, req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func deleteProductHandler(products ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "productID")
		if !ok {
			return
		}
		if err := products.Delete(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
