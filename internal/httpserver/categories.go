package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type categoryRequest struct {
	Name string `json:"name" binding:"required"`
}

func listCategoriesHandler(categories CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := categories.List(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"categories": out})
	}
}

func getCategoryHandler(categories CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "categoryID")
		if !ok {
			return
		}
		category, err := categories.Get(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, category)
	}
}

func createCategoryHandler(categories CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req categoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		category, err := categories.Create(c.Request.Context(), req.Name)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, category)
	}
}

func renameCategoryHandler(categories CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "categoryID")
		if !ok {
			return
		}
		var req categoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		category, err := categories.Rename(c.Request.Context(), id, req.Name)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, category)
	}
}

func deleteCategoryHandler(categories CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "categoryID")
		if !ok {
			return
		}
		if err := categories.Delete(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
