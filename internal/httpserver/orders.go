package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	checkoutsvc "grocery-backend/internal/service/checkout"
	ordersvc "grocery-backend/internal/service/order"
)

func checkoutHandler(checkout CheckoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req checkoutsvc.Input
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		order, err := checkout.Checkout(c.Request.Context(), currentUser(c), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, order)
	}
}

func listOrdersHandler(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := orders.List(c.Request.Context(), currentUser(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": out})
	}
}

func getOrderHandler(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "orderID")
		if !ok {
			return
		}
		order, err := orders.Get(c.Request.Context(), currentUser(c), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func cancelOrderHandler(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "orderID")
		if !ok {
			return
		}
		order, err := orders.Cancel(c.Request.Context(), currentUser(c), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func adminUpdateOrderHandler(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "orderID")
		if !ok {
			return
		}
		var req ordersvc.AdminUpdateInput
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		order, err := orders.AdminUpdate(c.Request.Context(), id, req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}
