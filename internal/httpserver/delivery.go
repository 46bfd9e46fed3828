package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type deliveryStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func listDeliveryOrdersHandler(delivery DeliveryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := delivery.ListOpen(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders})
	}
}

func updateDeliveryStatusHandler(delivery DeliveryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, ok := pathID(c, "orderID")
		if !ok {
			return
		}
		var req deliveryStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		order, err := delivery.UpdateStatus(c.Request.Context(), orderID, req.Status)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}
