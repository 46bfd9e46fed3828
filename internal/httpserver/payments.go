package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	paymentsvc "grocery-backend/internal/service/payment"
)

type createPaymentRequest struct {
	Provider string `json:"provider" binding:"required"`
}

func createPaymentHandler(payments PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, ok := pathID(c, "orderID")
		if !ok {
			return
		}
		var req createPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		payment, err := payments.CreateAttempt(c.Request.Context(), currentUser(c), orderID, req.Provider)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, payment)
	}
}

func listPaymentsHandler(payments PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := payments.List(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"payments": out})
	}
}

func getPaymentHandler(payments PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "paymentID")
		if !ok {
			return
		}
		payment, err := payments.Get(c.Request.Context(), currentUser(c), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, payment)
	}
}

func updatePaymentHandler(payments PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "paymentID")
		if !ok {
			return
		}
		var req paymentsvc.UpdateInput
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		payment, err := payments.Update(c.Request.Context(), id, req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, payment)
	}
}

func refundPaymentHandler(payments PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "paymentID")
		if !ok {
			return
		}
		payment, err := payments.Refund(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, payment)
	}
}
