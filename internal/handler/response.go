// Package handler holds the response envelope shared by all HTTP handlers.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medicore/clinic-api/internal/model"
)

// ListResponse wraps paginated collections.
type ListResponse struct {
	Data       interface{}      `json:"data"`
	Pagination model.Pagination `json:"pagination"`
}

func OK(c *gin.Context, v interface{}) {
	c.JSON(http.StatusOK, v)
}

func Created(c *gin.Context, v interface{}) {
	c.JSON(http.StatusCreated, v)
}

func List(c *gin.Context, items interface{}, pagination model.Pagination) {
	c.JSON(http.StatusOK, ListResponse{Data: items, Pagination: pagination})
}

// Message is the envelope for operations with no record to echo.
type Message struct {
	Message string `json:"message"`
}

func Deleted(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Message{Message: message})
}
