package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSON writes payload with the given status.
func JSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

// OK writes a 200 response.
func OK(c *gin.Context, payload any) { JSON(c, http.StatusOK, payload) }

// Created writes a 201 response for a newly stored project, report,
// configuration, analysis or spreadsheet.
func Created(c *gin.Context, payload any) { JSON(c, http.StatusCreated, payload) }

// Accepted writes a 202 response for work handed to the queue.
func Accepted(c *gin.Context, payload any) { JSON(c, http.StatusAccepted, payload) }
