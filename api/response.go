package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// envelope wraps every answer of the API.
type envelope struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Data    any            `json:"data,omitempty"`
	Meta    map[string]any `json:"meta,omitempty"`
}

func ok(c *gin.Context, status int, data any) {
	c.JSON(status, envelope{Code: 0, Message: "ok", Data: data})
}

func fail(c *gin.Context, status int, message string, meta map[string]any) {
	c.JSON(status, envelope{Code: status, Message: message, Meta: meta})
}

func badRequest(c *gin.Context, message string) { fail(c, http.StatusBadRequest, message, nil) }
