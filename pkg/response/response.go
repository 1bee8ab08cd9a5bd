package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the body of every API response.
type Envelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

const CodeOK = "OK"

func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Envelope{Code: CodeOK, Message: "success", Data: data})
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Envelope{Code: CodeOK, Message: "created", Data: data})
}

func Error(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, Envelope{Code: code, Message: msg})
}

// ErrorWithData is used when a failure still carries a payload the client
// needs, e.g. the classified order error.
func ErrorWithData(c *gin.Context, status int, code, msg string, data any) {
	c.AbortWithStatusJSON(status, Envelope{Code: code, Message: msg, Data: data})
}
