// Package response renders the JSON bodies shared by handlers and
// middleware.
package response

import (
	"net/http"

	"github.com/vanotis720/SampleTaskAPI/internal/translator"
	"github.com/vanotis720/SampleTaskAPI/internal/validation"

	"github.com/gin-gonic/gin"
)

const (
	StatusSuccess = "Success"
	StatusError   = "Error"
)

// Envelope wraps every category and task response.
type Envelope struct {
	Status  string              `json:"status"`
	Message *string             `json:"message"`
	Data    interface{}         `json:"data"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

func Success(c *gin.Context, code int, message *string, data interface{}) {
	c.JSON(code, Envelope{Status: StatusSuccess, Message: message, Data: data})
}

// Error aborts the request with an error envelope.
func Error(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, Envelope{Status: StatusError, Message: &message})
}

func ValidationError(c *gin.Context, lang string, errs *validation.Errors) {
	message := errs.Summary(lang)
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, Envelope{
		Status:  StatusError,
		Message: &message,
		Errors:  errs.Messages(lang),
	})
}

// Message is a bare {"message": ...} body, used by the auth endpoints.
type Message struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

func PlainError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, Message{Message: message})
}

func PlainValidationError(c *gin.Context, lang string, errs *validation.Errors) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, Message{
		Message: errs.Summary(lang),
		Errors:  errs.Messages(lang),
	})
}

// T translates a message id for the envelope message field.
func T(lang, messageID string) *string {
	message := translator.T(lang, messageID)
	return &message
}
