// Package response provides the uniform HTTP response envelope.
// Every API endpoint answers with the same {code, message, data} shape.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the envelope sent for every request.
type Response struct {
	Code    int         `json:"code"`           // business status code, 0 on success
	Message string      `json:"message"`        // human-readable summary
	Data    interface{} `json:"data,omitempty"` // payload, optional
}

// Business status codes.
const (
	CodeSuccess              = 0
	CodeBadRequest           = 1000
	CodeUnauthorized         = 1001
	CodeForbidden            = 1002
	CodeNotFound             = 1003
	CodeInternalError        = 1004
	CodeValidationFailed     = 1005
	CodeTooManyRequests      = 1006
	CodeUserExists           = 1101
	CodeUserNotFound         = 1102
	CodePasswordWrong        = 1103
	CodeConversationNotFound = 1201
	CodeEntryNotFound        = 1301
	CodeRoutineNotFound      = 1401
	CodeAlreadyCompleted     = 1402
)

// Success returns a 200 response with data.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data:    data,
	})
}

// SuccessWithMessage returns a 200 response with a custom message.
func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: message,
		Data:    data,
	})
}

// Created returns a 201 response for newly created resources.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    CodeSuccess,
		Message: "created",
		Data:    data,
	})
}

// CreatedWithMessage returns a 201 response with a custom message.
func CreatedWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    CodeSuccess,
		Message: message,
		Data:    data,
	})
}

// NoContent returns an empty 204 response, used for deletions.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest returns a 400 response.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Response{
		Code:    CodeBadRequest,
		Message: message,
	})
}

// ValidationError returns a 422 response for input that parsed but failed
// validation rules.
func ValidationError(c *gin.Context, message string) {
	c.JSON(http.StatusUnprocessableEntity, Response{
		Code:    CodeValidationFailed,
		Message: message,
	})
}

// Unauthorized returns a 401 response.
func Unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, Response{
		Code:    CodeUnauthorized,
		Message: message,
	})
}

// Forbidden returns a 403 response.
func Forbidden(c *gin.Context, message string) {
	c.JSON(http.StatusForbidden, Response{
		Code:    CodeForbidden,
		Message: message,
	})
}

// NotFound returns a 404 response.
func NotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, Response{
		Code:    CodeNotFound,
		Message: message,
	})
}

// TooManyRequests returns a 429 response, used by the login limiter.
func TooManyRequests(c *gin.Context, message string) {
	c.JSON(http.StatusTooManyRequests, Response{
		Code:    CodeTooManyRequests,
		Message: message,
	})
}

// InternalError returns a 500 response.
func InternalError(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, Response{
		Code:    CodeInternalError,
		Message: message,
	})
}

// ErrorWithCode returns an error response with an explicit business code.
func ErrorWithCode(c *gin.Context, httpCode, bizCode int, message string) {
	c.JSON(httpCode, Response{
		Code:    bizCode,
		Message: message,
	})
}

// UserExists returns the duplicate-registration error.
func UserExists(c *gin.Context) {
	c.JSON(http.StatusUnprocessableEntity, Response{
		Code:    CodeUserExists,
		Message: "el correo ya está registrado",
	})
}

// UserNotFound returns the missing-user error.
func UserNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, Response{
		Code:    CodeUserNotFound,
		Message: "usuario no encontrado",
	})
}

// PasswordWrong returns the bad-credentials error.
func PasswordWrong(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, Response{
		Code:    CodePasswordWrong,
		Message: "credenciales incorrectas",
	})
}

// ConversationNotFound returns the missing-conversation error.
func ConversationNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, Response{
		Code:    CodeConversationNotFound,
		Message: "conversación no encontrada",
	})
}
