package apperrors

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// NotFoundError covers absent users, carts, cart items, products, categories
// and addresses. Maps to 404.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

func NotFound(resource string) error {
	return &NotFoundError{Resource: resource}
}

// ValidationError is malformed input that survived binding. Maps to 400.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func Validation(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// BusinessRuleError is a well-formed request the domain rejects, e.g. a
// duplicate account or an empty cart at checkout. Maps to 400.
type BusinessRuleError struct {
	Msg string
}

func (e *BusinessRuleError) Error() string {
	return e.Msg
}

func BusinessRule(format string, args ...interface{}) error {
	return &BusinessRuleError{Msg: fmt.Sprintf(format, args...)}
}

// InsufficientStockError reports the first cart line whose quantity exceeds
// the current stock. Maps to 400.
type InsufficientStockError struct {
	ProductID uint
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d", e.ProductID)
}

// Respond writes err as a JSON response using the taxonomy above. Anything
// unclassified is a store/internal failure: logged, returned as a generic 500.
func Respond(c *gin.Context, err error) {
	var (
		nf  *NotFoundError
		ve  *ValidationError
		bre *BusinessRuleError
		ise *InsufficientStockError
	)
	switch {
	case errors.As(err, &nf):
		c.JSON(http.StatusNotFound, gin.H{"error": nf.Error()})
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error()})
	case errors.As(err, &ise):
		c.JSON(http.StatusBadRequest, gin.H{"error": ise.Error()})
	case errors.As(err, &bre):
		c.JSON(http.StatusBadRequest, gin.H{"error": bre.Error()})
	default:
		slog.Error("internal error", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An unexpected error occurred"})
	}
}
