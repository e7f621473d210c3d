package errors

import (
	"errors"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Postgres error classes we care about
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
)

// ErrorInfo is a parsed error: a stable code plus a safe message
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError maps database and driver errors to user-facing codes.
// Sensitive internals stay out of the message; the context string
// (e.g. "delete product") picks the most specific wording.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: "An internal error occurred"}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{Code: ResourceNotFound, Message: notFoundMessage(context)}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pgUniqueViolation:
			return parseUniqueViolation(pqErr.Constraint, pqErr.Detail)
		case pgForeignKeyViolation:
			return parseForeignKeyViolation(pqErr.Constraint, pqErr.Message, context)
		case pgNotNullViolation:
			return ErrorInfo{Code: ValidationRequired, Message: "A required field is missing"}
		case pgCheckViolation:
			return ErrorInfo{Code: ValidationInvalidRange, Message: "A field value is out of range"}
		}
	}

	// Drivers that do not surface *pq.Error (e.g. SQLite in tests)
	errLower := strings.ToLower(err.Error())
	if strings.Contains(errLower, "duplicate key") || strings.Contains(errLower, "unique constraint") {
		return parseUniqueViolation(errLower, errLower)
	}
	if strings.Contains(errLower, "foreign key constraint") {
		return parseForeignKeyViolation(errLower, errLower, context)
	}

	if strings.Contains(errLower, "connection refused") ||
		strings.Contains(errLower, "no such host") ||
		strings.Contains(errLower, "timeout") {
		return ErrorInfo{
			Code:    InternalDatabaseError,
			Message: "A backing service is unavailable. Please try again later",
		}
	}

	return ErrorInfo{Code: InternalServerError, Message: defaultMessage(context)}
}

// IsUniqueViolation reports whether err is a unique-index conflict,
// regardless of driver (pq in production, SQLite in tests)
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgUniqueViolation
	}

	errLower := strings.ToLower(err.Error())
	return strings.Contains(errLower, "duplicate key") || strings.Contains(errLower, "unique constraint")
}

func parseUniqueViolation(constraint, detail string) ErrorInfo {
	c := strings.ToLower(constraint + " " + detail)

	if strings.Contains(c, "email") {
		return ErrorInfo{Code: AuthEmailAlreadyExists, Message: "This email is already registered"}
	}
	if strings.Contains(c, "tags") || strings.Contains(c, "label") {
		return ErrorInfo{Code: TagLabelExists, Message: "A tag with this label already exists"}
	}
	if strings.Contains(c, "cart_items") {
		return ErrorInfo{Code: ResourceConflict, Message: "This product is already in the cart"}
	}
	if strings.Contains(c, "tagged_items") {
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "This item is already tagged"}
	}
	return ErrorInfo{Code: ResourceAlreadyExists, Message: "This record already exists"}
}

func parseForeignKeyViolation(constraint, message, context string) ErrorInfo {
	c := strings.ToLower(constraint + " " + message)

	if strings.Contains(c, "still referenced") || strings.Contains(c, "is still referenced by") {
		if strings.Contains(context, "product") {
			return ErrorInfo{Code: ProductReferenced, Message: "Product is referenced by existing orders and cannot be deleted"}
		}
		if strings.Contains(context, "collection") {
			return ErrorInfo{Code: CollectionNotEmpty, Message: "Collection still contains products and cannot be deleted"}
		}
		return ErrorInfo{Code: ResourceInUse, Message: "Other records reference this one, so it cannot be deleted"}
	}

	if strings.Contains(c, "product_id") {
		return ErrorInfo{Code: ProductNotFound, Message: "Referenced product does not exist"}
	}
	if strings.Contains(c, "collection_id") {
		return ErrorInfo{Code: CollectionNotFound, Message: "Referenced collection does not exist"}
	}
	if strings.Contains(c, "customer_id") {
		return ErrorInfo{Code: ResourceNotFound, Message: "Referenced customer does not exist"}
	}
	return ErrorInfo{Code: ResourceNotFound, Message: "A referenced record does not exist"}
}

func notFoundMessage(context string) string {
	c := strings.ToLower(context)

	switch {
	case strings.Contains(c, "product"):
		return "Product not found"
	case strings.Contains(c, "collection"):
		return "Collection not found"
	case strings.Contains(c, "cart"):
		return "Cart not found"
	case strings.Contains(c, "order"):
		return "Order not found"
	case strings.Contains(c, "review"):
		return "Review not found"
	case strings.Contains(c, "tag"):
		return "Tag not found"
	case strings.Contains(c, "customer"), strings.Contains(c, "user"):
		return "Customer not found"
	}
	return "Requested record not found"
}

func defaultMessage(context string) string {
	c := strings.ToLower(context)

	switch {
	case strings.Contains(c, "create"):
		return "Failed to create the record. Please try again later"
	case strings.Contains(c, "update"):
		return "Failed to update the record. Please try again later"
	case strings.Contains(c, "delete"):
		return "Failed to delete the record. Please try again later"
	}
	return "An internal error occurred. Please try again later"
}

// ParseAndRespond parses an error and writes the response in one call
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	info := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   info.Code,
		Message: info.Message,
	})
}
