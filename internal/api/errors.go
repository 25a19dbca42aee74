package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/toriigate/torii-api/internal/service/auth"
	"github.com/toriigate/torii-api/internal/service/burn"
	"github.com/toriigate/torii-api/internal/service/lesson"
	"github.com/toriigate/torii-api/internal/service/review"
	"github.com/toriigate/torii-api/internal/service/xp"
	"github.com/toriigate/torii-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, lesson.ErrLevelLocked),
		errors.Is(err, lesson.ErrAccessDenied),
		errors.Is(err, burn.ErrAccessDenied):
		return http.StatusForbidden

	// Not found errors. Ownership mismatches land here too so progress
	// IDs of other users stay unguessable.
	case errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrItemNotFound),
		errors.Is(err, store.ErrLessonNotFound),
		errors.Is(err, store.ErrProgressNotFound),
		errors.Is(err, review.ErrReviewNotFound),
		errors.Is(err, review.ErrItemNotFound),
		errors.Is(err, lesson.ErrItemNotFound),
		errors.Is(err, burn.ErrItemNotFound),
		errors.Is(err, burn.ErrLessonNotFound),
		errors.Is(err, xp.ErrUserNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, review.ErrAlreadyBurned),
		errors.Is(err, burn.ErrNotBurned),
		errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, review.ErrInvalidQuestionType),
		errors.Is(err, lesson.ErrNoItems),
		errors.Is(err, lesson.ErrInvalidItemKind),
		errors.Is(err, burn.ErrLessonNotSkippable):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	case errors.Is(err, lesson.ErrLevelLocked):
		return "Level is locked"

	case errors.Is(err, lesson.ErrAccessDenied),
		errors.Is(err, burn.ErrAccessDenied):
		return "Access to this level is not included in your plan"

	case errors.Is(err, review.ErrReviewNotFound),
		errors.Is(err, store.ErrProgressNotFound):
		return "Review not found"

	case errors.Is(err, review.ErrItemNotFound),
		errors.Is(err, lesson.ErrItemNotFound),
		errors.Is(err, burn.ErrItemNotFound),
		errors.Is(err, store.ErrItemNotFound):
		return "Item not found"

	case errors.Is(err, store.ErrLessonNotFound),
		errors.Is(err, burn.ErrLessonNotFound):
		return "Lesson not found"

	case errors.Is(err, burn.ErrLessonNotSkippable):
		return "Only the Hiragana & Katakana lesson can be skipped"

	case errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, xp.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, review.ErrAlreadyBurned):
		return "Item is already burned"

	case errors.Is(err, burn.ErrNotBurned):
		return "Item is not burned"

	case errors.Is(err, review.ErrInvalidQuestionType):
		return "Invalid question type"

	case errors.Is(err, lesson.ErrNoItems):
		return "No items to learn"

	case errors.Is(err, lesson.ErrInvalidItemKind):
		return "Invalid item kind"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	if strings.Contains(errMsg, "Field validation") {
		// Example format:
		// "Key: 'LearnRequest.Items' Error:Field validation for 'Items' failed on the 'required' tag"
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}
				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	case "uuid":
		return "invalid identifier"
	default:
		return "validation failed"
	}
}
