package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	apperrors "github.com/spec-kit/hr-service/pkg/util"
)

const dateLayout = "2006-01-02"

// pathID validates the :id path segment as a UUID before it reaches a query.
func pathID(c *fiber.Ctx, field string) (string, error) {
	raw := c.Params("id")
	if _, err := uuid.Parse(raw); err != nil {
		return "", apperrors.NewValidationError("invalid identifier", map[string]any{
			field: "must be a valid UUID",
		})
	}
	return raw, nil
}

// queryID reads an optional UUID query parameter.
func queryID(c *fiber.Ctx, name string) (*string, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	if _, err := uuid.Parse(raw); err != nil {
		return nil, apperrors.NewValidationError("invalid filter", map[string]any{
			name: "must be a valid UUID",
		})
	}
	return &raw, nil
}

// parseDate parses an optional YYYY-MM-DD value.
func parseDate(field string, val *string) (*time.Time, error) {
	if val == nil || *val == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *val)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid date", map[string]any{
			field: "must be formatted YYYY-MM-DD",
		})
	}
	return &t, nil
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}
