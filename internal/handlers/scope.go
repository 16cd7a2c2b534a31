package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ahmadrf/ticketeer/internal/service"
)

// scopeFromContext assembles the caller's scope from JWT claims and optional
// query filters. Non-administrators are scoped to their own organization by
// the service layer regardless of what the query asks for.
func scopeFromContext(c *gin.Context) (service.Scope, error) {
	scope := service.Scope{}

	if role, ok := c.Get("role"); ok {
		scope.CallerRole, _ = role.(string)
	}
	if orgID, ok := c.Get("organization_id"); ok {
		if id, ok := orgID.(uuid.UUID); ok {
			scope.CallerOrgID = &id
		}
	}

	if raw := c.Query("organization_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return service.Scope{}, err
		}
		scope.OrgID = &id
	}
	if raw := c.Query("event_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return service.Scope{}, err
		}
		scope.EventID = &id
	}

	return scope, nil
}
