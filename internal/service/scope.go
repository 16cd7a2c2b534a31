package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ahmadrf/ticketeer/internal/models"
	"github.com/ahmadrf/ticketeer/internal/service/ports"
)

// Scope is the caller-derived filter context for aggregation reads.
// Administrators may filter by any organization or none; every other role is
// forced onto its own organization regardless of the requested filter.
type Scope struct {
	CallerRole  string
	CallerOrgID *uuid.UUID
	OrgID       *uuid.UUID
	EventID     *uuid.UUID
}

// DateRange bounds Order.CreatedAt, inclusive on both ends. Nil leaves a
// side open.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

func (r DateRange) Validate() error {
	if r.From != nil && r.To != nil && r.From.After(*r.To) {
		return fmt.Errorf("%w: start date is after end date", models.ErrValidation)
	}
	return nil
}

// resolvedScope is the event-id set a scope boils down to. When scoped is
// false the caller sees everything. When empty is true the scope resolves to
// nothing and the caller gets an empty result, never an error.
type resolvedScope struct {
	orgID    *uuid.UUID
	eventIDs []uuid.UUID
	scoped   bool
	empty    bool
}

// resolveScope precomputes the qualifying event-id set once per call.
// Orders have no organization or event foreign key, so every downstream
// query filters by membership in this set.
func resolveScope(ctx context.Context, store ports.FactStore, scope Scope) (resolvedScope, error) {
	orgID := scope.OrgID
	if scope.CallerRole != models.RoleAdmin {
		orgID = scope.CallerOrgID
		if orgID == nil {
			return resolvedScope{scoped: true, empty: true}, nil
		}
	}

	if orgID != nil {
		ids, err := store.EventIDsByOrganization(ctx, *orgID)
		if err != nil {
			return resolvedScope{}, err
		}

		if scope.EventID != nil {
			for _, id := range ids {
				if id == *scope.EventID {
					return resolvedScope{orgID: orgID, eventIDs: []uuid.UUID{id}, scoped: true}, nil
				}
			}
			return resolvedScope{orgID: orgID, scoped: true, empty: true}, nil
		}

		return resolvedScope{orgID: orgID, eventIDs: ids, scoped: true, empty: len(ids) == 0}, nil
	}

	if scope.EventID != nil {
		return resolvedScope{eventIDs: []uuid.UUID{*scope.EventID}, scoped: true}, nil
	}

	return resolvedScope{}, nil
}
