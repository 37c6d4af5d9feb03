package portal

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/inventory-portal/internal/domain/models"
	"github.com/mamadbah2/inventory-portal/internal/domain/normalize"
	"github.com/mamadbah2/inventory-portal/pkg/clients/inventory"
)

// LookupUser resolves a user id against the backend and remembers the result
// in the workspace, where form validation picks it up. Transport failures
// leave the lookup unchecked and return the error.
func (s *Service) LookupUser(ctx context.Context, ws *Workspace, id string) (models.UserLookup, error) {
	id = strings.TrimSpace(id)
	result := models.UserLookup{UserID: id, Status: models.LookupUnchecked}
	if id == "" {
		ws.setLookup(result)
		return result, nil
	}

	raw, err := s.client.GetUser(ctx, id)
	switch {
	case errors.Is(err, inventory.ErrNotFound):
		result.Status = models.LookupNotFound
	case err != nil:
		ws.setLookup(result)
		s.logger.Warn("user lookup failed", zap.String("user_id", id), zap.Error(err))
		return result, fmt.Errorf("lookup user %s: %w", id, err)
	default:
		u := normalize.User(raw)
		if u.ID == "" {
			u.ID = id
		}
		result.Status = models.LookupFound
		result.User = &u
	}

	ws.setLookup(result)
	return result, nil
}
