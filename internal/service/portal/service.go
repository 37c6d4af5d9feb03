// Package portal assembles the portal's page view models, the admin
// dashboard and the form submission flow on top of the inventory backend.
package portal

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/inventory-portal/internal/config"
	"github.com/mamadbah2/inventory-portal/internal/validation"
	"github.com/mamadbah2/inventory-portal/pkg/clients/inventory"
)

var (
	// ErrLoadFailed marks a page whose primary collection could not be loaded.
	ErrLoadFailed = errors.New("collection load failed")
	// ErrUnknownPage is returned for page names with no definition.
	ErrUnknownPage = errors.New("unknown page")
	// ErrUnknownForm is returned for form kinds with no submitter.
	ErrUnknownForm = errors.New("unknown form")
	// ErrUnknownResource is returned for delete targets the backend does not expose.
	ErrUnknownResource = errors.New("unknown resource")
	// ErrBusy is returned when the same form is already being submitted.
	ErrBusy = errors.New("a submission is already in progress")
)

// Service serves page views and submits forms for portal sessions.
type Service struct {
	client     inventory.Client
	endpoints  config.Endpoints
	validator  *validation.Validator
	workspaces *Workspaces
	backendURL string
	now        func() time.Time
	logger     *zap.Logger
}

// NewService wires the portal service to a backend client.
func NewService(client inventory.Client, endpoints config.Endpoints, backendURL string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		client:     client,
		endpoints:  endpoints,
		validator:  validation.New(),
		workspaces: NewWorkspaces(),
		backendURL: backendURL,
		now:        time.Now,
		logger:     logger,
	}
}

// Workspaces exposes the per-session state registry.
func (s *Service) Workspaces() *Workspaces {
	return s.workspaces
}
