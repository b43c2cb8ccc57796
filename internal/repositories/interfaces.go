package repositories

import (
	"context"
	"errors"

	"github.com/SAP-F-2025/quality-service/internal/models"
)

// ErrCampaignNotFound is returned when no campaign exists for an id
var ErrCampaignNotFound = errors.New("campaign not found")

// CampaignRepository reads campaign configuration. Campaigns are owned by the
// campaign service; this service never writes them.
type CampaignRepository interface {
	// GetByID returns the campaign with its questions in display order
	GetByID(ctx context.Context, id string) (*models.Campaign, error)
}
