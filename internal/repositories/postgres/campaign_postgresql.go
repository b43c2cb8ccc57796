package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/SAP-F-2025/quality-service/internal/models"
	"github.com/SAP-F-2025/quality-service/internal/repositories"
	"gorm.io/gorm"
)

type CampaignPostgreSQL struct {
	db *gorm.DB
}

func NewCampaignPostgreSQL(db *gorm.DB) repositories.CampaignRepository {
	return &CampaignPostgreSQL{db: db}
}

// GetByID retrieves a campaign by ID with questions ordered by position
func (c *CampaignPostgreSQL) GetByID(ctx context.Context, id string) (*models.Campaign, error) {
	var campaign models.Campaign
	err := c.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&campaign, "id = ?", id).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repositories.ErrCampaignNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load campaign %s: %w", id, err)
	}

	return &campaign, nil
}

// AutoMigrate creates the campaign tables. Used by local development setups
// where the campaign service schema is not present.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.Campaign{}, &models.CampaignQuestion{})
}
