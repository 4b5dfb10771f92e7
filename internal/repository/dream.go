package repository

import (
	"context"

	"ruya/internal/models"

	"gorm.io/gorm"
)

// DreamRepository is the read side of the dream journal that posts are published from.
type DreamRepository interface {
	Create(ctx context.Context, dream *models.Dream) error
	GetByID(ctx context.Context, id uint) (*models.Dream, error)
}

type dreamRepository struct {
	db *gorm.DB
}

// NewDreamRepository creates a new dream repository
func NewDreamRepository(db *gorm.DB) DreamRepository {
	return &dreamRepository{db: db}
}

func (r *dreamRepository) Create(ctx context.Context, dream *models.Dream) error {
	return conn(ctx, r.db).Create(dream).Error
}

func (r *dreamRepository) GetByID(ctx context.Context, id uint) (*models.Dream, error) {
	var dream models.Dream
	if err := conn(ctx, r.db).First(&dream, id).Error; err != nil {
		return nil, err
	}
	return &dream, nil
}
