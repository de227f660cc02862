package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/gabeliss/kandidly/internal/lifecycle"
	"github.com/gabeliss/kandidly/internal/models"
)

// ChallengeRepository persists challenges. The lifecycle core only ever
// reads from it (GetChallenge); the write methods back the hiring-side CRUD.
type ChallengeRepository struct {
	DB *gorm.DB
}

func (r *ChallengeRepository) Create(c *models.Challenge) error {
	return r.DB.Create(c).Error
}

func (r *ChallengeRepository) GetChallenge(id string) (*models.Challenge, error) {
	var c models.Challenge
	err := r.DB.First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("challenge %s: %w", id, lifecycle.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ChallengeRepository) GetAll() ([]models.Challenge, error) {
	var cs []models.Challenge
	if err := r.DB.Order("created_at DESC").Find(&cs).Error; err != nil {
		return nil, err
	}
	return cs, nil
}

func (r *ChallengeRepository) Update(id string, updates *models.Challenge) (*models.Challenge, error) {
	existing, err := r.GetChallenge(id)
	if err != nil {
		return nil, err
	}
	if err := r.DB.Model(existing).Updates(updates).Error; err != nil {
		return nil, err
	}
	return r.GetChallenge(id)
}

func (r *ChallengeRepository) Delete(id string) error {
	res := r.DB.Delete(&models.Challenge{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("challenge %s: %w", id, lifecycle.ErrNotFound)
	}
	return nil
}
