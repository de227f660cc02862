package repositories

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/gabeliss/kandidly/internal/lifecycle"
	"github.com/gabeliss/kandidly/internal/models"
)

// InterviewRepository persists interview records. It implements
// lifecycle.RecordStore; TryUpdate is the compare-and-swap primitive every
// transition goes through.
type InterviewRepository struct {
	DB *gorm.DB
}

func (r *InterviewRepository) Create(rec *models.InterviewRecord) error {
	return r.DB.Create(rec).Error
}

func (r *InterviewRepository) GetRecord(id string) (*models.InterviewRecord, error) {
	var rec models.InterviewRecord
	err := r.DB.First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("interview %s: %w", id, lifecycle.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// TryUpdate applies patch only while the stored status still equals
// expected, bumping the version column in the same statement. A write that
// matches no row is disambiguated with a follow-up read: the record either
// vanished (NotFound) or another writer moved it first (StaleTransition).
func (r *InterviewRepository) TryUpdate(id string, expected models.Status, patch map[string]interface{}) (*models.InterviewRecord, error) {
	updates := make(map[string]interface{}, len(patch)+1)
	for k, v := range patch {
		updates[k] = v
	}
	updates["version"] = gorm.Expr("version + 1")

	res := r.DB.Model(&models.InterviewRecord{}).
		Where("id = ? AND status = ?", id, expected).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		var current models.InterviewRecord
		err := r.DB.First(&current, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("interview %s: %w", id, lifecycle.ErrNotFound)
		}
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("interview %s is %q, expected %q: %w",
			id, current.Status, expected, lifecycle.ErrStaleTransition)
	}
	return r.GetRecord(id)
}

func (r *InterviewRepository) ListByCompany(companyID string, status models.Status) ([]models.InterviewRecord, error) {
	var recs []models.InterviewRecord
	query := r.DB.Where("company_id = ?", companyID).Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

// ListExpirable returns records whose time window has already closed: sent
// past the start deadline or started past the submission deadline. The
// sweep re-checks each with the shared gate predicate before writing.
func (r *InterviewRepository) ListExpirable(now time.Time) ([]models.InterviewRecord, error) {
	var recs []models.InterviewRecord
	err := r.DB.
		Where("(status = ? AND expires_at <= ?) OR (status = ? AND submission_deadline <= ?)",
			models.StatusSent, now, models.StatusStarted, now).
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return recs, nil
}

// StatusCounts groups a company's records by status.
func (r *InterviewRepository) StatusCounts(companyID string) (map[models.Status]int, error) {
	type row struct {
		Status models.Status
		N      int
	}
	var rows []row
	err := r.DB.Model(&models.InterviewRecord{}).
		Select("status, count(*) as n").
		Where("company_id = ?", companyID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[models.Status]int, len(rows))
	for _, rw := range rows {
		counts[rw.Status] = rw.N
	}
	return counts, nil
}

// Delete removes a record. Only reachable from an explicit hiring-team
// action; nothing in the lifecycle core deletes records.
func (r *InterviewRepository) Delete(id string) error {
	res := r.DB.Delete(&models.InterviewRecord{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("interview %s: %w", id, lifecycle.ErrNotFound)
	}
	return nil
}
