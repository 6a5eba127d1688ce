// services/meal_service.go
package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/NygerianPrynce/kalTrackV2/apperror"
	"github.com/NygerianPrynce/kalTrackV2/models"
	"github.com/NygerianPrynce/kalTrackV2/utils"
)

// fetchLimit caps a single window fetch; the app deals in at most a few
// hundred records per request.
const fetchLimit = 200

// MealService is the boundary to the meal_logs store. Every method is a
// stateless invocation; a single update is one conditional statement scoped
// by the record id, so concurrent updates are last-write-wins.
type MealService struct {
	db *gorm.DB
}

func NewMealService(db *gorm.DB) *MealService {
	return &MealService{db: db}
}

func (s *MealService) Insert(ctx context.Context, log *models.MealLog) error {
	if err := s.db.WithContext(ctx).Create(log).Error; err != nil {
		return apperror.Store("Failed to save meal log", err.Error())
	}
	return nil
}

// ListByTimeRange fetches the logs whose meal timestamp falls inside the
// absolute window, newest first.
func (s *MealService) ListByTimeRange(ctx context.Context, from, to time.Time) ([]models.MealLog, error) {
	var logs []models.MealLog
	err := s.db.WithContext(ctx).
		Where("meal_time >= ? AND meal_time <= ?", from, to).
		Order("meal_time DESC").
		Limit(fetchLimit).
		Find(&logs).Error
	if err != nil {
		return nil, apperror.Store("Failed to fetch logs", err.Error())
	}
	return logs, nil
}

func (s *MealService) GetByID(ctx context.Context, id string) (*models.MealLog, error) {
	var log models.MealLog
	err := s.db.WithContext(ctx).First(&log, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Meal not found")
		}
		return nil, apperror.Store("Failed to fetch meal log", err.Error())
	}
	return &log, nil
}

// UpdateTotals merges a partial totals patch into the stored totals. Patch
// values pass through the rounding discipline; fields absent from the patch
// keep their prior stored value.
func (s *MealService) UpdateTotals(ctx context.Context, id string, patch models.TotalsPatch) (*models.MealLog, error) {
	log, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	merged := log.Totals
	if patch.Calories != nil {
		merged.Calories = utils.RoundCalories(*patch.Calories)
	}
	if patch.ProteinG != nil {
		merged.ProteinG = utils.RoundMacro(*patch.ProteinG)
	}
	if patch.CarbsG != nil {
		merged.CarbsG = utils.RoundMacro(*patch.CarbsG)
	}
	if patch.FatG != nil {
		merged.FatG = utils.RoundMacro(*patch.FatG)
	}
	if patch.FiberG != nil {
		merged.FiberG = utils.RoundMacro(*patch.FiberG)
	}
	if patch.SugarG != nil {
		v := utils.RoundMacro(*patch.SugarG)
		merged.SugarG = &v
	}
	if patch.SodiumMg != nil {
		v := utils.RoundMacro(*patch.SodiumMg)
		merged.SodiumMg = &v
	}

	err = s.db.WithContext(ctx).
		Model(&models.MealLog{}).
		Where("id = ?", id).
		Update("totals", merged).Error
	if err != nil {
		return nil, apperror.Store("Failed to update meal log", err.Error())
	}

	log.Totals = merged
	return log, nil
}

// Delete removes a log by id. Deleting an id that is already gone is not an
// error; the caller only learns whether the statement ran.
func (s *MealService) Delete(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Delete(&models.MealLog{}, "id = ?", id).Error; err != nil {
		return apperror.Store("Failed to delete meal log", err.Error())
	}
	return nil
}
