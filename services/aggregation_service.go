package services

import (
	"sort"
	"time"

	"github.com/NygerianPrynce/kalTrackV2/models"
	"github.com/NygerianPrynce/kalTrackV2/utils"
)

// AggregationService turns a fetched window of meal logs into the derived
// views the dashboard needs. It borrows a read-only snapshot per call and
// recomputes everything synchronously; nothing here writes to the store.
type AggregationService struct{}

func NewAggregationService() *AggregationService {
	return &AggregationService{}
}

// runningTotals accumulates unrounded sums. Optional fields track presence
// separately from value: a meal without sugar data must not drag a sugar
// average toward zero.
type runningTotals struct {
	calories  float64
	proteinG  float64
	carbsG    float64
	fatG      float64
	fiberG    float64
	sugarG    float64
	sodiumMg  float64
	hasSugar  bool
	hasSodium bool
}

func (r *runningTotals) add(t models.MealTotals) {
	r.calories += float64(t.Calories)
	r.proteinG += t.ProteinG
	r.carbsG += t.CarbsG
	r.fatG += t.FatG
	r.fiberG += t.FiberG
	if t.SugarG != nil {
		r.sugarG += *t.SugarG
		r.hasSugar = true
	}
	if t.SodiumMg != nil {
		r.sodiumMg += *t.SodiumMg
		r.hasSodium = true
	}
}

// rounded collapses the accumulator into presentation totals. A summed
// optional field of zero is dropped here; that is a display simplification
// at the rollup boundary, not a data rule.
func (r *runningTotals) rounded() models.MealTotals {
	out := models.MealTotals{
		Calories: utils.RoundCalories(r.calories),
		ProteinG: utils.RoundMacro(r.proteinG),
		CarbsG:   utils.RoundMacro(r.carbsG),
		FatG:     utils.RoundMacro(r.fatG),
		FiberG:   utils.RoundMacro(r.fiberG),
	}
	if r.hasSugar && r.sugarG > 0 {
		v := utils.RoundMacro(r.sugarG)
		out.SugarG = &v
	}
	if r.hasSodium && r.sodiumMg > 0 {
		v := utils.RoundMacro(r.sodiumMg)
		out.SodiumMg = &v
	}
	return out
}

// DailyTotals groups logs by the local calendar date of their meal timestamp
// and sums each group. Entries come back sorted ascending by date string;
// lexicographic order is correct because the format is zero-padded.
func (s *AggregationService) DailyTotals(logs []models.MealLog, loc *time.Location) []models.DailyTotals {
	byDate := map[string]*runningTotals{}
	for _, log := range logs {
		date := utils.DateInZone(log.MealTime, loc)
		acc, ok := byDate[date]
		if !ok {
			acc = &runningTotals{}
			byDate[date] = acc
		}
		acc.add(log.Totals)
	}

	daily := make([]models.DailyTotals, 0, len(byDate))
	for date, acc := range byDate {
		t := acc.rounded()
		daily = append(daily, models.DailyTotals{
			Date:     date,
			Calories: t.Calories,
			ProteinG: t.ProteinG,
			CarbsG:   t.CarbsG,
			FatG:     t.FatG,
			FiberG:   t.FiberG,
			SugarG:   t.SugarG,
			SodiumMg: t.SodiumMg,
		})
	}

	sort.Slice(daily, func(i, j int) bool { return daily[i].Date < daily[j].Date })
	return daily
}

// TodayTotals sums the logs whose bucketed date equals today's date in loc,
// evaluated at call time. Returns all-zero totals with no optional fields
// when nothing was logged today.
func (s *AggregationService) TodayTotals(logs []models.MealLog, loc *time.Location) models.MealTotals {
	today := utils.DateInZone(time.Now(), loc)

	acc := runningTotals{}
	matched := false
	for _, log := range logs {
		if utils.DateInZone(log.MealTime, loc) == today {
			acc.add(log.Totals)
			matched = true
		}
	}
	if !matched {
		return models.MealTotals{}
	}
	return acc.rounded()
}

// Last7Avg filters logs whose meal timestamp falls within the trailing seven
// days of now, rebuilds their daily rollups and averages calories, fiber and
// protein over however many distinct days had a logged meal. The denominator
// is logged days, not a fixed seven.
func (s *AggregationService) Last7Avg(logs []models.MealLog, loc *time.Location, now time.Time) models.Last7Avg {
	cutoff := now.AddDate(0, 0, -7)

	var recent []models.MealLog
	for _, log := range logs {
		if !log.MealTime.Before(cutoff) {
			recent = append(recent, log)
		}
	}
	if len(recent) == 0 {
		return models.Last7Avg{}
	}

	daily := s.DailyTotals(recent, loc)
	if len(daily) == 0 {
		return models.Last7Avg{}
	}

	var calories, fiber, protein float64
	for _, day := range daily {
		calories += float64(day.Calories)
		fiber += day.FiberG
		protein += day.ProteinG
	}
	n := float64(len(daily))
	return models.Last7Avg{
		Calories: utils.RoundCalories(calories / n),
		FiberG:   utils.RoundMacro(fiber / n),
		ProteinG: utils.RoundMacro(protein / n),
	}
}
