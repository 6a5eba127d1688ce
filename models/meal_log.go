package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// One logged meal. Totals, items and assumptions live in JSONB columns so the
// row keeps the exact shape the parser produced, optional fields included.
type MealLog struct {
	ID          string     `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt   time.Time  `json:"created_at"`
	MealTime    time.Time  `gorm:"index;not null" json:"meal_time"`
	RawText     string     `gorm:"not null" json:"raw_text"`
	MealType    *string    `json:"meal_type"`
	Totals      MealTotals `gorm:"type:jsonb" json:"totals"`
	Items       MealItems  `gorm:"type:jsonb" json:"items"`
	Confidence  float64    `json:"confidence"`
	Assumptions StringList `gorm:"type:jsonb" json:"assumptions"`
}

func (m *MealLog) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// MealItem is one food within a meal. SugarG and SodiumMg are pointers:
// nil means the source data did not include them, which is not the same
// as zero.
type MealItem struct {
	Name     string   `json:"name"`
	Qty      string   `json:"qty"`
	Calories int      `json:"calories"`
	ProteinG float64  `json:"protein_g"`
	CarbsG   float64  `json:"carbs_g"`
	FatG     float64  `json:"fat_g"`
	FiberG   float64  `json:"fiber_g"`
	SugarG   *float64 `json:"sugar_g,omitempty"`
	SodiumMg *float64 `json:"sodium_mg,omitempty"`
}

// MealTotals is the field-wise sum of a meal's items. Writers recompute it
// from the items before persisting; the store does not enforce it.
type MealTotals struct {
	Calories int      `json:"calories"`
	ProteinG float64  `json:"protein_g"`
	CarbsG   float64  `json:"carbs_g"`
	FatG     float64  `json:"fat_g"`
	FiberG   float64  `json:"fiber_g"`
	SugarG   *float64 `json:"sugar_g,omitempty"`
	SodiumMg *float64 `json:"sodium_mg,omitempty"`
}

// DailyTotals is one day's rollup. Date is the timezone-local calendar date;
// the string itself is the bucket key, there is no time component.
type DailyTotals struct {
	Date     string   `json:"date"`
	Calories int      `json:"calories"`
	ProteinG float64  `json:"protein_g"`
	CarbsG   float64  `json:"carbs_g"`
	FatG     float64  `json:"fat_g"`
	FiberG   float64  `json:"fiber_g"`
	SugarG   *float64 `json:"sugar_g,omitempty"`
	SodiumMg *float64 `json:"sodium_mg,omitempty"`
}

// Last7Avg averages calories, fiber and protein over the days in the trailing
// week that had at least one logged meal. Derived per request, never stored.
type Last7Avg struct {
	Calories int     `json:"calories"`
	FiberG   float64 `json:"fiber_g"`
	ProteinG float64 `json:"protein_g"`
}

// TotalsPatch is a partial update to a stored MealTotals. Nil fields keep
// the prior stored value.
type TotalsPatch struct {
	Calories *float64 `json:"calories"`
	ProteinG *float64 `json:"protein_g"`
	CarbsG   *float64 `json:"carbs_g"`
	FatG     *float64 `json:"fat_g"`
	FiberG   *float64 `json:"fiber_g"`
	SugarG   *float64 `json:"sugar_g"`
	SodiumMg *float64 `json:"sodium_mg"`
}

type MealItems []MealItem

type StringList []string

func (t MealTotals) Value() (driver.Value, error) { return jsonValue(t) }

func (t *MealTotals) Scan(src interface{}) error { return jsonScan(src, t) }

func (i MealItems) Value() (driver.Value, error) { return jsonValue(i) }

func (i *MealItems) Scan(src interface{}) error { return jsonScan(src, i) }

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return jsonValue(l)
}

func (l *StringList) Scan(src interface{}) error { return jsonScan(src, l) }

func jsonValue(v interface{}) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func jsonScan(src, dst interface{}) error {
	if src == nil {
		return nil
	}
	switch s := src.(type) {
	case []byte:
		return json.Unmarshal(s, dst)
	case string:
		return json.Unmarshal([]byte(s), dst)
	default:
		return fmt.Errorf("unsupported column type %T", src)
	}
}
