package models

// NutritionGoals holds the user's daily intake targets. Goals never touch
// the meal store; they live in the settings repository and are joined
// against totals on the display side.
type NutritionGoals struct {
	CaloriesGoal float64  `json:"calories_goal"`
	ProteinGoalG float64  `json:"protein_goal_g"`
	CarbsGoalG   float64  `json:"carbs_goal_g"`
	FatGoalG     float64  `json:"fat_goal_g"`
	FiberGoalG   float64  `json:"fiber_goal_g"`
	SugarGoalG   *float64 `json:"sugar_goal_g,omitempty"`
	SodiumGoalMg *float64 `json:"sodium_goal_mg,omitempty"`
}

// DefaultGoals are the targets a fresh install starts with.
func DefaultGoals() NutritionGoals {
	return NutritionGoals{
		CaloriesGoal: 2500,
		ProteinGoalG: 180,
		CarbsGoalG:   250,
		FatGoalG:     80,
		FiberGoalG:   30,
	}
}
