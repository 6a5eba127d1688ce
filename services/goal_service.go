// services/goal_service.go
package services

import (
	"sync"

	"github.com/NygerianPrynce/kalTrackV2/models"
)

// GoalService is the settings repository for nutrition goals: get/set plus a
// subscription list. Goals never touch the meal store. The cross-tab
// broadcast of the web client collapses to a single-process observer list
// here.
type GoalService struct {
	mu     sync.RWMutex
	goals  models.NutritionGoals
	nextID int
	subs   map[int]func(models.NutritionGoals)
}

func NewGoalService() *GoalService {
	return &GoalService{
		goals: models.DefaultGoals(),
		subs:  map[int]func(models.NutritionGoals){},
	}
}

func (s *GoalService) Get() models.NutritionGoals {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.goals
}

// Set replaces the stored goals and notifies subscribers with the new value.
func (s *GoalService) Set(goals models.NutritionGoals) {
	s.mu.Lock()
	s.goals = goals
	observers := make([]func(models.NutritionGoals), 0, len(s.subs))
	for _, fn := range s.subs {
		observers = append(observers, fn)
	}
	s.mu.Unlock()

	for _, fn := range observers {
		fn(goals)
	}
}

// Subscribe registers an observer for goal changes and returns a function
// that removes it.
func (s *GoalService) Subscribe(fn func(models.NutritionGoals)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}
