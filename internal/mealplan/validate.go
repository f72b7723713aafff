package mealplan

import (
	"fmt"
	"log"
	"strings"
)

// ValidationError means a structurally valid plan violates a domain rule.
// Reason names the first violated rule and the offending value.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "meal plan validation failed: " + e.Reason
}

func violation(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// Meal names that suggest a heavy dinner dish landed in the breakfast slot.
// English-only keyword heuristic, advisory by design.
var heavyFirstMealWords = []string{"quesadilla", "pasta", "roasted", "beef", "steak", "casserole", "lasagna"}

// Validate enforces the domain invariants on a normalized plan. The plan is
// returned to the caller unchanged on success; on the first violated rule a
// *ValidationError is returned instead. Meal-timing plausibility checks are
// advisory only: they log and never block.
func Validate(plan *MealPlan, prefs Preferences, horizonDays int) error {
	if plan == nil || plan.Plan == nil {
		return violation("missing plan")
	}
	if plan.Groceries == nil {
		return violation("missing groceries")
	}

	if len(plan.Plan) != horizonDays {
		return violation("plan must have exactly %d days, got %d", horizonDays, len(plan.Plan))
	}

	for i, day := range plan.Plan {
		if len(day.Meals) != prefs.MealsPerDay {
			return violation("day %d must have exactly %d meals, got %d", i+1, prefs.MealsPerDay, len(day.Meals))
		}
	}

	adviseMealTiming(plan, prefs.MealsPerDay)

	if plan.Totals.Kcal < 1000 || plan.Totals.Kcal > 5000 {
		return violation("total calories %d out of reasonable range (1000-5000)", plan.Totals.Kcal)
	}

	for di, day := range plan.Plan {
		for mi, meal := range day.Meals {
			for _, ing := range meal.Ingredients {
				item := strings.ToLower(ing.Item)
				for _, allergen := range prefs.Allergies {
					a := strings.ToLower(strings.TrimSpace(allergen))
					if a != "" && strings.Contains(item, a) {
						return violation("allergen %q found in day %d, meal %d: %s", allergen, di+1, mi+1, ing.Item)
					}
				}
			}
		}
	}

	return nil
}

// adviseMealTiming flags implausible meal placement: dinner-style dishes in
// the first slot, snack-style dishes in the dinner slots.
func adviseMealTiming(plan *MealPlan, mealsPerDay int) {
	for di, day := range plan.Plan {
		for mi, meal := range day.Meals {
			name := strings.ToLower(meal.Name)

			if mi == 0 {
				for _, word := range heavyFirstMealWords {
					if strings.Contains(name, word) {
						log.Printf("Day %d, meal %d: %q may not be appropriate for breakfast", di+1, mi+1, meal.Name)
						break
					}
				}
			}

			dinnerSlot := mi == mealsPerDay-1 || (mealsPerDay > 3 && mi == mealsPerDay-2)
			if dinnerSlot && (strings.Contains(name, "snack") || strings.Contains(name, "light")) {
				log.Printf("Day %d, meal %d: %q may be too light for dinner", di+1, mi+1, meal.Name)
			}
		}
	}
}
