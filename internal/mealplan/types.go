package mealplan

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Preferences is the dietary profile a plan is generated for. It is consumed,
// never mutated, by the generation pipeline.
type Preferences struct {
	Age                  int      `json:"age" validate:"gte=16,lte=100"`
	WeightKg             float64  `json:"weightKg" validate:"gte=30,lte=300"`
	HeightCm             int      `json:"heightCm" validate:"gte=100,lte=250"`
	Sex                  string   `json:"sex" validate:"oneof=male female other"`
	Goal                 string   `json:"goal" validate:"oneof=lose maintain gain"`
	DietType             string   `json:"dietType" validate:"oneof=omnivore vegan vegetarian keto mediterranean paleo diabetes-friendly"`
	Allergies            []string `json:"allergies"`
	Dislikes             []string `json:"dislikes"`
	CookingEffort        string   `json:"cookingEffort" validate:"oneof=quick budget gourmet"`
	CaloriesTarget       *int     `json:"caloriesTarget,omitempty" validate:"omitempty,gte=800,lte=5000"`
	MealsPerDay          int      `json:"mealsPerDay" validate:"gte=3,lte=6"`
	IncludeProteinShakes bool     `json:"includeProteinShakes"`

	// AvoidMeals lists recently served meal names the model should not repeat.
	// Injected by the caller, not part of the user-facing profile.
	AvoidMeals []string `json:"avoidMeals,omitempty"`
}

// ApplyDefaults fills zero-valued optional fields before validation.
func (p *Preferences) ApplyDefaults() {
	if p.MealsPerDay == 0 {
		p.MealsPerDay = 3
	}
}

// Validate checks the profile against its range and enum constraints.
func (p Preferences) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("invalid preferences: %w", err)
	}
	return nil
}

// Ingredient is a single recipe ingredient. Qty is opaque free text.
type Ingredient struct {
	Item string `json:"item"`
	Qty  string `json:"qty"`
}

// Meal is one meal slot within a day.
type Meal struct {
	Name        string       `json:"name"`
	Kcal        int          `json:"kcal"`
	ProteinG    float64      `json:"protein_g"`
	CarbsG      float64      `json:"carbs_g"`
	FatG        float64      `json:"fat_g"`
	Ingredients []Ingredient `json:"ingredients"`
	Steps       []string     `json:"steps"`
}

// DayPlan holds the ordered meals for a single day of the plan.
type DayPlan struct {
	Day   int    `json:"day"`
	Meals []Meal `json:"meals"`
}

// Totals are aggregate nutrition figures for the whole plan. The bounds
// enforced on them are sanity ranges, not per-request exact sums.
type Totals struct {
	Kcal     int     `json:"kcal"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
}

// GroceryCategory is a labeled, deduplicated shopping-list bucket.
type GroceryCategory struct {
	Category string   `json:"category"`
	Items    []string `json:"items"`
}

// MealPlan is the canonical, schema-conformant plan returned to clients.
// It is constructed fresh per request and never shared or stored.
type MealPlan struct {
	Plan      []DayPlan         `json:"plan"`
	Totals    Totals            `json:"totals"`
	Groceries []GroceryCategory `json:"groceries"`
}
