package mealplan

import (
	"errors"
	"strings"
	"testing"
)

func testPlan(days, mealsPerDay int) *MealPlan {
	plan := &MealPlan{
		Plan:      make([]DayPlan, 0, days),
		Totals:    Totals{Kcal: 2000, ProteinG: 120, CarbsG: 200, FatG: 70},
		Groceries: []GroceryCategory{{Category: "Proteins", Items: []string{"Chicken breast"}}},
	}
	for d := 1; d <= days; d++ {
		day := DayPlan{Day: d}
		for m := 0; m < mealsPerDay; m++ {
			day.Meals = append(day.Meals, Meal{
				Name:        "Grilled chicken",
				Kcal:        600,
				Ingredients: []Ingredient{{Item: "Chicken breast", Qty: "200g"}},
				Steps:       []string{"Grill the chicken"},
			})
		}
		plan.Plan = append(plan.Plan, day)
	}
	return plan
}

func testPrefs(mealsPerDay int) Preferences {
	return Preferences{
		Age:           30,
		WeightKg:      75,
		HeightCm:      180,
		Sex:           "male",
		Goal:          "maintain",
		DietType:      "omnivore",
		CookingEffort: "quick",
		MealsPerDay:   mealsPerDay,
	}
}

func TestValidateAcceptsGoodPlan(t *testing.T) {
	if err := Validate(testPlan(7, 3), testPrefs(3), 7); err != nil {
		t.Fatalf("Expected valid plan to pass, got %v", err)
	}
}

func TestValidateNilPlan(t *testing.T) {
	err := Validate(nil, testPrefs(3), 7)
	if err == nil || !strings.Contains(err.Error(), "missing plan") {
		t.Errorf("Expected missing plan error, got %v", err)
	}
}

func TestValidateMissingGroceries(t *testing.T) {
	plan := testPlan(7, 3)
	plan.Groceries = nil
	err := Validate(plan, testPrefs(3), 7)
	if err == nil || !strings.Contains(err.Error(), "missing groceries") {
		t.Errorf("Expected missing groceries error, got %v", err)
	}
}

func TestValidateDayCount(t *testing.T) {
	err := Validate(testPlan(6, 3), testPrefs(3), 7)
	if err == nil {
		t.Fatal("Expected day count violation")
	}
	var invalid *ValidationError
	if !errors.As(err, &invalid) {
		t.Fatalf("Expected *ValidationError, got %T", err)
	}
	if !strings.Contains(err.Error(), "exactly 7 days, got 6") {
		t.Errorf("Unexpected message: %v", err)
	}
}

func TestValidateMealCount(t *testing.T) {
	plan := testPlan(7, 3)
	plan.Plan[2].Meals = plan.Plan[2].Meals[:2]
	err := Validate(plan, testPrefs(3), 7)
	if err == nil || !strings.Contains(err.Error(), "day 3 must have exactly 3 meals, got 2") {
		t.Errorf("Expected meal count violation for day 3, got %v", err)
	}
}

func TestValidateCalorieBounds(t *testing.T) {
	plan := testPlan(7, 3)
	plan.Totals.Kcal = 800
	if err := Validate(plan, testPrefs(3), 7); err == nil {
		t.Error("Expected violation for totals below 1000 kcal")
	}

	plan.Totals.Kcal = 5600
	if err := Validate(plan, testPrefs(3), 7); err == nil {
		t.Error("Expected violation for totals above 5000 kcal")
	}

	plan.Totals.Kcal = 1000
	if err := Validate(plan, testPrefs(3), 7); err != nil {
		t.Errorf("Expected 1000 kcal to be accepted, got %v", err)
	}
}

func TestValidateAllergenSubstring(t *testing.T) {
	plan := testPlan(7, 3)
	plan.Plan[1].Meals[0].Ingredients = append(plan.Plan[1].Meals[0].Ingredients,
		Ingredient{Item: "Peanut butter", Qty: "2 tbsp"})

	prefs := testPrefs(3)
	prefs.Allergies = []string{"peanut"}

	err := Validate(plan, prefs, 7)
	if err == nil {
		t.Fatal("Expected allergen violation")
	}
	if !strings.Contains(err.Error(), `allergen "peanut" found in day 2, meal 1: Peanut butter`) {
		t.Errorf("Unexpected message: %v", err)
	}
}

func TestValidateBlankAllergenIgnored(t *testing.T) {
	prefs := testPrefs(3)
	prefs.Allergies = []string{"  ", ""}
	if err := Validate(testPlan(7, 3), prefs, 7); err != nil {
		t.Errorf("Expected blank allergens to be ignored, got %v", err)
	}
}

func TestValidateSingleDayHorizon(t *testing.T) {
	if err := Validate(testPlan(1, 4), testPrefs(4), 1); err != nil {
		t.Errorf("Expected 1-day plan to pass with horizon 1, got %v", err)
	}
}

func TestValidateTimingAdvisoryDoesNotBlock(t *testing.T) {
	plan := testPlan(7, 3)
	plan.Plan[0].Meals[0].Name = "Beef lasagna"
	plan.Plan[0].Meals[2].Name = "Light snack plate"
	if err := Validate(plan, testPrefs(3), 7); err != nil {
		t.Errorf("Timing heuristics must stay advisory, got %v", err)
	}
}
