package mealplan

import (
	"reflect"
	"testing"
)

func TestNormalizeIngredientString(t *testing.T) {
	tree := map[string]any{
		"plan": []any{
			map[string]any{
				"day": float64(1),
				"meals": []any{
					map[string]any{
						"name":        "Stir fry",
						"ingredients": "chicken, rice, broccoli",
					},
				},
			},
		},
	}

	plan := Normalize(tree)
	meal := plan.Plan[0].Meals[0]
	want := []Ingredient{
		{Item: "chicken", Qty: "1 serving"},
		{Item: "rice", Qty: "1 serving"},
		{Item: "broccoli", Qty: "1 serving"},
	}
	if !reflect.DeepEqual(meal.Ingredients, want) {
		t.Errorf("Expected %v, got %v", want, meal.Ingredients)
	}
}

func TestNormalizeIngredientMixedList(t *testing.T) {
	meal := normalizeMeal(map[string]any{
		"name": "Bowl",
		"ingredients": []any{
			"oats",
			map[string]any{"item": "milk", "qty": "200ml"},
			map[string]any{"name": "honey"},
		},
	})

	if len(meal.Ingredients) != 3 {
		t.Fatalf("Expected 3 ingredients, got %d", len(meal.Ingredients))
	}
	if meal.Ingredients[0] != (Ingredient{Item: "oats", Qty: "1 serving"}) {
		t.Errorf("Bad string coercion: %+v", meal.Ingredients[0])
	}
	if meal.Ingredients[1] != (Ingredient{Item: "milk", Qty: "200ml"}) {
		t.Errorf("Bad map coercion: %+v", meal.Ingredients[1])
	}
	if meal.Ingredients[2].Qty != "1 serving" {
		t.Errorf("Expected default qty for malformed map, got %q", meal.Ingredients[2].Qty)
	}
}

func TestNormalizeStepsFromInstructions(t *testing.T) {
	meal := normalizeMeal(map[string]any{
		"name":         "Omelette",
		"instructions": "Beat eggs. Heat pan. Cook until set.",
	})

	want := []string{"Beat eggs", "Heat pan", "Cook until set"}
	if !reflect.DeepEqual(meal.Steps, want) {
		t.Errorf("Expected %v, got %v", want, meal.Steps)
	}
}

func TestNormalizeStepsPlaceholder(t *testing.T) {
	meal := normalizeMeal(map[string]any{"name": "Mystery dish"})

	want := []string{"Follow recipe instructions"}
	if !reflect.DeepEqual(meal.Steps, want) {
		t.Errorf("Expected placeholder steps, got %v", meal.Steps)
	}
}

func TestNormalizeUntitledMeal(t *testing.T) {
	meal := normalizeMeal(map[string]any{"name": "   "})
	if meal.Name != "Untitled Meal" {
		t.Errorf("Expected placeholder name, got %q", meal.Name)
	}
}

func TestNormalizeDedupesMealNames(t *testing.T) {
	tree := map[string]any{
		"plan": []any{
			map[string]any{"day": float64(1), "meals": []any{
				map[string]any{"name": "Chicken Bowl"},
				map[string]any{"name": "chicken bowl"},
			}},
			map[string]any{"day": float64(2), "meals": []any{
				map[string]any{"name": "Chicken Bowl"},
			}},
		},
	}

	plan := Normalize(tree)
	if got := plan.Plan[0].Meals[0].Name; got != "Chicken Bowl" {
		t.Errorf("First occurrence should be untouched, got %q", got)
	}
	if got := plan.Plan[0].Meals[1].Name; got != "chicken bowl (variation 2)" {
		t.Errorf("Expected variation 2, got %q", got)
	}
	if got := plan.Plan[1].Meals[0].Name; got != "Chicken Bowl (variation 3)" {
		t.Errorf("Expected variation 3 across days, got %q", got)
	}
}

func TestNormalizeMealPlanAlias(t *testing.T) {
	tree := map[string]any{
		"meal_plan": []any{
			map[string]any{"day": float64(1), "meals": []any{}},
		},
	}

	plan := Normalize(tree)
	if len(plan.Plan) != 1 {
		t.Errorf("Expected meal_plan alias to be honored, got %d days", len(plan.Plan))
	}
}

func TestNormalizeDayNumbering(t *testing.T) {
	tree := map[string]any{
		"plan": []any{
			map[string]any{"meals": []any{}},
			map[string]any{"day": float64(5), "meals": []any{}},
			map[string]any{"day": 2.5, "meals": []any{}},
		},
	}

	plan := Normalize(tree)
	if plan.Plan[0].Day != 1 {
		t.Errorf("Expected positional default 1, got %d", plan.Plan[0].Day)
	}
	if plan.Plan[1].Day != 5 {
		t.Errorf("Expected explicit day 5, got %d", plan.Plan[1].Day)
	}
	if plan.Plan[2].Day != 3 {
		t.Errorf("Expected positional default for fractional day, got %d", plan.Plan[2].Day)
	}
}

func TestNormalizeTotalsLegacyCalories(t *testing.T) {
	tree := map[string]any{
		"plan":   []any{},
		"totals": map[string]any{"calories": float64(2100), "protein_g": float64(130)},
	}

	plan := Normalize(tree)
	if plan.Totals.Kcal != 2100 {
		t.Errorf("Expected legacy calories mapped to kcal, got %d", plan.Totals.Kcal)
	}
	if plan.Totals.ProteinG != 130 {
		t.Errorf("Expected protein 130, got %v", plan.Totals.ProteinG)
	}
}

func TestNormalizeTotalsSynthesized(t *testing.T) {
	tree := map[string]any{
		"plan":          []any{},
		"totalCalories": float64(1800),
		"macronutrients": map[string]any{
			"protein_g": float64(100),
		},
	}

	plan := Normalize(tree)
	want := Totals{Kcal: 1800, ProteinG: 100, CarbsG: 0, FatG: 0}
	if plan.Totals != want {
		t.Errorf("Expected %+v, got %+v", want, plan.Totals)
	}
}

func TestNormalizeDerivesGroceries(t *testing.T) {
	tree := map[string]any{
		"plan": []any{
			map[string]any{"day": float64(1), "meals": []any{
				map[string]any{
					"name":        "Chicken and rice",
					"ingredients": []any{"Chicken breast", "Brown rice", "Olive oil", "chicken breast"},
				},
			}},
		},
	}

	plan := Normalize(tree)
	want := []GroceryCategory{
		{Category: "Proteins", Items: []string{"Chicken breast"}},
		{Category: "Grains", Items: []string{"Brown rice"}},
		{Category: "Pantry", Items: []string{"Olive oil"}},
	}
	if !reflect.DeepEqual(plan.Groceries, want) {
		t.Errorf("Expected %v, got %v", want, plan.Groceries)
	}
}

func TestNormalizeKeepsProvidedGroceries(t *testing.T) {
	tree := map[string]any{
		"plan": []any{},
		"groceries": []any{
			map[string]any{"category": "Produce", "items": []any{"Kale", float64(3)}},
		},
	}

	plan := Normalize(tree)
	if len(plan.Groceries) != 1 || plan.Groceries[0].Category != "Produce" {
		t.Fatalf("Expected provided groceries kept, got %v", plan.Groceries)
	}
	if !reflect.DeepEqual(plan.Groceries[0].Items, []string{"Kale", "3"}) {
		t.Errorf("Expected stringified items, got %v", plan.Groceries[0].Items)
	}
}

func TestNormalizeSkipsNonObjectDays(t *testing.T) {
	tree := map[string]any{
		"plan": []any{"not a day", map[string]any{"day": float64(1), "meals": []any{}}},
	}

	plan := Normalize(tree)
	if len(plan.Plan) != 1 {
		t.Errorf("Expected non-object day entries skipped, got %d days", len(plan.Plan))
	}
}

func TestNormalizeNumericCoercion(t *testing.T) {
	meal := normalizeMeal(map[string]any{
		"name":      "Snack",
		"kcal":      float64(250.9),
		"protein_g": float64(12.5),
	})
	if meal.Kcal != 250 {
		t.Errorf("Expected kcal truncated to 250, got %d", meal.Kcal)
	}
	if meal.ProteinG != 12.5 {
		t.Errorf("Expected protein 12.5, got %v", meal.ProteinG)
	}
}
