package mealplan

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
)

const placeholderMealName = "Untitled Meal"

// Normalize shapes a parsed-but-untrusted object tree into a fully typed
// MealPlan. It is total: every branch has a type-safe default and no input
// can make it fail. Downstream validation decides whether the result is
// actually acceptable.
func Normalize(tree map[string]any) *MealPlan {
	plan := &MealPlan{
		Plan:      normalizeDays(planSequence(tree)),
		Groceries: []GroceryCategory{},
	}

	dedupeMealNames(plan.Plan)
	plan.Totals = normalizeTotals(tree)

	if raw, ok := tree["groceries"].([]any); ok {
		plan.Groceries = normalizeGroceries(raw)
	} else {
		plan.Groceries = deriveGroceries(plan.Plan)
	}

	return plan
}

// planSequence resolves the day list, honoring the legacy meal_plan alias.
func planSequence(tree map[string]any) []any {
	raw, ok := tree["plan"]
	if !ok {
		raw = tree["meal_plan"]
	}
	days, ok := raw.([]any)
	if !ok {
		return nil
	}
	return days
}

func normalizeDays(days []any) []DayPlan {
	out := make([]DayPlan, 0, len(days))
	for i, d := range days {
		dm, ok := d.(map[string]any)
		if !ok {
			continue
		}

		day := DayPlan{Day: i + 1}
		if n, ok := asNumber(dm["day"]); ok && n == math.Trunc(n) {
			day.Day = int(n)
		}

		meals, _ := dm["meals"].([]any)
		day.Meals = make([]Meal, 0, len(meals))
		for _, m := range meals {
			mm, ok := m.(map[string]any)
			if !ok {
				continue
			}
			day.Meals = append(day.Meals, normalizeMeal(mm))
		}

		out = append(out, day)
	}
	return out
}

func normalizeMeal(m map[string]any) Meal {
	meal := Meal{Name: placeholderMealName}
	if s, ok := asString(m["name"]); ok && strings.TrimSpace(s) != "" {
		meal.Name = strings.TrimSpace(s)
	}
	if n, ok := asNumber(m["kcal"]); ok {
		meal.Kcal = int(n)
	}
	if n, ok := asNumber(m["protein_g"]); ok {
		meal.ProteinG = n
	}
	if n, ok := asNumber(m["carbs_g"]); ok {
		meal.CarbsG = n
	}
	if n, ok := asNumber(m["fat_g"]); ok {
		meal.FatG = n
	}
	meal.Ingredients = normalizeIngredients(m["ingredients"])
	meal.Steps = normalizeSteps(m)
	return meal
}

// normalizeIngredients accepts the ingredient shapes models actually emit:
// a comma-delimited string, a list of strings, a list of {item, qty} maps,
// or any mix of those.
func normalizeIngredients(raw any) []Ingredient {
	switch v := raw.(type) {
	case string:
		var out []Ingredient
		for _, tok := range strings.Split(v, ",") {
			if tok = strings.TrimSpace(tok); tok != "" {
				out = append(out, Ingredient{Item: tok, Qty: "1 serving"})
			}
		}
		if out == nil {
			out = []Ingredient{}
		}
		return out
	case []any:
		out := make([]Ingredient, 0, len(v))
		for _, el := range v {
			switch e := el.(type) {
			case string:
				out = append(out, Ingredient{Item: e, Qty: "1 serving"})
			case map[string]any:
				if item, ok := asString(e["item"]); ok {
					qty, _ := asString(e["qty"])
					out = append(out, Ingredient{Item: item, Qty: qty})
					continue
				}
				out = append(out, Ingredient{Item: stringify(e), Qty: "1 serving"})
			default:
				out = append(out, Ingredient{Item: stringify(e), Qty: "1 serving"})
			}
		}
		return out
	default:
		return []Ingredient{}
	}
}

// normalizeSteps resolves steps from whatever the model provided: a proper
// list, a single string, or a free-text instructions field split on periods.
func normalizeSteps(m map[string]any) []string {
	switch v := m["steps"].(type) {
	case string:
		return splitSteps(v)
	case []any:
		out := make([]string, 0, len(v))
		for _, el := range v {
			if s, ok := asString(el); ok {
				out = append(out, s)
			} else {
				out = append(out, stringify(el))
			}
		}
		return out
	}

	if instructions, ok := asString(m["instructions"]); ok && instructions != "" {
		return splitSteps(instructions)
	}
	return []string{"Follow recipe instructions"}
}

func splitSteps(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ".") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// dedupeMealNames renames repeated meal names in first-seen order across all
// days: the second "Chicken Bowl" becomes "Chicken Bowl (variation 2)".
func dedupeMealNames(days []DayPlan) {
	seen := make(map[string]int)
	for di := range days {
		for mi := range days[di].Meals {
			name := days[di].Meals[mi].Name
			key := strings.ToLower(name)
			if count := seen[key]; count > 0 {
				days[di].Meals[mi].Name = fmt.Sprintf("%s (variation %d)", name, count+1)
			}
			seen[key]++
		}
	}
}

// normalizeTotals reads a totals object if present, tolerating the legacy
// "calories" key, or synthesizes one from the flat totalCalories and
// macronutrients fields some responses use instead.
func normalizeTotals(tree map[string]any) Totals {
	if tm, ok := tree["totals"].(map[string]any); ok {
		t := Totals{}
		kcalRaw, ok := tm["kcal"]
		if !ok {
			kcalRaw = tm["calories"]
		}
		if n, ok := asNumber(kcalRaw); ok {
			t.Kcal = int(n)
		}
		if n, ok := asNumber(tm["protein_g"]); ok {
			t.ProteinG = n
		}
		if n, ok := asNumber(tm["carbs_g"]); ok {
			t.CarbsG = n
		}
		if n, ok := asNumber(tm["fat_g"]); ok {
			t.FatG = n
		}
		return t
	}

	t := Totals{}
	if n, ok := asNumber(tree["totalCalories"]); ok {
		t.Kcal = int(n)
	}
	if macros, ok := tree["macronutrients"].(map[string]any); ok {
		if n, ok := asNumber(macros["protein_g"]); ok {
			t.ProteinG = n
		}
		if n, ok := asNumber(macros["carbs_g"]); ok {
			t.CarbsG = n
		}
		if n, ok := asNumber(macros["fat_g"]); ok {
			t.FatG = n
		}
	}
	return t
}

func normalizeGroceries(raw []any) []GroceryCategory {
	out := make([]GroceryCategory, 0, len(raw))
	for _, el := range raw {
		gm, ok := el.(map[string]any)
		if !ok {
			continue
		}
		category, _ := asString(gm["category"])
		cat := GroceryCategory{Category: category, Items: []string{}}
		if items, ok := gm["items"].([]any); ok {
			for _, it := range items {
				if s, ok := asString(it); ok {
					cat.Items = append(cat.Items, s)
				} else {
					cat.Items = append(cat.Items, stringify(it))
				}
			}
		}
		out = append(out, cat)
	}
	return out
}

// groceryBuckets are checked in declaration order, first keyword match wins.
// Pantry carries no keywords: it is the fallback for unmatched items.
var groceryBuckets = []struct {
	category string
	keywords []string
}{
	{"Proteins", []string{"chicken", "beef", "pork", "fish", "salmon", "tuna", "turkey", "eggs", "tofu", "beans", "lentils"}},
	{"Grains", []string{"rice", "quinoa", "oats", "bread", "pasta", "wheat", "barley"}},
	{"Vegetables", []string{"broccoli", "spinach", "lettuce", "tomato", "carrot", "onion", "pepper", "cucumber", "berries", "apple", "banana"}},
	{"Dairy/Alternatives", []string{"milk", "cheese", "yogurt", "butter", "cream"}},
	{"Pantry", nil},
	{"Spices", []string{"salt", "pepper", "paprika", "cumin", "curry", "oregano", "basil", "garlic powder"}},
}

// deriveGroceries buckets every ingredient of the plan into fixed categories.
// Items are deduplicated case-insensitively (first casing wins) and emitted
// sorted; only non-empty categories appear, in bucket declaration order.
func deriveGroceries(days []DayPlan) []GroceryCategory {
	items := make(map[string][]string)
	seen := make(map[string]map[string]bool)

	for _, day := range days {
		for _, meal := range day.Meals {
			for _, ing := range meal.Ingredients {
				if ing.Item == "" {
					continue
				}
				category := bucketFor(ing.Item)
				if seen[category] == nil {
					seen[category] = make(map[string]bool)
				}
				key := strings.ToLower(ing.Item)
				if seen[category][key] {
					continue
				}
				seen[category][key] = true
				items[category] = append(items[category], ing.Item)
			}
		}
	}

	out := []GroceryCategory{}
	for _, bucket := range groceryBuckets {
		list := items[bucket.category]
		if len(list) == 0 {
			continue
		}
		sort.Strings(list)
		out = append(out, GroceryCategory{Category: bucket.category, Items: list})
	}
	return out
}

func bucketFor(item string) string {
	lower := strings.ToLower(item)
	for _, bucket := range groceryBuckets {
		for _, kw := range bucket.keywords {
			if strings.Contains(lower, kw) {
				return bucket.category
			}
		}
	}
	return "Pantry"
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// asNumber accepts the numeric types a decoded JSON tree or a hand-built
// test fixture may contain.
func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func stringify(v any) string {
	return fmt.Sprintf("%v", v)
}
