package mealplan

import (
	"bytes"
	_ "embed"
	"strings"
	"text/template"
)

//go:embed plan_prompt.md
var planPrompt string

// mealSlotNames maps a meals-per-day count to the timing roles the prompt
// names for each slot.
func mealSlotNames(mealsPerDay int) []string {
	switch mealsPerDay {
	case 4:
		return []string{"breakfast", "lunch", "dinner", "snack"}
	case 5:
		return []string{"breakfast", "lunch", "dinner", "afternoon snack", "evening snack"}
	case 6:
		return []string{"breakfast", "morning snack", "lunch", "afternoon snack", "dinner", "evening snack"}
	default:
		return []string{"breakfast", "lunch", "dinner"}
	}
}

// PriceStyle maps cooking effort to the grocery-pricing edition named in the
// prompt.
func PriceStyle(cookingEffort string) string {
	switch strings.ToLower(cookingEffort) {
	case "gourmet":
		return "Gourmet Edition"
	case "budget":
		return "Budget Edition"
	default:
		return "Normal Edition"
	}
}

// CalorieTarget returns the requested daily calorie target, or derives one
// from the Harris-Benedict BMR with a sedentary activity factor, shifted
// 500 kcal by goal.
func CalorieTarget(p Preferences) int {
	if p.CaloriesTarget != nil {
		return *p.CaloriesTarget
	}

	var bmr float64
	if p.Sex == "male" {
		bmr = 88.362 + 13.397*p.WeightKg + 4.799*float64(p.HeightCm) - 5.677*float64(p.Age)
	} else {
		bmr = 447.593 + 9.247*p.WeightKg + 3.098*float64(p.HeightCm) - 4.330*float64(p.Age)
	}
	tdee := bmr * 1.2

	switch p.Goal {
	case "lose":
		return int(tdee - 500)
	case "gain":
		return int(tdee + 500)
	default:
		return int(tdee)
	}
}

type promptData struct {
	Preferences
	HorizonDays   int
	CalorieTarget int
	MealNames     string
	AllergyList   string
	DislikeList   string
	AvoidMealList string
	PriceStyle    string
	ProteinShakes string
	ProteinPerDay int
}

// BuildPrompt renders the deterministic generation prompt for a profile and
// plan horizon. The prompt carries the strict output-schema instructions the
// repair layer depends on being mostly followed.
func BuildPrompt(p Preferences, horizonDays int) (string, error) {
	tmpl, err := template.New("plan").Parse(planPrompt)
	if err != nil {
		return "", err
	}

	data := promptData{
		Preferences:   p,
		HorizonDays:   horizonDays,
		CalorieTarget: CalorieTarget(p),
		MealNames:     strings.Join(mealSlotNames(p.MealsPerDay), ", "),
		AllergyList:   orNone(p.Allergies),
		DislikeList:   orNone(p.Dislikes),
		AvoidMealList: orNone(p.AvoidMeals),
		PriceStyle:    PriceStyle(p.CookingEffort),
		ProteinShakes: yesNo(p.IncludeProteinShakes),
		ProteinPerDay: p.MealsPerDay / 2,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func orNone(items []string) string {
	if len(items) == 0 {
		return "None"
	}
	return strings.Join(items, ", ")
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
