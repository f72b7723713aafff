package mealplan

// FallbackPlan returns the fixed plan served when every generation attempt
// has failed and the fallback policy is active. A fresh value is built per
// call so callers can never share or mutate a common instance.
func FallbackPlan() *MealPlan {
	return &MealPlan{
		Plan: []DayPlan{
			{
				Day: 1,
				Meals: []Meal{
					{
						Name:     "Breakfast: Oatmeal with berries",
						Kcal:     350,
						ProteinG: 12,
						CarbsG:   65,
						FatG:     8,
						Ingredients: []Ingredient{
							{Item: "Rolled oats", Qty: "1/2 cup"},
							{Item: "Mixed berries", Qty: "1/2 cup"},
							{Item: "Almond milk", Qty: "1 cup"},
						},
						Steps: []string{
							"Cook oats with almond milk for 5 minutes",
							"Top with fresh berries",
							"Serve warm",
						},
					},
					{
						Name:     "Lunch: Grilled chicken salad",
						Kcal:     450,
						ProteinG: 35,
						CarbsG:   25,
						FatG:     20,
						Ingredients: []Ingredient{
							{Item: "Chicken breast", Qty: "150g"},
							{Item: "Mixed greens", Qty: "2 cups"},
							{Item: "Olive oil", Qty: "1 tbsp"},
						},
						Steps: []string{
							"Grill chicken breast until cooked through",
							"Toss greens with olive oil",
							"Slice chicken and serve over salad",
						},
					},
					{
						Name:     "Dinner: Salmon with quinoa",
						Kcal:     500,
						ProteinG: 40,
						CarbsG:   45,
						FatG:     25,
						Ingredients: []Ingredient{
							{Item: "Salmon fillet", Qty: "150g"},
							{Item: "Quinoa", Qty: "1/2 cup"},
							{Item: "Broccoli", Qty: "1 cup"},
						},
						Steps: []string{
							"Cook quinoa according to package directions",
							"Pan-sear salmon for 4-5 minutes per side",
							"Steam broccoli until tender",
							"Serve salmon over quinoa with broccoli",
						},
					},
				},
			},
		},
		Totals: Totals{
			Kcal:     1300,
			ProteinG: 87,
			CarbsG:   135,
			FatG:     53,
		},
		Groceries: []GroceryCategory{
			{Category: "Proteins", Items: []string{"Chicken breast", "Salmon fillet"}},
			{Category: "Grains", Items: []string{"Rolled oats", "Quinoa"}},
			{Category: "Vegetables", Items: []string{"Mixed greens", "Broccoli", "Mixed berries"}},
			{Category: "Dairy/Alternatives", Items: []string{"Almond milk"}},
			{Category: "Pantry", Items: []string{"Olive oil"}},
		},
	}
}
