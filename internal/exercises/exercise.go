package exercises

type Exercise struct {
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	Steps             []string `json:"steps"`
	CaloriesPerMinute float64  `json:"caloriesPerMinute"`
	CO2PerMinute      float64  `json:"co2PerMinute"` // grams saved per minute
	Difficulty        int      `json:"difficulty"`   // 1-10
	MuscleGroup       string   `json:"muscleGroup"`
	PointsReward      int      `json:"pointsReward"`
	Image             string   `json:"image,omitempty"`
}

// seed is the compiled-in exercise list, in catalog order
var seed = []Exercise{
	{
		Name:              "Push-ups",
		Description:       "Upper body strength exercise",
		CaloriesPerMinute: 8.0,
		CO2PerMinute:      2.5,
		Difficulty:        5,
		MuscleGroup:       "Chest, Triceps, Shoulders",
		PointsReward:      5,
		Steps: []string{
			"Start in a plank position with hands slightly wider than shoulder-width.",
			"Lower your body until your chest nearly touches the floor.",
			"Push yourself back up to the starting position.",
			"Keep your core tight and back straight throughout the movement.",
		},
	},
	{
		Name:              "Squats",
		Description:       "Lower body strength exercise",
		CaloriesPerMinute: 8.5,
		CO2PerMinute:      2.8,
		Difficulty:        4,
		MuscleGroup:       "Quadriceps, Glutes, Hamstrings",
		PointsReward:      5,
		Steps: []string{
			"Stand with feet shoulder-width apart.",
			"Bend your knees and lower your body as if sitting in a chair.",
			"Keep your back straight and knees over your toes.",
			"Return to standing position.",
		},
	},
	{
		Name:              "Running",
		Description:       "Cardiovascular endurance exercise",
		CaloriesPerMinute: 12.0,
		CO2PerMinute:      3.5,
		Difficulty:        6,
		MuscleGroup:       "Full Body, Cardio",
		PointsReward:      8,
		Steps: []string{
			"Start with a light warm-up walk or jog.",
			"Increase your pace to a comfortable running speed.",
			"Keep your back straight and look ahead.",
			"Land on the middle of your foot and roll through to the toe.",
			"Breathe naturally and maintain a steady pace.",
		},
	},
	{
		Name:              "Cycling",
		Description:       "Lower body and cardiovascular exercise",
		CaloriesPerMinute: 10.0,
		CO2PerMinute:      5.0,
		Difficulty:        5,
		MuscleGroup:       "Quadriceps, Hamstrings, Cardio",
		PointsReward:      7,
		Steps: []string{
			"Adjust the seat height so your leg is almost fully extended at the bottom of the pedal stroke.",
			"Start pedaling at a comfortable pace.",
			"Keep your back straight and core engaged.",
			"Increase resistance for a harder workout or decrease for an easier one.",
		},
	},
	{
		Name:              "Jumping Jacks",
		Description:       "Full body cardio exercise",
		CaloriesPerMinute: 8.0,
		CO2PerMinute:      2.0,
		Difficulty:        3,
		MuscleGroup:       "Full Body, Cardio",
		PointsReward:      4,
		Steps: []string{
			"Start standing with feet together and arms at your sides.",
			"Jump and spread your feet beyond shoulder-width while raising arms overhead.",
			"Jump again and return to the starting position.",
			"Repeat at a quick pace.",
		},
	},
	{
		Name:              "Plank",
		Description:       "Core strength and stability exercise",
		CaloriesPerMinute: 5.0,
		CO2PerMinute:      1.5,
		Difficulty:        7,
		MuscleGroup:       "Core, Shoulders",
		PointsReward:      6,
		Steps: []string{
			"Start in a push-up position but with your weight on your forearms.",
			"Keep your body in a straight line from head to heels.",
			"Engage your core and hold the position.",
			"Breathe normally and maintain proper form.",
		},
	},
	{
		Name:              "Mountain Climbers",
		Description:       "Full body cardio and core exercise",
		CaloriesPerMinute: 9.0,
		CO2PerMinute:      2.7,
		Difficulty:        8,
		MuscleGroup:       "Core, Cardio",
		PointsReward:      10,
		Steps: []string{
			"Start in a plank position with arms straight.",
			"Bring one knee toward your chest.",
			"Quickly switch legs, bringing the other knee forward.",
			"Continue alternating legs at a fast pace.",
		},
	},
}
