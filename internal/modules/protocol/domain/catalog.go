package domain

var (
	lightStandard = Step{
		ID:              "light-standard",
		Name:            "Light Exposure",
		DurationSeconds: 150,
		Instructions:    "Position yourself near a window or step outside. Face the light source (not directly at the sun). Let natural light reach your eyes for the next few minutes. If indoors, turn on bright lights and face them.",
		Kind:            StepLight,
	}
	lightLowLight = Step{
		ID:              "light-low-light",
		Name:            "Indoor Light Exposure",
		DurationSeconds: 180,
		Instructions:    "Turn on the brightest lights in your space. Position yourself close to the light source. If you have a desk lamp, face it directly. The goal is maximum light exposure to signal wakefulness to your brain.",
		Kind:            StepLight,
	}
	lightGentle = Step{
		ID:              "light-gentle",
		Name:            "Gentle Light Exposure",
		DurationSeconds: 120,
		Instructions:    "Open your curtains or blinds. Allow soft, natural light into your space. Position yourself comfortably where light can reach you. No need for harsh brightness.",
		Kind:            StepLight,
	}

	breathStandard = Step{
		ID:              "breath-standard",
		Name:            "Energizing Breathwork",
		DurationSeconds: 180,
		Instructions:    "Follow the breathing pattern: Inhale deeply through your nose, brief hold, then exhale through your mouth. This pattern activates your alertness system.",
		Kind:            StepBreath,
		BreathCadence:   &BreathCadence{InhaleSeconds: 4, HoldSeconds: 2, ExhaleSeconds: 4, Cycles: 18},
	}
	breathGentle = Step{
		ID:              "breath-gentle",
		Name:            "Gentle Breathwork",
		DurationSeconds: 180,
		Instructions:    "Breathe slowly and naturally. Inhale through your nose, pause briefly, exhale through your mouth. Keep it comfortable and relaxed.",
		Kind:            StepBreath,
		BreathCadence:   &BreathCadence{InhaleSeconds: 5, HoldSeconds: 1, ExhaleSeconds: 5, Cycles: 16},
	}
	breathIntense = Step{
		ID:              "breath-intense",
		Name:            "Energizing Breathwork",
		DurationSeconds: 180,
		Instructions:    "Follow the breathing pattern with slightly faster cadence: Quick inhale, brief hold, strong exhale. This pattern boosts alertness.",
		Kind:            StepBreath,
		BreathCadence:   &BreathCadence{InhaleSeconds: 3, HoldSeconds: 2, ExhaleSeconds: 3, Cycles: 22},
	}

	movementStandard = Step{
		ID:              "movement-standard",
		Name:            "Micro-Movement",
		DurationSeconds: 180,
		Instructions:    "Stand up and perform these simple movements:\n\n1. Arm circles (30 seconds)\n2. Gentle neck rolls (30 seconds)\n3. Shoulder shrugs (30 seconds)\n4. Torso twists (30 seconds)\n5. March in place (60 seconds)\n\nNo equipment needed. Move at your own pace.",
		Kind:            StepMovement,
	}
	movementGentle = Step{
		ID:              "movement-gentle",
		Name:            "Gentle Movement",
		DurationSeconds: 150,
		Instructions:    "While seated or standing:\n\n1. Slowly roll your shoulders (30 seconds)\n2. Gentle neck stretches (30 seconds)\n3. Wiggle your fingers and toes (30 seconds)\n4. Gentle arm stretches (30 seconds)\n5. Deep breaths while stretching (30 seconds)",
		Kind:            StepMovement,
	}
	movementExtended = Step{
		ID:              "movement-extended",
		Name:            "Active Movement",
		DurationSeconds: 210,
		Instructions:    "Stand up and energize:\n\n1. Arm circles (30 seconds)\n2. Jumping jacks or high knees (45 seconds)\n3. Torso twists (30 seconds)\n4. Squats (30 seconds)\n5. March in place with arm swings (45 seconds)",
		Kind:            StepMovement,
	}

	hydration = Step{
		ID:              "hydration",
		Name:            "Hydration",
		DurationSeconds: 90,
		Instructions:    "Drink a full glass of water (8-16 oz). Your body has been without water for hours. Hydration helps:\n\n- Boost energy levels\n- Improve cognitive function\n- Kickstart metabolism\n\nSip steadily, no need to rush.",
		Kind:            StepHydration,
	}

	maintenanceLight = Step{
		ID:              "light-maintenance",
		Name:            "Quick Light",
		DurationSeconds: 60,
		Instructions:    "Get near a light source. Face the light for one minute.",
		Kind:            StepLight,
	}
	maintenanceBreath = Step{
		ID:              "breath-maintenance",
		Name:            "Quick Breath",
		DurationSeconds: 60,
		Instructions:    "Take 6 deep breaths. Inhale 4 seconds, exhale 4 seconds.",
		Kind:            StepBreath,
		BreathCadence:   &BreathCadence{InhaleSeconds: 4, HoldSeconds: 0, ExhaleSeconds: 4, Cycles: 6},
	}
	maintenanceHydration = Step{
		ID:              "hydration-maintenance",
		Name:            "Hydrate",
		DurationSeconds: 60,
		Instructions:    "Drink a glass of water.",
		Kind:            StepHydration,
	}
)

// clone detaches a catalog step so callers can never mutate the shared entry.
func clone(s Step) Step {
	if s.BreathCadence != nil {
		c := *s.BreathCadence
		s.BreathCadence = &c
	}
	return s
}
