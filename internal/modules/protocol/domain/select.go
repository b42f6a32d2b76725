package domain

import "fmt"

const (
	adaptationWindow  = 3
	intenseDeltaAbove = 5
	maintenancePrefix = "maintenance-"
	maintenanceName   = "Maintenance Protocol"
)

// Select builds the protocol for a day. recentDeltas are post-minus-pre score
// changes of completed sessions, oldest first; only the last three count.
func Select(ctx Context, dayIndex int, recentDeltas []int) Protocol {
	ctx = ctx.normalized()
	gentler := lastWindowAll(recentDeltas, func(d int) bool { return d <= 0 })
	intense := lastWindowAll(recentDeltas, func(d int) bool { return d > intenseDeltaAbove })

	var light, breath, movement Step
	switch ctx {
	case ContextLowLight:
		light = lightLowLight
		breath = breathStandard
		if gentler {
			breath = breathGentle
		}
		movement = movementStandard
		if intense {
			movement = movementExtended
		}
	case ContextGentle:
		light, breath, movement = lightGentle, breathGentle, movementGentle
	default:
		light = lightStandard
		switch {
		case gentler:
			breath = breathGentle
		case intense:
			breath = breathIntense
		default:
			breath = breathStandard
		}
		movement = movementStandard
		if intense {
			movement = movementExtended
		}
	}

	suffix := ""
	switch {
	case gentler:
		suffix = "-gentle"
	case intense:
		suffix = "-intense"
	}

	return newProtocol(
		fmt.Sprintf("%s-day%d%s", ctx, dayIndex, suffix),
		fmt.Sprintf("Day %d Protocol", dayIndex+1),
		clone(light), clone(breath), clone(movement), clone(hydration),
	)
}

// Maintenance is the fixed three-minute protocol offered once the free
// sessions are used up. Its steps do not depend on ctx.
func Maintenance(ctx Context) Protocol {
	return newProtocol(
		maintenancePrefix+string(ctx.normalized()),
		maintenanceName,
		clone(maintenanceLight), clone(maintenanceBreath), clone(maintenanceHydration),
	)
}

func lastWindowAll(deltas []int, pred func(int) bool) bool {
	if len(deltas) < adaptationWindow {
		return false
	}
	for _, d := range deltas[len(deltas)-adaptationWindow:] {
		if !pred(d) {
			return false
		}
	}
	return true
}
