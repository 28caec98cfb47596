// Package wind computes worst-case headwind and crosswind components for a
// runway end from a reported surface wind, including variable-direction
// (VRB) winds and winds with a reported variability arc.
package wind

import (
	"fmt"
	"math"

	"github.com/meltinglava/enor-autorwy/internal/metar"
)

// CalculationError reports wind values that cannot be turned into
// components (out-of-range direction or negative speed). The caller is
// expected to fall back to the airport's preferred runway.
type CalculationError struct {
	Reason string
}

func (e *CalculationError) Error() string {
	return fmt.Sprintf("wind: %s", e.Reason)
}

// Components holds the worst-case wind components for one runway heading
type Components struct {
	HeadwindKt  int `json:"headwind_kt"`
	CrosswindKt int `json:"crosswind_kt"`
}

// Compute returns the worst-case headwind and crosswind for the given
// runway heading (degrees true). The gust speed is used when reported.
//
// For a fixed direction the components follow from the acute angle between
// wind and runway; a tailwind yields zero headwind, never a negative one.
// A VRB wind has no directional information, so both components are the
// full effective speed. A wind with a variability arc is maximized over a
// candidate set: the arc boundaries, the prevailing direction, and the
// exactly-perpendicular (crosswind) or exactly-aligned (headwind)
// direction when the arc contains it. The extremum of these trigonometric
// forms over a contiguous arc is always attained at one of those points.
func Compute(w metar.Wind, runwayHeading int) (Components, error) {
	if runwayHeading < 0 || runwayHeading > 359 {
		return Components{}, &CalculationError{Reason: fmt.Sprintf("runway heading %d out of range", runwayHeading)}
	}
	if w.Speed < 0 || w.Gust < 0 {
		return Components{}, &CalculationError{Reason: fmt.Sprintf("negative wind speed %d", w.Speed)}
	}
	if !w.Variable && (w.Direction < 0 || w.Direction > 359) {
		return Components{}, &CalculationError{Reason: fmt.Sprintf("wind direction %d out of range", w.Direction)}
	}

	speed := w.EffectiveSpeed()

	// VRB: no directional signal, assume the worst for both components.
	if w.Variable {
		return Components{HeadwindKt: speed, CrosswindKt: speed}, nil
	}

	if w.Range == nil {
		return Components{
			HeadwindKt:  headwind(speed, w.Direction, runwayHeading),
			CrosswindKt: crosswind(speed, w.Direction, runwayHeading),
		}, nil
	}

	return Components{
		HeadwindKt:  maxHeadwindOverArc(speed, w.Direction, *w.Range, runwayHeading),
		CrosswindKt: maxCrosswindOverArc(speed, w.Direction, *w.Range, runwayHeading),
	}, nil
}

// MaxHeadwind returns the worst-case headwind component in knots.
func MaxHeadwind(w metar.Wind, runwayHeading int) (int, error) {
	c, err := Compute(w, runwayHeading)
	if err != nil {
		return 0, err
	}
	return c.HeadwindKt, nil
}

// MaxCrosswind returns the worst-case crosswind component in knots.
func MaxCrosswind(w metar.Wind, runwayHeading int) (int, error) {
	c, err := Compute(w, runwayHeading)
	if err != nil {
		return 0, err
	}
	return c.CrosswindKt, nil
}

// diffAngle folds the difference between a wind direction and a runway
// heading into [0, 180].
func diffAngle(windDir, runwayHeading int) float64 {
	d := math.Abs(float64(windDir - runwayHeading))
	d = math.Mod(d, 360)
	if d > 180 {
		d = 360 - d
	}
	return d
}

// effectiveAngle mirrors angles above 90 degrees; the crosswind magnitude
// depends only on the acute angle to the centerline.
func effectiveAngle(d float64) float64 {
	if d <= 90 {
		return d
	}
	return 180 - d
}

func crosswind(speed, windDir, runwayHeading int) int {
	d := diffAngle(windDir, runwayHeading)
	eff := effectiveAngle(d)
	return int(math.Ceil(float64(speed) * math.Sin(eff*math.Pi/180)))
}

func headwind(speed, windDir, runwayHeading int) int {
	d := diffAngle(windDir, runwayHeading)
	if d > 90 {
		return 0
	}
	return int(math.Ceil(float64(speed) * math.Cos(d*math.Pi/180)))
}

func maxCrosswindOverArc(speed, prevailing int, arc metar.VariableRange, runwayHeading int) int {
	// Perpendicular direction inside the arc means full-speed crosswind.
	perpCW := (runwayHeading + 90) % 360
	perpCCW := (runwayHeading + 270) % 360
	if arc.Contains(perpCW) || arc.Contains(perpCCW) {
		return speed
	}

	best := 0
	for _, dir := range []int{arc.Low, arc.High, prevailing} {
		if c := crosswind(speed, dir, runwayHeading); c > best {
			best = c
		}
	}
	return best
}

func maxHeadwindOverArc(speed, prevailing int, arc metar.VariableRange, runwayHeading int) int {
	// The runway heading itself inside the arc means full-speed headwind.
	if arc.Contains(runwayHeading) {
		return speed
	}

	best := 0
	for _, dir := range []int{arc.Low, arc.High, prevailing} {
		if h := headwind(speed, dir, runwayHeading); h > best {
			best = h
		}
	}
	return best
}
