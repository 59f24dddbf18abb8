package controller

import (
	"testing"

	"github.com/aliher1911/rollerblind/actuator"

	"github.com/stretchr/testify/require"
)

func TestResolveTable(t *testing.T) {
	cases := []struct {
		action Action
		orient Orientation
		want   actuator.Direction
	}{
		{RollUp, Normal, actuator.CW},
		{RollDown, Normal, actuator.CCW},
		{NudgeUp, Normal, actuator.CCW},
		{NudgeDown, Normal, actuator.CW},
		{Calibrate, Normal, actuator.CCW},
		{RollUp, Reversed, actuator.CCW},
		{RollDown, Reversed, actuator.CW},
		{NudgeUp, Reversed, actuator.CW},
		{NudgeDown, Reversed, actuator.CCW},
		{Calibrate, Reversed, actuator.CW},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, Resolve(tc.action, tc.orient), "%s/%s", tc.action, tc.orient)
	}
}

func TestResolveFlipSymmetry(t *testing.T) {
	actions := []Action{RollUp, RollDown, NudgeUp, NudgeDown, Calibrate}
	for _, o := range []Orientation{Normal, Reversed} {
		for _, a := range actions {
			require.Equal(t, Resolve(a, o), Resolve(a, o.Flip()).Opposite(), "%s/%s", a, o)
			require.Equal(t, Resolve(a, o), Resolve(a, o.Flip().Flip()), "%s/%s", a, o)
		}
	}
}
