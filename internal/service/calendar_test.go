package service

import (
	"testing"

	"github.com/peakcomfort/backend/internal/models"
)

func TestEventColorPriorityWins(t *testing.T) {
	// Emergency beats every technician and status rule.
	if got := EventColor(models.PriorityEmergency, "Mike Torres", models.StatusCompleted); got != ColorEmergency {
		t.Fatalf("emergency color = %s", got)
	}
	if got := EventColor(models.PriorityHigh, "Sarah Chen", models.StatusScheduled); got != ColorHigh {
		t.Fatalf("high color = %s", got)
	}
}

func TestEventColorTechnicianOverrides(t *testing.T) {
	if got := EventColor(models.PriorityNormal, "Mike Torres", models.StatusScheduled); got != ColorTechMike {
		t.Fatalf("mike color = %s", got)
	}
	if got := EventColor(models.PriorityNormal, "SARAH CHEN", models.StatusCompleted); got != ColorTechSarah {
		t.Fatalf("sarah color = %s", got)
	}
	// Mike is checked before Sarah when both match.
	if got := EventColor(models.PriorityNormal, "Mike and Sarah", models.StatusScheduled); got != ColorTechMike {
		t.Fatalf("combined name color = %s", got)
	}
}

func TestEventColorStatusFallback(t *testing.T) {
	cases := []struct {
		status string
		want   string
	}{
		{models.StatusScheduled, ColorScheduled},
		{models.StatusInProgress, ColorInProgress},
		{models.StatusCompleted, ColorCompleted},
		{models.StatusCancelled, ColorCancelled},
		{models.StatusPending, ColorDefault},
		{"", ColorDefault},
		{"garbage", ColorDefault},
	}
	for _, tc := range cases {
		if got := EventColor(models.PriorityNormal, "Dave", tc.status); got != tc.want {
			t.Errorf("EventColor(normal, Dave, %q) = %s, want %s", tc.status, got, tc.want)
		}
	}
}

func TestEventColorTotal(t *testing.T) {
	// Never an empty string regardless of input.
	for _, p := range []string{"", "low", "normal", "high", "emergency", "junk"} {
		for _, s := range []string{"", "pending", "junk"} {
			if EventColor(p, "", s) == "" {
				t.Fatalf("empty color for priority=%q status=%q", p, s)
			}
		}
	}
}
