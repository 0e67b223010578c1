package service

import (
	"testing"
	"time"

	"github.com/peakcomfort/backend/internal/models"
)

func TestDeterminePriority(t *testing.T) {
	cases := []struct {
		serviceType string
		want        string
	}{
		{"ac-repair", models.LeadPriorityUrgent},
		{"heating-repair", models.LeadPriorityUrgent},
		{"AC-Repair", models.LeadPriorityUrgent},
		{"  heating-repair  ", models.LeadPriorityUrgent},
		{"installation", models.LeadPriorityNormal},
		{"maintenance", models.LeadPriorityNormal},
		{"ductwork", models.LeadPriorityNormal},
		{"", models.LeadPriorityNormal},
	}
	for _, tc := range cases {
		if got := DeterminePriority(tc.serviceType); got != tc.want {
			t.Errorf("DeterminePriority(%q) = %s, want %s", tc.serviceType, got, tc.want)
		}
	}
}

func TestLeadScore(t *testing.T) {
	cases := []struct {
		serviceType, priority, source string
		want                          int
	}{
		{"maintenance", models.LeadPriorityNormal, models.SourceWebsite, 5},
		{"ac-repair", models.LeadPriorityUrgent, models.SourceWebsite, 8},
		{"installation", models.LeadPriorityNormal, models.SourceWebsite, 7},
		{"installation", models.LeadPriorityNormal, models.SourceAIChat, 8},
		// 5 + 3 + 2 + 1 would be 11; capped.
		{"installation", models.LeadPriorityUrgent, models.SourceAIChat, 10},
		{"ac-installation", models.LeadPriorityUrgent, models.SourceWebsite, 10},
	}
	for _, tc := range cases {
		got := LeadScore(tc.serviceType, tc.priority, tc.source)
		if got != tc.want {
			t.Errorf("LeadScore(%q, %s, %s) = %d, want %d", tc.serviceType, tc.priority, tc.source, got, tc.want)
		}
	}
}

func TestMapLeadPriority(t *testing.T) {
	if got := MapLeadPriority(models.LeadPriorityUrgent); got != models.PriorityHigh {
		t.Fatalf("urgent mapped to %s", got)
	}
	if got := MapLeadPriority(models.LeadPriorityNormal); got != models.PriorityNormal {
		t.Fatalf("normal mapped to %s", got)
	}
	if got := MapLeadPriority("whatever"); got != models.PriorityNormal {
		t.Fatalf("unknown mapped to %s", got)
	}
}

func TestNormalizePriority(t *testing.T) {
	cases := []struct {
		raw, fallback, want string
	}{
		{"low", "normal", models.PriorityLow},
		{"normal", "high", models.PriorityNormal},
		{"medium", "high", models.PriorityNormal},
		{"high", "normal", models.PriorityHigh},
		{"urgent", "normal", models.PriorityHigh},
		{"URGENT ", "normal", models.PriorityHigh},
		{"emergency", "normal", models.PriorityEmergency},
		{"asap", "normal", models.PriorityNormal},
		{"", "high", models.PriorityHigh},
	}
	for _, tc := range cases {
		if got := NormalizePriority(tc.raw, tc.fallback); got != tc.want {
			t.Errorf("NormalizePriority(%q, %q) = %s, want %s", tc.raw, tc.fallback, got, tc.want)
		}
	}
}

func TestDefaultServiceDate(t *testing.T) {
	now := time.Date(2025, 3, 10, 15, 30, 45, 0, time.UTC)
	cases := []struct {
		priority string
		wantDay  int
	}{
		{models.PriorityEmergency, 10},
		{models.PriorityHigh, 11},
		{models.PriorityNormal, 13},
		{"medium", 13},
		{models.PriorityLow, 17},
		{"", 17},
	}
	for _, tc := range cases {
		got := DefaultServiceDate(tc.priority, now)
		if got.Day() != tc.wantDay {
			t.Errorf("DefaultServiceDate(%q) day = %d, want %d", tc.priority, got.Day(), tc.wantDay)
		}
		if got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 {
			t.Errorf("DefaultServiceDate(%q) not truncated to midnight: %v", tc.priority, got)
		}
	}
}
