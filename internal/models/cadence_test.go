package models

import "testing"

// TestDefaultCadenceDays verifies the name-based interval heuristic,
// including the rule precedence: heavy beats compound, and the cardio rule
// beats the accessory rule for overlapping substrings like "row".
func TestDefaultCadenceDays(t *testing.T) {
	tests := []struct {
		name string
		want int
	}{
		{"Back Squat", 7},
		{"Bench Press", 7},
		{"Power Clean", 7},
		{"Heavy Deadlift", 2},
		{"Max Effort Snatch", 2},
		{"Run 400m", 1},
		{"Row 500m", 1},
		// "row" sits in both the cardio and accessory vocabularies;
		// the cardio rule is declared first and wins.
		{"Bent Over Row", 1},
		{"Bicep Curl", 3},
		{"Plank", 3},
		{"Burpee", 3},
		// No rule matches: fall back to twice-weekly.
		{"Handstand Hold", 3},
		{"Turkish Get-Up", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DefaultCadenceDays(tt.name); got != tt.want {
				t.Errorf("DefaultCadenceDays(%q) = %d, want %d", tt.name, got, tt.want)
			}
		})
	}
}

// TestDefaultCadenceDaysCaseInsensitive verifies matching ignores casing,
// since seeded names arrive in display casing.
func TestDefaultCadenceDaysCaseInsensitive(t *testing.T) {
	if got := DefaultCadenceDays("BACK SQUAT"); got != 7 {
		t.Errorf("DefaultCadenceDays(BACK SQUAT) = %d, want 7", got)
	}
}
