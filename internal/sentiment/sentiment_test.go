package sentiment

import "testing"

func TestScore(t *testing.T) {
	testCases := []struct {
		name        string
		description string
		expected    int
	}{
		{
			name:        "Neutral text",
			description: "The power went out at 6pm in our street.",
			expected:    0,
		},
		{
			name:        "Recurring complaint",
			description: "Brownout again, third time this week.",
			expected:    -4,
		},
		{
			name:        "Livelihood impact",
			description: "I work from home and missed a deadline because of this.",
			expected:    -4,
		},
		{
			name:        "Property damage",
			description: "The transformer exploded with sparks near our house.",
			expected:    -6,
		},
		{
			name:        "Gratitude",
			description: "Power was restored quickly, thank you BENECO crew!",
			expected:    2,
		},
		{
			name:        "Mixed negative and positive",
			description: "It went out again but thanks for the fast response.",
			expected:    -1,
		},
		{
			name:        "Case insensitive",
			description: "FIRE near the pole, EVERY DAY this happens AGAIN",
			expected:    -7,
		},
		{
			name: "Clamped at lower bound",
			description: "Fire and sparks, the transformer exploded and burned, " +
				"again and again, every day, na naman, third time, it keeps going out, " +
				"my business and livelihood and income are gone, wfh deadline missed",
			expected: MinScore,
		},
		{
			name:        "Empty description",
			description: "",
			expected:    0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Score(tc.description)
			if got != tc.expected {
				t.Errorf("Score(%q) = %d, want %d", tc.description, got, tc.expected)
			}
		})
	}
}

func TestScoreDeterministic(t *testing.T) {
	text := "outage again, sparks near the store"
	first := Score(text)
	for i := 0; i < 5; i++ {
		if got := Score(text); got != first {
			t.Fatalf("Score not deterministic: got %d then %d", first, got)
		}
	}
}
