package querytext

import (
	"testing"
)

// runStringTransformationTest is a helper to run tests for string transformation functions.
func runStringTransformationTest(t *testing.T, testName string,
	transformFunc func(string) string, testCases []struct {
		name     string
		input    string
		expected string
	}) {
	t.Helper()
	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			result := transformFunc(tt.input)
			if result != tt.expected {
				t.Errorf("%s() = %q, want %q", testName, result, tt.expected)
			}
		})
	}
}

func TestCleaner_CleanTitle(t *testing.T) {
	cleaner := NewCleaner()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Simple title",
			input:    "Hey Jude",
			expected: "Hey Jude",
		},
		{
			name:     "Featuring in parentheses",
			input:    "Get Lucky (feat. Pharrell Williams)",
			expected: "Get Lucky",
		},
		{
			name:     "Featuring after dash",
			input:    "Song - ft. Someone",
			expected: "Song",
		},
		{
			name:     "Featuring in square brackets",
			input:    "Song [Featuring Someone]",
			expected: "Song",
		},
		{
			name:     "Feat as a plain word is kept",
			input:    "A Great Feat of Courage",
			expected: "A Great Feat of Courage",
		},
		{
			name:     "Ft abbreviation in a place name is kept",
			input:    "Welcome to Ft. Lauderdale",
			expected: "Welcome to Ft. Lauderdale",
		},
		{
			name:     "Word containing ft is kept",
			input:    "Left Behind",
			expected: "Left Behind",
		},
		{
			name:     "Dash remaster suffix",
			input:    "Bohemian Rhapsody - Remastered 2011",
			expected: "Bohemian Rhapsody",
		},
		{
			name:     "Bracketed deluxe edition",
			input:    "Wonderwall (Deluxe Edition)",
			expected: "Wonderwall",
		},
		{
			name:     "Unrelated dash suffix is kept",
			input:    "Here Comes The Sun - 2019 Mix",
			expected: "Here Comes The Sun - 2019 Mix",
		},
		{
			name:     "Extra whitespace",
			input:    "  One   More  Time ",
			expected: "One More Time",
		},
		{
			name:     "Decomposed accent is composed",
			input:    "Beyonce\u0301",
			expected: "Beyonc\u00e9",
		},
	}

	runStringTransformationTest(t, "CleanTitle", cleaner.CleanTitle, tests)
}

func TestCleaner_VideoQuery(t *testing.T) {
	cleaner := NewCleaner()

	tests := []struct {
		name     string
		title    string
		artist   string
		expected string
	}{
		{"Title and artist", "One More Time", "Daft Punk", "One More Time Daft Punk"},
		{"Featuring removed", "Get Lucky (feat. Pharrell Williams)", "Daft Punk", "Get Lucky Daft Punk"},
		{"Missing artist", "Hey Jude", "", "Hey Jude"},
		{"Feat word in title", "A Great Feat of Courage", "Artist", "A Great Feat of Courage Artist"},
		{"Ft in title", "Welcome to Ft. Lauderdale", "Artist", "Welcome to Ft. Lauderdale Artist"},
		{"Missing title", "", "Daft Punk", "Daft Punk"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleaner.VideoQuery(tt.title, tt.artist); got != tt.expected {
				t.Errorf("VideoQuery(%q, %q) = %q, want %q", tt.title, tt.artist, got, tt.expected)
			}
		})
	}
}
