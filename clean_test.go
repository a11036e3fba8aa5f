package transmem

import "testing"

func TestCleanTranslation(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "clean text unchanged",
			input:    "Bonjour le monde.",
			expected: "Bonjour le monde.",
		},
		{
			name:     "translation label prefix",
			input:    "Translation: Bonjour le monde.",
			expected: "Bonjour le monde.",
		},
		{
			name:     "translated text label prefix",
			input:    "Translated text: Bonjour le monde.",
			expected: "Bonjour le monde.",
		},
		{
			name:     "apology prefix with comma",
			input:    "I'm sorry, Bonjour le monde.",
			expected: "Bonjour le monde.",
		},
		{
			name:     "apologize prefix",
			input:    "I apologize, Bonjour.",
			expected: "Bonjour.",
		},
		{
			name:     "whitespace runs collapse",
			input:    "Bonjour   le\n monde.",
			expected: "Bonjour le monde.",
		},
		{
			name:     "space before punctuation removed",
			input:    "Bonjour , le monde !",
			expected: "Bonjour, le monde!",
		},
		{
			name:     "surrounding whitespace trimmed",
			input:    "  Bonjour le monde.  ",
			expected: "Bonjour le monde.",
		},
		{
			name:     "prefix only in leading position",
			input:    "Elle a dit Translation: rien",
			expected: "Elle a dit Translation: rien",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CleanTranslation(tt.input)
			if result != tt.expected {
				t.Errorf("CleanTranslation(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}
