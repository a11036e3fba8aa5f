package provider

import (
	"context"
	"fmt"
	"sync"
)

// Mock is a scripted provider for testing.
type Mock struct {
	mu           sync.Mutex
	Translations map[string]string // source text to translation
	Err          error             // when set, every call fails with it
	CallCount    int               // number of times Translate was called
	LastText     string            // last text received
	LastPair     string            // last pair received
}

// NewMock creates a mock provider with a few stock translations.
func NewMock() *Mock {
	return &Mock{
		Translations: map[string]string{
			"Hello world":     "Bonjour le monde",
			"Hello world.":    "Bonjour le monde.",
			"This is a test.": "Ceci est un test.",
			"New line here.":  "Nouvelle ligne ici.",
			"Good morning":    "Bonjour",
		},
	}
}

// Translate returns the scripted translation, or the text wrapped in
// brackets when no script entry exists.
func (m *Mock) Translate(ctx context.Context, text, pair string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CallCount++
	m.LastText = text
	m.LastPair = pair

	if m.Err != nil {
		return "", m.Err
	}
	if translation, ok := m.Translations[text]; ok {
		return translation, nil
	}
	return fmt.Sprintf("[%s]", text), nil
}

// Reset clears the call count and the recorded last request.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CallCount = 0
	m.LastText = ""
	m.LastPair = ""
}

// Calls returns the call count.
func (m *Mock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CallCount
}

// Verify Mock implements Provider.
var _ Provider = (*Mock)(nil)
