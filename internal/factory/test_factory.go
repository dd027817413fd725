package factory

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/othello/internal/dependencies/mocks"
	"github.com/mcoot/othello/internal/services/auth"
	"github.com/mcoot/othello/internal/services/search"
	"github.com/mcoot/othello/internal/storage/memory"
	"github.com/mcoot/othello/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies.
// Bots search shallowly so whole games stay fast
func NewTestApp() *TestApp {
	return NewTestAppWithDepth(2)
}

// NewTestAppWithDepth creates a test App whose engine searches at depth
func NewTestAppWithDepth(depth int) *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	authCfg := auth.DefaultConfig()
	authCfg.BcryptCost = bcrypt.MinCost

	app := newWithDependencies(store, mockClock, mockRandom, authCfg, search.Config{Depth: depth}, testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
