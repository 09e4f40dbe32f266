// Package replay feeds recorded per-user message sequences through a fresh
// engine and compares the gate's behavior against expectations. Fixtures
// double as regression tests for catalog and threshold changes.
package replay

// #region imports
import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/danielpatrickdp/psycore/internal/session"
)

// #endregion

// #region fixture-types

// Fixture is the top-level JSON structure for a replay run.
type Fixture struct {
	Description string        `json:"description"`
	Users       []FixtureUser `json:"users"`
}

// FixtureUser is one user's recorded message sequence.
type FixtureUser struct {
	UserID   string           `json:"user_id"`
	Messages []FixtureMessage `json:"messages"`
}

// FixtureMessage is one recorded turn with optional expectations. Empty
// expectation fields are not checked.
type FixtureMessage struct {
	Text    string          `json:"text"`
	Context session.Context `json:"context,omitempty"`

	ExpectedMaxDepth     string `json:"expected_max_depth,omitempty"`
	ExpectedIntervention string `json:"expected_intervention,omitempty"`
}

// #endregion

// #region load

// LoadFixture reads and validates a fixture file.
func LoadFixture(path string) (Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return Fixture{}, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	if len(f.Users) == 0 {
		return Fixture{}, fmt.Errorf("fixture %s: no users", path)
	}
	for _, u := range f.Users {
		if u.UserID == "" {
			return Fixture{}, fmt.Errorf("fixture %s: user with empty id", path)
		}
		if len(u.Messages) == 0 {
			return Fixture{}, fmt.Errorf("fixture %s: user %s has no messages", path, u.UserID)
		}
	}
	return f, nil
}

// #endregion
