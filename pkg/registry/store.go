package registry

import (
	"github.com/treelinehq/treeline/pkg/types"
)

// Store defines the persistence boundary for rulesets and per-ruleset
// variable defaults. Implemented by the BoltDB-backed store.
type Store interface {
	// Rulesets
	PutRuleset(ruleset *types.Ruleset) error
	GetRuleset(id string) (*types.Ruleset, error)
	ListRulesets() ([]*types.Ruleset, error)
	DeleteRuleset(id string) error

	// Variable defaults pushed to the backend on first connection use
	PutVariables(rulesetID string, vars []types.RulesetVariable) error
	GetVariables(rulesetID string) ([]types.RulesetVariable, error)

	// Utility
	Close() error
}
