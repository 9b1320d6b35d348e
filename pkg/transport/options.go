package transport

import (
	"encoding/json"
	"fmt"

	"github.com/treelinehq/treeline/pkg/types"
)

// RulesetRef references a ruleset either by a resolved object or by id.
// The wire form is either the full ruleset object or a plain string; an
// empty-string id means "no ruleset".
type RulesetRef struct {
	Ruleset *types.Ruleset
	ID      string
}

// RulesetByID returns a reference by identifier.
func RulesetByID(id string) RulesetRef {
	return RulesetRef{ID: id}
}

// RulesetByObject returns a reference carrying the resolved ruleset.
func RulesetByObject(rs *types.Ruleset) RulesetRef {
	return RulesetRef{Ruleset: rs}
}

// ResolvedID returns the ruleset id the reference points at.
func (r RulesetRef) ResolvedID() string {
	if r.Ruleset != nil {
		return r.Ruleset.ID
	}
	return r.ID
}

func (r RulesetRef) MarshalJSON() ([]byte, error) {
	if r.Ruleset != nil {
		return json.Marshal(r.Ruleset)
	}
	return json.Marshal(r.ID)
}

func (r *RulesetRef) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		r.Ruleset = nil
		return json.Unmarshal(data, &r.ID)
	}
	r.ID = ""
	r.Ruleset = &types.Ruleset{}
	if err := json.Unmarshal(data, r.Ruleset); err != nil {
		return fmt.Errorf("ruleset reference must be a string or an object: %w", err)
	}
	return nil
}

// PrevState is the previous-state descriptor of a hierarchy comparison.
type PrevState struct {
	Ruleset          *RulesetRef             `json:"rulesetOrId,omitempty"`
	RulesetVariables []types.RulesetVariable `json:"rulesetVariables,omitempty"`
}

// Empty reports whether the descriptor carries no distinguishing fields.
func (p *PrevState) Empty() bool {
	if p == nil {
		return true
	}
	return p.Ruleset == nil && len(p.RulesetVariables) == 0
}

// RequestOptions is the canonical request accepted by every transport
// operation. It is produced exclusively by the manager's options builder;
// RulesetVariables is never nil on a built request.
type RequestOptions struct {
	// Token is the serialized connection handle.
	Token string `json:"token"`

	Locale     string           `json:"locale,omitempty"`
	UnitSystem types.UnitSystem `json:"unitSystem,omitempty"`

	Ruleset          RulesetRef              `json:"rulesetOrId"`
	RulesetVariables []types.RulesetVariable `json:"rulesetVariables"`

	Paging *types.PagingWindow `json:"paging,omitempty"`

	// Hierarchy operations
	ParentKey   *types.NodeKey        `json:"parentKey,omitempty"`
	Paths       [][]types.InstanceKey `json:"paths,omitempty"`
	MarkedIndex int                   `json:"markedIndex,omitempty"`
	FilterText  string                `json:"filterText,omitempty"`

	// Content operations
	DisplayType string              `json:"displayType,omitempty"`
	Keys        []types.InstanceKey `json:"keys,omitempty"`
	Descriptor  *types.Descriptor   `json:"descriptor,omitempty"`
	FieldName   string              `json:"fieldName,omitempty"`

	// Hierarchy comparison
	Prev             *PrevState      `json:"prev,omitempty"`
	ExpandedNodeKeys []types.NodeKey `json:"expandedNodeKeys,omitempty"`
}

// WithPaging returns a shallow copy of the options carrying the given window.
// The assembler uses it to advance the window between round trips without
// mutating the caller's request.
func (o *RequestOptions) WithPaging(window types.PagingWindow) *RequestOptions {
	clone := *o
	clone.Paging = &window
	return &clone
}

// ContentPage is the result of a paged content request: the authoritative
// total plus the content window. Content is nil when the server has nothing
// to return for the input keys.
type ContentPage struct {
	Total   int            `json:"total"`
	Content *types.Content `json:"content,omitempty"`
}
