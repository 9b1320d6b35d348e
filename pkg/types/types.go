package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// PagingWindow describes a sub-range of a larger ordered result.
// A zero Size means "unbounded from Start".
type PagingWindow struct {
	Start int `json:"start"`
	Size  int `json:"size,omitempty"`
}

// PagedResult is a window of an ordered collection together with the
// authoritative total count as of the first call in an assembly sequence.
type PagedResult[T any] struct {
	Total int `json:"total"`
	Items []T `json:"items"`
}

// VariableType identifies the value type of a ruleset variable.
type VariableType string

const (
	VariableTypeString    VariableType = "string"
	VariableTypeBool      VariableType = "bool"
	VariableTypeInt       VariableType = "int"
	VariableTypeIntArray  VariableType = "int[]"
	VariableTypeID64      VariableType = "id64"
	VariableTypeID64Array VariableType = "id64[]"
)

// RulesetVariable is a named, typed value scoped to a ruleset id.
// Uniqueness is per (rulesetId, id). Treated as an immutable value object.
type RulesetVariable struct {
	ID    string       `json:"id"`
	Type  VariableType `json:"type"`
	Value any          `json:"value"`
}

// Ruleset is a named, versioned definition of hierarchy/content query rules.
// Rules are opaque to this client.
type Ruleset struct {
	ID      string          `json:"id"`
	Version string          `json:"version,omitempty"`
	Rules   json.RawMessage `json:"rules,omitempty"`
}

// UnitSystem selects the unit system used when formatting property values.
type UnitSystem string

const (
	UnitSystemMetric      UnitSystem = "metric"
	UnitSystemImperial    UnitSystem = "imperial"
	UnitSystemUSCustomary UnitSystem = "usCustomary"
	UnitSystemUSSurvey    UnitSystem = "usSurvey"
)

// LabelDefinition is a display label together with its raw value and type.
type LabelDefinition struct {
	DisplayValue string          `json:"displayValue"`
	RawValue     json.RawMessage `json:"rawValue,omitempty"`
	TypeName     string          `json:"typeName,omitempty"`
}

// NodeKey identifies a hierarchy node by its type and path from the root.
type NodeKey struct {
	Type         string   `json:"type"`
	PathFromRoot []string `json:"pathFromRoot"`
}

// Node is a single hierarchy node returned by the presentation service.
// Extended data is carried opaquely.
type Node struct {
	Key          NodeKey         `json:"key"`
	Label        LabelDefinition `json:"label"`
	HasChildren  bool            `json:"hasChildren,omitempty"`
	Description  string          `json:"description,omitempty"`
	ExtendedData json.RawMessage `json:"extendedData,omitempty"`
}

// NodePathElement is one step of a path through the hierarchy, with the
// sub-paths branching off of it.
type NodePathElement struct {
	Node     Node              `json:"node"`
	Index    int               `json:"index"`
	IsMarked bool              `json:"isMarked,omitempty"`
	Children []NodePathElement `json:"children,omitempty"`
}

// InstanceKey identifies a domain instance whose content is being queried.
type InstanceKey struct {
	ClassName string `json:"className"`
	ID        string `json:"id"`
}

// Descriptor describes the shape of a content set: its fields, sorting and
// filtering state. Field definitions are opaque to this client.
type Descriptor struct {
	DisplayType      string          `json:"displayType"`
	Fields           json.RawMessage `json:"fields,omitempty"`
	SortingField     string          `json:"sortingField,omitempty"`
	FilterExpression string          `json:"filterExpression,omitempty"`
}

// ContentItem is a single record of a content set.
type ContentItem struct {
	PrimaryKeys   []InstanceKey              `json:"primaryKeys"`
	Label         LabelDefinition            `json:"label"`
	Values        map[string]json.RawMessage `json:"values"`
	DisplayValues map[string]json.RawMessage `json:"displayValues"`
}

// Content pairs a descriptor with the items it describes.
type Content struct {
	Descriptor Descriptor    `json:"descriptor"`
	ContentSet []ContentItem `json:"contentSet"`
}

// DisplayValueGroup is one distinct display value and the raw values that
// collapse into it.
type DisplayValueGroup struct {
	DisplayValue     string            `json:"displayValue"`
	GroupedRawValues []json.RawMessage `json:"groupedRawValues"`
}

// ChangeType identifies the kind of a hierarchy modification.
type ChangeType string

const (
	ChangeInsert ChangeType = "Insert"
	ChangeUpdate ChangeType = "Update"
	ChangeDelete ChangeType = "Delete"
)

// HierarchyChange is a single entry of a hierarchy comparison result.
type HierarchyChange struct {
	Type     ChangeType      `json:"type"`
	Node     *Node           `json:"node,omitempty"`
	Target   *NodeKey        `json:"target,omitempty"`
	Parent   *NodeKey        `json:"parent,omitempty"`
	Position int             `json:"position,omitempty"`
	Changes  json.RawMessage `json:"changes,omitempty"`
}

// fullUpdateToken is the wire form of a full-invalidation update value.
var fullUpdateToken = []byte(`"FULL"`)

// UpdateValue is either a full-invalidation marker or an ordered list of
// partial changes. The wire form is the string "FULL" or a JSON array.
type UpdateValue struct {
	Full    bool
	Changes []json.RawMessage
}

// FullUpdate is the update value signalling that everything changed.
var FullUpdate = UpdateValue{Full: true}

func (v UpdateValue) MarshalJSON() ([]byte, error) {
	if v.Full {
		return fullUpdateToken, nil
	}
	if v.Changes == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(v.Changes)
}

func (v *UpdateValue) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), fullUpdateToken) {
		v.Full = true
		v.Changes = nil
		return nil
	}
	v.Full = false
	if err := json.Unmarshal(data, &v.Changes); err != nil {
		return fmt.Errorf("update value must be %q or an array: %w", "FULL", err)
	}
	return nil
}

// UpdateRecord describes what changed for a single ruleset. A record with
// neither field set is ignored by the router.
type UpdateRecord struct {
	Hierarchy *UpdateValue `json:"hierarchy,omitempty"`
	Content   *UpdateValue `json:"content,omitempty"`
}

// UpdateInfo maps ruleset ids to what changed for each of them. It is the
// payload of a push-channel update notification.
type UpdateInfo map[string]UpdateRecord
