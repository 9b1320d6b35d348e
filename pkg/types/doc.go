/*
Package types defines the core data model shared by all Treeline packages.

The types package contains the domain objects exchanged with the presentation
service: hierarchy nodes, content records, ruleset definitions and variables,
paging primitives, and push-notification payloads. All wire payloads are JSON;
structures the client never interprets (rule definitions, field descriptors,
extended node data) are carried as json.RawMessage so they round-trip
untouched.

# Data Model

Paging:
  - PagingWindow: {start, size} sub-range request; size 0 means unbounded
  - PagedResult[T]: one window of items plus the authoritative total

Rulesets:
  - Ruleset: named, versioned rule definition, rules kept opaque
  - RulesetVariable: typed named value scoped to a ruleset id
  - VariableType: string, bool, int, int[], id64, id64[]

Hierarchy:
  - Node, NodeKey, NodePathElement, LabelDefinition
  - HierarchyChange: one entry of a hierarchy comparison result
    (Insert, Update, Delete)

Content:
  - Descriptor: shape of a content set (fields kept opaque)
  - ContentItem, Content, DisplayValueGroup, InstanceKey

Updates:
  - UpdateInfo: ruleset id → UpdateRecord, the push-notification payload
  - UpdateValue: either the "FULL" invalidation marker or an ordered list
    of partial changes; custom JSON codec preserves the wire form

# Usage

	window := types.PagingWindow{Start: 1, Size: 3}

	variable := types.RulesetVariable{
		ID:    "show-hidden",
		Type:  types.VariableTypeBool,
		Value: true,
	}

	var info types.UpdateInfo
	if err := json.Unmarshal(payload, &info); err != nil {
		return err
	}
	if rec, ok := info["items-tree"]; ok && rec.Hierarchy != nil {
		if rec.Hierarchy.Full {
			// everything changed, reload
		}
	}

All types in this package are plain values with no behavior beyond JSON
encoding; they are safe to copy and share.
*/
package types
