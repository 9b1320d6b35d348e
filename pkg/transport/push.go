package transport

import (
	"github.com/treelinehq/treeline/pkg/types"
)

const (
	// SourceID scopes Treeline's push subscriptions on a shared channel.
	SourceID = "treeline"

	// EventUpdate is the event kind of data-change notifications.
	EventUpdate = "update"
)

// UpdateHandler receives push-channel update notifications. Handlers are
// compared by identity: the same handler value passed to On must be passed
// to Off to remove the subscription.
type UpdateHandler interface {
	OnUpdate(info types.UpdateInfo)
}

// PushChannel is the server-to-client notification capability. It is
// independent of any particular delivery transport; wsrpc provides one
// implementation and tests provide fakes.
type PushChannel interface {
	On(sourceID, eventKind string, handler UpdateHandler)
	Off(sourceID, eventKind string, handler UpdateHandler)
}
