package reconcile

import "strings"

// Action is what a pass does with a pending record after polling it.
type Action string

const (
	ActionFinalize Action = "finalize"
	ActionDiscard  Action = "discard"
	ActionUpdate   Action = "update"
)

// Classify maps a provider status onto an action. Matching is
// case-insensitive and every unrecognized status keeps the record pending.
func Classify(status string) Action {
	switch strings.ToLower(status) {
	case "finished", "partially_paid":
		return ActionFinalize
	case "failed", "refunded", "expired":
		return ActionDiscard
	default:
		return ActionUpdate
	}
}
