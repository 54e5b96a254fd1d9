package service

import "github.com/omk-66/playgrounds/internal/model"

// Action names an operation a user might attempt on a playground.
type Action string

const (
	ActionList   Action = "list"
	ActionDelete Action = "delete"
)

// Can is the single authorization predicate for playground access. Every
// route that checks ownership goes through here instead of comparing IDs
// inline, so the rule lives in exactly one place.
//
// Today the rule is creator-only for everything. When playground_members
// grows routes, role checks slot in here without touching the handlers.
func Can(user *model.User, action Action, playground *model.Playground) bool {
	if user == nil || playground == nil {
		return false
	}

	switch action {
	case ActionList, ActionDelete:
		return playground.CreatorID == user.ID
	default:
		return false
	}
}
