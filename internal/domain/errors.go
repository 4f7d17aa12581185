package domain

import "errors"

// Error message string constants - single source of truth for error messages.
// Use these in assert.Contains() checks when testing error messages.
const (
	// User-input errors: recovered locally, surfaced as a plain reply.
	ErrMsgUnknownCommand     = "unknown command"
	ErrMsgUnknownDestination = "unknown destination"
	ErrMsgUnknownItem        = "unknown item"

	// Precondition failures: recovered locally.
	ErrMsgInvalidAction    = "action not available here"
	ErrMsgInsufficientGold = "not enough gold"
	ErrMsgOutOfStock       = "item out of stock"
	ErrMsgItemNotOwned     = "item not owned"
	ErrMsgStaleActivity    = "activity no longer current"
	ErrMsgActivityPending  = "another activity is already pending"
	ErrMsgNotCancellable   = "cannot be cancelled"

	// Integrity violations.
	ErrMsgNameTaken         = "hero name already taken"
	ErrMsgAlreadyRegistered = "chat already has a hero"

	// Lookup errors.
	ErrMsgHeroNotFound     = "hero not found"
	ErrMsgLocationNotFound = "location not found"
	ErrMsgMobNotFound      = "mob instance not found"
)

// Common domain errors. Wrap with fmt.Errorf("%w: %s", domain.ErrXxx, details)
// for additional context; handlers map these onto HTTP statuses.
var (
	ErrUnknownCommand     = errors.New(ErrMsgUnknownCommand)
	ErrUnknownDestination = errors.New(ErrMsgUnknownDestination)
	ErrUnknownItem        = errors.New(ErrMsgUnknownItem)

	ErrInvalidAction    = errors.New(ErrMsgInvalidAction)
	ErrInsufficientGold = errors.New(ErrMsgInsufficientGold)
	ErrOutOfStock       = errors.New(ErrMsgOutOfStock)
	ErrItemNotOwned     = errors.New(ErrMsgItemNotOwned)
	ErrStaleActivity    = errors.New(ErrMsgStaleActivity)
	ErrActivityPending  = errors.New(ErrMsgActivityPending)
	ErrNotCancellable   = errors.New(ErrMsgNotCancellable)

	ErrNameTaken         = errors.New(ErrMsgNameTaken)
	ErrAlreadyRegistered = errors.New(ErrMsgAlreadyRegistered)

	ErrHeroNotFound     = errors.New(ErrMsgHeroNotFound)
	ErrLocationNotFound = errors.New(ErrMsgLocationNotFound)
	ErrMobNotFound      = errors.New(ErrMsgMobNotFound)
)
