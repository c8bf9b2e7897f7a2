// Package guard provides a defensive programming primitive that ensures
// value objects and commands are only created through their designated
// constructor functions.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when the caller does
// not supply its own validation error.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard detects whether a struct was built through its
// constructor or left as a zero value. Embedding a guard in a command or
// value object lets Validate reject instances that bypassed construction
// and therefore skipped validation.
//
// Example usage:
//
//	type CheckoutCommand struct {
//	    items []Item
//	    guard guard.ConstructorGuard
//	}
//
//	func NewCheckoutCommand(items []Item) (CheckoutCommand, error) {
//	    if len(items) == 0 {
//	        return CheckoutCommand{}, errors.New("items are required")
//	    }
//	    return CheckoutCommand{items: items, guard: guard.NewConstructorGuard()}, nil
//	}
//
//	func (c CheckoutCommand) Validate() error {
//	    return c.guard.Validate(ErrCheckoutCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard marks an object as properly constructed. Call it in
// every constructor whose struct embeds a guard.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil when the guarded object came from its constructor.
// A zero-value guard fails with validationError, or with
// ErrDefaultConstructorGuard when validationError is nil.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
