package pool

import "errors"

// Lifecycle errors. All are detected before any mutation is applied, so a
// returned error always means the pool is unchanged. Callers match with
// errors.Is and surface the message to the user.
var (
	ErrNoAvailableItems = errors.New("no available items in pool")
	ErrNotAuthorized    = errors.New("equipment not authorized for this designation")
	ErrItemNotFound     = errors.New("item not found in pool")
	ErrNotIssued        = errors.New("item is not currently issued")
	ErrNotInMaintenance  = errors.New("item is not in maintenance")
	ErrInvalidTransition = errors.New("operation not valid for item's current state")
	ErrInvalidCondition  = errors.New("invalid condition")
)
