package domain

import "time"

// CartEntry is a user's pending selection of a single catalog item. Entries
// are soft-deleted on user removal (IsActive/IsRemoved flip) and hard-deleted
// only as post-payment cleanup.
type CartEntry struct {
	ID         int64
	UserID     string
	Ref        ItemRef
	Quantity   int
	IsSelected bool
	IsActive   bool
	IsRemoved  bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
