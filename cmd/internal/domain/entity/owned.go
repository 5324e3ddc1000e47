package entity

// Owned is implemented by every resource that belongs to exactly one user.
type Owned interface {
	OwnerID() int64
}
