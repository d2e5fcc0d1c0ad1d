package recipes

import "fmt"

// Owned is implemented by entities that have a single owning user.
type Owned interface {
	OwnedBy() uint
}

// RequireOwner rejects the mutation unless actorID owns entity.
func RequireOwner(actorID uint, entity Owned) error {
	if actorID == 0 {
		return fmt.Errorf("%w: authentication required", ErrPermission)
	}
	if entity.OwnedBy() != actorID {
		return fmt.Errorf("%w: user %d does not own this record", ErrPermission, actorID)
	}
	return nil
}
