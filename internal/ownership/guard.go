// Package ownership implements the owner-only mutation guard applied before
// every update or delete of a user-owned resource.
package ownership

import (
	"fmt"

	"github.com/vidtube/backend/internal/apperr"
)

// Assert fails with apperr.ErrForbidden unless ownerID and viewerID are both
// set and identical. A resource with no recorded owner is never owned by
// anyone, so the guard fails closed on an empty ownerID.
func Assert(ownerID, viewerID string) error {
	if ownerID == "" || viewerID == "" || ownerID != viewerID {
		return fmt.Errorf("viewer does not own resource: %w", apperr.ErrForbidden)
	}
	return nil
}
