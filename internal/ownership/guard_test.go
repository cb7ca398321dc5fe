package ownership

import (
	"errors"
	"testing"

	"github.com/vidtube/backend/internal/apperr"
)

func TestAssertOwnerMatches(t *testing.T) {
	if err := Assert("user-1", "user-1"); err != nil {
		t.Fatalf("expected match to pass, got %v", err)
	}
}

func TestAssertFailsClosed(t *testing.T) {
	cases := []struct {
		name    string
		ownerID string
		viewer  string
	}{
		{"different user", "user-1", "user-2"},
		{"anonymous viewer", "user-1", ""},
		{"missing owner", "", "user-1"},
		{"both empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Assert(tc.ownerID, tc.viewer)
			if !errors.Is(err, apperr.ErrForbidden) {
				t.Fatalf("expected ErrForbidden, got %v", err)
			}
		})
	}
}
