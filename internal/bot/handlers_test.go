package bot

import (
	"errors"
	"testing"

	"github.com/rolevault/rolevault/internal/store"
)

func TestCodeErrorMessage(t *testing.T) {
	cases := []struct {
		kind store.CodeErrorKind
		want string
	}{
		{store.CodeNotFound, "Code is not found."},
		{store.CodeAlreadyExists, "Code is already exists."},
		{store.CodeFullyUsed, "Code is fully used."},
		{store.CodeExpired, "Code is expired."},
		{store.CodeAlreadyUsed, "Code is already used."},
	}
	for _, tc := range cases {
		msg, ok := codeErrorMessage(&store.CodeError{Kind: tc.kind, Code: "X"})
		if !ok {
			t.Errorf("expected a message for kind %v", tc.kind)
			continue
		}
		if msg != tc.want {
			t.Errorf("kind %v: got %q, want %q", tc.kind, msg, tc.want)
		}
	}
}

func TestCodeErrorMessageOtherErrors(t *testing.T) {
	if _, ok := codeErrorMessage(errors.New("disk on fire")); ok {
		t.Error("expected no user-facing message for an infrastructure error")
	}
}
