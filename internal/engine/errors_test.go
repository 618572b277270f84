package engine

import (
	"errors"
	"fmt"
	"testing"
)

func TestRankErrorKinds(t *testing.T) {
	t.Run("missing input", func(t *testing.T) {
		err := error(MissingInput(ErrMissingKeyword))
		if !errors.Is(err, ErrMissingKeyword) {
			t.Error("expected errors.Is to find ErrMissingKeyword")
		}
		if errors.Is(err, ErrUpstream) {
			t.Error("missing input must not match ErrUpstream")
		}
		if k := ErrorKindOf(err); k != KindMissingInput {
			t.Errorf("kind = %q", k)
		}
	})

	t.Run("upstream", func(t *testing.T) {
		cause := errors.New("403 quotaExceeded")
		err := fmt.Errorf("rank: %w", Upstream(cause))
		if !errors.Is(err, ErrUpstream) {
			t.Error("expected errors.Is to match ErrUpstream")
		}
		if !errors.Is(err, cause) {
			t.Error("expected the cause to stay reachable")
		}
		if k := ErrorKindOf(err); k != KindUpstream {
			t.Errorf("kind = %q", k)
		}
	})

	t.Run("other", func(t *testing.T) {
		if k := ErrorKindOf(errors.New("boom")); k != "" {
			t.Errorf("kind = %q, want empty", k)
		}
	})
}
