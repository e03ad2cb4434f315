package common

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinels_MatchThroughWrapping(t *testing.T) {
	for _, base := range []error{ErrorNotFound, ErrorInternal, ErrorValidation} {
		wrapped := fmt.Errorf("repo: %w", base)
		if !errors.Is(wrapped, base) {
			t.Fatalf("errors.Is failed for %v", base)
		}
	}
	if errors.Is(ErrorNotFound, ErrorInternal) {
		t.Fatal("distinct sentinels must not match")
	}
}
