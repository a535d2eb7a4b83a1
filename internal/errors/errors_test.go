package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	cause := fmt.Errorf("disk full")
	tests := []struct {
		name string
		err  *EngineError
		want string
	}{
		{"with cause", New(ArtifactWrite, "writing page", cause), "[ARTIFACT_WRITE] writing page: disk full"},
		{"without cause", Newf(ConfigInvalid, "bad root %q", "/x"), `[CONFIG_INVALID] bad root "/x"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := New(StoreCorrupt, "store unreadable", cause)
	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should reach the cause")
	}
}

func TestIsFatal(t *testing.T) {
	tests := []struct {
		code Code
		want bool
	}{
		{ConfigInvalid, true},
		{StoreCorrupt, true},
		{ParseFailure, false},
		{ParseTimeout, false},
		{PatternRule, false},
		{ArtifactWrite, false},
		{Internal, false},
	}
	for _, tt := range tests {
		if got := IsFatal(tt.code); got != tt.want {
			t.Errorf("IsFatal(%s) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(New(ParseTimeout, "slow", nil)); got != ParseTimeout {
		t.Errorf("CodeOf() = %s, want %s", got, ParseTimeout)
	}
	if got := CodeOf(fmt.Errorf("plain")); got != Internal {
		t.Errorf("CodeOf(plain error) = %s, want %s", got, Internal)
	}
}
