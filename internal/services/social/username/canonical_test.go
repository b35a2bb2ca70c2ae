package username

import (
	"errors"
	"testing"

	apperrors "github.com/louisbranch/murmur/internal/platform/errors"
)

func TestCanonicalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "Alice", want: "alice"},
		{input: "  bob.smith_1  ", want: "bob.smith_1"},
		{input: "x-y", want: "x-y"},
		{input: "", wantErr: true},
		{input: "ab", wantErr: true},
		{input: "1alice", wantErr: true},
		{input: "alice!", wantErr: true},
		{input: "алиса", wantErr: true},
		{input: "a234567890123456789012345678901234", wantErr: true},
	}
	for _, tc := range tests {
		got, err := Canonicalize(tc.input)
		if tc.wantErr {
			if !errors.Is(err, apperrors.New(apperrors.CodeUsernameInvalid, "")) {
				t.Fatalf("Canonicalize(%q) error = %v, want USERNAME_INVALID", tc.input, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("Canonicalize(%q) error = %v", tc.input, err)
		}
		if got != tc.want {
			t.Fatalf("Canonicalize(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}
