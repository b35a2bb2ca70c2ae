package requestctx

import (
	"context"
	"testing"
)

func TestUserIDFromContextRoundTrip(t *testing.T) {
	ctx := WithUserID(context.Background(), "user-42")
	if got := UserIDFromContext(ctx); got != "user-42" {
		t.Fatalf("UserIDFromContext = %q, want %q", got, "user-42")
	}
}

func TestRequestIDFromContextRoundTrip(t *testing.T) {
	ctx := WithRequestID(WithUserID(context.Background(), "u1"), "req-1")
	if got := RequestIDFromContext(ctx); got != "req-1" {
		t.Fatalf("RequestIDFromContext = %q, want %q", got, "req-1")
	}
	if got := UserIDFromContext(ctx); got != "u1" {
		t.Fatalf("UserIDFromContext = %q, want %q", got, "u1")
	}
}

func TestMissingValuesAreEmpty(t *testing.T) {
	//lint:ignore SA1012 nil context is part of the contract.
	if got := UserIDFromContext(nil); got != "" {
		t.Fatalf("expected empty user id for nil context, got %q", got)
	}
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Fatalf("expected empty request id, got %q", got)
	}
}

func TestWithUserIDNilContext(t *testing.T) {
	//lint:ignore SA1012 nil context is part of the contract.
	ctx := WithUserID(nil, "user-99")
	if got := UserIDFromContext(ctx); got != "user-99" {
		t.Fatalf("UserIDFromContext = %q, want %q", got, "user-99")
	}
}
