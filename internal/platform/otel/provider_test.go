package otel_test

import (
	"context"
	"testing"

	"github.com/louisbranch/murmur/internal/platform/otel"
)

func TestSetupShutdownSucceeds(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		enabled  string
	}{
		{name: "no endpoint", endpoint: "", enabled: ""},
		{name: "explicitly disabled", endpoint: "http://localhost:4318", enabled: "false"},
		{name: "disabled case insensitive", endpoint: "http://localhost:4318", enabled: "FALSE"},
		// TEST-NET-1 address: nothing listens there, so no spans leave the process.
		{name: "exporter configured", endpoint: "http://192.0.2.1:4318", enabled: ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(otel.EnvEndpoint, tc.endpoint)
			t.Setenv(otel.EnvEnabled, tc.enabled)

			shutdown, err := otel.Setup(context.Background(), "murmur-test")
			if err != nil {
				t.Fatalf("Setup() error = %v", err)
			}
			if err := shutdown(context.Background()); err != nil {
				t.Fatalf("shutdown() error = %v", err)
			}
		})
	}
}
