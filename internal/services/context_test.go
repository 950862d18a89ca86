package services_test

import (
	"context"
	"testing"

	"cdrip/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithDevice(ctx, "/dev/cdrom")
	ctx = services.WithRequestID(ctx, "req-123")

	if device, ok := services.DeviceFromContext(ctx); !ok || device != "/dev/cdrom" {
		t.Fatalf("unexpected device: %v %v", device, ok)
	}
	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithDevice(ctx, "")
	ctx = services.WithRequestID(ctx, "")
	if _, ok := services.DeviceFromContext(ctx); ok {
		t.Fatal("expected no device value")
	}
	if _, ok := services.RequestIDFromContext(ctx); ok {
		t.Fatal("expected no request id")
	}
}
