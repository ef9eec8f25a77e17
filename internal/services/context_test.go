package services_test

import (
	"context"
	"testing"

	"fulfill/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithOrderID(ctx, "12345678.2")
	ctx = services.WithStage(ctx, "split")
	ctx = services.WithRunID(ctx, "run-123")

	if id, ok := services.OrderIDFromContext(ctx); !ok || id != "12345678.2" {
		t.Fatalf("unexpected order id: %v %v", id, ok)
	}
	if stage, ok := services.StageFromContext(ctx); !ok || stage != "split" {
		t.Fatalf("unexpected stage: %v %v", stage, ok)
	}
	if rid, ok := services.RunIDFromContext(ctx); !ok || rid != "run-123" {
		t.Fatalf("unexpected run id: %v %v", rid, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithStage(ctx, "")
	ctx = services.WithOrderID(ctx, "")
	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("expected no stage value")
	}
	if _, ok := services.OrderIDFromContext(ctx); ok {
		t.Fatal("expected no order id value")
	}
}
