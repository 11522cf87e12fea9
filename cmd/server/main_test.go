package main

import (
	"context"
	"testing"

	"statemark/internal/config"
)

func TestBuildBookmarkRepo_Memory(t *testing.T) {
	cfg := config.Default()
	cfg.StoreDriver = config.DriverMemory

	repo, err := buildBookmarkRepo(context.Background(), cfg)
	if err != nil {
		t.Fatalf("buildBookmarkRepo error: %v", err)
	}
	if repo == nil {
		t.Fatalf("expected repository")
	}
}

func TestBuildBookmarkRepo_UnknownDriver(t *testing.T) {
	cfg := config.Default()
	cfg.StoreDriver = "carrier-pigeon"

	if _, err := buildBookmarkRepo(context.Background(), cfg); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}
