package db

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestTimestamp(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	ts := time.Date(2026, 3, 14, 10, 30, 5, 123456000, loc)

	got := Timestamp(ts)
	want := "2026-03-14T09:30:05.123456"
	if got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}

func TestConnect_MissingSettings(t *testing.T) {
	_, _, err := Connect(context.Background(), "", "vitals", zerolog.Nop())
	if err == nil {
		t.Error("Expected error for empty URI")
	}

	_, _, err = Connect(context.Background(), "mongodb://localhost:27017", "", zerolog.Nop())
	if err == nil {
		t.Error("Expected error for empty database name")
	}
}
