package market

import (
	"context"
	"testing"
	"time"
)

func TestRetryRecoversFromTransientFailures(t *testing.T) {
	src := &countingSource{failFor: 2}
	retrying := NewRetrySource(src, 3, 10*time.Second)

	candles, err := retrying.RecentCandles(context.Background(), "RELIANCE", 5)
	if err != nil {
		t.Fatalf("expected recovery, got %v", err)
	}
	if len(candles) != 5 {
		t.Errorf("candles = %d, want 5", len(candles))
	}
	if src.calls != 3 {
		t.Errorf("upstream calls = %d, want 3", src.calls)
	}
}

func TestRetryGivesUpAfterBudget(t *testing.T) {
	src := &countingSource{failFor: 100}
	retrying := NewRetrySource(src, 0, time.Second)

	if _, err := retrying.RecentCandles(context.Background(), "RELIANCE", 5); err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if src.calls != 1 {
		t.Errorf("upstream calls = %d, want 1 with zero retries", src.calls)
	}
}

func TestRetryHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := &countingSource{failFor: 100}
	retrying := NewRetrySource(src, 5, 10*time.Second)

	if _, err := retrying.RecentCandles(ctx, "RELIANCE", 5); err == nil {
		t.Fatal("expected error with cancelled context")
	}
}

func TestStaticSourceShape(t *testing.T) {
	src := NewStaticSource()

	candles, err := src.RecentCandles(context.Background(), "RELIANCE", 50)
	if err != nil {
		t.Fatalf("static fetch: %v", err)
	}
	if len(candles) != 50 {
		t.Fatalf("candles = %d, want 50", len(candles))
	}
	for i, c := range candles {
		if c.High < c.Low {
			t.Fatalf("bar %d: high %f below low %f", i, c.High, c.Low)
		}
		if c.Close <= 0 || c.Vol < 0 {
			t.Fatalf("bar %d: bad close or volume", i)
		}
		if i > 0 && c.Ts <= candles[i-1].Ts {
			t.Fatalf("bar %d: timestamps not strictly increasing", i)
		}
	}
}
