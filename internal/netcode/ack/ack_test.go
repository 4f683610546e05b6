package ack

import (
	"testing"
	"time"
)

type testCase struct {
	A      uint16
	B      uint16
	Output bool
}

var goldenTests = []testCase{
	{
		A:      1,
		B:      0,
		Output: true,
	},
	{
		A:      101,
		B:      100,
		Output: true,
	},
	{
		A:      65001,
		B:      65000,
		Output: true,
	},
	{
		A:      1,
		B:      65000,
		Output: true,
	},
	{
		A:      300,
		B:      65000,
		Output: true,
	},
	{
		A:      100,
		B:      101,
		Output: false,
	},
	{
		A:      65000,
		B:      1,
		Output: false,
	},
	{
		A:      5,
		B:      5,
		Output: false,
	},
}

func TestIsWrappedUInt16GreaterThan(t *testing.T) {
	for _, test := range goldenTests {
		if res := IsWrappedUInt16GreaterThan(test.A, test.B); res != test.Output {
			t.Errorf("failed on input (%d, %d), returned %v but expected %v", test.A, test.B, res, test.Output)
		}
	}
}

type fakeClock struct {
	t time.Time
}

func (clock *fakeClock) now() time.Time {
	return clock.t
}

func TestLatency(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	tracker := Tracker{now: clock.now}

	first := tracker.Next()
	second := tracker.Next()
	if first != 0 || second != 1 {
		t.Fatalf("expected sequence ids 0 and 1, got %d and %d", first, second)
	}

	clock.t = clock.t.Add(100 * time.Millisecond)
	tracker.Ack(first)
	if got := tracker.Latency(); got != 100*time.Millisecond {
		t.Fatalf("expected first ack to set latency to 100ms, got %v", got)
	}

	// acking twice is ignored
	clock.t = clock.t.Add(100 * time.Millisecond)
	tracker.Ack(first)
	if got := tracker.Latency(); got != 100*time.Millisecond {
		t.Fatalf("expected duplicate ack to be ignored, got %v", got)
	}

	// smoothed: 100ms + 0.1 * (200ms - 100ms)
	tracker.Ack(second)
	if got := tracker.Latency(); got != 110*time.Millisecond {
		t.Fatalf("expected smoothed latency of 110ms, got %v", got)
	}
}

func TestExpiredAckIsIgnored(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	tracker := Tracker{now: clock.now}
	seqID := tracker.Next()
	clock.t = clock.t.Add(2 * time.Second)
	tracker.Ack(seqID)
	if got := tracker.Latency(); got != 0 {
		t.Fatalf("expected expired ack to be ignored, got %v", got)
	}
}

func TestReceived(t *testing.T) {
	var tracker Tracker
	steps := []struct {
		seqID uint16
		want  bool
	}{
		{65534, true},
		{65535, true},
		{65535, false},
		{0, true},
		{65530, false},
		{2, true},
	}
	for i, step := range steps {
		if got := tracker.Received(step.seqID); got != step.want {
			t.Errorf("step %d: Received(%d) = %v, want %v", i, step.seqID, got, step.want)
		}
	}
}
