package notify

import (
	"testing"
	"time"
)

func TestActiveDropsExpired(t *testing.T) {
	now := time.Unix(1000, 0)
	f := NewFeed(5*time.Second, 10)
	f.now = func() time.Time { return now }

	f.Push(LevelInfo, "first")
	now = now.Add(3 * time.Second)
	f.Push(LevelSuccess, "second")

	now = now.Add(3 * time.Second)
	got := f.Active()
	if len(got) != 1 {
		t.Fatalf("Active() = %d notifications, want 1", len(got))
	}
	if got[0].Message != "second" {
		t.Errorf("Active()[0].Message = %q, want second", got[0].Message)
	}
}

func TestFeedIsBounded(t *testing.T) {
	f := NewFeed(time.Minute, 3)

	for i := 0; i < 10; i++ {
		f.Push(LevelInfo, "msg")
	}

	if got := len(f.Active()); got != 3 {
		t.Errorf("Active() = %d notifications, want 3", got)
	}
}

func TestOrderIsOldestFirst(t *testing.T) {
	f := NewFeed(time.Minute, 10)
	f.Push(LevelError, "a")
	f.Push(LevelError, "b")

	got := f.Active()
	if len(got) != 2 || got[0].Message != "a" || got[1].Message != "b" {
		t.Errorf("Active() order wrong: %+v", got)
	}
}

func TestNotificationsGetUniqueIDs(t *testing.T) {
	f := NewFeed(time.Minute, 10)
	f.Push(LevelInfo, "x")
	f.Push(LevelInfo, "x")

	got := f.Active()
	if got[0].ID == got[1].ID {
		t.Error("two notifications share an ID")
	}
}
