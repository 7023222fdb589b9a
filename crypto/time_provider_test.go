package crypto

import (
	"testing"
	"time"
)

func TestTimeProvider_Default(t *testing.T) {
	t.Parallel()

	dp := DefaultTimeProvider{}

	before := time.Now()
	now := dp.Now()
	after := time.Now()

	if now.Before(before) || now.After(after) {
		t.Error("DefaultTimeProvider.Now() should return current time")
	}

	pastTime := time.Now().Add(-time.Hour)
	since := dp.Since(pastTime)
	if since < time.Hour || since > time.Hour+time.Second {
		t.Errorf("DefaultTimeProvider.Since() returned unexpected duration: %v", since)
	}
}

func TestMockTimeProvider(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	mock := NewMockTimeProvider(start)

	if !mock.Now().Equal(start) {
		t.Errorf("Now() = %v, want %v", mock.Now(), start)
	}

	mock.Advance(5 * time.Minute)
	if got := mock.Since(start); got != 5*time.Minute {
		t.Errorf("Since() after Advance = %v, want 5m", got)
	}

	later := start.Add(time.Hour)
	mock.Set(later)
	if !mock.Now().Equal(later) {
		t.Errorf("Now() after Set = %v, want %v", mock.Now(), later)
	}
}
