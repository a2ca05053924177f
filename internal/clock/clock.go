// Package clock abstracts the wall clock so the projection pipeline can be
// evaluated against a fixed "now" in tests.
package clock

import (
	"sync"
	"time"
)

// Clock provides the current time.
type Clock interface {
	// Now returns the current time
	Now() time.Time
	// NowUnix returns the current time as whole Unix seconds
	NowUnix() int64
}

// RealClock reads the system clock.
type RealClock struct{}

// Now returns the current system time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// NowUnix returns the current system time in Unix seconds.
func (RealClock) NowUnix() int64 {
	return time.Now().Unix()
}

// MockClock is a thread-safe, manually driven Clock for tests.
type MockClock struct {
	mu          sync.Mutex
	currentTime time.Time
}

// NewMockClock creates a MockClock frozen at t.
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{currentTime: t}
}

// NewMockClockUnix creates a MockClock frozen at the given Unix second.
func NewMockClockUnix(sec int64) *MockClock {
	return NewMockClock(time.Unix(sec, 0).UTC())
}

// Now returns the mock clock's current time.
func (m *MockClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentTime
}

// NowUnix returns the mock clock's current time in Unix seconds.
func (m *MockClock) NowUnix() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentTime.Unix()
}

// Set changes the mock clock's current time.
func (m *MockClock) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentTime = t
}

// Advance moves the mock clock by d. Negative durations move it backwards.
func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentTime = m.currentTime.Add(d)
}
