package ui

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureOutput collects spinner writes for assertions.
type captureOutput struct {
	mu    sync.Mutex
	parts []string
}

func (c *captureOutput) write(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.parts = append(c.parts, s)
}

func (c *captureOutput) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return strings.Join(c.parts, "")
}

func TestSpinnerLifecycle(t *testing.T) {
	out := &captureOutput{}
	s := NewSpinner("Generating key")
	s.SetOutput(out.write)

	assert.Equal(t, SpinnerPending, s.State())

	s.Start()
	assert.Equal(t, SpinnerInProgress, s.State())

	s.Success()
	assert.Equal(t, SpinnerSuccess, s.State())
	assert.Contains(t, out.String(), "Generating key")
}

func TestSpinnerFail(t *testing.T) {
	out := &captureOutput{}
	s := NewSpinner("Probing host")
	s.SetOutput(out.write)

	s.Start()
	s.Fail()

	assert.Equal(t, SpinnerFailed, s.State())
	assert.Contains(t, out.String(), SymbolFail)
}

func TestSpinnerSkip(t *testing.T) {
	out := &captureOutput{}
	s := NewSpinner("Loading key")
	s.SetOutput(out.write)

	s.Start()
	s.Skip()

	assert.Equal(t, SpinnerSkipped, s.State())
	assert.Contains(t, out.String(), SymbolSkipped)
}

func TestSpinnerDoubleStart(t *testing.T) {
	out := &captureOutput{}
	s := NewSpinner("step")
	s.SetOutput(out.write)

	s.Start()
	s.Start() // second start must be a no-op
	s.Success()

	assert.Equal(t, SpinnerSuccess, s.State())
}

func TestSpinnerStopWithoutStart(t *testing.T) {
	s := NewSpinner("idle")
	s.SetOutput(func(string) {})

	// Must not panic or block
	s.Stop()
	assert.Equal(t, SpinnerPending, s.State())
}

func TestSpinnerElapsed(t *testing.T) {
	s := NewSpinner("timed")
	s.SetOutput(func(string) {})

	assert.Zero(t, s.Elapsed())

	s.Start()
	time.Sleep(20 * time.Millisecond)
	s.Success()

	require.Greater(t, s.Elapsed(), time.Duration(0))
}

func TestSpinnerLabel(t *testing.T) {
	s := NewSpinner("my label")
	assert.Equal(t, "my label", s.Label())
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want string
	}{
		{name: "sub-100ms", d: 50 * time.Millisecond, want: "0.05s"},
		{name: "under a second", d: 300 * time.Millisecond, want: "0.3s"},
		{name: "seconds", d: 1200 * time.Millisecond, want: "1.2s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatDuration(tt.d))
		})
	}
}
