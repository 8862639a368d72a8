package timing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStopwatch_LapUsesWallClock(t *testing.T) {
	var sw Stopwatch
	sw.Start(base)

	// a single observation 1.5s later, regardless of how many ticks happened
	lap, err := sw.Lap(base.Add(1500 * time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, lap)

	lap, err = sw.Lap(base.Add(2 * time.Second))
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, lap)
	assert.Equal(t, []time.Duration{1500 * time.Millisecond, 500 * time.Millisecond}, sw.Laps())
}

func TestStopwatch_LapWithRealClock(t *testing.T) {
	var sw Stopwatch
	sw.Start(time.Now())
	time.Sleep(50 * time.Millisecond)
	lap, err := sw.Lap(time.Now())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, lap, 50*time.Millisecond)
	assert.Less(t, lap, time.Second)
}

func TestStopwatch_PauseAccumulates(t *testing.T) {
	var sw Stopwatch
	sw.Start(base)
	sw.Pause(base.Add(2 * time.Second))
	assert.Equal(t, 2*time.Second, sw.Elapsed(base.Add(time.Hour)))

	sw.Start(base.Add(time.Hour))
	assert.Equal(t, 3*time.Second, sw.Elapsed(base.Add(time.Hour+time.Second)))
}

func TestStopwatch_LapRequiresProgress(t *testing.T) {
	var sw Stopwatch
	_, err := sw.Lap(base)
	assert.Error(t, err)

	sw.Start(base)
	sw.Pause(base.Add(time.Second))
	_, err = sw.Lap(base.Add(time.Minute))
	assert.NoError(t, err, "paused with elapsed time may lap")

	sw.Reset()
	assert.Equal(t, time.Duration(0), sw.Elapsed(base))
	assert.Empty(t, sw.Laps())
	assert.False(t, sw.Running())
}
