// monotime is a high resolution clock for measuring frame times
package monotime

import "time"

// Now returns the current time more precisely for Web and Windows targets.
// Only differences between two calls are meaningful.
func Now() time.Duration {
	return now()
}

// Since returns the time passed since start, where start came from Now
func Since(start time.Duration) time.Duration {
	return now() - start
}

// Stopwatch measures the time between laps, ie. between frames
type Stopwatch struct {
	last    time.Duration
	started bool
}

// Lap returns the time since the previous Lap, the first call returns 0
func (sw *Stopwatch) Lap() time.Duration {
	t := now()
	if !sw.started {
		sw.last = t
		sw.started = true
		return 0
	}
	dt := t - sw.last
	sw.last = t
	return dt
}
