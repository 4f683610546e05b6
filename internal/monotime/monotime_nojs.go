//go:build !js && !windows

package monotime

import (
	"time"
)

// start carries Go's monotonic clock reading, time.Since uses it
var start = time.Now()

func now() time.Duration {
	return time.Since(start)
}
