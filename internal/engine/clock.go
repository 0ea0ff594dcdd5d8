package engine

import (
	"fmt"
	"time"
)

// clock produces ISO-ish UTC timestamps with microsecond resolution. Go's
// wall clock does not guarantee two calls a few nanoseconds apart compare
// as distinct once truncated to microseconds, so a fake-microsecond
// counter is kept and reset whenever the wall-clock second advances. This
// is the only sub-second ordering source the engine has, and it lives on
// the Engine value rather than as package state so independent engine
// instances in tests never perturb one another's counters.
type clock struct {
	lastSecond int64
	fakeMicro  int
}

func (c *clock) now() string {
	t := time.Now().UTC()
	sec := t.Unix()
	if sec != c.lastSecond {
		c.lastSecond = sec
		c.fakeMicro = 0
	} else {
		c.fakeMicro++
	}
	return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02d.%06dZ",
		t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), c.fakeMicro)
}
