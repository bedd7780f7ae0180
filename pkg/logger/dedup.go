package logger

import (
	"fmt"
	"sync"
	"time"
)

// Deduper collapses bursts of identical messages into a single line with a
// repeat count. Scrapers walking result pages tend to emit the same parse
// warning dozens of times in a row.
type Deduper struct {
	log        Logger
	flushDelay time.Duration

	mu      sync.Mutex
	lastMsg string
	count   int
	timer   *time.Timer
}

func NewDeduper(log Logger) *Deduper {
	return &Deduper{log: log, flushDelay: 2 * time.Second}
}

func (d *Deduper) flush() {
	if d.count == 0 {
		return
	}
	if d.count == 1 {
		d.log.Info(d.lastMsg)
	} else {
		d.log.Info(d.lastMsg, Int("repeated", d.count))
	}
	d.count = 0
	d.lastMsg = ""
}

func (d *Deduper) Printf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	d.mu.Lock()
	defer d.mu.Unlock()

	if msg == d.lastMsg {
		d.count++
		if d.timer != nil {
			d.timer.Stop()
		}
		d.timer = time.AfterFunc(d.flushDelay, func() {
			d.mu.Lock()
			defer d.mu.Unlock()
			d.flush()
		})
		return
	}

	d.flush()
	d.lastMsg = msg
	d.count = 1
	d.timer = time.AfterFunc(d.flushDelay, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.flush()
	})
}
