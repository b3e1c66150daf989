package core

import (
	"sync"

	"github.com/petermattis/goid"
)

// runtimes keys a Context per goroutine id so each goroutine gets its
// own tracking context and the read/write hot path never takes a lock.
var runtimes sync.Map // goid int64 -> *Context

// Current returns the calling goroutine's tracking context, creating
// one on first use.
func Current() *Context {
	gid := goid.Get()
	if c, ok := runtimes.Load(gid); ok {
		return c.(*Context)
	}
	ctx := NewContext()
	runtimes.Store(gid, ctx)
	return ctx
}
