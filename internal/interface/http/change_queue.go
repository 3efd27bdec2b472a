package handlers

import (
	"sync"

	userapp "github.com/oksasatya/go-admin-dashboard/internal/application"
)

const streamBuffer = 16

// changeQueue buffers store changes for one stream client. Once the buffer
// fills it stops accepting changes and closes overflow; the stream then tells
// the client to resync instead of silently skipping versions.
type changeQueue struct {
	changes  chan userapp.Change
	overflow chan struct{}
	once     sync.Once
}

func newChangeQueue(size int) *changeQueue {
	if size <= 0 {
		size = streamBuffer
	}
	return &changeQueue{changes: make(chan userapp.Change, size), overflow: make(chan struct{})}
}

// push never blocks; it runs on the store's notifying goroutine.
func (q *changeQueue) push(c userapp.Change) {
	select {
	case <-q.overflow:
		return
	default:
	}
	select {
	case q.changes <- c:
	default:
		q.once.Do(func() { close(q.overflow) })
	}
}
