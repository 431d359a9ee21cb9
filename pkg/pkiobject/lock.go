package pkiobject

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"
)

// LockKind selects the synchronization discipline a PKIObject uses to
// guard its instance list (§5). It is fixed at object creation and never
// changes for the object's lifetime.
type LockKind int

const (
	// PlainLock is a non-reentrant mutual-exclusion lock, for objects
	// whose operations never re-enter themselves (e.g. CRLs).
	PlainLock LockKind = iota
	// ReentrantLock is a recursive monitor, for objects whose operations
	// may nest (certificates, whose decoded form invokes callbacks that
	// re-acquire the object's lock).
	ReentrantLock
)

// locker is the minimal interface both lock kinds satisfy.
type locker interface {
	Lock()
	Unlock()
}

func newLocker(kind LockKind) locker {
	switch kind {
	case ReentrantLock:
		return newRecursiveMutex()
	default:
		return &sync.Mutex{}
	}
}

// recursiveMutex is a monitor: the goroutine already holding it may lock it
// again without deadlocking itself. There is no third-party recursive-lock
// package among the examples this module was grounded on, and the
// standard library's sync.Mutex is deliberately non-reentrant, so this is
// built directly on sync and a goroutine-id lookup (see goroutineID
// below) rather than adopting an external dependency for it.
type recursiveMutex struct {
	sem   chan struct{}
	guard sync.Mutex
	owner uint64
	depth int
}

func newRecursiveMutex() *recursiveMutex {
	m := &recursiveMutex{sem: make(chan struct{}, 1)}
	m.sem <- struct{}{}
	return m
}

func (m *recursiveMutex) Lock() {
	gid := goroutineID()
	m.guard.Lock()
	if m.depth > 0 && m.owner == gid {
		m.depth++
		m.guard.Unlock()
		return
	}
	m.guard.Unlock()

	<-m.sem

	m.guard.Lock()
	m.owner = gid
	m.depth = 1
	m.guard.Unlock()
}

func (m *recursiveMutex) Unlock() {
	gid := goroutineID()
	m.guard.Lock()
	defer m.guard.Unlock()
	if m.depth == 0 || m.owner != gid {
		panic("pkiobject: Unlock of reentrant lock not held by this goroutine")
	}
	m.depth--
	if m.depth == 0 {
		m.sem <- struct{}{}
	}
}

// goroutineID extracts the calling goroutine's id from its stack trace
// header ("goroutine 123 [running]: ..."). It is only ever used to decide
// whether the current goroutine already owns a recursiveMutex.
func goroutineID() uint64 {
	buf := make([]byte, 64)
	n := runtime.Stack(buf, false)
	buf = buf[:n]
	buf = bytes.TrimPrefix(buf, []byte("goroutine "))
	if i := bytes.IndexByte(buf, ' '); i >= 0 {
		buf = buf[:i]
	}
	id, _ := strconv.ParseUint(string(buf), 10, 64)
	return id
}
