// Package spool decouples a network response body from its consumer. A
// background task drains the source as fast as it will go, buffering in
// memory and spilling to a temporary file past a size threshold, so the
// underlying connection is released promptly no matter how slowly the
// consumer reads.
package spool

import (
	"errors"
	"io"
	"os"
	"sync"
)

// ErrClosed is returned by Read after the consumer side has been closed.
var ErrClosed = errors.New("spool: reader closed")

// Submitter schedules a function on a background task and returns the
// task's name. *tasks.Pool satisfies it.
type Submitter interface {
	Submit(fn func()) (string, error)
}

// Reader is the consumer-facing side of a drained response body. Exactly
// one producer (the drain task) and one consumer may use an instance, and
// an instance is single-use. Closing the Reader stops and awaits the
// producer, releases the source stream and deletes any spill file.
type Reader struct {
	src       io.ReadCloser
	srcOnce   sync.Once
	srcErr    error
	threshold int
	task      string

	mu       sync.Mutex
	cond     *sync.Cond
	buf      []byte   // in-memory window, nil once spilled
	file     *os.File // spill file, nil until threshold is crossed
	spilled  bool
	size     int64 // total bytes drained
	readPos  int64
	drainErr error // producer-side failure, surfaced on the next Read
	eof      bool
	closed   bool

	done chan struct{} // closed when the drain task exits
}

// New starts draining src on a task from pool and returns the consumer
// side. On error nothing has been started and src is untouched; the caller
// keeps ownership of it. On success the Reader owns src.
func New(src io.ReadCloser, threshold int, pool Submitter) (*Reader, error) {
	r := &Reader{
		src:       src,
		threshold: threshold,
		done:      make(chan struct{}),
	}
	r.cond = sync.NewCond(&r.mu)

	task, err := pool.Submit(r.drain)
	if err != nil {
		return nil, err
	}
	r.task = task
	return r, nil
}

// Task returns the name of the drain task backing this reader.
func (r *Reader) Task() string { return r.task }

// Size returns the number of bytes drained from the source so far.
func (r *Reader) Size() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.size
}

// Spilled reports whether the buffer overflowed to a temporary file at any
// point. The answer remains valid after Close.
func (r *Reader) Spilled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.spilled
}

func (r *Reader) drain() {
	defer close(r.done)
	chunk := make([]byte, 32*1024)
	for {
		n, err := r.src.Read(chunk)
		if n > 0 {
			if werr := r.append(chunk[:n]); werr != nil {
				r.finish(werr)
				break
			}
		}
		if err != nil {
			r.finish(err)
			break
		}
	}
	r.closeSrc()
}

// append stores one drained chunk, creating the spill file the first time
// the threshold is exceeded. The existing in-memory window is flushed to
// the file so file offsets always equal global stream offsets.
func (r *Reader) append(p []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	if r.file == nil && int(r.size)+len(p) > r.threshold {
		f, err := os.CreateTemp("", "dw-jdbc-spool-")
		if err != nil {
			return err
		}
		if _, err := f.Write(r.buf); err != nil {
			f.Close()
			os.Remove(f.Name())
			return err
		}
		r.file = f
		r.spilled = true
		r.buf = nil
	}
	if r.file != nil {
		if _, err := r.file.WriteAt(p, r.size); err != nil {
			return err
		}
	} else {
		r.buf = append(r.buf, p...)
	}
	r.size += int64(len(p))
	r.cond.Broadcast()
	return nil
}

func (r *Reader) finish(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err == io.EOF || errors.Is(err, ErrClosed) {
		r.eof = true
	} else {
		r.drainErr = err
	}
	r.cond.Broadcast()
}

func (r *Reader) closeSrc() {
	r.srcOnce.Do(func() {
		r.srcErr = r.src.Close()
	})
}

// Read serves bytes in source order as they become available, blocking
// until the producer has drained more, hit an error, or reached EOF. A
// producer-side read error is returned here instead of being discarded.
func (r *Reader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for {
		if r.closed {
			return 0, ErrClosed
		}
		if r.readPos < r.size {
			n := len(p)
			if avail := r.size - r.readPos; int64(n) > avail {
				n = int(avail)
			}
			if r.file != nil {
				m, err := r.file.ReadAt(p[:n], r.readPos)
				r.readPos += int64(m)
				if err != nil && err != io.EOF {
					return m, err
				}
				return m, nil
			}
			copy(p[:n], r.buf[r.readPos:r.readPos+int64(n)])
			r.readPos += int64(n)
			return n, nil
		}
		if r.drainErr != nil {
			return 0, r.drainErr
		}
		if r.eof {
			return 0, io.EOF
		}
		r.cond.Wait()
	}
}

// Close stops the consumer side, unblocks and awaits the drain task,
// releases the source stream and deletes the spill file if one was
// created. It is safe to call after full, partial or failed consumption,
// and more than once.
func (r *Reader) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.cond.Broadcast()
	r.mu.Unlock()

	// Closing the source unblocks a producer stuck in Read.
	r.closeSrc()
	<-r.done

	r.mu.Lock()
	defer r.mu.Unlock()
	err := r.srcErr
	if r.file != nil {
		name := r.file.Name()
		if cerr := r.file.Close(); err == nil {
			err = cerr
		}
		if rerr := os.Remove(name); err == nil {
			err = rerr
		}
		r.file = nil
	}
	r.buf = nil
	return err
}
