// Package memory is an in-process store backend. Several backends opened on
// one Medium behave like separate processes sharing a storage file, which is
// how the cross-process propagation paths are tested.
package memory

import (
	"context"
	"sync"
)

// Medium is the shared storage behind one or more backends.
type Medium struct {
	mu       sync.Mutex
	data     map[string][]byte
	watchers map[*Backend]func(string)
	failPut  error
}

func NewMedium() *Medium {
	return &Medium{
		data:     make(map[string][]byte),
		watchers: make(map[*Backend]func(string)),
	}
}

// Open returns a new backend on the medium.
func (m *Medium) Open() *Backend {
	return &Backend{medium: m}
}

// FailWrites makes every subsequent Put return err. Pass nil to recover.
func (m *Medium) FailWrites(err error) {
	m.mu.Lock()
	m.failPut = err
	m.mu.Unlock()
}

// WriteRaw stores raw bytes as if an outside writer had put them, notifying
// every watcher.
func (m *Medium) WriteRaw(key string, raw []byte) {
	m.mu.Lock()
	m.data[key] = append([]byte(nil), raw...)
	m.mu.Unlock()
	m.notify(nil, key)
}

// Clear removes key as if an outside writer had deleted it.
func (m *Medium) Clear(key string) {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	m.notify(nil, key)
}

func (m *Medium) notify(from *Backend, key string) {
	m.mu.Lock()
	fns := make([]func(string), 0, len(m.watchers))
	for b, fn := range m.watchers {
		if b != from {
			fns = append(fns, fn)
		}
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn(key)
	}
}

// Backend is one view of a Medium.
type Backend struct {
	medium *Medium
}

// New returns a backend on a private medium.
func New() *Backend {
	return NewMedium().Open()
}

func (b *Backend) Get(_ context.Context, key string) ([]byte, bool, error) {
	b.medium.mu.Lock()
	defer b.medium.mu.Unlock()
	v, ok := b.medium.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (b *Backend) Put(_ context.Context, key string, value []byte) error {
	b.medium.mu.Lock()
	if err := b.medium.failPut; err != nil {
		b.medium.mu.Unlock()
		return err
	}
	b.medium.data[key] = append([]byte(nil), value...)
	b.medium.mu.Unlock()

	b.medium.notify(b, key)
	return nil
}

func (b *Backend) Delete(_ context.Context, key string) error {
	b.medium.mu.Lock()
	delete(b.medium.data, key)
	b.medium.mu.Unlock()

	b.medium.notify(b, key)
	return nil
}

func (b *Backend) Watch(ctx context.Context, onChange func(string)) error {
	b.medium.mu.Lock()
	b.medium.watchers[b] = onChange
	b.medium.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.medium.mu.Lock()
		delete(b.medium.watchers, b)
		b.medium.mu.Unlock()
	}()
	return nil
}

func (b *Backend) Close() error {
	b.medium.mu.Lock()
	delete(b.medium.watchers, b)
	b.medium.mu.Unlock()
	return nil
}
