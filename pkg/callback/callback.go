// Package callback keeps ordered lists of event handlers per event kind.
//
// Handlers come in two forms. A HandlerFunc runs to completion on the
// dispatching goroutine, an AsyncHandlerFunc returns a channel that yields
// its result later. Both are dispatched through the Handler interface and
// HandleEvent waits for all of them.
package callback

import (
	"context"
	"errors"
	"reflect"
	"sync"
)

type Handler[E any] interface {
	// Handle processes event. The returned channel yields at most one error
	// and is closed once the handler is done. A nil channel means done.
	Handle(ctx context.Context, event E) <-chan error
}

// HandlerFunc is a synchronous handler.
type HandlerFunc[E any] func(ctx context.Context, event E) error

func (f HandlerFunc[E]) Handle(ctx context.Context, event E) <-chan error {
	return resolved(f(ctx, event))
}

// AsyncHandlerFunc is a handler that completes on its own schedule.
type AsyncHandlerFunc[E any] func(ctx context.Context, event E) <-chan error

func (f AsyncHandlerFunc[E]) Handle(ctx context.Context, event E) <-chan error {
	return f(ctx, event)
}

// Go turns a blocking function into an asynchronous handler running on its
// own goroutine, so slow handlers do not delay the ones registered after it.
func Go[E any](fn func(ctx context.Context, event E) error) AsyncHandlerFunc[E] {
	return func(ctx context.Context, event E) <-chan error {
		done := make(chan error, 1)
		go func() {
			defer close(done)
			if err := fn(ctx, event); err != nil {
				done <- err
			}
		}()
		return done
	}
}

func resolved(err error) <-chan error {
	done := make(chan error, 1)
	if err != nil {
		done <- err
	}
	close(done)
	return done
}

type Registry[K comparable, E any] struct {
	mu       sync.RWMutex
	handlers map[K][]Handler[E]
}

func NewRegistry[K comparable, E any]() *Registry[K, E] {
	return &Registry[K, E]{
		handlers: map[K][]Handler[E]{},
	}
}

// Register appends handlers to the list of kind. Nil handlers are ignored.
func (r *Registry[K, E]) Register(kind K, handlers ...Handler[E]) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, handler := range handlers {
		if isNil(handler) {
			continue
		}
		r.handlers[kind] = append(r.handlers[kind], handler)
	}
}

// Unregister removes the first registration of handler for kind and reports
// whether one was found.
func (r *Registry[K, E]) Unregister(kind K, handler Handler[E]) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	handlers := r.handlers[kind]
	for i := range handlers {
		if !sameHandler(handlers[i], handler) {
			continue
		}
		remaining := make([]Handler[E], 0, len(handlers)-1)
		remaining = append(remaining, handlers[:i]...)
		remaining = append(remaining, handlers[i+1:]...)
		if len(remaining) == 0 {
			delete(r.handlers, kind)
		} else {
			r.handlers[kind] = remaining
		}
		return true
	}

	return false
}

// Handlers returns a snapshot of the handlers registered for kind.
func (r *Registry[K, E]) Handlers(kind K) []Handler[E] {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]Handler[E](nil), r.handlers[kind]...)
}

// Exists reports whether handler is registered for kind. Function handlers
// are compared by their code pointer, so two closures created by the same
// function literal are considered the same handler.
func (r *Registry[K, E]) Exists(kind K, handler Handler[E]) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, registered := range r.handlers[kind] {
		if sameHandler(registered, handler) {
			return true
		}
	}
	return false
}

// HandleEvent invokes every handler of kind in registration order and waits
// until all of them are done. Handler errors are joined. A kind without
// handlers is not an error.
func (r *Registry[K, E]) HandleEvent(ctx context.Context, kind K, event E) error {
	handlers := r.Handlers(kind)
	if len(handlers) == 0 {
		return nil
	}

	pending := make([]<-chan error, 0, len(handlers))
	for _, handler := range handlers {
		pending = append(pending, handler.Handle(ctx, event))
	}

	var errs []error
	for _, done := range pending {
		err, ok := await(ctx, done)
		if err != nil {
			errs = append(errs, err)
		}
		if !ok {
			return errors.Join(append(errs, ctx.Err())...)
		}
	}

	return errors.Join(errs...)
}

// await prefers a completed handler over a cancelled context, so handlers
// that already finished are never reported as cancelled.
func await(ctx context.Context, done <-chan error) (error, bool) {
	if done == nil {
		return nil, true
	}
	select {
	case err := <-done:
		return err, true
	default:
	}
	select {
	case err := <-done:
		return err, true
	case <-ctx.Done():
		return nil, false
	}
}

func isNil[E any](handler Handler[E]) bool {
	if handler == nil {
		return true
	}
	v := reflect.ValueOf(handler)
	switch v.Kind() {
	case reflect.Func, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}

func sameHandler[E any](a, b Handler[E]) bool {
	if isNil(a) || isNil(b) {
		return false
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	if va.Kind() == reflect.Func {
		return va.Pointer() == vb.Pointer()
	}
	if va.Type().Comparable() {
		return va.Interface() == vb.Interface()
	}
	return false
}
