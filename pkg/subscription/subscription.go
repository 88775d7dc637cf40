package subscription

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/jensneuse/abstractlogger"
	"go.uber.org/atomic"

	"github.com/abn/aiographql-client/pkg/callback"
	"github.com/abn/aiographql-client/pkg/request"
	"github.com/abn/aiographql-client/pkg/wsconn"
)

type State int32

const (
	StateCreated State = iota
	StateConnecting
	StateInitSent
	StateActive
	StateStopped
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateConnecting:
		return "connecting"
	case StateInitSent:
		return "init_sent"
	case StateActive:
		return "active"
	case StateStopped:
		return "stopped"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

type (
	Handler   = callback.Handler[*Event]
	Callbacks = callback.Registry[EventType, *Event]
)

// HandlerFunc is a synchronous event handler.
type HandlerFunc = callback.HandlerFunc[*Event]

type Option func(s *Subscription)

// WithHandlers registers handlers for an event type.
func WithHandlers(eventType EventType, handlers ...Handler) Option {
	return func(s *Subscription) {
		s.callbacks.Register(eventType, handlers...)
	}
}

// WithCallbacks replaces the callback registry.
func WithCallbacks(callbacks *Callbacks) Option {
	return func(s *Subscription) {
		if callbacks != nil {
			s.callbacks = callbacks
		}
	}
}

// WithStopEvents replaces the event types that end the subscription.
func WithStopEvents(eventTypes ...EventType) Option {
	return func(s *Subscription) {
		s.stopEvents = append([]EventType(nil), eventTypes...)
	}
}

func WithDialer(dialer wsconn.Dialer) Option {
	return func(s *Subscription) {
		if dialer != nil {
			s.dialer = dialer
		}
	}
}

// WithSubprotocols overrides the sub-protocols offered during the
// handshake, ProtocolGraphQLWS by default.
func WithSubprotocols(subprotocols ...string) Option {
	return func(s *Subscription) {
		s.subprotocols = append([]string(nil), subprotocols...)
	}
}

// WithDialHeader sets headers sent with the WebSocket upgrade request.
func WithDialHeader(header http.Header) Option {
	return func(s *Subscription) {
		s.dialHeader = header.Clone()
	}
}

func WithLogger(log abstractlogger.Logger) Option {
	return func(s *Subscription) {
		if log != nil {
			s.log = log
		}
	}
}

// Subscription is a single GraphQL subscription. It owns at most one
// connection at a time, driven by a background task started with Subscribe.
type Subscription struct {
	id           string
	request      *request.Request
	callbacks    *Callbacks
	stopEvents   []EventType
	dialer       wsconn.Dialer
	dialHeader   http.Header
	subprotocols []string
	log          abstractlogger.Logger

	state *atomic.Int32

	mu   sync.Mutex
	task *task
}

type task struct {
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

func (t *task) finished() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

func New(req *request.Request, options ...Option) *Subscription {
	s := &Subscription{
		id:           uuid.NewString(),
		request:      req,
		callbacks:    callback.NewRegistry[EventType, *Event](),
		stopEvents:   DefaultStopEvents(),
		dialer:       wsconn.NhooyrDialer{},
		subprotocols: []string{ProtocolGraphQLWS},
		log:          abstractlogger.NoopLogger,
		state:        atomic.NewInt32(int32(StateCreated)),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// ID identifies the operation on the connection. It is stable across
// forced restarts.
func (s *Subscription) ID() string {
	return s.id
}

func (s *Subscription) Request() *request.Request {
	return s.request
}

// Callbacks exposes the registry, handlers may be added while running.
func (s *Subscription) Callbacks() *Callbacks {
	return s.callbacks
}

func (s *Subscription) State() State {
	return State(s.state.Load())
}

// IsRunning reports whether a task was started and has not finished yet.
func (s *Subscription) IsRunning() bool {
	t := s.currentTask()
	return t != nil && !t.finished()
}

// IsComplete reports whether a task was started and has finished.
func (s *Subscription) IsComplete() bool {
	t := s.currentTask()
	return t != nil && t.finished()
}

// Err returns the transport error that ended the last task, if any.
func (s *Subscription) Err() error {
	t := s.currentTask()
	if t == nil || !t.finished() {
		return nil
	}
	return t.err
}

// Subscribe connects to endpoint and starts the operation in the
// background. It is a no-op while running unless force is set, in which
// case the current task is stopped first and a new one started with the
// same id. The task ends when ctx is cancelled, on Unsubscribe, on a stop
// event or when the connection closes.
func (s *Subscription) Subscribe(ctx context.Context, endpoint string, force bool) error {
	url, err := wsconn.WebsocketURL(endpoint)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for s.task != nil && !s.task.finished() {
		if !force {
			return nil
		}
		current := s.task

		// handlers of the current task may query the subscription while it
		// shuts down, so wait without holding the lock
		s.mu.Unlock()
		current.cancel()
		select {
		case <-current.done:
		case <-ctx.Done():
			s.mu.Lock()
			return ctx.Err()
		}
		s.mu.Lock()

		if s.task != current {
			// restarted by a concurrent call
			return nil
		}
	}

	taskCtx, cancel := context.WithCancel(ctx)
	t := &task{
		cancel: cancel,
		done:   make(chan struct{}),
	}
	s.task = t
	s.state.Store(int32(StateConnecting))

	go func() {
		defer close(t.done)
		defer cancel()
		t.err = s.run(taskCtx, url)
	}()

	return nil
}

// Unsubscribe cancels the running task without waiting for it to finish.
func (s *Subscription) Unsubscribe() {
	if t := s.currentTask(); t != nil {
		t.cancel()
	}
}

// UnsubscribeAndWait cancels the running task and waits until it is done.
func (s *Subscription) UnsubscribeAndWait(ctx context.Context) error {
	s.Unsubscribe()
	return s.Wait(ctx)
}

// Wait blocks until the current task is done and returns its transport
// error. It returns immediately if no task was started.
func (s *Subscription) Wait(ctx context.Context) error {
	t := s.currentTask()
	if t == nil {
		return nil
	}
	select {
	case <-t.done:
		return t.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Subscription) currentTask() *task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.task
}

func (s *Subscription) isStopEvent(eventType EventType) bool {
	for _, stop := range s.stopEvents {
		if stop == eventType {
			return true
		}
	}
	return false
}

type frame struct {
	typ  wsconn.MessageType
	data []byte
	err  error
}

func (s *Subscription) run(ctx context.Context, url string) error {
	conn, err := s.dialer.Dial(ctx, url, wsconn.DialOptions{
		Header:       s.dialHeader,
		Subprotocols: s.subprotocols,
	})
	if err != nil {
		if ctx.Err() != nil {
			s.state.Store(int32(StateStopped))
			return nil
		}
		s.state.Store(int32(StateFailed))
		s.log.Error("Subscription.run",
			abstractlogger.String("id", s.id),
			abstractlogger.String("url", url),
			abstractlogger.Error(err),
		)
		return fmt.Errorf("dial %s: %w", url, err)
	}

	s.log.Debug("Subscription.run",
		abstractlogger.String("id", s.id),
		abstractlogger.String("message", "connected"),
		abstractlogger.String("subprotocol", conn.Subprotocol()),
	)

	readCtx, cancelRead := context.WithCancel(context.Background())
	frames := make(chan frame)
	readerDone := make(chan struct{})

	defer func() {
		_ = conn.Close()
		cancelRead()
		<-readerDone
	}()

	go s.read(readCtx, conn, frames, readerDone)

	initMessage, err := connectionInitMessage(s.request.Headers())
	if err != nil {
		s.state.Store(int32(StateFailed))
		return err
	}
	if err := s.write(ctx, conn, initMessage); err != nil {
		return s.fail(ctx, err)
	}
	s.state.Store(int32(StateInitSent))

	acked := false
	for {
		select {
		case <-ctx.Done():
			s.sendStop(conn)
			s.state.Store(int32(StateStopped))
			return nil
		case f := <-frames:
			if f.err != nil {
				return s.fail(ctx, f.err)
			}
			if f.typ != wsconn.MessageText {
				continue
			}

			event, err := ParseEvent(f.data, s.request)
			if err != nil {
				s.log.Debug("Subscription.run",
					abstractlogger.String("id", s.id),
					abstractlogger.String("message", "ignoring message"),
					abstractlogger.Error(err),
				)
				continue
			}
			if event.ID != "" && event.ID != s.id {
				continue
			}

			// only an ack read from this task's connection starts the
			// operation, the registry may be shared with other subscriptions
			if event.Type == ConnectionAck && !acked {
				acked = true
				if err := s.sendStart(ctx, conn); err != nil {
					return s.fail(ctx, err)
				}
				s.state.Store(int32(StateActive))
			}

			if err := s.callbacks.HandleEvent(ctx, event.Type, event); err != nil {
				s.log.Error("Subscription.run",
					abstractlogger.String("id", s.id),
					abstractlogger.String("event", string(event.Type)),
					abstractlogger.Error(err),
				)
			}

			if s.isStopEvent(event.Type) {
				s.log.Debug("Subscription.run",
					abstractlogger.String("id", s.id),
					abstractlogger.String("message", "stop event received"),
					abstractlogger.String("event", string(event.Type)),
				)
				s.state.Store(int32(StateStopped))
				return nil
			}
		}
	}
}

// fail maps a transport error to the final state. A cancelled task or a
// normal close stops the subscription, anything else fails it.
func (s *Subscription) fail(ctx context.Context, err error) error {
	if ctx.Err() != nil || errors.Is(err, wsconn.ErrClosed) {
		s.state.Store(int32(StateStopped))
		return nil
	}
	s.state.Store(int32(StateFailed))
	s.log.Error("Subscription.run",
		abstractlogger.String("id", s.id),
		abstractlogger.Error(err),
	)
	return err
}

func (s *Subscription) read(ctx context.Context, conn wsconn.Conn, frames chan<- frame, done chan<- struct{}) {
	defer close(done)
	for {
		typ, data, err := conn.Read(ctx)
		select {
		case frames <- frame{typ: typ, data: data, err: err}:
		case <-ctx.Done():
			return
		}
		if err != nil {
			return
		}
	}
}

func (s *Subscription) write(ctx context.Context, conn wsconn.Conn, message []byte) error {
	ctx, cancel := context.WithTimeout(ctx, wsconn.DefaultWriteTimeout)
	defer cancel()
	return conn.Write(ctx, wsconn.MessageText, message)
}

// sendStop notifies the server on a best effort basis, the task context is
// already cancelled at this point.
func (s *Subscription) sendStop(conn wsconn.Conn) {
	message, err := stopMessage(s.id)
	if err != nil {
		return
	}
	if err := s.write(context.Background(), conn, message); err != nil {
		s.log.Debug("Subscription.sendStop",
			abstractlogger.String("id", s.id),
			abstractlogger.Error(err),
		)
	}
}

func (s *Subscription) sendStart(ctx context.Context, conn wsconn.Conn) error {
	message, err := startMessage(s.id, s.request)
	if err != nil {
		return err
	}
	if err := s.write(ctx, conn, message); err != nil {
		return fmt.Errorf("send start: %w", err)
	}
	return nil
}
