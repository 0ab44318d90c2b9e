// Package notify is an in-memory publish/subscribe list of short-lived
// user-facing messages.
package notify

import (
	"encoding/json"
	"slices"
	"sync"
	"time"

	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/pkg/logger"
	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/pkg/metrics"
)

type Type string

const (
	Success Type = "success"
	Error   Type = "error"
	Warning Type = "warning"
	Info    Type = "info"
)

// Action is a button offered with a notification.
type Action struct {
	Label string `json:"label"`
	Run   func() `json:"-"`
}

type Notification struct {
	ID          int64         `json:"id"`
	Type        Type          `json:"type"`
	Title       string        `json:"title,omitempty"`
	Message     string        `json:"message"`
	Duration    time.Duration `json:"-"`
	Actions     []Action      `json:"actions,omitempty"`
	Timestamp   time.Time     `json:"timestamp"`
	IsRead      bool          `json:"isRead"`
	IsDismissed bool          `json:"isDismissed"`
}

// MarshalJSON reports the duration in milliseconds.
func (n Notification) MarshalJSON() ([]byte, error) {
	type plain Notification
	return json.Marshal(struct {
		plain
		DurationMS int64 `json:"duration"`
	}{plain(n), n.Duration.Milliseconds()})
}

// Options for Add. A zero Duration selects the default for the type;
// Persistent disables auto-dismiss.
type Options struct {
	Type       Type
	Title      string
	Duration   time.Duration
	Actions    []Action
	Persistent bool
}

// Durations are the auto-dismiss delays per type.
type Durations map[Type]time.Duration

func DefaultDurations() Durations {
	return Durations{
		Success: 4 * time.Second,
		Info:    5 * time.Second,
		Warning: 6 * time.Second,
		Error:   8 * time.Second,
	}
}

// Listener receives a full snapshot, newest first, after every change.
type Listener func([]Notification)

// Timer schedules f after d and returns a func that cancels it. f must not
// run before Timer returns.
type Timer func(d time.Duration, f func()) (stop func())

func realTimer(d time.Duration, f func()) func() {
	t := time.AfterFunc(d, f)
	return func() { t.Stop() }
}

type subscriber struct {
	id int
	fn Listener
}

// Bus holds the notification list. Listeners run synchronously on the
// goroutine that made the change, outside the bus lock, so they may call back
// into the bus. Auto-dismiss timers fire on their own goroutines.
type Bus struct {
	mu        sync.Mutex
	items     []Notification
	timers    map[int64]func()
	subs      []subscriber
	nextID    int64
	nextSub   int
	durations Durations
	after     Timer
	now       func() time.Time
	log       *logger.Logger
}

type Option func(*Bus)

// WithDurations overrides the default per-type durations. Types missing from
// d keep their default.
func WithDurations(d Durations) Option {
	return func(b *Bus) {
		for k, v := range d {
			b.durations[k] = v
		}
	}
}

// WithTimer replaces time.AfterFunc, for tests.
func WithTimer(t Timer) Option {
	return func(b *Bus) { b.after = t }
}

func WithClock(now func() time.Time) Option {
	return func(b *Bus) { b.now = now }
}

func NewBus(opts ...Option) *Bus {
	b := &Bus{
		timers:    map[int64]func(){},
		durations: DefaultDurations(),
		after:     realTimer,
		now:       time.Now,
		log:       logger.Named("notify"),
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Add publishes message and returns its id.
func (b *Bus) Add(message string, o Options) int64 {
	if o.Type == "" {
		o.Type = Info
	}
	d := o.Duration
	if d == 0 {
		d = b.durations[o.Type]
	}
	if o.Persistent || d < 0 {
		d = 0
	}

	b.mu.Lock()
	b.nextID++
	n := Notification{
		ID:        b.nextID,
		Type:      o.Type,
		Title:     o.Title,
		Message:   message,
		Duration:  d,
		Actions:   o.Actions,
		Timestamp: b.now(),
	}
	b.items = append([]Notification{n}, b.items...)
	if d > 0 {
		id := n.ID
		b.timers[id] = b.after(d, func() { b.Dismiss(id) })
	}
	snap, subs := b.snapshotLocked()
	b.mu.Unlock()

	metrics.Notifications.WithLabelValues(string(o.Type)).Inc()
	b.log.Debugf("%s #%d: %s", o.Type, n.ID, message)
	notifyAll(subs, snap)
	return n.ID
}

func (b *Bus) Success(message string, o Options) int64 {
	o.Type = Success
	return b.Add(message, o)
}

func (b *Bus) Error(message string, o Options) int64 {
	o.Type = Error
	return b.Add(message, o)
}

func (b *Bus) Warning(message string, o Options) int64 {
	o.Type = Warning
	return b.Add(message, o)
}

func (b *Bus) Info(message string, o Options) int64 {
	o.Type = Info
	return b.Add(message, o)
}

// Dismiss removes id. Dismissing an unknown id is a no-op.
func (b *Bus) Dismiss(id int64) {
	b.mu.Lock()
	idx := slices.IndexFunc(b.items, func(n Notification) bool { return n.ID == id })
	if idx < 0 {
		b.mu.Unlock()
		return
	}
	b.items = slices.Delete(b.items, idx, idx+1)
	if stop, ok := b.timers[id]; ok {
		stop()
		delete(b.timers, id)
	}
	snap, subs := b.snapshotLocked()
	b.mu.Unlock()
	notifyAll(subs, snap)
}

// MarkAsRead flags id as read without removing it. It reports whether id
// exists.
func (b *Bus) MarkAsRead(id int64) bool {
	b.mu.Lock()
	idx := slices.IndexFunc(b.items, func(n Notification) bool { return n.ID == id })
	if idx < 0 {
		b.mu.Unlock()
		return false
	}
	b.items[idx].IsRead = true
	snap, subs := b.snapshotLocked()
	b.mu.Unlock()
	notifyAll(subs, snap)
	return true
}

func (b *Bus) MarkAllAsRead() {
	b.mu.Lock()
	for i := range b.items {
		b.items[i].IsRead = true
	}
	snap, subs := b.snapshotLocked()
	b.mu.Unlock()
	notifyAll(subs, snap)
}

// Clear dismisses everything.
func (b *Bus) Clear() {
	b.mu.Lock()
	for id, stop := range b.timers {
		stop()
		delete(b.timers, id)
	}
	b.items = nil
	snap, subs := b.snapshotLocked()
	b.mu.Unlock()
	notifyAll(subs, snap)
}

// Subscribe registers l and returns the func that removes it.
func (b *Bus) Subscribe(l Listener) (unsubscribe func()) {
	b.mu.Lock()
	b.nextSub++
	id := b.nextSub
	b.subs = append(b.subs, subscriber{id: id, fn: l})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			b.subs = slices.DeleteFunc(b.subs, func(s subscriber) bool { return s.id == id })
		})
	}
}

// GetAll returns a snapshot, newest first.
func (b *Bus) GetAll() []Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.items)
}

func (b *Bus) Get(id int64) (Notification, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, n := range b.items {
		if n.ID == id {
			return n, true
		}
	}
	return Notification{}, false
}

func (b *Bus) UnreadCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	c := 0
	for _, n := range b.items {
		if !n.IsRead {
			c++
		}
	}
	return c
}

func (b *Bus) snapshotLocked() ([]Notification, []subscriber) {
	snap := slices.Clone(b.items)
	if snap == nil {
		snap = []Notification{}
	}
	return snap, slices.Clone(b.subs)
}

func notifyAll(subs []subscriber, snap []Notification) {
	for _, s := range subs {
		s.fn(slices.Clone(snap))
	}
}
