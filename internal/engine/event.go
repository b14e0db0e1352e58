package engine

// Channel is a per-instance change notification channel. Every mutation made
// through a field descriptor calls Notify so observers such as a property
// grid stay in sync without polling. The zero value is ready to use.
type Channel struct {
	subs   []*subscriber
	owned  []Subscription
	nextID uint64
}

type subscriber struct {
	id         uint64
	fn         func()
	dispatcher *Dispatcher
	live       bool
}

// Subscription identifies one callback registered on a channel. Go funcs are
// not comparable, so unsubscribing goes through this handle.
type Subscription struct {
	ch *Channel
	id uint64
}

type subscribeOptions struct {
	owner      *Channel
	dispatcher *Dispatcher
}

// SubscribeOption configures Subscribe.
type SubscribeOption func(*subscribeOptions)

// WithOwner ties the subscription to owner: closing owner unsubscribes it.
func WithOwner(owner *Channel) SubscribeOption {
	return func(o *subscribeOptions) { o.owner = owner }
}

// Deferred queues the callback in d instead of running it inside Notify.
// It runs at most once per d.EmitAll regardless of how often the channel
// notified.
func Deferred(d *Dispatcher) SubscribeOption {
	return func(o *subscribeOptions) { o.dispatcher = d }
}

// Subscribe registers fn. Without Deferred the callback is immediate.
func (c *Channel) Subscribe(fn func(), opts ...SubscribeOption) Subscription {
	var o subscribeOptions
	for _, opt := range opts {
		opt(&o)
	}
	c.nextID++
	c.subs = append(c.subs, &subscriber{id: c.nextID, fn: fn, dispatcher: o.dispatcher, live: true})
	sub := Subscription{ch: c, id: c.nextID}
	if o.owner != nil && o.owner != c {
		o.owner.owned = append(o.owner.owned, sub)
	}
	return sub
}

// Unsubscribe removes sub. Unknown subscriptions are ignored.
func (c *Channel) Unsubscribe(sub Subscription) {
	if sub.ch != c {
		return
	}
	for i, s := range c.subs {
		if s.id == sub.id {
			s.live = false
			c.subs = append(c.subs[:i], c.subs[i+1:]...)
			return
		}
	}
}

// Unsubscribe removes the subscription from the channel it was made on.
func (s Subscription) Unsubscribe() {
	if s.ch != nil {
		s.ch.Unsubscribe(s)
	}
}

// Notify runs immediate callbacks and queues deferred ones.
func (c *Channel) Notify() {
	if len(c.subs) == 0 {
		return
	}
	subs := make([]*subscriber, len(c.subs))
	copy(subs, c.subs)
	for _, s := range subs {
		if !s.live {
			continue
		}
		if s.dispatcher != nil {
			s.dispatcher.enqueue(s)
			continue
		}
		s.fn()
	}
}

// Close drops every subscription on c and every subscription c owns on
// other channels.
func (c *Channel) Close() {
	for _, s := range c.subs {
		s.live = false
	}
	c.subs = nil
	owned := c.owned
	c.owned = nil
	for _, sub := range owned {
		sub.Unsubscribe()
	}
}

// Len returns the number of live subscriptions.
func (c *Channel) Len() int {
	return len(c.subs)
}

// Dispatcher collects deferred callbacks until the frame's flush point.
type Dispatcher struct {
	pending map[*subscriber]struct{}
	order   []*subscriber
}

// NewDispatcher returns an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{pending: make(map[*subscriber]struct{})}
}

func (d *Dispatcher) enqueue(s *subscriber) {
	if d.pending == nil {
		d.pending = make(map[*subscriber]struct{})
	}
	if _, ok := d.pending[s]; ok {
		return
	}
	d.pending[s] = struct{}{}
	d.order = append(d.order, s)
}

// EmitAll runs every queued callback once, in queue order, and returns how
// many ran. Callbacks queued while flushing wait for the next call.
func (d *Dispatcher) EmitAll() int {
	if len(d.order) == 0 {
		return 0
	}
	batch := d.order
	d.order = nil
	d.pending = make(map[*subscriber]struct{})
	n := 0
	for _, s := range batch {
		if !s.live {
			continue
		}
		s.fn()
		n++
	}
	return n
}

// Pending returns the number of queued callbacks.
func (d *Dispatcher) Pending() int {
	return len(d.order)
}

// Event is a multicast event with one argument.
type Event[T any] struct {
	listeners []listener[T]
	nextID    int
}

type listener[T any] struct {
	id int
	fn func(T)
}

// AddListener adds a callback invoked when the event fires and returns an id
// for RemoveListener.
func (e *Event[T]) AddListener(callback func(T)) int {
	if callback == nil {
		return 0
	}
	e.nextID++
	e.listeners = append(e.listeners, listener[T]{id: e.nextID, fn: callback})
	return e.nextID
}

// RemoveListener removes the listener with the given id.
func (e *Event[T]) RemoveListener(id int) {
	for i, l := range e.listeners {
		if l.id == id {
			e.listeners = append(e.listeners[:i], e.listeners[i+1:]...)
			return
		}
	}
}

// RemoveAllListeners clears all listeners
func (e *Event[T]) RemoveAllListeners() {
	e.listeners = nil
}

// Invoke calls all registered listeners
func (e *Event[T]) Invoke(arg T) {
	for _, l := range e.listeners {
		l.fn(arg)
	}
}

// ListenerCount returns the number of registered listeners.
func (e *Event[T]) ListenerCount() int {
	return len(e.listeners)
}
