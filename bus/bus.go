// Package bus fans incoming events out to registered handlers. It reflects
// each handler's first argument and caches the type for matching.
//
// Usage is similar to discordgo, in that On expects a function with only one
// argument. The only argument must be a pointer to one of the event types, or
// an interface{} which would accept all events.
//
//	s.On(func(m *event.Message) {
//	    log.Println(m.Message.Author.Username, "said", m.Message.Content)
//	})
//
// Every handler invocation runs on its own goroutine so a slow handler never
// blocks the receive loop. Panics are caught per handler and logged with the
// task name.
package bus

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"go.uber.org/atomic"
)

type Bus struct {
	// MaxConcurrency bounds how many handler tasks may run at once. Zero
	// means unbounded. It must be set before the first Raise.
	MaxConcurrency int

	Log zerolog.Logger

	handlers map[uint64]handler
	horders  []uint64
	hserial  uint64
	hmutex   sync.RWMutex

	awaits map[string]*Await

	tasks   atomic.Uint64
	sem     chan struct{}
	semOnce sync.Once
}

func New(log zerolog.Logger) *Bus {
	return &Bus{
		Log:      log,
		handlers: map[uint64]handler{},
		awaits:   map[string]*Await{},
	}
}

// Raise matches the event against every registered handler whose kind equals
// the event's kind and whose predicate accepts it, then against every await.
// Handlers are scheduled in registration order but run in parallel.
func (b *Bus) Raise(ev interface{}) {
	var evV = reflect.ValueOf(ev)
	var evT = evV.Type()

	b.hmutex.RLock()

	for _, order := range b.horders {
		h, ok := b.handlers[order]
		if !ok {
			continue
		}

		if h.not(evT) {
			continue
		}

		if h.predicate != nil && !h.predicate(ev) {
			continue
		}

		b.spawn(h, evV)
	}

	b.hmutex.RUnlock()

	b.raiseAwaits(ev, evT)
}

func (b *Bus) spawn(h handler, evV reflect.Value) {
	task := fmt.Sprintf("et-%d", b.tasks.Inc())

	run := func() {
		defer func() {
			if rec := recover(); rec != nil {
				b.Log.Error().
					Str("task", task).
					Str("event", evV.Type().String()).
					Interface("panic", rec).
					Msg("event handler panicked")
			}
		}()

		h.call(evV)
	}

	sem := b.semaphore()
	if sem == nil {
		go run()
		return
	}

	go func() {
		sem <- struct{}{}
		defer func() { <-sem }()
		run()
	}()
}

func (b *Bus) semaphore() chan struct{} {
	b.semOnce.Do(func() {
		if b.MaxConcurrency > 0 {
			b.sem = make(chan struct{}, b.MaxConcurrency)
		}
	})
	return b.sem
}

// On adds the handler, returning a function that would remove this handler
// when called. It panics if the handler is not a func(*SomeEvent) or
// func(interface{}).
func (b *Bus) On(fn interface{}) (rm func()) {
	rm, err := b.OnCheck(fn)
	if err != nil {
		panic(err)
	}
	return rm
}

// OnFiltered is On with a predicate; the handler only runs for events the
// predicate accepts.
func (b *Bus) OnFiltered(predicate func(interface{}) bool, fn interface{}) (rm func()) {
	rm, err := b.addHandler(fn, predicate)
	if err != nil {
		panic(err)
	}
	return rm
}

// OnCheck is On, but safe-guards reflect panics, returning the error.
func (b *Bus) OnCheck(fn interface{}) (rm func(), err error) {
	defer func() {
		if rec := recover(); rec != nil {
			if recErr, ok := rec.(error); ok {
				err = recErr
			} else {
				err = fmt.Errorf("%v", rec)
			}
		}
	}()

	return b.addHandler(fn, nil)
}

func (b *Bus) addHandler(fn interface{}, predicate func(interface{}) bool) (rm func(), err error) {
	r, err := reflectFn(fn)
	if err != nil {
		return nil, errors.Wrap(err, "handler reflect failed")
	}
	r.predicate = predicate

	b.hmutex.Lock()
	defer b.hmutex.Unlock()

	serial := b.hserial
	b.hserial++

	if b.handlers == nil {
		b.handlers = map[uint64]handler{}
	}

	b.handlers[serial] = *r
	b.horders = append(b.horders, serial)

	return func() {
		b.hmutex.Lock()
		defer b.hmutex.Unlock()

		delete(b.handlers, serial)

		for i, order := range b.horders {
			if order == serial {
				b.horders = append(b.horders[:i], b.horders[i+1:]...)
				break
			}
		}
	}, nil
}

type handler struct {
	event     reflect.Type
	callback  reflect.Value
	isIface   bool
	predicate func(interface{}) bool
}

func reflectFn(function interface{}) (*handler, error) {
	fnV := reflect.ValueOf(function)
	fnT := fnV.Type()

	if fnT.Kind() != reflect.Func {
		return nil, errors.New("given interface is not a function")
	}

	if fnT.NumIn() != 1 {
		return nil, errors.New("function can only accept 1 event as argument")
	}

	if fnT.NumOut() > 0 {
		return nil, errors.New("function can't accept returns")
	}

	argT := fnT.In(0)
	kind := argT.Kind()

	// Accept either pointer type or interface{} type
	if kind != reflect.Ptr && kind != reflect.Interface {
		return nil, errors.New("first argument is not pointer")
	}

	return &handler{
		event:    argT,
		callback: fnV,
		isIface:  kind == reflect.Interface,
	}, nil
}

func (h handler) not(event reflect.Type) bool {
	if h.isIface {
		return !event.Implements(h.event)
	}

	return h.event != event
}

func (h handler) call(event reflect.Value) {
	h.callback.Call([]reflect.Value{event})
}
