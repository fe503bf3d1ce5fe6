package bus

import (
	"reflect"
	"strings"
)

// Await is a keyed one-shot subscription. It matches the next raised event of
// its kind whose exported fields equal every entry in Attrs, delivers an
// AwaitResult, and is removed unless Durable.
type Await struct {
	Key     string
	Kind    reflect.Type
	Attrs   map[string]interface{}
	Payload interface{}
	Durable bool

	matches chan AwaitResult
}

// AwaitResult is what a matched await delivers.
type AwaitResult struct {
	Event   interface{}
	Payload interface{}
}

// Next returns the channel the await delivers on. The channel is buffered;
// for a non-durable await it receives at most one result.
func (a *Await) Next() <-chan AwaitResult {
	return a.matches
}

// AddAwait registers an await for the next event whose type equals kind's
// type and whose fields match attrs. kind is a sample pointer, for instance
// (*event.Message)(nil). A previous await under the same key is replaced.
func (b *Bus) AddAwait(key string, kind interface{}, attrs map[string]interface{}, payload interface{}) *Await {
	a := &Await{
		Key:     key,
		Kind:    reflect.TypeOf(kind),
		Attrs:   attrs,
		Payload: payload,
		matches: make(chan AwaitResult, 1),
	}

	b.hmutex.Lock()
	if b.awaits == nil {
		b.awaits = map[string]*Await{}
	}
	b.awaits[key] = a
	b.hmutex.Unlock()

	return a
}

// RemoveAwait drops the await with the given key, if any.
func (b *Bus) RemoveAwait(key string) {
	b.hmutex.Lock()
	delete(b.awaits, key)
	b.hmutex.Unlock()
}

func (b *Bus) raiseAwaits(ev interface{}, evT reflect.Type) {
	b.hmutex.Lock()
	defer b.hmutex.Unlock()

	for key, a := range b.awaits {
		if a.Kind != evT {
			continue
		}

		if !attrsMatch(ev, a.Attrs) {
			continue
		}

		// Non-blocking: the channel is buffered, and a durable await that
		// isn't being drained should not stall the dispatcher.
		select {
		case a.matches <- AwaitResult{Event: ev, Payload: a.Payload}:
		default:
			b.Log.Warn().
				Str("await", key).
				Msg("await match dropped; receiver not draining")
		}

		if !a.Durable {
			delete(b.awaits, key)
		}
	}
}

// attrsMatch compares every attrs entry against the event's exported field of
// the same (case-insensitive) name. Pointer fields are dereferenced before
// comparison.
func attrsMatch(ev interface{}, attrs map[string]interface{}) bool {
	if len(attrs) == 0 {
		return true
	}

	v := reflect.ValueOf(ev)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return false
		}
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return false
	}

	for name, want := range attrs {
		f := v.FieldByNameFunc(func(field string) bool {
			return strings.EqualFold(field, name)
		})
		if !f.IsValid() {
			return false
		}

		for f.Kind() == reflect.Ptr {
			if f.IsNil() {
				return false
			}
			f = f.Elem()
		}

		if !reflect.DeepEqual(f.Interface(), want) {
			return false
		}
	}

	return true
}
