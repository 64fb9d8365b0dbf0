package journal

import (
	"encoding/json"
	"sync"
)

// Feed fans freshly recorded entries out to monitor subscribers as marshaled
// JSON. A subscriber that falls behind loses entries rather than stalling
// the bridge; the on-disk journal stays the source of truth.
type Feed struct {
	mu   sync.Mutex
	next uint64
	subs map[uint64]chan []byte
}

func NewFeed() *Feed {
	return &Feed{subs: make(map[uint64]chan []byte)}
}

// Record marshals e once and offers it to every subscriber without blocking.
func (f *Feed) Record(e Entry) error {
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ch := range f.subs {
		select {
		case ch <- b:
		default:
		}
	}
	return nil
}

// Subscribe registers a buffered delivery channel and returns it with a
// cancel function. Cancel closes the channel; it is safe to call twice.
func (f *Feed) Subscribe(buf int) (<-chan []byte, func()) {
	if buf < 1 {
		buf = 1
	}
	ch := make(chan []byte, buf)
	f.mu.Lock()
	id := f.next
	f.next++
	f.subs[id] = ch
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if c, ok := f.subs[id]; ok {
			delete(f.subs, id)
			close(c)
		}
	}
	return ch, cancel
}

// Subscribers reports how many channels are currently registered.
func (f *Feed) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}
