package docstore

import "sync"

// notifier fans collection change signals out to subscribers. Both
// store implementations publish through one of these after every
// successful write, which is what makes Subscribe push-based without
// any polling.
type notifier struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string]map[int]func()
}

func newNotifier() *notifier {
	return &notifier{subs: make(map[string]map[int]func())}
}

// subscribe registers fn against a collection path and returns a
// detach func. fn runs on the publisher's goroutine.
func (n *notifier) subscribe(path string, fn func()) func() {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++

	if n.subs[path] == nil {
		n.subs[path] = make(map[int]func())
	}
	n.subs[path][id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			delete(n.subs[path], id)
			if len(n.subs[path]) == 0 {
				delete(n.subs, path)
			}
		})
	}
}

// publish signals every subscriber of the collection.
func (n *notifier) publish(path string) {
	n.mu.RLock()
	fns := make([]func(), 0, len(n.subs[path]))
	for _, fn := range n.subs[path] {
		fns = append(fns, fn)
	}
	n.mu.RUnlock()

	for _, fn := range fns {
		fn()
	}
}
