package document

import "sync"

// KeyedMutex hands out one mutex per document name so concurrent
// requests touching the same document serialize on it while requests
// for different documents proceed independently.
type KeyedMutex struct {
	mu      sync.Mutex
	mutexes map[string]*sync.Mutex
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{mutexes: make(map[string]*sync.Mutex)}
}

func (k *KeyedMutex) Lock(key string) {
	k.get(key).Lock()
}

func (k *KeyedMutex) Unlock(key string) {
	k.get(key).Unlock()
}

func (k *KeyedMutex) get(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()

	if mu, ok := k.mutexes[key]; ok {
		return mu
	}
	mu := &sync.Mutex{}
	k.mutexes[key] = mu
	return mu
}
