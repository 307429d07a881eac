package keymutex

import "sync"

// KeyMutex serializa operaciones por clave arbitraria. Claves distintas no se
// bloquean entre sí. Los mutex se crean bajo demanda y se retienen: el conjunto
// de claves (producto, bodega) es acotado por el tamaño del catálogo.
type KeyMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New crea un KeyMutex vacío.
func New() *KeyMutex {
	return &KeyMutex{locks: make(map[string]*sync.Mutex)}
}

// Lock adquiere el mutex de la clave, creándolo si no existe.
func (k *KeyMutex) Lock(key string) {
	k.mutexFor(key).Lock()
}

// Unlock libera el mutex de la clave. Panic si nunca se bloqueó esa clave.
func (k *KeyMutex) Unlock(key string) {
	k.mu.Lock()
	m, ok := k.locks[key]
	k.mu.Unlock()
	if !ok {
		panic("keymutex: unlock de clave no bloqueada: " + key)
	}
	m.Unlock()
}

func (k *KeyMutex) mutexFor(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	return m
}
