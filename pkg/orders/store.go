package orders

import "sync"

const shardCount = 32

// store is a sharded map of live orders. Each shard has its own lock so
// creates and cancels on different ids rarely contend.
type store struct {
	shards [shardCount]shard
}

type shard struct {
	mu     sync.RWMutex
	orders map[OrderID]Order
}

func newStore() *store {
	s := &store{}
	for i := range s.shards {
		s.shards[i].orders = make(map[OrderID]Order)
	}
	return s
}

func (s *store) shardFor(id OrderID) *shard {
	return &s.shards[uint64(id)%shardCount]
}

func (s *store) put(o Order) {
	sh := s.shardFor(o.ID)
	sh.mu.Lock()
	sh.orders[o.ID] = o
	sh.mu.Unlock()
}

func (s *store) get(id OrderID) (Order, bool) {
	sh := s.shardFor(id)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	o, ok := sh.orders[id]
	return o, ok
}

// remove deletes id and returns the order that was live under it.
func (s *store) remove(id OrderID) (Order, bool) {
	sh := s.shardFor(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	o, ok := sh.orders[id]
	if ok {
		delete(sh.orders, id)
	}
	return o, ok
}

func (s *store) len() int {
	n := 0
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.RLock()
		n += len(sh.orders)
		sh.mu.RUnlock()
	}
	return n
}

// snapshot copies every live order into a new slice, one shard at a time.
// An order mutated concurrently is either fully present or absent.
func (s *store) snapshot() []Order {
	out := make([]Order, 0, s.len())
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.RLock()
		for _, o := range sh.orders {
			out = append(out, o)
		}
		sh.mu.RUnlock()
	}
	return out
}
