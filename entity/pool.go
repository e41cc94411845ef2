package entity

// Pool is an ordered entity collection; iteration order is the hit-test tie-break order
type Pool struct {
	items  []*Entity
	nextID int
}

func NewPool(capacity int) *Pool {
	return &Pool{items: make([]*Entity, 0, capacity)}
}

// Add appends e, assigning an ID
func (p *Pool) Add(e *Entity) *Entity {
	p.nextID++
	e.ID = p.nextID
	p.items = append(p.items, e)
	return e
}

// Items returns the live slice; callers must not retain it across a Sweep
func (p *Pool) Items() []*Entity { return p.items }

func (p *Pool) Len() int { return len(p.items) }

func (p *Pool) At(i int) *Entity {
	if i < 0 || i >= len(p.items) {
		return nil
	}
	return p.items[i]
}

// IndexOf returns the position of e, -1 if absent
func (p *Pool) IndexOf(e *Entity) int {
	for i, it := range p.items {
		if it == e {
			return i
		}
	}
	return -1
}

// Sweep removes expired entities in place, preserving order, and returns the count removed
func (p *Pool) Sweep() int {
	kept := p.items[:0]
	for _, e := range p.items {
		if !e.Expired() {
			kept = append(kept, e)
		}
	}
	removed := len(p.items) - len(kept)
	clear(p.items[len(kept):])
	p.items = kept
	return removed
}

func (p *Pool) Reset() {
	clear(p.items)
	p.items = p.items[:0]
}
