package collision

// Collision is a series id produced by two different series keys.
type Collision struct {
	ID     uint64
	First  string
	Second string
}

// Tracker records the series key behind each series id and reports ids
// shared by different keys.
//
// Series ids are 64-bit hashes, so a collision is unexpected but possible when
// many archives are merged into one id space.
type Tracker struct {
	keys       map[uint64]string
	collisions []Collision
}

// NewTracker creates a new collision tracker.
func NewTracker() *Tracker {
	return &Tracker{
		keys: make(map[uint64]string),
	}
}

// Track records that key hashes to id.
// It returns true the first time id is seen with a key other than the one
// already recorded for it; repeated keys are not collisions.
func (t *Tracker) Track(key string, id uint64) bool {
	existing, ok := t.keys[id]
	if !ok {
		t.keys[id] = key
		return false
	}

	if existing == key {
		return false
	}

	for _, c := range t.collisions {
		if c.ID == id && c.Second == key {
			return false
		}
	}
	t.collisions = append(t.collisions, Collision{ID: id, First: existing, Second: key})

	return true
}

// HasCollision reports whether any collision was seen.
func (t *Tracker) HasCollision() bool {
	return len(t.collisions) > 0
}

// Collisions returns the collisions in the order they were found.
func (t *Tracker) Collisions() []Collision {
	return t.collisions
}

// Count returns the number of distinct series ids tracked.
func (t *Tracker) Count() int {
	return len(t.keys)
}

// Reset clears all tracked ids and collisions.
func (t *Tracker) Reset() {
	clear(t.keys)
	t.collisions = t.collisions[:0]
}
