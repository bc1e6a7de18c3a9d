package feed

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"strconv"
	"sync"
)

// Engagement is a presentation placeholder. It is never persisted and never
// reconciled with any backend value.
type Engagement struct {
	Likes    int
	Comments int
	Shares   int
	Liked    bool
}

// PlaceholderEngagement fabricates stable counters per item id.
type PlaceholderEngagement struct {
	mu    sync.Mutex
	items map[string]*Engagement
}

func NewPlaceholderEngagement() *PlaceholderEngagement {
	return &PlaceholderEngagement{items: map[string]*Engagement{}}
}

func seeded(id string) *Engagement {
	h := fnv.New64a()
	h.Write([]byte(id))
	seed := h.Sum64()
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	return &Engagement{
		Likes:    r.IntN(5000) + 500,
		Comments: r.IntN(500) + 50,
		Shares:   r.IntN(200) + 20,
	}
}

func (p *PlaceholderEngagement) get(id string) *Engagement {
	e, ok := p.items[id]
	if !ok {
		e = seeded(id)
		p.items[id] = e
	}
	return e
}

func (p *PlaceholderEngagement) For(id string) Engagement {
	p.mu.Lock()
	defer p.mu.Unlock()
	return *p.get(id)
}

// ToggleLike flips the local like and moves the count by one.
func (p *PlaceholderEngagement) ToggleLike(id string) Engagement {
	p.mu.Lock()
	defer p.mu.Unlock()

	e := p.get(id)
	if e.Liked {
		e.Likes--
	} else {
		e.Likes++
	}
	e.Liked = !e.Liked
	return *e
}

// FormatCount renders counts of a thousand or more as 1.2K.
func FormatCount(n int) string {
	if n >= 1000 {
		return fmt.Sprintf("%.1fK", float64(n)/1000)
	}
	return strconv.Itoa(n)
}
