package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStore_GetSet(t *testing.T) {
	s := NewStore()

	_, ok := s.Get()
	assert.False(t, ok)

	s.Set("user-1")
	id, ok := s.Get()
	assert.True(t, ok)
	assert.Equal(t, "user-1", id)

	s.Set("")
	id, ok = s.Get()
	assert.False(t, ok)
	assert.Empty(t, id)
}

func TestStore_Subscribe(t *testing.T) {
	s := NewStore()
	ch, cancel := s.Subscribe()

	s.Set("user-1")
	assert.Equal(t, Change{UserID: "user-1", SignedIn: true}, <-ch)

	s.Set("user-1")
	select {
	case c := <-ch:
		t.Fatalf("unexpected change %+v", c)
	default:
	}

	s.Set("user-2")
	s.Clear()
	assert.Equal(t, Change{}, <-ch, "only the latest change is kept")

	cancel()
	cancel()
	_, open := <-ch
	assert.False(t, open)

	s.Set("user-3")
}

func TestStore_Concurrent(t *testing.T) {
	s := NewStore()
	_, cancel := s.Subscribe()
	defer cancel()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				s.Set("user")
			} else {
				s.Clear()
			}
			id, ok := s.Get()
			assert.Equal(t, ok, id != "")
		}()
	}
	wg.Wait()
}
