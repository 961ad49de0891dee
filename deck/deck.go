package deck

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"sync"
)

// Deck is a source of cards for a game.
type Deck interface {
	Draw() Card
}

// Endless is a logically infinite 52-card deck: every draw is an independent
// uniform pick, so concurrent games never contend over shuffle state.
type Endless struct {
	mu      sync.Mutex
	randGen *rand.Rand
}

func newSeed() rand.Source {
	var b [8]byte
	_, err := cryptorand.Read(b[:])
	if err != nil {
		panic("cannot seed math/rand package with cryptographically secure random number generator")
	}
	return rand.NewSource(int64(binary.LittleEndian.Uint64(b[:])))
}

func NewEndless(source rand.Source) *Endless {
	if source == nil {
		source = newSeed()
	}
	return &Endless{randGen: rand.New(source)}
}

func (d *Endless) Draw() Card {
	d.mu.Lock()
	defer d.mu.Unlock()
	return Card{
		Rank: ranks[d.randGen.Intn(len(ranks))],
		Suit: suits[d.randGen.Intn(len(suits))],
	}
}
