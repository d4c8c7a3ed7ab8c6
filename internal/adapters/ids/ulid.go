package ids

import (
	"crypto/rand"
	"io"
	"sync"

	"github.com/bnema/haggle/internal/ports"
	"github.com/oklog/ulid/v2"
)

// ULIDGenerator issues lexically sortable IDs. Monotonic entropy keeps IDs
// minted within the same millisecond ordered.
type ULIDGenerator struct {
	clock   ports.Clock
	mu      sync.Mutex
	entropy io.Reader
}

var _ ports.IDGenerator = (*ULIDGenerator)(nil)

func NewULIDGenerator(clock ports.Clock) *ULIDGenerator {
	return newULIDGenerator(clock, rand.Reader)
}

func newULIDGenerator(clock ports.Clock, source io.Reader) *ULIDGenerator {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &ULIDGenerator{clock: clock, entropy: ulid.Monotonic(source, 0)}
}

func (g *ULIDGenerator) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	return ulid.MustNew(ulid.Timestamp(g.clock.Now()), g.entropy).String()
}
