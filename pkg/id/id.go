package id

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mu   sync.Mutex
	mono io.Reader
)

func init() {
	// Seed a PRNG from crypto/rand so ULID entropy is unpredictable.
	// We use ulid.Monotonic so IDs generated within the same millisecond remain
	// lexicographically increasing.
	var seed int64
	_ = binary.Read(cryptoRand.Reader, binary.LittleEndian, &seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	mono = ulid.Monotonic(rand.New(rand.NewSource(seed)), 0)
}

// New returns a ULID string (time-sortable identifier) for the current time.
// Used for run IDs.
func New() string {
	mu.Lock()
	defer mu.Unlock()

	id, err := ulid.New(ulid.Timestamp(time.Now().UTC()), mono)
	if err != nil {
		// Errors are extremely unlikely unless time goes backwards or entropy fails.
		panic(err)
	}
	return id.String()
}

// Generator issues ULIDs stamped with a caller supplied time and drawn from
// seeded entropy, so the same seed and the same sequence of times always
// yield the same IDs.
type Generator struct {
	mu      sync.Mutex
	entropy io.Reader
}

func NewGenerator(seed int64) *Generator {
	return &Generator{entropy: ulid.Monotonic(rand.New(rand.NewSource(seed)), 0)}
}

// New returns the next ID for t. Times before the Unix epoch are stamped 0.
func (g *Generator) New(t time.Time) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	var ms uint64
	if t.After(time.Unix(0, 0)) {
		ms = ulid.Timestamp(t)
	}
	return ulid.MustNew(ms, g.entropy).String()
}
