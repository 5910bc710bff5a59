package utils

import (
	"hash/fnv"
	"math/rand"

	"github.com/google/uuid"
)

// Probability возвращает true с вероятностью x/y.
func Probability(rng *rand.Rand, x, y int) bool {
	if y <= 0 {
		return false
	}
	return rng.Intn(y) < x
}

// DeriveSeed смешивает мастер-зерно с номером арены и поколением аллокации,
// чтобы каждая инкарнация арены получала собственную последовательность.
func DeriveSeed(master int64, arenaID int, epoch uint64) int64 {
	h := fnv.New64a()
	var buf [24]byte
	putUint64(buf[0:8], uint64(master))
	putUint64(buf[8:16], uint64(arenaID))
	putUint64(buf[16:24], epoch)
	_, _ = h.Write(buf[:])
	return int64(h.Sum64())
}

func putUint64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
}

// NewConnID создает идентификатор соединения для трассировки в логах.
func NewConnID() uuid.UUID {
	return uuid.New()
}
