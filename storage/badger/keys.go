package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/poiesic/sapphire/core"
)

// Key prefixes for different data types
const (
	vectorPrefix     = "vec:"
	checkpointPrefix = "chkpt:"
)

// makeVectorKey generates a key for a cached vector by ID.
// Format: prefix + 8 bytes big-endian ID
func makeVectorKey(id core.ID) []byte {
	buf := make([]byte, len(vectorPrefix)+8)
	offset := copy(buf, vectorPrefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makeCheckpointKey generates a key for batch job checkpoints.
func makeCheckpointKey(job string) []byte {
	return []byte(fmt.Sprintf("%s%s", checkpointPrefix, job))
}
