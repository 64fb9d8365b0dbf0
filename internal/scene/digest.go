package scene

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"io"
	"math"
	"sort"
)

// StateDigest hashes the scope content in identifier order: names, labels,
// validity, source assets and relative transforms. Two scopes that went
// through the same operations produce the same digest, which is what replay
// verification leans on.
func (s *MemScope) StateDigest() string {
	keys := make([]string, 0, len(s.objects))
	for k := range s.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := sha256.New()
	digestWriteString(h, s.id)
	digestWriteU64(h, uint64(len(keys)))
	for _, k := range keys {
		o := s.objects[k]
		digestWriteString(h, k)
		digestWriteString(h, o.name.String())
		digestWriteString(h, o.label)
		digestWriteString(h, o.kind)
		digestWriteString(h, o.asset.Path)
		digestWriteBool(h, o.destroyed)
		digestWriteF64(h, o.xform.Location[0])
		digestWriteF64(h, o.xform.Location[1])
		digestWriteF64(h, o.xform.Location[2])
		digestWriteF64(h, o.xform.Rotation.Pitch)
		digestWriteF64(h, o.xform.Rotation.Yaw)
		digestWriteF64(h, o.xform.Rotation.Roll)
		digestWriteF64(h, o.xform.Scale[0])
		digestWriteF64(h, o.xform.Scale[1])
		digestWriteF64(h, o.xform.Scale[2])
	}
	return hex.EncodeToString(h.Sum(nil))
}

func digestWriteU64(w io.Writer, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	_, _ = w.Write(b[:])
}

func digestWriteF64(w io.Writer, v float64) {
	digestWriteU64(w, math.Float64bits(v))
}

func digestWriteString(w io.Writer, s string) {
	digestWriteU64(w, uint64(len(s)))
	_, _ = io.WriteString(w, s)
}

func digestWriteBool(w io.Writer, v bool) {
	var b [1]byte
	if v {
		b[0] = 1
	}
	_, _ = w.Write(b[:])
}
