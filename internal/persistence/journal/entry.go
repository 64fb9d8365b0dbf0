// Package journal records every bridge operation as an append-only stream of
// JSONL entries, zstd-compressed and rotated hourly. The journal is the
// source of truth for what the bridge did; the sqlite ledger and the monitor
// feed are both derived from it.
package journal

// Operation kinds. One entry is written per dispatched command, successful
// or not.
const (
	OpTransform = "TRANSFORM"
	OpRename    = "RENAME"
	OpSpawn     = "SPAWN"
	OpDelete    = "DELETE"
	OpFreeName  = "FREE_NAME"
	OpUnknown   = "UNKNOWN"
)

// Entry is one journaled operation. The first block of fields is what the
// command carried in; the second is what came of it. Digest, when present,
// is the scope's state digest after the operation, which is what replay
// verification compares against.
type Entry struct {
	Seq       uint64   `json:"seq"`
	At        string   `json:"at"`
	Session   string   `json:"session"`
	Scope     string   `json:"scope"`
	Op        string   `json:"op"`
	Object    string   `json:"object,omitempty"`
	Requested string   `json:"requested,omitempty"`
	Text      string   `json:"text,omitempty"`
	Asset     string   `json:"asset,omitempty"`
	Names     []string `json:"names,omitempty"`

	OK       bool   `json:"ok"`
	Code     string `json:"code,omitempty"`
	Message  string `json:"message,omitempty"`
	Resulted string `json:"resulted,omitempty"`
	Digest   string `json:"digest,omitempty"`
}

// Inputs returns a copy of e with every outcome field cleared. Replay feeds
// these back through a bridge and compares the fresh outcome with the
// recorded one.
func (e Entry) Inputs() Entry {
	e.OK = false
	e.Code = ""
	e.Message = ""
	e.Resulted = ""
	e.Digest = ""
	return e
}
