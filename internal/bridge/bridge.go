// Package bridge executes external-tool command lines against a scene scope
// and journals every operation. It is the layer between whatever transport
// delivered a command and the identity/pose cores that do the work: one
// command in, one Result out, one journal entry written, no exceptions for
// failures. The host grants single-threaded access to the scene, so the
// bridge serializes dispatches.
package bridge

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"stagelink.dev/internal/catalog"
	"stagelink.dev/internal/persistence/journal"
	"stagelink.dev/internal/scene"
)

// Sink receives every journal entry the bridge produces. Sink errors are
// logged and do not affect the command result.
type Sink interface {
	Record(e journal.Entry) error
}

// Result is the bridge's answer to one command. Value carries the resulting
// identifier for operations that produce one.
type Result struct {
	OK      bool   `json:"ok"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Value   string `json:"value,omitempty"`
}

type Bridge struct {
	mu      sync.Mutex
	scope   scene.Scope
	assets  *catalog.Table
	sinks   []Sink
	log     zerolog.Logger
	session string
	seq     uint64
}

// New builds a bridge over scope. assets may be nil, which disables
// spawning. Every dispatched command is offered to each sink.
func New(scope scene.Scope, assets *catalog.Table, logger zerolog.Logger, sinks ...Sink) *Bridge {
	return &Bridge{
		scope:   scope,
		assets:  assets,
		sinks:   sinks,
		log:     logger,
		session: uuid.NewString(),
	}
}

func (b *Bridge) Session() string { return b.session }

// Status is the monitor's snapshot of the bridge.
type Status struct {
	Session string `json:"session"`
	Scope   string `json:"scope"`
	Seq     uint64 `json:"seq"`
	Objects int    `json:"objects"`
	Assets  int    `json:"assets"`
	Digest  string `json:"digest,omitempty"`
}

func (b *Bridge) Status() Status {
	b.mu.Lock()
	defer b.mu.Unlock()
	st := Status{
		Session: b.session,
		Scope:   b.scope.ID(),
		Seq:     b.seq,
		Assets:  b.assets.Len(),
	}
	if c, ok := b.scope.(interface{ Len() int }); ok {
		st.Objects = c.Len()
	}
	if dg, ok := b.scope.(scene.Digester); ok {
		st.Digest = dg.StateDigest()
	}
	return st
}

// Dispatch parses and executes one command line, journals the outcome and
// returns it. Unknown or malformed commands are journaled failures, not
// errors; the daemon stays up no matter what the tool sends.
func (b *Bridge) Dispatch(line string) Result {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.seq++
	e := journal.Entry{
		Seq:     b.seq,
		At:      time.Now().UTC().Format(time.RFC3339Nano),
		Session: b.session,
		Scope:   b.scope.ID(),
		Op:      journal.OpUnknown,
	}

	var res Result
	cmd, rest := splitCommand(strings.TrimSpace(line))
	if cmd == "" {
		res = fail(ErrBadRequest, "empty command")
	} else if parse, known := parsers[cmd]; !known {
		res = fail(ErrUnknownCommand, "unknown command %q", cmd)
	} else {
		res = parse(&e, rest)
		if res.OK {
			res = appliers[e.Op](b, &e)
		}
	}
	b.finishLocked(&e, res)
	return res
}

// Apply re-executes a recorded entry's inputs without journaling, returning
// the freshly produced entry. The replayer compares it against the recorded
// one; sequence, session and timestamp are preserved from the input.
func (b *Bridge) Apply(rec journal.Entry) (journal.Entry, Result) {
	b.mu.Lock()
	defer b.mu.Unlock()

	e := rec.Inputs()
	var res Result
	if apply, known := appliers[e.Op]; known {
		res = apply(b, &e)
	} else {
		res = fail(ErrUnknownCommand, "unknown op %q", e.Op)
	}
	e.OK = res.OK
	e.Code = res.Code
	e.Message = res.Message
	e.Resulted = res.Value
	if dg, ok := b.scope.(scene.Digester); ok {
		e.Digest = dg.StateDigest()
	}
	return e, res
}

func (b *Bridge) finishLocked(e *journal.Entry, res Result) {
	e.OK = res.OK
	e.Code = res.Code
	e.Message = res.Message
	e.Resulted = res.Value
	if dg, ok := b.scope.(scene.Digester); ok {
		e.Digest = dg.StateDigest()
	}

	evt := b.log.Info()
	switch {
	case !res.OK:
		evt = b.log.Warn().Str("code", res.Code)
	case e.Op == journal.OpRename && !strings.EqualFold(e.Requested, e.Resulted):
		// Committed, but the host had the last word on the identifier.
		evt = b.log.Warn().Str("requested", e.Requested)
	}
	evt.Uint64("seq", e.Seq).
		Str("op", e.Op).
		Str("object", e.Object).
		Str("resulted", e.Resulted).
		Msg("dispatch")

	for _, s := range b.sinks {
		if err := s.Record(*e); err != nil {
			b.log.Error().Err(err).Uint64("seq", e.Seq).Msg("journal sink failed")
		}
	}
}

func splitCommand(line string) (cmd, rest string) {
	i := strings.IndexAny(line, " \t")
	if i < 0 {
		return line, ""
	}
	return line[:i], strings.TrimSpace(line[i+1:])
}
