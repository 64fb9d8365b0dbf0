package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"stagelink.dev/internal/bridge"
	"stagelink.dev/internal/catalog"
	"stagelink.dev/internal/config"
	"stagelink.dev/internal/persistence/journal"
	"stagelink.dev/internal/scene"
)

// replay re-executes a recorded journal against a fresh scope and verifies
// that every operation resolves to the same outcome and state digest. The
// asset table and reserved names must match what the recorded session ran
// with, or spawns and renames will legitimately diverge.

func main() {
	var (
		journalPath = flag.String("journal", "", "journal dir or a single ops-*.jsonl.zst segment")
		configPath  = flag.String("config", "", "bridge.yaml the recorded session ran with (optional)")
		assetsPath  = flag.String("assets", "", "override asset table path")
		sessionID   = flag.String("session", "", "session to verify (default: first in the journal)")
		fromSeq     = flag.Uint64("from_seq", 0, "start verifying from seq (inclusive, optional)")
		toSeq       = flag.Uint64("to_seq", 0, "stop at seq (inclusive, optional)")
	)
	flag.Parse()

	if *journalPath == "" {
		fmt.Fprintln(os.Stderr, "missing -journal")
		os.Exit(2)
	}

	cfg := config.Defaults()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "load config:", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *assetsPath != "" {
		cfg.AssetTable = *assetsPath
	}

	var table *catalog.Table
	if cfg.AssetTable != "" {
		t, err := catalog.Load(cfg.AssetTable)
		if err != nil {
			fmt.Fprintln(os.Stderr, "load asset table:", err)
			os.Exit(1)
		}
		table = t
	}

	r := &replayer{
		cfg:     cfg,
		table:   table,
		session: *sessionID,
		fromSeq: *fromSeq,
		toSeq:   *toSeq,
	}
	read := journal.ReadDir
	if fi, err := os.Stat(*journalPath); err == nil && !fi.IsDir() {
		read = journal.ReadFile
	}
	if err := read(*journalPath, r.step); err != nil {
		fmt.Fprintln(os.Stderr, "replay:", err)
		os.Exit(1)
	}
	if r.bridge == nil {
		fmt.Fprintln(os.Stderr, "no entries found in", *journalPath)
		os.Exit(1)
	}
	fmt.Printf("replay ok: checked=%d ops (session=%s)\n", r.checked, r.session)
}

type replayer struct {
	cfg     config.Config
	table   *catalog.Table
	bridge  *bridge.Bridge
	session string
	fromSeq uint64
	toSeq   uint64
	lastSeq uint64
	checked uint64
}

func (r *replayer) step(e journal.Entry) error {
	if r.session == "" {
		r.session = e.Session
	}
	if e.Session != r.session {
		// Another daemon run sharing the journal dir; not ours to verify.
		return nil
	}
	if r.bridge == nil {
		sc := scene.NewMemScope(e.Scope)
		for _, name := range r.cfg.ReservedNames {
			sc.ReserveName(name)
		}
		if r.table != nil {
			for _, name := range r.table.Names {
				d := r.table.Defs[name]
				sc.RegisterAsset(d.Path, d.Kind)
			}
		}
		r.bridge = bridge.New(sc, r.table, zerolog.Nop())
		fmt.Printf("replaying session=%s scope=%s assets=%d\n", r.session, e.Scope, r.table.Len())
	}
	if r.toSeq != 0 && e.Seq > r.toSeq {
		return journal.ErrStop
	}
	// State depends on every prior op, so everything is re-executed even
	// when verification starts later.
	if e.Seq != r.lastSeq+1 {
		return fmt.Errorf("sequence gap at seq %d: want=%d", e.Seq, r.lastSeq+1)
	}
	r.lastSeq = e.Seq

	got, _ := r.bridge.Apply(e)
	if e.Seq < r.fromSeq {
		return nil
	}
	r.checked++
	if got.OK != e.OK {
		return fmt.Errorf("outcome mismatch at seq %d: got ok=%t want ok=%t (%s)", e.Seq, got.OK, e.OK, e.Op)
	}
	if got.Resulted != e.Resulted {
		return fmt.Errorf("identifier mismatch at seq %d: got=%q want=%q", e.Seq, got.Resulted, e.Resulted)
	}
	if e.Digest != "" && got.Digest != e.Digest {
		return fmt.Errorf("digest mismatch at seq %d: got=%s want=%s", e.Seq, got.Digest, e.Digest)
	}
	return nil
}
