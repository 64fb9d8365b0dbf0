package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"stagelink.dev/internal/identity"
	"stagelink.dev/internal/persistence/journal"
	"stagelink.dev/internal/persistence/ledger"
	"stagelink.dev/internal/scene"
)

func main() {
	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "db":
			dbCmd(os.Args[2:])
			return
		case "journal":
			journalCmd(os.Args[2:])
			return
		case "name":
			nameCmd(os.Args[2:])
			return
		}
	}
	listCmd(os.Args[1:])
}

// listCmd prints the scopes that have recorded data.
func listCmd(args []string) {
	fs := flag.NewFlagSet("stagectl", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	_ = fs.Parse(args)

	entries, err := os.ReadDir(filepath.Join(*dataDir, "scopes"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "read:", err)
		os.Exit(1)
	}
	for _, e := range entries {
		fmt.Println(e.Name())
	}
}

func dbCmd(args []string) {
	fs := flag.NewFlagSet("db", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	scopeID := fs.String("scope", "", "scope id (required unless -db)")
	dbPath := fs.String("db", "", "ledger path (optional)")
	limit := fs.Int("limit", 20, "result limit")
	object := fs.String("object", "", "object identifier (object query)")
	_ = fs.Parse(args)

	q := "ops"
	if fs.NArg() > 0 {
		q = strings.TrimSpace(fs.Arg(0))
	}

	path := strings.TrimSpace(*dbPath)
	if path == "" {
		if strings.TrimSpace(*scopeID) == "" {
			fmt.Fprintln(os.Stderr, "missing -scope or -db")
			os.Exit(2)
		}
		path = filepath.Join(*dataDir, "scopes", *scopeID, "index", "ledger.sqlite")
	}

	db, err := ledger.OpenReadOnly(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open:", err)
		os.Exit(1)
	}
	defer db.Close()

	switch q {
	case "ops":
		rows, err := ledger.RecentOps(db, *limit)
		if err != nil {
			fmt.Fprintln(os.Stderr, "query:", err)
			os.Exit(1)
		}
		for _, r := range rows {
			printOp(r)
		}

	case "object":
		name := strings.TrimSpace(*object)
		if name == "" && fs.NArg() > 1 {
			name = strings.TrimSpace(fs.Arg(1))
		}
		if name == "" {
			fmt.Fprintln(os.Stderr, "missing -object")
			os.Exit(2)
		}
		rows, err := ledger.ObjectHistory(db, name, *limit)
		if err != nil {
			fmt.Fprintln(os.Stderr, "query:", err)
			os.Exit(1)
		}
		for _, r := range rows {
			printOp(r)
		}

	case "sessions":
		rows, err := ledger.Sessions(db)
		if err != nil {
			fmt.Fprintln(os.Stderr, "query:", err)
			os.Exit(1)
		}
		for _, s := range rows {
			printJSON(struct {
				Session string `json:"session"`
				Ops     int    `json:"ops"`
				FirstAt string `json:"first_at"`
				LastAt  string `json:"last_at"`
			}{s.Session, s.Ops, s.FirstAt, s.LastAt})
		}

	default:
		fmt.Fprintf(os.Stderr, "unknown query %q (ops, object, sessions)\n", q)
		os.Exit(2)
	}
}

// journalCmd dumps journal entries as JSON lines, oldest first.
func journalCmd(args []string) {
	fs := flag.NewFlagSet("journal", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	scopeID := fs.String("scope", "", "scope id (required unless -dir)")
	dirFlag := fs.String("dir", "", "journal dir (optional)")
	limit := fs.Int("limit", 0, "stop after this many entries (0 = all)")
	session := fs.String("session", "", "only this session")
	op := fs.String("op", "", "only this op (TRANSFORM, RENAME, SPAWN, DELETE, FREE_NAME)")
	failed := fs.Bool("failed", false, "only failed ops")
	_ = fs.Parse(args)

	dir := strings.TrimSpace(*dirFlag)
	if dir == "" {
		if strings.TrimSpace(*scopeID) == "" {
			fmt.Fprintln(os.Stderr, "missing -scope or -dir")
			os.Exit(2)
		}
		dir = filepath.Join(*dataDir, "scopes", *scopeID, "journal")
	}

	var printed int
	err := journal.ReadDir(dir, func(e journal.Entry) error {
		if *session != "" && e.Session != *session {
			return nil
		}
		if *op != "" && !strings.EqualFold(e.Op, *op) {
			return nil
		}
		if *failed && e.OK {
			return nil
		}
		printJSON(e)
		printed++
		if *limit > 0 && printed >= *limit {
			return journal.ErrStop
		}
		return nil
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "read journal:", err)
		os.Exit(1)
	}
}

// nameCmd previews how candidate identifiers sanitize, split and probe.
func nameCmd(args []string) {
	fs := flag.NewFlagSet("name", flag.ExitOnError)
	taken := fs.String("taken", "", "comma-separated identifiers to treat as occupied")
	_ = fs.Parse(args)

	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: stagectl name [-taken a,b,c] <candidate> [candidate...]")
		os.Exit(2)
	}

	sc := scene.NewMemScope("scratch")
	sc.RegisterAsset("/Scratch/Probe.Probe", "")
	for _, t := range strings.Split(*taken, ",") {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		name := scene.ParseName(t)
		if name.IsNone() || sc.NameInUse(name) {
			continue
		}
		if _, err := sc.CreateForAsset(scene.AssetRef{Path: "/Scratch/Probe.Probe"}, name, mgl64.Vec3{}); err != nil {
			fmt.Fprintln(os.Stderr, "seed taken:", err)
			os.Exit(1)
		}
	}

	for _, cand := range fs.Args() {
		sanitized := identity.Sanitize(cand)
		parsed := scene.ParseName(sanitized)
		r := struct {
			Candidate string `json:"candidate"`
			Sanitized string `json:"sanitized"`
			Base      string `json:"base"`
			Suffix    *int32 `json:"suffix,omitempty"`
			Next      string `json:"next"`
			Free      string `json:"free"`
		}{
			Candidate: cand,
			Sanitized: sanitized,
			Base:      parsed.Base(),
			Next:      parsed.Bump().String(),
			Free:      identity.FreeName(sc, cand).String(),
		}
		if n, ok := parsed.Suffix(); ok {
			r.Suffix = &n
		}
		printJSON(r)
	}
}

func printOp(r ledger.OpRow) {
	printJSON(struct {
		Session   string `json:"session"`
		Seq       uint64 `json:"seq"`
		At        string `json:"at"`
		Op        string `json:"op"`
		Object    string `json:"object,omitempty"`
		Requested string `json:"requested,omitempty"`
		Resulted  string `json:"resulted,omitempty"`
		Asset     string `json:"asset,omitempty"`
		OK        bool   `json:"ok"`
		Code      string `json:"code,omitempty"`
	}{r.Session, r.Seq, r.At, r.Op, r.Object, r.Requested, r.Resulted, r.Asset, r.OK, r.Code})
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
