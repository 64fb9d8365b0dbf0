// Package ledger maintains a queryable sqlite index over the ops journal.
// It is derived data: the bridge pushes every journal entry in, a single
// writer goroutine batches them into transactions, and anything here can be
// rebuilt from the JSONL segments. Writes are therefore allowed to be lossy
// under pressure; reads serve the stagectl tooling and the monitor.
package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"stagelink.dev/internal/persistence/journal"
)

type Index struct {
	db *sql.DB

	ch   chan journal.Entry
	wg   sync.WaitGroup
	once sync.Once

	closed  atomic.Bool
	dropped atomic.Uint64
}

// Stats describes the writer queue. Dropped counts entries discarded because
// the queue was full when Record was called.
type Stats struct {
	Dropped       uint64
	QueueDepth    int
	QueueCapacity int
}

func Open(path string) (*Index, error) {
	if path == "" {
		return nil, fmt.Errorf("empty ledger path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	ix := &Index{
		db: db,
		// Editor traffic is sparse; the buffer only has to absorb bursts
		// like seeding a scene or replaying a session.
		ch: make(chan journal.Entry, 4096),
	}
	ix.wg.Add(1)
	go func() {
		defer ix.wg.Done()
		ix.loop()
	}()
	return ix, nil
}

func initPragmas(db *sql.DB) error {
	// WAL suits the append-style workload; NORMAL is durability enough for
	// an index that can be rebuilt from the journal.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS ops (
			session TEXT NOT NULL,
			seq INTEGER NOT NULL,
			at TEXT NOT NULL,
			scope TEXT NOT NULL,
			op TEXT NOT NULL,
			object TEXT,
			requested TEXT,
			resulted TEXT,
			asset TEXT,
			ok INTEGER NOT NULL,
			code TEXT,
			digest TEXT,
			raw_json TEXT NOT NULL,
			PRIMARY KEY (session, seq)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_ops_object ON ops(object);`,
		`CREATE INDEX IF NOT EXISTS idx_ops_resulted ON ops(resulted);`,
		`CREATE INDEX IF NOT EXISTS idx_ops_op ON ops(op);`,
		`INSERT OR REPLACE INTO meta(key,value) VALUES('schema_version','1');`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (ix *Index) Close() error {
	var err error
	ix.once.Do(func() {
		ix.closed.Store(true)
		close(ix.ch)
		ix.wg.Wait()
		err = ix.db.Close()
	})
	return err
}

// Record enqueues an entry for indexing. It never blocks the caller: when
// the writer has fallen behind the entry is dropped and counted, and the
// JSONL journal remains the source of truth.
func (ix *Index) Record(e journal.Entry) error {
	if ix == nil || ix.closed.Load() {
		return nil
	}
	select {
	case ix.ch <- e:
	default:
		ix.dropped.Add(1)
	}
	return nil
}

func (ix *Index) Stats() Stats {
	if ix == nil {
		return Stats{}
	}
	return Stats{
		Dropped:       ix.dropped.Load(),
		QueueDepth:    len(ix.ch),
		QueueCapacity: cap(ix.ch),
	}
}

func (ix *Index) loop() {
	ctx := context.Background()

	insertOp, _ := ix.db.Prepare(`INSERT OR REPLACE INTO ops
		(session,seq,at,scope,op,object,requested,resulted,asset,ok,code,digest,raw_json)
		VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	defer func() {
		if insertOp != nil {
			_ = insertOp.Close()
		}
	}()

	var (
		tx            *sql.Tx
		opCount       int
		lastCommit    = time.Now()
		commitEvery   = 256
		commitMaxWait = 2 * time.Second
	)

	begin := func() {
		if tx != nil {
			return
		}
		txx, err := ix.db.BeginTx(ctx, nil)
		if err != nil {
			time.Sleep(50 * time.Millisecond)
			return
		}
		tx = txx
		opCount = 0
		lastCommit = time.Now()
	}
	commit := func() {
		if tx == nil {
			return
		}
		_ = tx.Commit()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}
	rollback := func() {
		if tx == nil {
			return
		}
		_ = tx.Rollback()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}
	flushIfNeeded := func() {
		if tx == nil {
			return
		}
		if opCount >= commitEvery || time.Since(lastCommit) >= commitMaxWait {
			commit()
		}
	}

	// Editor sessions go quiet for long stretches, so a pending transaction
	// is also flushed on a timer instead of waiting for the next entry.
	idle := time.NewTicker(commitMaxWait)
	defer idle.Stop()

	for {
		select {
		case e, ok := <-ix.ch:
			if !ok {
				commit()
				return
			}
			begin()
			if tx == nil {
				continue
			}
			raw, _ := json.Marshal(e)
			if insertOp != nil {
				if _, err := tx.Stmt(insertOp).Exec(
					e.Session,
					int64(e.Seq),
					e.At,
					e.Scope,
					e.Op,
					e.Object,
					e.Requested,
					e.Resulted,
					e.Asset,
					boolInt(e.OK),
					e.Code,
					e.Digest,
					string(raw),
				); err != nil {
					rollback()
					continue
				}
				opCount++
			}
			flushIfNeeded()
		case <-idle.C:
			flushIfNeeded()
		}
	}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
