package ledger

import "database/sql"

// OpRow is one indexed operation, as served to the query tooling.
type OpRow struct {
	Session   string
	Seq       uint64
	At        string
	Scope     string
	Op        string
	Object    string
	Requested string
	Resulted  string
	Asset     string
	OK        bool
	Code      string
	Digest    string
}

// SessionRow summarizes one bridge session present in the ledger.
type SessionRow struct {
	Session string
	Ops     int
	FirstAt string
	LastAt  string
}

const opColumns = `session,seq,at,scope,op,object,requested,resulted,asset,ok,code,digest`

// OpenReadOnly opens an existing ledger for querying, without a writer.
// Tools use this against a live daemon's ledger; WAL keeps them from
// blocking each other.
func OpenReadOnly(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000;"); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// RecentOps returns the newest operations first.
func RecentOps(db *sql.DB, limit int) ([]OpRow, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Query(`SELECT `+opColumns+` FROM ops ORDER BY at DESC, seq DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	return scanOps(rows)
}

// ObjectHistory returns every operation that touched the named object, as
// its subject or as its outcome, oldest first. Matching ignores case the way
// host identifiers do.
func ObjectHistory(db *sql.DB, name string, limit int) ([]OpRow, error) {
	if limit <= 0 {
		limit = 200
	}
	rows, err := db.Query(`SELECT `+opColumns+` FROM ops
		WHERE object=?1 COLLATE NOCASE OR resulted=?1 COLLATE NOCASE OR requested=?1 COLLATE NOCASE
		ORDER BY at, seq LIMIT ?2`, name, limit)
	if err != nil {
		return nil, err
	}
	return scanOps(rows)
}

// Sessions lists the sessions recorded in the ledger, oldest first.
func Sessions(db *sql.DB) ([]SessionRow, error) {
	rows, err := db.Query(`SELECT session, COUNT(*), MIN(at), MAX(at) FROM ops GROUP BY session ORDER BY MIN(at)`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []SessionRow
	for rows.Next() {
		var s SessionRow
		if err := rows.Scan(&s.Session, &s.Ops, &s.FirstAt, &s.LastAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanOps(rows *sql.Rows) ([]OpRow, error) {
	defer rows.Close()
	var out []OpRow
	for rows.Next() {
		var (
			r  OpRow
			ok int
		)
		if err := rows.Scan(&r.Session, &r.Seq, &r.At, &r.Scope, &r.Op, &r.Object,
			&r.Requested, &r.Resulted, &r.Asset, &ok, &r.Code, &r.Digest); err != nil {
			return nil, err
		}
		r.OK = ok != 0
		out = append(out, r)
	}
	return out, rows.Err()
}
