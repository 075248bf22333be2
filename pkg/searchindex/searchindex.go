// Package searchindex is the disk-backed full-text search index: a
// separate SQLite database, keyed off the aggregate SHA-1 the catalogue
// computes over a refresh's repository documents, so a refresh that
// produced the same content can reopen the index read/write instead of
// rebuilding it from scratch. Adapted from the teacher's superseded
// pkg/index/index.go (the same add/remove-by-key document model — one
// package document, one package-version document, keyed for targeted
// replacement — kept, its flat JSON-file-on-disk storage and
// always-rebuild behaviour replaced by a SQLite FTS5 virtual table, the
// same database/sql + modernc.org/sqlite idiom pkg/catalog already uses,
// so the full-text query (phrase/boolean/wildcard) is SQLite's own FTS5
// MATCH syntax rather than a hand-rolled inverted index.
package searchindex

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/npackd/npackd-go/pkg/npkgerrors"
)

// DocType distinguishes the two document shapes spec.md §4.G defines.
type DocType string

const (
	DocPackage        DocType = "package"
	DocPackageVersion DocType = "package_version"
)

// MaxMatches caps a single query's result set; a query matching more than
// this many documents reports Overflowed and returns only the first
// MaxMatches.
const MaxMatches = 2000

const schema = `
CREATE VIRTUAL TABLE IF NOT EXISTS DOCUMENTS USING fts5(
	DOC_KEY UNINDEXED,
	DOC_TYPE UNINDEXED,
	NAME,
	VERSION UNINDEXED,
	CONTENT,
	INSTALLED UNINDEXED,
	NOT_INSTALLED UNINDEXED,
	UPDATEABLE UNINDEXED
);
CREATE TABLE IF NOT EXISTS INDEX_META (
	SHA1 TEXT NOT NULL DEFAULT ''
);
`

// Store is the full-text index, one SQLite database per installation
// (distinct from pkg/catalog's own database).
type Store struct {
	mu sync.Mutex
	db *sql.DB
}

// Open creates or opens the index database at path (":memory:" for tests)
// and ensures its schema exists.
func Open(path string) (*Store, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, npkgerrors.Wrapf(npkgerrors.ErrDbError, "opening search index: %v", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, npkgerrors.Wrapf(npkgerrors.ErrDbError, "creating search index schema: %v", err)
	}

	s := &Store{db: db}
	if err := s.ensureMetaRow(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureMetaRow() error {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM INDEX_META`).Scan(&count); err != nil {
		return npkgerrors.Wrapf(npkgerrors.ErrDbError, "%v", err)
	}
	if count == 0 {
		if _, err := s.db.Exec(`INSERT INTO INDEX_META(SHA1) VALUES('')`); err != nil {
			return npkgerrors.Wrapf(npkgerrors.ErrDbError, "%v", err)
		}
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// StoredSHA1 returns the aggregate SHA-1 the index was last validated
// against.
func (s *Store) StoredSHA1() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sha1 string
	if err := s.db.QueryRow(`SELECT SHA1 FROM INDEX_META LIMIT 1`).Scan(&sha1); err != nil {
		return "", npkgerrors.Wrapf(npkgerrors.ErrDbError, "%v", err)
	}
	return sha1, nil
}

// EnsureValid compares aggregateSHA1 against the stored value. When they
// match, the existing index is left alone and rebuilt reports false — the
// caller reopens it read/write as-is. When they differ, every document is
// dropped, the new SHA-1 is stored, and rebuilt reports true — the caller
// must re-populate the index from the catalogue from scratch.
func (s *Store) EnsureValid(aggregateSHA1 string) (rebuilt bool, err error) {
	stored, err := s.StoredSHA1()
	if err != nil {
		return false, err
	}
	if stored == aggregateSHA1 {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.Exec(`DELETE FROM DOCUMENTS`); err != nil {
		return false, npkgerrors.Wrapf(npkgerrors.ErrDbError, "%v", err)
	}
	if _, err := s.db.Exec(`UPDATE INDEX_META SET SHA1=?`, aggregateSHA1); err != nil {
		return false, npkgerrors.Wrapf(npkgerrors.ErrDbError, "%v", err)
	}
	return true, nil
}

// boolFlag renders a facet as the '0'/'1' string FTS5's UNINDEXED columns
// store it as.
func boolFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// IndexPackage inserts or replaces the Tpackage document for pkg, keyed by
// its name.
func (s *Store) IndexPackage(name, title, description string, installed, updateable bool) error {
	key := "package:" + name
	content := title + " " + description
	return s.replaceDocument(key, DocPackage, name, "", content, installed, false, updateable)
}

// IndexPackageVersion inserts or replaces the Tpackage_version document for
// (pkg, version), keyed by both.
func (s *Store) IndexPackageVersion(pkg, ver, xmlContent string, installed, notInstalled, updateable bool) error {
	key := "package_version:" + pkg + "@" + ver
	return s.replaceDocument(key, DocPackageVersion, pkg, ver, xmlContent, installed, notInstalled, updateable)
}

func (s *Store) replaceDocument(key string, docType DocType, name, ver, content string, installed, notInstalled, updateable bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`DELETE FROM DOCUMENTS WHERE DOC_KEY=?`, key); err != nil {
		return npkgerrors.Wrapf(npkgerrors.ErrDbError, "%v", err)
	}
	_, err := s.db.Exec(`INSERT INTO DOCUMENTS(DOC_KEY, DOC_TYPE, NAME, VERSION, CONTENT, INSTALLED, NOT_INSTALLED, UPDATEABLE)
		VALUES (?,?,?,?,?,?,?,?)`,
		key, string(docType), name, ver, content, boolFlag(installed), boolFlag(notInstalled), boolFlag(updateable))
	if err != nil {
		return npkgerrors.Wrapf(npkgerrors.ErrDbError, "%v", err)
	}
	return nil
}

// RemovePackageVersion deletes the Tpackage_version document for
// (pkg, version), if present.
func (s *Store) RemovePackageVersion(pkg, ver string) error {
	return s.remove("package_version:" + pkg + "@" + ver)
}

// RemovePackage deletes the Tpackage document for name, if present.
func (s *Store) RemovePackage(name string) error {
	return s.remove("package:" + name)
}

func (s *Store) remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.Exec(`DELETE FROM DOCUMENTS WHERE DOC_KEY=?`, key); err != nil {
		return npkgerrors.Wrapf(npkgerrors.ErrDbError, "%v", err)
	}
	return nil
}

// IndexUpdatePackageVersion is the targeted delete-and-insert spec.md
// §4.G names for the post-install/uninstall path: drop any existing
// document for (pkg, version) and, if xmlContent is non-empty, insert its
// replacement, in one pass.
func (s *Store) IndexUpdatePackageVersion(pkg, ver, xmlContent string, installed, notInstalled, updateable bool) error {
	if err := s.RemovePackageVersion(pkg, ver); err != nil {
		return err
	}
	if xmlContent == "" {
		return nil
	}
	return s.IndexPackageVersion(pkg, ver, xmlContent, installed, notInstalled, updateable)
}

// Query parameterizes Search.
type Query struct {
	// Keyword is the user-entered search string, passed through verbatim
	// as an FTS5 MATCH expression: phrase ("exact phrase"), boolean
	// (AND/OR/NOT), and prefix/wildcard (term*) all follow FTS5's own
	// syntax. Empty means "match every document of the given type".
	Keyword string
	// Type selects Tpackage or Tpackage_version documents.
	Type DocType
	// RequireInstalled, RequireUpdateable AND-combine the Sinstalled /
	// Supdateable facets into the query, matching spec.md's "AND-combined
	// with Tpackage (and optionally Sinstalled[,Supdateable])".
	RequireInstalled  bool
	RequireUpdateable bool
}

// Hit is one matched document's identity.
type Hit struct {
	Key     string
	Name    string
	Version string
}

// Result is a Search response: the first MaxMatches hits, plus whether
// more existed.
type Result struct {
	Hits       []Hit
	Overflowed bool
}

// Search runs q against the index, returning at most MaxMatches hits and
// reporting Overflowed when the true match count exceeded that cap.
func (s *Store) Search(q Query) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docType := DocPackage
	if q.Type != "" {
		docType = q.Type
	}

	where := []string{"DOC_TYPE = ?"}
	args := []interface{}{string(docType)}
	if q.Keyword != "" {
		where = append([]string{"DOCUMENTS MATCH ?"}, where...)
		args = append([]interface{}{q.Keyword}, args...)
	}
	if q.RequireInstalled {
		where = append(where, "INSTALLED = '1'")
	}
	if q.RequireUpdateable {
		where = append(where, "UPDATEABLE = '1'")
	}

	query := fmt.Sprintf(`SELECT DOC_KEY, NAME, VERSION FROM DOCUMENTS WHERE %s LIMIT ?`, strings.Join(where, " AND "))
	args = append(args, MaxMatches+1)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return Result{}, npkgerrors.Wrapf(npkgerrors.ErrDbError, "%v", err)
	}
	defer rows.Close()

	var hits []Hit
	for rows.Next() {
		var h Hit
		if err := rows.Scan(&h.Key, &h.Name, &h.Version); err != nil {
			return Result{}, npkgerrors.Wrapf(npkgerrors.ErrDbError, "%v", err)
		}
		hits = append(hits, h)
	}
	if err := rows.Err(); err != nil {
		return Result{}, npkgerrors.Wrapf(npkgerrors.ErrDbError, "%v", err)
	}

	overflowed := len(hits) > MaxMatches
	if overflowed {
		hits = hits[:MaxMatches]
	}
	return Result{Hits: hits, Overflowed: overflowed}, nil
}
