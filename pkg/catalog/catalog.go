// Package catalog is the SQLite-backed local catalogue store: packages,
// versions, licenses and the category tree, plus the derived status
// column and keyword search. Grounded on the
// teacher's pkg/repository/repository.go for the repository-as-a-store
// shape and on sw33tLie-bbscope's pkg/storage/storage.go for the
// database/sql + modernc.org/sqlite idiom (DSN pragmas, one *sql.DB guarded
// by a single-writer mutex, transaction-per-operation).
package catalog

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/npackd/npackd-go/pkg/loader"
	"github.com/npackd/npackd-go/pkg/model"
	"github.com/npackd/npackd-go/pkg/npkgerrors"
	"github.com/npackd/npackd-go/pkg/version"
)

const schema = `
CREATE TABLE IF NOT EXISTS PACKAGE (
	NAME TEXT PRIMARY KEY,
	TITLE TEXT NOT NULL DEFAULT '',
	URL TEXT NOT NULL DEFAULT '',
	ICON TEXT NOT NULL DEFAULT '',
	DESCRIPTION TEXT NOT NULL DEFAULT '',
	LICENSE TEXT NOT NULL DEFAULT '',
	FULLTEXT TEXT NOT NULL DEFAULT '',
	STATUS INTEGER NOT NULL DEFAULT 0,
	SHORT_NAME TEXT NOT NULL DEFAULT '',
	REPOSITORY TEXT NOT NULL DEFAULT '',
	CATEGORY0 INTEGER,
	CATEGORY1 INTEGER,
	CATEGORY2 INTEGER,
	CATEGORY3 INTEGER,
	CATEGORY4 INTEGER
);
CREATE INDEX IF NOT EXISTS idx_package_fulltext ON PACKAGE(FULLTEXT);
CREATE INDEX IF NOT EXISTS idx_package_short_name ON PACKAGE(SHORT_NAME);

CREATE TABLE IF NOT EXISTS PACKAGE_VERSION (
	NAME TEXT NOT NULL,
	PACKAGE TEXT NOT NULL,
	CONTENT BLOB,
	MSIGUID TEXT NOT NULL DEFAULT '',
	DETECT_FILE_COUNT INTEGER NOT NULL DEFAULT 0,
	UNIQUE(PACKAGE, NAME)
);
CREATE INDEX IF NOT EXISTS idx_version_package ON PACKAGE_VERSION(PACKAGE);
CREATE INDEX IF NOT EXISTS idx_version_detect_files ON PACKAGE_VERSION(DETECT_FILE_COUNT);

CREATE TABLE IF NOT EXISTS LICENSE (
	NAME TEXT PRIMARY KEY,
	TITLE TEXT NOT NULL DEFAULT '',
	DESCRIPTION TEXT NOT NULL DEFAULT '',
	URL TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS CATEGORY (
	ID INTEGER PRIMARY KEY AUTOINCREMENT,
	NAME TEXT NOT NULL,
	PARENT INTEGER NOT NULL DEFAULT 0,
	LEVEL INTEGER NOT NULL,
	UNIQUE(PARENT, LEVEL, NAME)
);

CREATE TABLE IF NOT EXISTS REPOSITORY (
	ID INTEGER PRIMARY KEY AUTOINCREMENT,
	URL TEXT NOT NULL UNIQUE
);
`

// Store is the catalogue database. Writes are serialized through mu —
// modernc.org/sqlite's single-file database has no use for concurrent
// writers, and the teacher's storage layer makes the same choice implicitly
// by never sharing a *sql.DB across goroutines without a lock of its own.
type Store struct {
	db *sql.DB
	mu sync.Mutex

	licenseCache sync.Map // name -> model.License, cached in memory by name
}

// Open creates the schema if absent and returns a ready Store.
func Open(path string) (*Store, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, npkgerrors.Wrapf(npkgerrors.ErrDbOpen, "%v", err)
	}
	if err := db.Ping(); err != nil {
		return nil, npkgerrors.Wrapf(npkgerrors.ErrDbOpen, "%v", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, npkgerrors.Wrapf(npkgerrors.ErrDbOpen, "%v", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Clear truncates PACKAGE, PACKAGE_VERSION, LICENSE and CATEGORY in one
// transaction and invalidates the in-memory license cache.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return npkgerrors.Wrapf(npkgerrors.ErrDbError, "%v", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"PACKAGE", "PACKAGE_VERSION", "LICENSE", "CATEGORY"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return npkgerrors.Wrapf(npkgerrors.ErrDbError, "clearing %s: %v", table, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return npkgerrors.Wrapf(npkgerrors.ErrDbError, "%v", err)
	}
	s.licenseCache = sync.Map{}
	return nil
}

func fullText(p *model.Package) string {
	return strings.ToLower(p.Title + " " + p.Description + " " + p.Name)
}

// SavePackage inserts or replaces a package, splitting its category path
// into the CATEGORY tree bottom-up and storing the resulting ids.
func (s *Store) SavePackage(p *model.Package) error {
	if err := p.ValidateIconURL(); err != nil {
		return npkgerrors.Wrapf(npkgerrors.ErrInvalidPackageName, "%s: %v", p.Name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return npkgerrors.Wrapf(npkgerrors.ErrDbError, "%v", err)
	}
	defer tx.Rollback()

	catIDs := [5]sql.NullInt64{}
	var parent int64
	for level, name := range p.Categories {
		if name == "" {
			break // levels are contiguous, the first empty one ends the path
		}
		id, err := upsertCategory(tx, name, parent, level)
		if err != nil {
			return err
		}
		catIDs[level] = sql.NullInt64{Int64: id, Valid: true}
		parent = id
	}

	_, err = tx.Exec(`INSERT INTO PACKAGE(NAME, TITLE, URL, ICON, DESCRIPTION, LICENSE, FULLTEXT, STATUS, SHORT_NAME, REPOSITORY, CATEGORY0, CATEGORY1, CATEGORY2, CATEGORY3, CATEGORY4)
		VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
		ON CONFLICT(NAME) DO UPDATE SET
			TITLE=excluded.TITLE, URL=excluded.URL, ICON=excluded.ICON, DESCRIPTION=excluded.DESCRIPTION,
			LICENSE=excluded.LICENSE, FULLTEXT=excluded.FULLTEXT, SHORT_NAME=excluded.SHORT_NAME,
			REPOSITORY=excluded.REPOSITORY,
			CATEGORY0=excluded.CATEGORY0, CATEGORY1=excluded.CATEGORY1, CATEGORY2=excluded.CATEGORY2,
			CATEGORY3=excluded.CATEGORY3, CATEGORY4=excluded.CATEGORY4`,
		p.Name, p.Title, p.URL, p.IconURL, p.Description, p.LicenseName, fullText(p), int(p.Status), p.ShortName(), p.Repository,
		catIDs[0], catIDs[1], catIDs[2], catIDs[3], catIDs[4])
	if err != nil {
		return npkgerrors.Wrapf(npkgerrors.ErrDbError, "saving package %s: %v", p.Name, err)
	}
	return commit(tx)
}

func upsertCategory(tx *sql.Tx, name string, parent int64, level int) (int64, error) {
	var id int64
	err := tx.QueryRow(`SELECT ID FROM CATEGORY WHERE PARENT=? AND LEVEL=? AND NAME=?`, parent, level, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, npkgerrors.Wrapf(npkgerrors.ErrDbError, "%v", err)
	}
	res, err := tx.Exec(`INSERT INTO CATEGORY(NAME, PARENT, LEVEL) VALUES(?,?,?)`, name, parent, level)
	if err != nil {
		return 0, npkgerrors.Wrapf(npkgerrors.ErrDbError, "%v", err)
	}
	return res.LastInsertId()
}

func commit(tx *sql.Tx) error {
	if err := tx.Commit(); err != nil {
		return npkgerrors.Wrapf(npkgerrors.ErrDbError, "%v", err)
	}
	return nil
}

// SaveLicense inserts or replaces a license and refreshes the in-memory
// cache entry.
func (s *Store) SaveLicense(l *model.License) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT INTO LICENSE(NAME, TITLE, DESCRIPTION, URL) VALUES(?,?,?,?)
		ON CONFLICT(NAME) DO UPDATE SET TITLE=excluded.TITLE, DESCRIPTION=excluded.DESCRIPTION, URL=excluded.URL`,
		l.Name, l.Title, l.Description, l.URL)
	if err != nil {
		return npkgerrors.Wrapf(npkgerrors.ErrDbError, "saving license %s: %v", l.Name, err)
	}
	s.licenseCache.Store(l.Name, *l)
	return nil
}

// SavePackageVersion inserts or replaces a version; the version's full XML
// payload is stored verbatim in CONTENT — a later save of the same
// (package, version) overwrites CONTENT, MSIGUID and DETECT_FILE_COUNT.
func (s *Store) SavePackageVersion(pv *model.PackageVersion) error {
	if !pv.ValidateMSIGUID() {
		return npkgerrors.Wrapf(npkgerrors.ErrInvalidPackageName, "%s %s: msi guid %q is not exactly 38 characters", pv.PackageName, pv.Version.String(), pv.MSIGUID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT INTO PACKAGE_VERSION(NAME, PACKAGE, CONTENT, MSIGUID, DETECT_FILE_COUNT) VALUES(?,?,?,?,?)
		ON CONFLICT(PACKAGE, NAME) DO UPDATE SET CONTENT=excluded.CONTENT, MSIGUID=excluded.MSIGUID, DETECT_FILE_COUNT=excluded.DETECT_FILE_COUNT`,
		pv.Version.Normalize().String(), pv.PackageName, pv.Content, pv.MSIGUID, len(pv.DetectFiles))
	if err != nil {
		return npkgerrors.Wrapf(npkgerrors.ErrDbError, "saving version %s-%s: %v", pv.PackageName, pv.Version, err)
	}
	return nil
}

// FindLicense looks up a license by name, consulting the in-memory cache
// first.
func (s *Store) FindLicense(name string) (*model.License, error) {
	if cached, ok := s.licenseCache.Load(name); ok {
		l := cached.(model.License)
		return &l, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var l model.License
	err := s.db.QueryRow(`SELECT NAME, TITLE, DESCRIPTION, URL FROM LICENSE WHERE NAME=?`, name).
		Scan(&l.Name, &l.Title, &l.Description, &l.URL)
	if err == sql.ErrNoRows {
		return nil, npkgerrors.ErrLicenseNotFound
	}
	if err != nil {
		return nil, npkgerrors.Wrapf(npkgerrors.ErrDbError, "%v", err)
	}
	s.licenseCache.Store(name, l)
	return &l, nil
}

// FindPackage looks up a package by its reverse-DNS name.
func (s *Store) FindPackage(name string) (*model.Package, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findPackageLocked(name)
}

func (s *Store) findPackageLocked(name string) (*model.Package, error) {
	var p model.Package
	var status int
	var cats [5]sql.NullInt64
	err := s.db.QueryRow(`SELECT NAME, TITLE, URL, ICON, DESCRIPTION, LICENSE, STATUS, REPOSITORY, CATEGORY0, CATEGORY1, CATEGORY2, CATEGORY3, CATEGORY4
		FROM PACKAGE WHERE NAME=?`, name).
		Scan(&p.Name, &p.Title, &p.URL, &p.IconURL, &p.Description, &p.LicenseName, &status, &p.Repository,
			&cats[0], &cats[1], &cats[2], &cats[3], &cats[4])
	if err == sql.ErrNoRows {
		return nil, npkgerrors.ErrPackageNotFound
	}
	if err != nil {
		return nil, npkgerrors.Wrapf(npkgerrors.ErrDbError, "%v", err)
	}
	p.Status = model.Status(status)
	for i, c := range cats {
		if c.Valid {
			name, err := categoryName(s.db, c.Int64)
			if err == nil {
				p.Categories[i] = name
			}
		}
	}
	return &p, nil
}

func categoryName(db *sql.DB, id int64) (string, error) {
	var name string
	err := db.QueryRow(`SELECT NAME FROM CATEGORY WHERE ID=?`, id).Scan(&name)
	return name, err
}

// FindPackageVersion looks up one version of a package and parses its
// stored XML payload on demand.
func (s *Store) FindPackageVersion(pkg string, v version.Version) (*model.PackageVersion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var content []byte
	var msiGUID string
	var detectFileCount int
	err := s.db.QueryRow(`SELECT CONTENT, MSIGUID, DETECT_FILE_COUNT FROM PACKAGE_VERSION WHERE PACKAGE=? AND NAME=?`,
		pkg, v.Normalize().String()).Scan(&content, &msiGUID, &detectFileCount)
	if err == sql.ErrNoRows {
		return nil, npkgerrors.ErrVersionNotFound
	}
	if err != nil {
		return nil, npkgerrors.Wrapf(npkgerrors.ErrDbError, "%v", err)
	}
	return decodeStoredVersion(pkg, content, msiGUID)
}

// decodeStoredVersion re-parses a stored XML blob into a PackageVersion,
// the "parsed on demand" path callers rely on instead of a denormalized copy.
func decodeStoredVersion(pkg string, content []byte, msiGUID string) (*model.PackageVersion, error) {
	doc, err := loader.Parse(content)
	if err != nil {
		return nil, err
	}
	for i := range doc.Versions {
		if doc.Versions[i].PackageName == pkg {
			pv := doc.Versions[i]
			if msiGUID != "" {
				pv.MSIGUID = msiGUID
			}
			return &pv, nil
		}
	}
	return nil, npkgerrors.ErrVersionNotFound
}

// GetPackageVersions returns all versions of a package, sorted descending.
func (s *Store) GetPackageVersions(pkg string) ([]model.PackageVersion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT CONTENT, MSIGUID FROM PACKAGE_VERSION WHERE PACKAGE=?`, pkg)
	if err != nil {
		return nil, npkgerrors.Wrapf(npkgerrors.ErrDbError, "%v", err)
	}
	defer rows.Close()

	var out []model.PackageVersion
	for rows.Next() {
		var content []byte
		var msiGUID string
		if err := rows.Scan(&content, &msiGUID); err != nil {
			return nil, npkgerrors.Wrapf(npkgerrors.ErrDbError, "%v", err)
		}
		pv, err := decodeStoredVersion(pkg, content, msiGUID)
		if err != nil {
			continue
		}
		out = append(out, *pv)
	}
	if err := rows.Err(); err != nil {
		return nil, npkgerrors.Wrapf(npkgerrors.ErrDbError, "%v", err)
	}

	sortVersionsDescending(out)
	return out, nil
}

func sortVersionsDescending(vs []model.PackageVersion) {
	sort.Slice(vs, func(i, j int) bool { return vs[j].Version.Less(vs[i].Version) })
}

// GetPackageVersionsWithDetectFiles returns every version whose
// DETECT_FILE_COUNT is greater than zero, the candidate set for the
// file-hash detection probe.
func (s *Store) GetPackageVersionsWithDetectFiles() ([]model.PackageVersion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT PACKAGE, CONTENT, MSIGUID FROM PACKAGE_VERSION WHERE DETECT_FILE_COUNT > 0`)
	if err != nil {
		return nil, npkgerrors.Wrapf(npkgerrors.ErrDbError, "%v", err)
	}
	defer rows.Close()

	var out []model.PackageVersion
	for rows.Next() {
		var pkg, msiGUID string
		var content []byte
		if err := rows.Scan(&pkg, &content, &msiGUID); err != nil {
			return nil, npkgerrors.Wrapf(npkgerrors.ErrDbError, "%v", err)
		}
		pv, err := decodeStoredVersion(pkg, content, msiGUID)
		if err != nil {
			continue
		}
		out = append(out, *pv)
	}
	return out, rows.Err()
}

// GetPackageVersionsWithMSIGUID returns every version carrying a non-empty
// MSIGUID, the candidate set the MSI detection probe matches against
// Windows Installer's product table.
func (s *Store) GetPackageVersionsWithMSIGUID() ([]model.PackageVersion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT PACKAGE, CONTENT, MSIGUID FROM PACKAGE_VERSION WHERE MSIGUID <> ''`)
	if err != nil {
		return nil, npkgerrors.Wrapf(npkgerrors.ErrDbError, "%v", err)
	}
	defer rows.Close()

	var out []model.PackageVersion
	for rows.Next() {
		var pkg, msiGUID string
		var content []byte
		if err := rows.Scan(&pkg, &content, &msiGUID); err != nil {
			return nil, npkgerrors.Wrapf(npkgerrors.ErrDbError, "%v", err)
		}
		pv, err := decodeStoredVersion(pkg, content, msiGUID)
		if err != nil {
			continue
		}
		out = append(out, *pv)
	}
	return out, rows.Err()
}

// FindPackagesOptions parameterizes FindPackages.
type FindPackagesOptions struct {
	Status model.Status
	FilterByStatus bool
	Query string
	Category0 int64
	Category0Set bool
	Category1 int64
	Category1Set bool
}

// FindPackages implements the keyword + status + category filter,
// ordered by title ascending.
func (s *Store) FindPackages(opts FindPackagesOptions) ([]model.Package, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	where := []string{"1=1"}
	args := []interface{}{}

	if opts.FilterByStatus {
		if opts.Status == model.StatusInstalled {
			where = append(where, "STATUS >= ?")
			args = append(args, int(model.StatusInstalled))
		} else {
			where = append(where, "STATUS = ?")
			args = append(args, int(opts.Status))
		}
	}

	for _, kw := range strings.Fields(strings.ToLower(opts.Query)) {
		where = append(where, "FULLTEXT LIKE ?")
		args = append(args, "%"+kw+"%")
	}

	if opts.Category0Set {
		where = append(where, categoryFilterClause("CATEGORY0", opts.Category0))
		if opts.Category0 > 0 {
			args = append(args, opts.Category0)
		}
	}
	if opts.Category1Set {
		where = append(where, categoryFilterClause("CATEGORY1", opts.Category1))
		if opts.Category1 > 0 {
			args = append(args, opts.Category1)
		}
	}

	q := fmt.Sprintf(`SELECT NAME FROM PACKAGE WHERE %s ORDER BY TITLE ASC`, strings.Join(where, " AND "))
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, npkgerrors.Wrapf(npkgerrors.ErrDbError, "%v", err)
	}
	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			rows.Close()
			return nil, npkgerrors.Wrapf(npkgerrors.ErrDbError, "%v", err)
		}
		names = append(names, n)
	}
	rows.Close()

	out := make([]model.Package, 0, len(names))
	for _, n := range names {
		p, err := s.findPackageLocked(n)
		if err != nil {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

// categoryFilterClause implements "NULL matches no-category-at-that-level,
// a positive id matches equality".
func categoryFilterClause(column string, id int64) string {
	if id <= 0 {
		return column + " IS NULL"
	}
	return column + " = ?"
}

// FindCategories groups packages by the category at the given level,
// returning (id, count, name) tuples, filtered by the same keyword/status/
// category criteria as FindPackages.
func (s *Store) FindCategories(opts FindPackagesOptions, level int) ([]model.CategoryCount, error) {
	if level < 0 || level > 4 {
		return nil, fmt.Errorf("category level %d out of range", level)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	column := fmt.Sprintf("CATEGORY%d", level)
	where := []string{"p." + column + " IS NOT NULL"}
	args := []interface{}{}

	if opts.FilterByStatus {
		if opts.Status == model.StatusInstalled {
			where = append(where, "p.STATUS >= ?")
			args = append(args, int(model.StatusInstalled))
		} else {
			where = append(where, "p.STATUS = ?")
			args = append(args, int(opts.Status))
		}
	}

	for _, kw := range strings.Fields(strings.ToLower(opts.Query)) {
		where = append(where, "p.FULLTEXT LIKE ?")
		args = append(args, "%"+kw+"%")
	}

	if opts.Category0Set {
		where = append(where, categoryFilterClause("p.CATEGORY0", opts.Category0))
		if opts.Category0 > 0 {
			args = append(args, opts.Category0)
		}
	}
	if opts.Category1Set {
		where = append(where, categoryFilterClause("p.CATEGORY1", opts.Category1))
		if opts.Category1 > 0 {
			args = append(args, opts.Category1)
		}
	}

	q := fmt.Sprintf(`SELECT p.%s, COUNT(*), c.NAME FROM PACKAGE p LEFT JOIN CATEGORY c ON c.ID = p.%s
		WHERE %s GROUP BY p.%s`, column, column, strings.Join(where, " AND "), column)
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, npkgerrors.Wrapf(npkgerrors.ErrDbError, "%v", err)
	}
	defer rows.Close()

	var out []model.CategoryCount
	for rows.Next() {
		var cc model.CategoryCount
		if err := rows.Scan(&cc.ID, &cc.Count, &cc.Name); err != nil {
			return nil, npkgerrors.Wrapf(npkgerrors.ErrDbError, "%v", err)
		}
		cc.Level = level
		out = append(out, cc)
	}
	return out, rows.Err()
}

// UpdateStatus recomputes the STATUS column of pkg from the given installed
// versions and the package's installable (catalogue) versions.
func (s *Store) UpdateStatus(pkg string, installed []version.Version) error {
	versions, err := s.GetPackageVersions(pkg)
	if err != nil {
		return err
	}

	status := model.StatusNotInstalled
	if len(installed) > 0 {
		status = model.StatusInstalled
		if len(versions) > 0 {
			newestInstallable := versions[0].Version // GetPackageVersions returns descending order
			newestInstalled := installed[0]
			for _, v := range installed[1:] {
				if newestInstalled.Less(v) {
					newestInstalled = v
				}
			}
			if newestInstalled.Less(newestInstallable) {
				status = model.StatusUpdateable
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.Exec(`UPDATE PACKAGE SET STATUS=? WHERE NAME=?`, int(status), pkg)
	if err != nil {
		return npkgerrors.Wrapf(npkgerrors.ErrDbError, "%v", err)
	}
	return nil
}

// DeleteOrphanPackages removes every PACKAGE row with no matching
// PACKAGE_VERSION row, a post-refresh housekeeping step.
func (s *Store) DeleteOrphanPackages() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`DELETE FROM PACKAGE WHERE NAME NOT IN (SELECT DISTINCT PACKAGE FROM PACKAGE_VERSION)`)
	if err != nil {
		return npkgerrors.Wrapf(npkgerrors.ErrDbError, "%v", err)
	}
	return nil
}

// DistinctPackageNames returns every catalogued package name, whether or
// not it has a version, used by pkg/detect's status-sync pass to know which
// packages to recompute.
func (s *Store) DistinctPackageNames() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.db.Query(`SELECT NAME FROM PACKAGE`)
	if err != nil {
		return nil, npkgerrors.Wrapf(npkgerrors.ErrDbError, "%v", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, npkgerrors.Wrapf(npkgerrors.ErrDbError, "%v", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
