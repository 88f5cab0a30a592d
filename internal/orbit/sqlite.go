package orbit

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	// SQLite driver, registered as "sqlite3".
	_ "github.com/mattn/go-sqlite3"
	"github.com/paulmach/orb"

	"github.com/perigee-labs/swathfinder/internal/geo"
)

// Orbit database schema. One database file bundles everything the search
// needs: the mission row, the cycle table, per-pass window offsets, the
// nadir ground track samples, and the swath rings (stored as WKT).
const schema = `
CREATE TABLE mission (
	name              TEXT NOT NULL,
	passes_per_cycle  INTEGER NOT NULL,
	cycle_duration_ns INTEGER NOT NULL
);
CREATE TABLE cycles (
	cycle_number      INTEGER PRIMARY KEY,
	first_measurement TEXT NOT NULL
);
CREATE TABLE passes (
	pass_number     INTEGER PRIMARY KEY,
	start_offset_ns INTEGER NOT NULL,
	end_offset_ns   INTEGER NOT NULL
);
CREATE TABLE track (
	pass_number INTEGER NOT NULL,
	seq         INTEGER NOT NULL,
	offset_ns   INTEGER NOT NULL,
	lat         REAL NOT NULL,
	lon         REAL NOT NULL,
	PRIMARY KEY (pass_number, seq)
);
CREATE TABLE swaths (
	pass_number INTEGER NOT NULL,
	side        TEXT NOT NULL CHECK (side IN ('left', 'right')),
	ring        TEXT NOT NULL,
	PRIMARY KEY (pass_number, side)
);
`

// SQLiteStore reads the bundled orbit database. Read-only; database/sql
// serializes access, so it is safe for concurrent request handlers.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens an orbit database file. The file must already exist;
// a missing or unreadable file is ErrDataUnavailable.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrDataUnavailable, path, err)
	}
	return &SQLiteStore{db: db, path: path}, nil
}

func (s *SQLiteStore) Mission() (MissionInfo, error) {
	var info MissionInfo
	var durNS int64
	row := s.db.QueryRow(`SELECT name, passes_per_cycle, cycle_duration_ns FROM mission LIMIT 1`)
	if err := row.Scan(&info.Name, &info.PassesPerCycle, &durNS); err != nil {
		return MissionInfo{}, fmt.Errorf("%w: mission row: %v", ErrDataUnavailable, err)
	}
	info.CycleDuration = time.Duration(durNS)
	return info, nil
}

func (s *SQLiteStore) Cycles() (map[int]time.Time, error) {
	rows, err := s.db.Query(`SELECT cycle_number, first_measurement FROM cycles`)
	if err != nil {
		return nil, fmt.Errorf("%w: cycles: %v", ErrDataUnavailable, err)
	}
	defer rows.Close()

	out := make(map[int]time.Time)
	for rows.Next() {
		var n int
		var ts string
		if err := rows.Scan(&n, &ts); err != nil {
			return nil, fmt.Errorf("%w: cycles: %v", ErrDataUnavailable, err)
		}
		t, err := time.Parse(time.RFC3339, ts)
		if err != nil {
			return nil, fmt.Errorf("%w: cycle %d timestamp: %v", ErrDataUnavailable, n, err)
		}
		out[n] = t.UTC()
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: cycles: %v", ErrDataUnavailable, err)
	}
	return out, nil
}

func (s *SQLiteStore) Templates() ([]*PassTemplate, error) {
	rows, err := s.db.Query(`SELECT pass_number, start_offset_ns, end_offset_ns FROM passes ORDER BY pass_number`)
	if err != nil {
		return nil, fmt.Errorf("%w: passes: %v", ErrDataUnavailable, err)
	}
	defer rows.Close()

	var out []*PassTemplate
	for rows.Next() {
		var n int
		var startNS, endNS int64
		if err := rows.Scan(&n, &startNS, &endNS); err != nil {
			return nil, fmt.Errorf("%w: passes: %v", ErrDataUnavailable, err)
		}
		out = append(out, &PassTemplate{
			Number:      n,
			StartOffset: time.Duration(startNS),
			EndOffset:   time.Duration(endNS),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: passes: %v", ErrDataUnavailable, err)
	}
	// Selection only needs the window offsets; tracks are loaded lazily
	// through Template when crossing times ask for them.
	return out, nil
}

func (s *SQLiteStore) Template(pass int) (*PassTemplate, error) {
	tpl := &PassTemplate{Number: pass}
	var startNS, endNS int64
	row := s.db.QueryRow(`SELECT start_offset_ns, end_offset_ns FROM passes WHERE pass_number = ?`, pass)
	if err := row.Scan(&startNS, &endNS); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: pass %d", ErrNotFound, pass)
		}
		return nil, fmt.Errorf("%w: pass %d: %v", ErrDataUnavailable, pass, err)
	}
	tpl.StartOffset = time.Duration(startNS)
	tpl.EndOffset = time.Duration(endNS)

	rows, err := s.db.Query(`SELECT offset_ns, lat, lon FROM track WHERE pass_number = ? ORDER BY seq`, pass)
	if err != nil {
		return nil, fmt.Errorf("%w: track %d: %v", ErrDataUnavailable, pass, err)
	}
	defer rows.Close()
	for rows.Next() {
		var offNS int64
		var lat, lon float64
		if err := rows.Scan(&offNS, &lat, &lon); err != nil {
			return nil, fmt.Errorf("%w: track %d: %v", ErrDataUnavailable, pass, err)
		}
		tpl.Track = append(tpl.Track, TrackPoint{Offset: time.Duration(offNS), Lat: lat, Lon: lon})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: track %d: %v", ErrDataUnavailable, pass, err)
	}
	return tpl, nil
}

func (s *SQLiteStore) Swaths(pass int) (*SwathPair, error) {
	rows, err := s.db.Query(`SELECT side, ring FROM swaths WHERE pass_number = ?`, pass)
	if err != nil {
		return nil, fmt.Errorf("%w: swaths %d: %v", ErrDataUnavailable, pass, err)
	}
	defer rows.Close()

	pair := &SwathPair{}
	found := false
	for rows.Next() {
		var side, ring string
		if err := rows.Scan(&side, &ring); err != nil {
			return nil, fmt.Errorf("%w: swaths %d: %v", ErrDataUnavailable, pass, err)
		}
		poly, err := geo.ParsePolygon(ring)
		if err != nil {
			return nil, fmt.Errorf("%w: swaths %d (%s): %v", ErrDataUnavailable, pass, side, err)
		}
		switch side {
		case "left":
			pair.Left = poly
		case "right":
			pair.Right = poly
		}
		found = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: swaths %d: %v", ErrDataUnavailable, pass, err)
	}
	if !found {
		return nil, fmt.Errorf("%w: pass %d", ErrNotFound, pass)
	}
	return pair, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

// Path returns the database file path, for status reporting.
func (s *SQLiteStore) Path() string { return s.path }

// CreateSQLite writes the contents of src into a new orbit database at
// path. Used to persist a seeded in-memory store so later runs skip
// propagation. Writes go to a temp file first, then rename, so a crash
// never leaves a half-written database behind.
func CreateSQLite(path string, src Store) (err error) {
	tmp := path + ".tmp"
	_ = os.Remove(tmp)

	db, err := sql.Open("sqlite3", tmp)
	if err != nil {
		return err
	}
	defer func() {
		db.Close()
		if err != nil {
			os.Remove(tmp)
		}
	}()

	if _, err = db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	info, err := src.Mission()
	if err != nil {
		return err
	}
	if _, err = db.Exec(`INSERT INTO mission (name, passes_per_cycle, cycle_duration_ns) VALUES (?, ?, ?)`,
		info.Name, info.PassesPerCycle, int64(info.CycleDuration)); err != nil {
		return err
	}

	cycles, err := src.Cycles()
	if err != nil {
		return err
	}
	for n, t := range cycles {
		if _, err = db.Exec(`INSERT INTO cycles (cycle_number, first_measurement) VALUES (?, ?)`,
			n, t.UTC().Format(time.RFC3339)); err != nil {
			return err
		}
	}

	templates, err := src.Templates()
	if err != nil {
		return err
	}
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	for _, tplHead := range templates {
		tpl, terr := src.Template(tplHead.Number)
		if terr != nil {
			tx.Rollback()
			return terr
		}
		if _, err = tx.Exec(`INSERT INTO passes (pass_number, start_offset_ns, end_offset_ns) VALUES (?, ?, ?)`,
			tpl.Number, int64(tpl.StartOffset), int64(tpl.EndOffset)); err != nil {
			tx.Rollback()
			return err
		}
		for i, pt := range tpl.Track {
			if _, err = tx.Exec(`INSERT INTO track (pass_number, seq, offset_ns, lat, lon) VALUES (?, ?, ?, ?, ?)`,
				tpl.Number, i, int64(pt.Offset), pt.Lat, pt.Lon); err != nil {
				tx.Rollback()
				return err
			}
		}

		pair, serr := src.Swaths(tpl.Number)
		if serr != nil {
			continue // template without swath geometry is legal
		}
		for side, poly := range map[string]orb.Polygon{"left": pair.Left, "right": pair.Right} {
			if poly == nil {
				continue
			}
			if _, err = tx.Exec(`INSERT INTO swaths (pass_number, side, ring) VALUES (?, ?, ?)`,
				tpl.Number, side, geo.MarshalWKT(poly)); err != nil {
				tx.Rollback()
				return err
			}
		}
	}
	if err = tx.Commit(); err != nil {
		return err
	}
	if err = db.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
