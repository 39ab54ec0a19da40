package catalog

import (
	"database/sql"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

const packageDSNOptions = "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"

const packageSchema = `
CREATE TABLE IF NOT EXISTS layers (
	id             TEXT PRIMARY KEY,
	title          TEXT NOT NULL,
	visible        INTEGER NOT NULL DEFAULT 1,
	time_enabled   INTEGER NOT NULL DEFAULT 1,
	start_ms       INTEGER,
	end_ms         INTEGER,
	interval_value REAL,
	interval_unit  TEXT
);`

// OpenPackage reads a slider package: a SQLite database whose layers table
// carries each layer's temporal data inline.  The layers settle from their
// row data on Load, no storage round trips involved.
func OpenPackage(path string) (*Document, error) {
	return OpenPackageWithConfig(path, Config{LoadConcurrency: -1})
}

func OpenPackageWithConfig(path string, config Config) (*Document, error) {
	db, err := sql.Open("sqlite", path+packageDSNOptions)
	if err != nil {
		return nil, errors.Wrap(err, "can not open package")
	}
	defer db.Close()

	if _, err := db.Exec(packageSchema); err != nil {
		return nil, errors.Wrap(err, "can not migrate package schema")
	}

	rows, err := db.Query(
		`SELECT id, title, visible, time_enabled, start_ms, end_ms, interval_value, interval_unit
		 FROM layers ORDER BY id`,
	)
	if err != nil {
		return nil, errors.Wrap(err, "can not read package layers")
	}
	defer rows.Close()

	layers := map[string]*Layer{}
	for rows.Next() {
		spec, err := scanLayerRow(rows)
		if err != nil {
			return nil, err
		}
		layers[spec.ID] = newLayer(spec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "can not read package layers")
	}

	title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return newDocument(title, layers, nil, config.withDefaults()), nil
}

func scanLayerRow(rows *sql.Rows) (layerSpec, error) {
	var spec layerSpec
	var visible, timeEnabled int
	var startMS, endMS sql.NullInt64
	var intervalValue sql.NullFloat64
	var intervalUnit sql.NullString

	err := rows.Scan(&spec.ID, &spec.Title, &visible, &timeEnabled,
		&startMS, &endMS, &intervalValue, &intervalUnit)
	if err != nil {
		return spec, errors.Wrap(err, "can not scan package layer")
	}

	v, te := visible != 0, timeEnabled != 0
	spec.Visible = &v
	spec.TimeFilteringEnabled = &te

	var info timeInfoSpec
	if startMS.Valid && endMS.Valid {
		info.TimeExtent = []int64{startMS.Int64, endMS.Int64}
	}
	if intervalValue.Valid && intervalValue.Float64 != 0 {
		info.Interval = intervalValue.Float64
		info.IntervalUnit = intervalUnit.String
	}
	if len(info.TimeExtent) > 0 || info.Interval != 0 {
		spec.TimeInfo = &info
	}

	return spec, nil
}
