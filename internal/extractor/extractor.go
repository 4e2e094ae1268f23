/*
 * Copyright 2025 Google LLC
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *    https://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package extractor drives metadata extraction runs: it pulls canonical
// rows out of a source (SQL catalog cursor, CSV file, or hive metastore)
// and lands them as CSV artifacts in a per-run output directory.
package extractor

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/GoogleCloudPlatform/dwh-metadata-extractor/internal/config"
	"github.com/GoogleCloudPlatform/dwh-metadata-extractor/internal/metastore"
	"github.com/GoogleCloudPlatform/dwh-metadata-extractor/internal/rows"
	"github.com/GoogleCloudPlatform/dwh-metadata-extractor/internal/warehouse"
)

// Extractor owns one extraction run and its output directory.
type Extractor struct {
	cfg    *config.Config
	logger *zap.Logger
	runID  string
	dir    string
}

// New allocates a run ID and creates the run directory under the configured
// output root.
func New(cfg *config.Config, logger *zap.Logger) (*Extractor, error) {
	runID := uuid.NewString()
	dir := filepath.Join(cfg.Output.Dir, runID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating run directory %s: %w", dir, err)
	}
	return &Extractor{cfg: cfg, logger: logger, runID: runID, dir: dir}, nil
}

// RunID identifies this extraction run.
func (e *Extractor) RunID() string { return e.runID }

// Dir is the run's local artifact directory.
func (e *Extractor) Dir() string { return e.dir }

// Cleanup removes the run directory. Called after a successful upload
// unless artifacts are configured to be kept.
func (e *Extractor) Cleanup() error {
	if e.cfg.Output.KeepArtifacts {
		e.logger.Info("keeping local artifacts", zap.String("dir", e.dir))
		return nil
	}
	return os.RemoveAll(e.dir)
}

// ExtractColumns streams the source's column catalog through the cursor
// materializer into the columns artifact.
func (e *Extractor) ExtractColumns(ctx context.Context, db *warehouse.DB) error {
	rs, err := db.QueryColumns(ctx)
	if err != nil {
		return err
	}
	defer rs.Close()

	cur, err := rows.CursorFromRows(rs)
	if err != nil {
		return err
	}
	w, err := newArtifactWriter(e.dir, rows.ColumnsRow{}.Kind(), rows.ColumnsRow{}.Header())
	if err != nil {
		return err
	}

	for rs.Next() {
		if err := cur.Scan(rs); err != nil {
			w.Close()
			return fmt.Errorf("scanning column catalog record %d: %w", cur.Row(), err)
		}
		row, err := rows.ColumnsRowFromCursor(cur)
		if err != nil {
			w.Close()
			return err
		}
		if err := w.Write(row); err != nil {
			w.Close()
			return err
		}
	}
	if err := rs.Err(); err != nil {
		w.Close()
		return fmt.Errorf("iterating column catalog: %w", err)
	}
	e.logger.Info("extracted column descriptors",
		zap.String("dialect", db.Config.Dialect),
		zap.Int("rows", w.Count()))
	return w.Close()
}

// ExtractTables streams the source's table catalog into the tables artifact.
func (e *Extractor) ExtractTables(ctx context.Context, db *warehouse.DB) error {
	rs, err := db.QueryTables(ctx)
	if err != nil {
		return err
	}
	defer rs.Close()

	cur, err := rows.CursorFromRows(rs)
	if err != nil {
		return err
	}
	w, err := newArtifactWriter(e.dir, rows.TablesRow{}.Kind(), rows.TablesRow{}.Header())
	if err != nil {
		return err
	}

	for rs.Next() {
		if err := cur.Scan(rs); err != nil {
			w.Close()
			return fmt.Errorf("scanning table catalog record %d: %w", cur.Row(), err)
		}
		row, err := rows.TablesRowFromCursor(cur)
		if err != nil {
			w.Close()
			return err
		}
		if err := w.Write(row); err != nil {
			w.Close()
			return err
		}
	}
	if err := rs.Err(); err != nil {
		w.Close()
		return fmt.Errorf("iterating table catalog: %w", err)
	}
	e.logger.Info("extracted table descriptors",
		zap.String("dialect", db.Config.Dialect),
		zap.Int("rows", w.Count()))
	return w.Close()
}

// ExtractCSV re-materializes a headerless positional CSV export of the
// given kind ("columns" or "tables") into a canonical artifact. Records
// are validated cell by cell; a malformed record aborts the run with its
// record number.
func (e *Extractor) ExtractCSV(path, kind string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening input CSV %s: %w", path, err)
	}
	defer f.Close()

	var fromRecord func(record []string, recordNum int) (rows.Row, error)
	var proto rows.Row
	switch kind {
	case rows.ColumnsRow{}.Kind():
		proto = rows.ColumnsRow{}
		fromRecord = func(record []string, n int) (rows.Row, error) {
			return rows.ColumnsRowFromRecord(record, n)
		}
	case rows.TablesRow{}.Kind():
		proto = rows.TablesRow{}
		fromRecord = func(record []string, n int) (rows.Row, error) {
			return rows.TablesRowFromRecord(record, n)
		}
	default:
		return fmt.Errorf("unsupported metadata kind %q", kind)
	}

	w, err := newArtifactWriter(e.dir, proto.Kind(), proto.Header())
	if err != nil {
		return err
	}

	r := csv.NewReader(f)
	// Cell counts are validated during materialization, not by the reader,
	// so short records surface as missing-field errors.
	r.FieldsPerRecord = -1
	for recordNum := 0; ; recordNum++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			w.Close()
			return fmt.Errorf("reading input CSV record %d: %w", recordNum, err)
		}
		row, err := fromRecord(record, recordNum)
		if err != nil {
			w.Close()
			return err
		}
		if err := w.Write(row); err != nil {
			w.Close()
			return err
		}
	}
	e.logger.Info("re-materialized CSV export",
		zap.String("input", path),
		zap.String("kind", kind),
		zap.Int("rows", w.Count()))
	return w.Close()
}

// ExtractHive walks the metastore catalog and lands tables, columns,
// partitions, and functions artifacts. Databases are fanned out across
// workers, each holding its own protocol adapter since a metastore session
// allows no concurrent calls.
func (e *Extractor) ExtractHive(ctx context.Context, dial func() (metastore.Client, error)) error {
	root, err := dial()
	if err != nil {
		return err
	}
	defer root.Close()

	databases, err := root.ListDatabases(ctx)
	if err != nil {
		return err
	}
	e.logger.Info("connected to metastore",
		zap.Int("databases", len(databases)),
		zap.Int("workers", e.cfg.Hive.Workers))

	tw, err := newArtifactWriter(e.dir, rows.TablesRow{}.Kind(), rows.TablesRow{}.Header())
	if err != nil {
		return err
	}
	cw, err := newArtifactWriter(e.dir, rows.ColumnsRow{}.Kind(), rows.ColumnsRow{}.Header())
	if err != nil {
		return err
	}
	pw, err := newArtifactWriter(e.dir, rows.PartitionsRow{}.Kind(), rows.PartitionsRow{}.Header())
	if err != nil {
		return err
	}
	writers := []*artifactWriter{tw, cw, pw}

	workers := e.cfg.Hive.Workers
	if workers < 1 {
		workers = 1
	}
	names := make(chan string)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(names)
		for _, db := range databases {
			select {
			case names <- db:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			c, err := dial()
			if err != nil {
				return err
			}
			defer c.Close()
			for db := range names {
				if err := e.extractDatabase(gctx, c, db, tw, cw, pw); err != nil {
					return fmt.Errorf("extracting database %s: %w", db, err)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		for _, w := range writers {
			w.Close()
		}
		return err
	}

	if err := e.extractFunctions(ctx, root); err != nil {
		for _, w := range writers {
			w.Close()
		}
		return err
	}

	e.logger.Info("extracted metastore catalog",
		zap.Int("tables", tw.Count()),
		zap.Int("columns", cw.Count()),
		zap.Int("partitions", pw.Count()))
	for _, w := range writers {
		if err := w.Close(); err != nil {
			return err
		}
	}
	return nil
}

// extractDatabase lands every table of one database: its descriptor row,
// one column row per schema field and partition key, and partition rows
// when the table is partitioned.
func (e *Extractor) extractDatabase(ctx context.Context, c metastore.Client, db string, tw, cw, pw *artifactWriter) error {
	catalog := e.cfg.Hive.Catalog
	tables, err := c.ListTables(ctx, db)
	if err != nil {
		return err
	}
	for _, tbl := range tables {
		t, err := c.GetTable(ctx, db, tbl)
		if err != nil {
			return err
		}
		if err := tw.Write(rows.TablesRowFromView(catalog, db, tbl, t)); err != nil {
			return err
		}

		fields, err := t.Fields(ctx)
		if err != nil {
			return err
		}
		position := 0
		for _, f := range fields {
			position++
			row, err := rows.ColumnsRowFromField(catalog, db, tbl, f, position)
			if err != nil {
				return err
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		// Partition keys are columns too; they follow the schema fields
		// in ordinal order.
		keys := t.PartitionKeys()
		for _, k := range keys {
			position++
			row, err := rows.ColumnsRowFromField(catalog, db, tbl, metastore.FieldView(k), position)
			if err != nil {
				return err
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}

		if len(keys) == 0 {
			continue
		}
		parts, err := t.Partitions(ctx)
		if err != nil {
			return err
		}
		for i, p := range parts {
			row, err := rows.PartitionsRowFromView(db, tbl, p, i)
			if err != nil {
				return err
			}
			if err := pw.Write(row); err != nil {
				return err
			}
		}
	}
	return nil
}

// extractFunctions lands the function catalog in one artifact.
func (e *Extractor) extractFunctions(ctx context.Context, c metastore.Client) error {
	views, err := c.ListFunctions(ctx)
	if err != nil {
		return err
	}
	w, err := newArtifactWriter(e.dir, rows.FunctionsRow{}.Kind(), rows.FunctionsRow{}.Header())
	if err != nil {
		return err
	}
	for i, v := range views {
		row, err := rows.FunctionsRowFromView(v, i)
		if err != nil {
			w.Close()
			return err
		}
		if err := w.Write(row); err != nil {
			w.Close()
			return err
		}
	}
	e.logger.Info("extracted function catalog", zap.Int("rows", w.Count()))
	return w.Close()
}
