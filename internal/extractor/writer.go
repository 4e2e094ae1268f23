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
package extractor

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/GoogleCloudPlatform/dwh-metadata-extractor/internal/rows"
)

// artifactWriter writes one metadata kind to a CSV artifact in the run
// directory. Write is safe for concurrent use; the hive extraction path
// shares one writer per kind across workers.
type artifactWriter struct {
	mu   sync.Mutex
	f    *os.File
	w    *csv.Writer
	path string
	n    int
}

// newArtifactWriter creates <dir>/<kind>.csv and writes the header record.
func newArtifactWriter(dir, kind string, header []string) (*artifactWriter, error) {
	path := filepath.Join(dir, kind+".csv")
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating artifact %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return nil, fmt.Errorf("writing artifact header to %s: %w", path, err)
	}
	return &artifactWriter{f: f, w: w, path: path}, nil
}

func (a *artifactWriter) Write(r rows.Row) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.w.Write(r.Record()); err != nil {
		return fmt.Errorf("writing %s record to %s: %w", r.Kind(), a.path, err)
	}
	a.n++
	return nil
}

// Count reports records written so far, header excluded.
func (a *artifactWriter) Count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.n
}

func (a *artifactWriter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.w.Flush()
	if err := a.w.Error(); err != nil {
		a.f.Close()
		return fmt.Errorf("flushing artifact %s: %w", a.path, err)
	}
	if err := a.f.Close(); err != nil {
		return fmt.Errorf("closing artifact %s: %w", a.path, err)
	}
	return nil
}
