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
package metastore

import (
	"context"
	"fmt"
)

// compatClient speaks to pre-2.0 server lines. The negotiated schema carries
// no view text on Table, no reliable last-access timestamps, and no
// whole-catalog function call; the missing attributes surface as not-set
// markers, never as guessed values.
type compatClient struct {
	w    wire
	caps Capability
}

var _ Client = (*compatClient)(nil)

func newCompatClient(w wire) *compatClient {
	return &compatClient{w: w, caps: 0}
}

func (c *compatClient) Capabilities() Capability {
	return c.caps
}

func (c *compatClient) ListDatabases(ctx context.Context) ([]string, error) {
	dbs, err := c.w.GetAllDatabases(ctx)
	if err != nil {
		return nil, transportf("list databases", err)
	}
	return dbs, nil
}

func (c *compatClient) ListTables(ctx context.Context, database string) ([]string, error) {
	tables, err := c.w.GetAllTables(ctx, database)
	if err != nil {
		return nil, transportf(fmt.Sprintf("list tables in %q", database), err)
	}
	return tables, nil
}

func (c *compatClient) GetTable(ctx context.Context, database, table string) (Table, error) {
	t, err := c.w.GetTable(ctx, database, table)
	if err != nil {
		return nil, transportf(fmt.Sprintf("get table %s.%s", database, table), err)
	}
	return &tableView{w: c.w, caps: c.caps, db: database, tbl: table, t: t}, nil
}

// ListFunctions enumerates functions database by database, the only listing
// older revisions support. Those revisions return names only, so class name
// and function type stay not-set.
func (c *compatClient) ListFunctions(ctx context.Context) ([]FunctionView, error) {
	dbs, err := c.w.GetAllDatabases(ctx)
	if err != nil {
		return nil, transportf("list databases for function enumeration", err)
	}
	var out []FunctionView
	for _, db := range dbs {
		names, err := c.w.GetFunctions(ctx, db, "*")
		if err != nil {
			return nil, transportf(fmt.Sprintf("list functions in %q", db), err)
		}
		for _, name := range names {
			out = append(out, FunctionView{
				DatabaseName: Some(db),
				FunctionName: Some(name),
				ClassName:    None[string](),
				Type:         None[string](),
			})
		}
	}
	return out, nil
}

func (c *compatClient) Close() error {
	if err := c.w.Shutdown(context.Background()); err != nil {
		return transportf("shutdown", err)
	}
	if err := c.w.Close(); err != nil {
		return transportf("close transport", err)
	}
	return nil
}
