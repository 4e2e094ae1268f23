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

	"github.com/GoogleCloudPlatform/dwh-metadata-extractor/internal/metastore/hive"
)

// maxPartitionNamesPerCall is the hard per-call cap some metastore
// implementations impose on get_partition_names. The protocol offers no
// pagination past it, so a listing that fills the cap is refused rather than
// silently truncated. Tables with more partitions than this are a documented
// capacity limit of the extractor.
const maxPartitionNamesPerCall int16 = 32767

// wire is the raw call surface the adapters share; *hive.Client implements
// it, tests substitute fakes.
type wire interface {
	GetAllDatabases(ctx context.Context) ([]string, error)
	GetAllTables(ctx context.Context, dbName string) ([]string, error)
	GetTable(ctx context.Context, dbName, tblName string) (*hive.Table, error)
	GetFields(ctx context.Context, dbName, tblName string) ([]*hive.FieldSchema, error)
	GetPartitionNames(ctx context.Context, dbName, tblName string, maxParts int16) ([]string, error)
	GetPartitionByName(ctx context.Context, dbName, tblName, partName string) (*hive.Partition, error)
	GetAllFunctions(ctx context.Context) (*hive.GetAllFunctionsResponse, error)
	GetFunctions(ctx context.Context, dbName, pattern string) ([]string, error)
	GetVersion(ctx context.Context) (string, error)
	Shutdown(ctx context.Context) error
	Close() error
}

var _ wire = (*hive.Client)(nil)

// supersetClient speaks the struct schema known to be a superset of the
// schemas used by recent server lines (Hive 2.3 and 3.x). Unknown fields a
// newer server sends are skipped on the wire; fields an older server omits
// read as not-set.
type supersetClient struct {
	w    wire
	caps Capability
}

var _ Client = (*supersetClient)(nil)

func newSupersetClient(w wire) *supersetClient {
	return &supersetClient{
		w:    w,
		caps: CapViewText | CapFunctionCatalog | CapLastAccessTime,
	}
}

func (c *supersetClient) Capabilities() Capability {
	return c.caps
}

func (c *supersetClient) ListDatabases(ctx context.Context) ([]string, error) {
	dbs, err := c.w.GetAllDatabases(ctx)
	if err != nil {
		return nil, transportf("list databases", err)
	}
	return dbs, nil
}

func (c *supersetClient) ListTables(ctx context.Context, database string) ([]string, error) {
	tables, err := c.w.GetAllTables(ctx, database)
	if err != nil {
		return nil, transportf(fmt.Sprintf("list tables in %q", database), err)
	}
	return tables, nil
}

func (c *supersetClient) GetTable(ctx context.Context, database, table string) (Table, error) {
	t, err := c.w.GetTable(ctx, database, table)
	if err != nil {
		return nil, transportf(fmt.Sprintf("get table %s.%s", database, table), err)
	}
	return &tableView{w: c.w, caps: c.caps, db: database, tbl: table, t: t}, nil
}

func (c *supersetClient) ListFunctions(ctx context.Context) ([]FunctionView, error) {
	resp, err := c.w.GetAllFunctions(ctx)
	if err != nil {
		return nil, transportf("list functions", err)
	}
	out := make([]FunctionView, 0, len(resp.Functions))
	for _, fn := range resp.Functions {
		if fn == nil {
			continue
		}
		out = append(out, FunctionView{
			DatabaseName: fromPtr(fn.DbName),
			FunctionName: fromPtr(fn.FunctionName),
			ClassName:    fromPtr(fn.ClassName),
			Type:         functionTypeName(fn.FunctionType),
		})
	}
	return out, nil
}

func (c *supersetClient) Close() error {
	if err := c.w.Shutdown(context.Background()); err != nil {
		return transportf("shutdown", err)
	}
	if err := c.w.Close(); err != nil {
		return transportf("close transport", err)
	}
	return nil
}

func functionTypeName(t *int32) Opt[string] {
	if t == nil {
		return None[string]()
	}
	if *t == hive.FunctionTypeJava {
		return Some("JAVA")
	}
	return Some(fmt.Sprintf("%d", *t))
}

// tableView adapts one get_table response. Both protocol adapters use it;
// the capability tag decides which optional attributes may be read at all.
type tableView struct {
	w    wire
	caps Capability
	db   string
	tbl  string
	t    *hive.Table
}

var _ Table = (*tableView)(nil)

func (v *tableView) DatabaseName() Opt[string] { return fromPtr(v.t.DbName) }
func (v *tableView) TableName() Opt[string]    { return fromPtr(v.t.TableName) }
func (v *tableView) TableType() Opt[string]    { return fromPtr(v.t.TableType) }
func (v *tableView) Owner() Opt[string]        { return fromPtr(v.t.Owner) }
func (v *tableView) CreateTime() Opt[int32]    { return fromPtr(v.t.CreateTime) }

func (v *tableView) LastAccessTime() Opt[int32] {
	if !v.caps.Has(CapLastAccessTime) {
		return None[int32]()
	}
	return fromPtr(v.t.LastAccessTime)
}

func (v *tableView) OriginalViewText() Opt[string] {
	if !v.caps.Has(CapViewText) {
		return None[string]()
	}
	return fromPtr(v.t.ViewOriginalText)
}

func (v *tableView) ExpandedViewText() Opt[string] {
	if !v.caps.Has(CapViewText) {
		return None[string]()
	}
	return fromPtr(v.t.ViewExpandedText)
}

func (v *tableView) Location() Opt[string] {
	if v.t.Sd == nil {
		return None[string]()
	}
	return fromPtr(v.t.Sd.Location)
}

func (v *tableView) Fields(ctx context.Context) ([]FieldView, error) {
	fields, err := v.w.GetFields(ctx, v.db, v.tbl)
	if err != nil {
		return nil, transportf(fmt.Sprintf("get fields of %s.%s", v.db, v.tbl), err)
	}
	out := make([]FieldView, 0, len(fields))
	for _, f := range fields {
		if f == nil {
			continue
		}
		out = append(out, FieldView{
			Name:    fromPtr(f.Name),
			Type:    fromPtr(f.Type),
			Comment: fromPtr(f.Comment),
		})
	}
	return out, nil
}

func (v *tableView) PartitionKeys() []PartitionKeyView {
	out := make([]PartitionKeyView, 0, len(v.t.PartitionKeys))
	for _, k := range v.t.PartitionKeys {
		if k == nil {
			continue
		}
		out = append(out, PartitionKeyView{
			Name:    fromPtr(k.Name),
			Type:    fromPtr(k.Type),
			Comment: fromPtr(k.Comment),
		})
	}
	return out
}

func (v *tableView) Partitions(ctx context.Context) ([]PartitionView, error) {
	names, err := v.w.GetPartitionNames(ctx, v.db, v.tbl, maxPartitionNamesPerCall)
	if err != nil {
		return nil, transportf(fmt.Sprintf("list partitions of %s.%s", v.db, v.tbl), err)
	}
	if len(names) >= int(maxPartitionNamesPerCall) {
		return nil, fmt.Errorf("partition listing for %s.%s reached the per-call limit of %d names and the protocol cannot paginate past it", v.db, v.tbl, maxPartitionNamesPerCall)
	}
	out := make([]PartitionView, 0, len(names))
	for _, name := range names {
		p, err := v.w.GetPartitionByName(ctx, v.db, v.tbl, name)
		if err != nil {
			// Partition data is fetched eagerly; a mid-sequence failure
			// must propagate, not truncate the listing.
			return nil, transportf(fmt.Sprintf("get partition %s.%s/%s", v.db, v.tbl, name), err)
		}
		pv := PartitionView{Name: name}
		if p.Sd != nil {
			pv.Location = fromPtr(p.Sd.Location)
		}
		out = append(out, pv)
	}
	return out, nil
}
