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
package rows

import (
	"github.com/GoogleCloudPlatform/dwh-metadata-extractor/internal/coerce"
	"github.com/GoogleCloudPlatform/dwh-metadata-extractor/internal/metastore"
)

var partitionsColumns = []string{
	"database_name",
	"table_name",
	"partition_name",
	"location",
}

var partitionsLineKeys = []string{
	"databaseName",
	"tableName",
	"partitionName",
	"location",
}

// PartitionsRow is the canonical partition descriptor, produced from
// metastore partition views.
type PartitionsRow struct {
	DatabaseName  string
	TableName     string
	PartitionName string
	Location      string
}

var _ Row = PartitionsRow{}

func (PartitionsRow) Kind() string {
	return "partitions"
}

func (PartitionsRow) Header() []string {
	return append([]string(nil), partitionsColumns...)
}

func (r PartitionsRow) Record() []string {
	return []string{r.DatabaseName, r.TableName, r.PartitionName, r.Location}
}

func (r PartitionsRow) String() string {
	return renderLine(partitionsLineKeys, r.Record())
}

// PartitionsRowFromView materializes one partition descriptor. recordNum
// identifies the partition's position within the table's listing in errors.
func PartitionsRowFromView(database, table string, v metastore.PartitionView, recordNum int) (PartitionsRow, error) {
	name, err := coerce.RequiredString("partition_name", recordNum, coerce.FromString(v.Name))
	if err != nil {
		return PartitionsRow{}, err
	}
	return PartitionsRow{
		DatabaseName:  database,
		TableName:     table,
		PartitionName: name,
		Location:      coerce.StringNotNull(optRaw(v.Location)),
	}, nil
}

var functionsColumns = []string{
	"database_name",
	"function_name",
	"class_name",
	"function_type",
}

var functionsLineKeys = []string{
	"databaseName",
	"functionName",
	"className",
	"functionType",
}

// FunctionsRow is the canonical function descriptor.
type FunctionsRow struct {
	DatabaseName string
	FunctionName string
	ClassName    string
	FunctionType string
}

var _ Row = FunctionsRow{}

func (FunctionsRow) Kind() string {
	return "functions"
}

func (FunctionsRow) Header() []string {
	return append([]string(nil), functionsColumns...)
}

func (r FunctionsRow) Record() []string {
	return []string{r.DatabaseName, r.FunctionName, r.ClassName, r.FunctionType}
}

func (r FunctionsRow) String() string {
	return renderLine(functionsLineKeys, r.Record())
}

// FunctionsRowFromView materializes one function descriptor. A function the
// server reports without a database or name is malformed, not defaultable;
// class name and type may be absent on older protocol revisions and coerce
// to empty.
func FunctionsRowFromView(v metastore.FunctionView, recordNum int) (FunctionsRow, error) {
	db, err := coerce.RequiredString("database_name", recordNum, optRaw(v.DatabaseName))
	if err != nil {
		return FunctionsRow{}, err
	}
	name, err := coerce.RequiredString("function_name", recordNum, optRaw(v.FunctionName))
	if err != nil {
		return FunctionsRow{}, err
	}
	return FunctionsRow{
		DatabaseName: db,
		FunctionName: name,
		ClassName:    coerce.StringNotNull(optRaw(v.ClassName)),
		FunctionType: coerce.StringNotNull(optRaw(v.Type)),
	}, nil
}
