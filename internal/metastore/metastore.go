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

// Package metastore provides a protocol-version-tolerant client for Hive
// style Thrift metastore services. Deployed servers speak incompatible
// struct-schema revisions; the adapters in this package hide which revision
// is live behind one stable Client interface and surface attributes the
// active protocol does not carry as explicit not-set values instead of
// zero values pretending to be data.
//
// A Client wraps a single underlying Thrift connection and is not safe for
// concurrent use. Callers that need throughput open one client per worker.
package metastore

import "context"

// Opt is an optional entity attribute. The zero Opt is "not set", which is
// how a field absent from the negotiated protocol revision, or left unset by
// the server, reads. It is distinct from a set-but-empty value.
type Opt[T any] struct {
	value T
	set   bool
}

// Some wraps a value the wire protocol actually carried.
func Some[T any](v T) Opt[T] {
	return Opt[T]{value: v, set: true}
}

// None is the explicit not-set marker.
func None[T any]() Opt[T] {
	return Opt[T]{}
}

// fromPtr lifts a wire-level presence pointer into an Opt.
func fromPtr[T any](p *T) Opt[T] {
	if p == nil {
		return Opt[T]{}
	}
	return Opt[T]{value: *p, set: true}
}

// IsSet reports whether the attribute carried a value.
func (o Opt[T]) IsSet() bool {
	return o.set
}

// Get returns the value and whether it was set.
func (o Opt[T]) Get() (T, bool) {
	return o.value, o.set
}

// OrZero returns the value, or the zero value when not set. Callers that
// must distinguish absence use Get or IsSet.
func (o Opt[T]) OrZero() T {
	return o.value
}

// Capability describes which optional struct fields the negotiated protocol
// revision actually carries. It is fixed at adapter-selection time and
// consulted by entity views before any optional-field read.
type Capability uint

const (
	// CapViewText: Table carries view original/expanded text fields.
	CapViewText Capability = 1 << iota
	// CapFunctionCatalog: the server supports fetching the whole function
	// collection, including class name and function type, in one call.
	CapFunctionCatalog
	// CapLastAccessTime: Table and Partition carry last-access timestamps.
	CapLastAccessTime
)

// Has reports whether every capability in want is present.
func (c Capability) Has(want Capability) bool {
	return c&want == want
}

// Client is the version-independent surface over one metastore session.
//
// Implementations wrap a single Thrift client connection; operations observe
// server responses in call order and no call may be issued while another is
// in flight.
type Client interface {
	// ListDatabases enumerates all database names.
	ListDatabases(ctx context.Context) ([]string, error)
	// ListTables enumerates table names within a database.
	ListTables(ctx context.Context, database string) ([]string, error)
	// GetTable fetches one table's detail view.
	GetTable(ctx context.Context, database, table string) (Table, error)
	// ListFunctions fetches every function the service knows about. Not
	// every element carries every optional attribute.
	ListFunctions(ctx context.Context) ([]FunctionView, error)
	// Capabilities is the protocol capability tag negotiated for this
	// session.
	Capabilities() Capability
	// Close shuts the underlying session down. Transport failures during
	// shutdown are reported, never swallowed.
	Close() error
}

// Table is a transient read-only view over one get_table response. Fields
// and Partitions issue further calls on the owning client, so a Table must
// not outlive its Client and inherits its non-concurrency.
type Table interface {
	DatabaseName() Opt[string]
	TableName() Opt[string]
	TableType() Opt[string]
	CreateTime() Opt[int32]
	LastAccessTime() Opt[int32]
	Owner() Opt[string]
	OriginalViewText() Opt[string]
	ExpandedViewText() Opt[string]
	Location() Opt[string]

	// Fields lists the table's column schema.
	Fields(ctx context.Context) ([]FieldView, error)
	// PartitionKeys lists the partitioning columns carried on the table
	// struct itself (no extra call).
	PartitionKeys() []PartitionKeyView
	// Partitions lists partition names and eagerly fetches each
	// partition's detail. One failed detail fetch aborts the whole
	// listing; a partial list is never returned.
	Partitions(ctx context.Context) ([]PartitionView, error)
}

// FieldView is one column of a table schema.
type FieldView struct {
	Name    Opt[string]
	Type    Opt[string]
	Comment Opt[string]
}

// PartitionKeyView is one partitioning column.
type PartitionKeyView struct {
	Name    Opt[string]
	Type    Opt[string]
	Comment Opt[string]
}

// PartitionView is one partition's detail. The name comes from the
// enumeration call and is always present.
type PartitionView struct {
	Name     string
	Location Opt[string]
}

// FunctionView is one catalog function.
type FunctionView struct {
	DatabaseName Opt[string]
	FunctionName Opt[string]
	ClassName    Opt[string]
	Type         Opt[string]
}
