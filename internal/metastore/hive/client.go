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
package hive

import (
	"context"
	"fmt"

	"github.com/apache/thrift/lib/go/thrift"
)

// Client issues raw metastore RPCs over one Thrift connection. It owns the
// connection exclusively and is not safe for concurrent use.
type Client struct {
	c     thrift.TClient
	trans thrift.TTransport
}

// NewClient builds a client over an already-open transport. The caller picks
// the protocol factory (binary is what metastore deployments speak).
func NewClient(trans thrift.TTransport, pf thrift.TProtocolFactory) *Client {
	return &Client{
		c:     thrift.NewTStandardClient(pf.GetProtocol(trans), pf.GetProtocol(trans)),
		trans: trans,
	}
}

// NewClientFromTClient wraps a prebuilt TClient; used by tests.
func NewClientFromTClient(c thrift.TClient) *Client {
	return &Client{c: c}
}

func (c *Client) call(ctx context.Context, method string, args, result thrift.TStruct) error {
	if _, err := c.c.Call(ctx, method, args, result); err != nil {
		return fmt.Errorf("metastore call %s: %w", method, err)
	}
	return nil
}

// GetAllDatabases returns every database name.
func (c *Client) GetAllDatabases(ctx context.Context) ([]string, error) {
	res := &stringListResult{}
	if err := c.call(ctx, "get_all_databases", &emptyArgs{name: "get_all_databases_args"}, res); err != nil {
		return nil, err
	}
	return res.unwrap("get_all_databases")
}

// GetAllTables returns every table name within a database.
func (c *Client) GetAllTables(ctx context.Context, dbName string) ([]string, error) {
	res := &stringListResult{}
	args := &stringArgs{name: "get_all_tables_args", fields: []stringField{{1, "db_name", dbName}}}
	if err := c.call(ctx, "get_all_tables", args, res); err != nil {
		return nil, err
	}
	return res.unwrap("get_all_tables")
}

// GetTable fetches one table's struct.
func (c *Client) GetTable(ctx context.Context, dbName, tblName string) (*Table, error) {
	res := &tableResult{}
	args := &stringArgs{name: "get_table_args", fields: []stringField{
		{1, "dbname", dbName},
		{2, "tbl_name", tblName},
	}}
	if err := c.call(ctx, "get_table", args, res); err != nil {
		return nil, err
	}
	if res.remote != nil {
		return nil, res.remote
	}
	if res.Success == nil {
		return nil, fmt.Errorf("get_table: no result for %s.%s", dbName, tblName)
	}
	return res.Success, nil
}

// GetFields lists a table's column schema.
func (c *Client) GetFields(ctx context.Context, dbName, tblName string) ([]*FieldSchema, error) {
	res := &fieldListResult{}
	args := &stringArgs{name: "get_fields_args", fields: []stringField{
		{1, "db_name", dbName},
		{2, "table_name", tblName},
	}}
	if err := c.call(ctx, "get_fields", args, res); err != nil {
		return nil, err
	}
	if res.remote != nil {
		return nil, res.remote
	}
	return res.Success, nil
}

// GetPartitionNames enumerates partition names, bounded by maxParts per the
// protocol's hard per-call limit.
func (c *Client) GetPartitionNames(ctx context.Context, dbName, tblName string, maxParts int16) ([]string, error) {
	res := &stringListResult{}
	args := &partitionNamesArgs{DbName: dbName, TblName: tblName, MaxParts: maxParts}
	if err := c.call(ctx, "get_partition_names", args, res); err != nil {
		return nil, err
	}
	return res.unwrap("get_partition_names")
}

// GetPartitionByName fetches one partition's struct.
func (c *Client) GetPartitionByName(ctx context.Context, dbName, tblName, partName string) (*Partition, error) {
	res := &partitionResult{}
	args := &stringArgs{name: "get_partition_by_name_args", fields: []stringField{
		{1, "db_name", dbName},
		{2, "tbl_name", tblName},
		{3, "part_name", partName},
	}}
	if err := c.call(ctx, "get_partition_by_name", args, res); err != nil {
		return nil, err
	}
	if res.remote != nil {
		return nil, res.remote
	}
	if res.Success == nil {
		return nil, fmt.Errorf("get_partition_by_name: no result for %s.%s/%s", dbName, tblName, partName)
	}
	return res.Success, nil
}

// GetAllFunctions fetches the whole function collection (Hive 2.0+).
func (c *Client) GetAllFunctions(ctx context.Context) (*GetAllFunctionsResponse, error) {
	res := &functionsResult{}
	if err := c.call(ctx, "get_all_functions", &emptyArgs{name: "get_all_functions_args"}, res); err != nil {
		return nil, err
	}
	if res.remote != nil {
		return nil, res.remote
	}
	if res.Success == nil {
		return &GetAllFunctionsResponse{}, nil
	}
	return res.Success, nil
}

// GetFunctions enumerates function names in one database matching a pattern.
// This is the only function listing older revisions support.
func (c *Client) GetFunctions(ctx context.Context, dbName, pattern string) ([]string, error) {
	res := &stringListResult{}
	args := &stringArgs{name: "get_functions_args", fields: []stringField{
		{1, "dbName", dbName},
		{2, "pattern", pattern},
	}}
	if err := c.call(ctx, "get_functions", args, res); err != nil {
		return nil, err
	}
	return res.unwrap("get_functions")
}

// GetVersion asks the service for its version string (fb303 base service).
func (c *Client) GetVersion(ctx context.Context) (string, error) {
	res := &versionResult{}
	if err := c.call(ctx, "getVersion", &emptyArgs{name: "getVersion_args"}, res); err != nil {
		return "", err
	}
	if res.Success == nil {
		return "", fmt.Errorf("getVersion: server returned no version")
	}
	return *res.Success, nil
}

// Shutdown asks the service to tear the session down (fb303 base service).
func (c *Client) Shutdown(ctx context.Context) error {
	return c.call(ctx, "shutdown", &emptyArgs{name: "shutdown_args"}, &voidResult{})
}

// Close closes the owned transport, if any.
func (c *Client) Close() error {
	if c.trans == nil {
		return nil
	}
	return c.trans.Close()
}

// --- argument structs ---

type emptyArgs struct {
	name string
}

func (p *emptyArgs) Write(ctx context.Context, oprot thrift.TProtocol) error {
	return writeEmptyStruct(ctx, oprot, p.name)
}

func (p *emptyArgs) Read(ctx context.Context, iprot thrift.TProtocol) error {
	return skipAllFields(ctx, iprot)
}

type stringField struct {
	id    int16
	name  string
	value string
}

// stringArgs covers every metastore call whose arguments are strings in
// declared field order.
type stringArgs struct {
	name   string
	fields []stringField
}

func (p *stringArgs) Write(ctx context.Context, oprot thrift.TProtocol) error {
	if err := oprot.WriteStructBegin(ctx, p.name); err != nil {
		return err
	}
	for _, f := range p.fields {
		if err := oprot.WriteFieldBegin(ctx, f.name, thrift.STRING, f.id); err != nil {
			return err
		}
		if err := oprot.WriteString(ctx, f.value); err != nil {
			return err
		}
		if err := oprot.WriteFieldEnd(ctx); err != nil {
			return err
		}
	}
	if err := oprot.WriteFieldStop(ctx); err != nil {
		return err
	}
	return oprot.WriteStructEnd(ctx)
}

func (p *stringArgs) Read(ctx context.Context, iprot thrift.TProtocol) error {
	return skipAllFields(ctx, iprot)
}

type partitionNamesArgs struct {
	DbName   string
	TblName  string
	MaxParts int16
}

func (p *partitionNamesArgs) Write(ctx context.Context, oprot thrift.TProtocol) error {
	if err := oprot.WriteStructBegin(ctx, "get_partition_names_args"); err != nil {
		return err
	}
	if err := oprot.WriteFieldBegin(ctx, "db_name", thrift.STRING, 1); err != nil {
		return err
	}
	if err := oprot.WriteString(ctx, p.DbName); err != nil {
		return err
	}
	if err := oprot.WriteFieldEnd(ctx); err != nil {
		return err
	}
	if err := oprot.WriteFieldBegin(ctx, "tbl_name", thrift.STRING, 2); err != nil {
		return err
	}
	if err := oprot.WriteString(ctx, p.TblName); err != nil {
		return err
	}
	if err := oprot.WriteFieldEnd(ctx); err != nil {
		return err
	}
	if err := oprot.WriteFieldBegin(ctx, "max_parts", thrift.I16, 3); err != nil {
		return err
	}
	if err := oprot.WriteI16(ctx, p.MaxParts); err != nil {
		return err
	}
	if err := oprot.WriteFieldEnd(ctx); err != nil {
		return err
	}
	if err := oprot.WriteFieldStop(ctx); err != nil {
		return err
	}
	return oprot.WriteStructEnd(ctx)
}

func (p *partitionNamesArgs) Read(ctx context.Context, iprot thrift.TProtocol) error {
	return skipAllFields(ctx, iprot)
}

// --- result structs ---
//
// Field 0 is always the success value; any declared exception arrives as a
// struct on field 1 and up, and all of them share the remoteError shape.

func readResult(ctx context.Context, iprot thrift.TProtocol, onSuccess func(typeID thrift.TType) (bool, error), remote **remoteError) error {
	if _, err := iprot.ReadStructBegin(ctx); err != nil {
		return err
	}
	for {
		_, fieldTypeID, fieldID, err := iprot.ReadFieldBegin(ctx)
		if err != nil {
			return err
		}
		if fieldTypeID == thrift.STOP {
			break
		}
		switch {
		case fieldID == 0:
			handled, err := onSuccess(fieldTypeID)
			if err != nil {
				return err
			}
			if !handled {
				if err := thrift.SkipDefaultDepth(ctx, iprot, fieldTypeID); err != nil {
					return err
				}
			}
		case fieldTypeID == thrift.STRUCT:
			re := &remoteError{}
			if err := re.Read(ctx, iprot); err != nil {
				return err
			}
			*remote = re
		default:
			if err := thrift.SkipDefaultDepth(ctx, iprot, fieldTypeID); err != nil {
				return err
			}
		}
		if err := iprot.ReadFieldEnd(ctx); err != nil {
			return err
		}
	}
	return iprot.ReadStructEnd(ctx)
}

type stringListResult struct {
	Success []string
	remote  *remoteError
}

func (p *stringListResult) Read(ctx context.Context, iprot thrift.TProtocol) error {
	return readResult(ctx, iprot, func(typeID thrift.TType) (bool, error) {
		if typeID != thrift.LIST {
			return false, nil
		}
		v, err := readStringList(ctx, iprot)
		if err != nil {
			return false, err
		}
		p.Success = v
		return true, nil
	}, &p.remote)
}

func (p *stringListResult) Write(ctx context.Context, oprot thrift.TProtocol) error {
	return writeEmptyStruct(ctx, oprot, "result")
}

func (p *stringListResult) unwrap(method string) ([]string, error) {
	if p.remote != nil {
		return nil, fmt.Errorf("%s: %w", method, p.remote)
	}
	return p.Success, nil
}

type tableResult struct {
	Success *Table
	remote  *remoteError
}

func (p *tableResult) Read(ctx context.Context, iprot thrift.TProtocol) error {
	return readResult(ctx, iprot, func(typeID thrift.TType) (bool, error) {
		if typeID != thrift.STRUCT {
			return false, nil
		}
		t := &Table{}
		if err := t.Read(ctx, iprot); err != nil {
			return false, err
		}
		p.Success = t
		return true, nil
	}, &p.remote)
}

func (p *tableResult) Write(ctx context.Context, oprot thrift.TProtocol) error {
	return writeEmptyStruct(ctx, oprot, "result")
}

type fieldListResult struct {
	Success []*FieldSchema
	remote  *remoteError
}

func (p *fieldListResult) Read(ctx context.Context, iprot thrift.TProtocol) error {
	return readResult(ctx, iprot, func(typeID thrift.TType) (bool, error) {
		if typeID != thrift.LIST {
			return false, nil
		}
		v, err := readFieldSchemaList(ctx, iprot)
		if err != nil {
			return false, err
		}
		p.Success = v
		return true, nil
	}, &p.remote)
}

func (p *fieldListResult) Write(ctx context.Context, oprot thrift.TProtocol) error {
	return writeEmptyStruct(ctx, oprot, "result")
}

type partitionResult struct {
	Success *Partition
	remote  *remoteError
}

func (p *partitionResult) Read(ctx context.Context, iprot thrift.TProtocol) error {
	return readResult(ctx, iprot, func(typeID thrift.TType) (bool, error) {
		if typeID != thrift.STRUCT {
			return false, nil
		}
		v := &Partition{}
		if err := v.Read(ctx, iprot); err != nil {
			return false, err
		}
		p.Success = v
		return true, nil
	}, &p.remote)
}

func (p *partitionResult) Write(ctx context.Context, oprot thrift.TProtocol) error {
	return writeEmptyStruct(ctx, oprot, "result")
}

type functionsResult struct {
	Success *GetAllFunctionsResponse
	remote  *remoteError
}

func (p *functionsResult) Read(ctx context.Context, iprot thrift.TProtocol) error {
	return readResult(ctx, iprot, func(typeID thrift.TType) (bool, error) {
		if typeID != thrift.STRUCT {
			return false, nil
		}
		v := &GetAllFunctionsResponse{}
		if err := v.Read(ctx, iprot); err != nil {
			return false, err
		}
		p.Success = v
		return true, nil
	}, &p.remote)
}

func (p *functionsResult) Write(ctx context.Context, oprot thrift.TProtocol) error {
	return writeEmptyStruct(ctx, oprot, "result")
}

type versionResult struct {
	Success *string
	remote  *remoteError
}

func (p *versionResult) Read(ctx context.Context, iprot thrift.TProtocol) error {
	return readResult(ctx, iprot, func(typeID thrift.TType) (bool, error) {
		if typeID != thrift.STRING {
			return false, nil
		}
		v, err := iprot.ReadString(ctx)
		if err != nil {
			return false, err
		}
		p.Success = &v
		return true, nil
	}, &p.remote)
}

func (p *versionResult) Write(ctx context.Context, oprot thrift.TProtocol) error {
	return writeEmptyStruct(ctx, oprot, "result")
}

type voidResult struct {
	remote *remoteError
}

func (p *voidResult) Read(ctx context.Context, iprot thrift.TProtocol) error {
	return readResult(ctx, iprot, func(typeID thrift.TType) (bool, error) {
		return false, nil
	}, &p.remote)
}

func (p *voidResult) Write(ctx context.Context, oprot thrift.TProtocol) error {
	return writeEmptyStruct(ctx, oprot, "result")
}
