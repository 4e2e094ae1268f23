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

// Package hive holds hand-maintained Thrift bindings for the subset of the
// Hive metastore service the extractor consumes. Only the struct fields the
// entity views expose are decoded; every other field on the wire is skipped,
// which is what makes one binding tolerant of several deployed schema
// revisions. Optional fields are pointers populated only when the protocol's
// per-field presence indicator says the server wrote them.
package hive

import (
	"context"
	"fmt"

	"github.com/apache/thrift/lib/go/thrift"
)

// FieldSchema is one column (or partition key) of a table.
type FieldSchema struct {
	Name    *string
	Type    *string
	Comment *string
}

func (p *FieldSchema) Read(ctx context.Context, iprot thrift.TProtocol) error {
	if _, err := iprot.ReadStructBegin(ctx); err != nil {
		return thrift.PrependError(fmt.Sprintf("%T read struct begin error: ", p), err)
	}
	for {
		_, fieldTypeID, fieldID, err := iprot.ReadFieldBegin(ctx)
		if err != nil {
			return thrift.PrependError(fmt.Sprintf("%T field read error: ", p), err)
		}
		if fieldTypeID == thrift.STOP {
			break
		}
		switch {
		case fieldID == 1 && fieldTypeID == thrift.STRING:
			v, err := iprot.ReadString(ctx)
			if err != nil {
				return err
			}
			p.Name = &v
		case fieldID == 2 && fieldTypeID == thrift.STRING:
			v, err := iprot.ReadString(ctx)
			if err != nil {
				return err
			}
			p.Type = &v
		case fieldID == 3 && fieldTypeID == thrift.STRING:
			v, err := iprot.ReadString(ctx)
			if err != nil {
				return err
			}
			p.Comment = &v
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

func (p *FieldSchema) Write(ctx context.Context, oprot thrift.TProtocol) error {
	return writeEmptyStruct(ctx, oprot, "FieldSchema")
}

// StorageDescriptor carries a table's or partition's physical layout; only
// the location is consumed here.
type StorageDescriptor struct {
	Location *string
}

func (p *StorageDescriptor) Read(ctx context.Context, iprot thrift.TProtocol) error {
	if _, err := iprot.ReadStructBegin(ctx); err != nil {
		return thrift.PrependError(fmt.Sprintf("%T read struct begin error: ", p), err)
	}
	for {
		_, fieldTypeID, fieldID, err := iprot.ReadFieldBegin(ctx)
		if err != nil {
			return thrift.PrependError(fmt.Sprintf("%T field read error: ", p), err)
		}
		if fieldTypeID == thrift.STOP {
			break
		}
		if fieldID == 2 && fieldTypeID == thrift.STRING {
			v, err := iprot.ReadString(ctx)
			if err != nil {
				return err
			}
			p.Location = &v
		} else if err := thrift.SkipDefaultDepth(ctx, iprot, fieldTypeID); err != nil {
			return err
		}
		if err := iprot.ReadFieldEnd(ctx); err != nil {
			return err
		}
	}
	return iprot.ReadStructEnd(ctx)
}

func (p *StorageDescriptor) Write(ctx context.Context, oprot thrift.TProtocol) error {
	return writeEmptyStruct(ctx, oprot, "StorageDescriptor")
}

// Table is the get_table response struct. Field numbers follow the Hive IDL;
// fields this extractor never reads (retention, parameters, privileges, ...)
// are skipped on the wire.
type Table struct {
	TableName        *string            // 1
	DbName           *string            // 2
	Owner            *string            // 3
	CreateTime       *int32             // 4
	LastAccessTime   *int32             // 5
	Sd               *StorageDescriptor // 7
	PartitionKeys    []*FieldSchema     // 8
	ViewOriginalText *string            // 10
	ViewExpandedText *string            // 11
	TableType        *string            // 12
}

func (p *Table) Read(ctx context.Context, iprot thrift.TProtocol) error {
	if _, err := iprot.ReadStructBegin(ctx); err != nil {
		return thrift.PrependError(fmt.Sprintf("%T read struct begin error: ", p), err)
	}
	for {
		_, fieldTypeID, fieldID, err := iprot.ReadFieldBegin(ctx)
		if err != nil {
			return thrift.PrependError(fmt.Sprintf("%T field read error: ", p), err)
		}
		if fieldTypeID == thrift.STOP {
			break
		}
		switch {
		case fieldID == 1 && fieldTypeID == thrift.STRING:
			v, err := iprot.ReadString(ctx)
			if err != nil {
				return err
			}
			p.TableName = &v
		case fieldID == 2 && fieldTypeID == thrift.STRING:
			v, err := iprot.ReadString(ctx)
			if err != nil {
				return err
			}
			p.DbName = &v
		case fieldID == 3 && fieldTypeID == thrift.STRING:
			v, err := iprot.ReadString(ctx)
			if err != nil {
				return err
			}
			p.Owner = &v
		case fieldID == 4 && fieldTypeID == thrift.I32:
			v, err := iprot.ReadI32(ctx)
			if err != nil {
				return err
			}
			p.CreateTime = &v
		case fieldID == 5 && fieldTypeID == thrift.I32:
			v, err := iprot.ReadI32(ctx)
			if err != nil {
				return err
			}
			p.LastAccessTime = &v
		case fieldID == 7 && fieldTypeID == thrift.STRUCT:
			sd := &StorageDescriptor{}
			if err := sd.Read(ctx, iprot); err != nil {
				return err
			}
			p.Sd = sd
		case fieldID == 8 && fieldTypeID == thrift.LIST:
			keys, err := readFieldSchemaList(ctx, iprot)
			if err != nil {
				return err
			}
			p.PartitionKeys = keys
		case fieldID == 10 && fieldTypeID == thrift.STRING:
			v, err := iprot.ReadString(ctx)
			if err != nil {
				return err
			}
			p.ViewOriginalText = &v
		case fieldID == 11 && fieldTypeID == thrift.STRING:
			v, err := iprot.ReadString(ctx)
			if err != nil {
				return err
			}
			p.ViewExpandedText = &v
		case fieldID == 12 && fieldTypeID == thrift.STRING:
			v, err := iprot.ReadString(ctx)
			if err != nil {
				return err
			}
			p.TableType = &v
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

func (p *Table) Write(ctx context.Context, oprot thrift.TProtocol) error {
	return writeEmptyStruct(ctx, oprot, "Table")
}

// Partition is the get_partition_by_name response struct.
type Partition struct {
	DbName         *string            // 2
	TableName      *string            // 3
	CreateTime     *int32             // 4
	LastAccessTime *int32             // 5
	Sd             *StorageDescriptor // 6
}

func (p *Partition) Read(ctx context.Context, iprot thrift.TProtocol) error {
	if _, err := iprot.ReadStructBegin(ctx); err != nil {
		return thrift.PrependError(fmt.Sprintf("%T read struct begin error: ", p), err)
	}
	for {
		_, fieldTypeID, fieldID, err := iprot.ReadFieldBegin(ctx)
		if err != nil {
			return thrift.PrependError(fmt.Sprintf("%T field read error: ", p), err)
		}
		if fieldTypeID == thrift.STOP {
			break
		}
		switch {
		case fieldID == 2 && fieldTypeID == thrift.STRING:
			v, err := iprot.ReadString(ctx)
			if err != nil {
				return err
			}
			p.DbName = &v
		case fieldID == 3 && fieldTypeID == thrift.STRING:
			v, err := iprot.ReadString(ctx)
			if err != nil {
				return err
			}
			p.TableName = &v
		case fieldID == 4 && fieldTypeID == thrift.I32:
			v, err := iprot.ReadI32(ctx)
			if err != nil {
				return err
			}
			p.CreateTime = &v
		case fieldID == 5 && fieldTypeID == thrift.I32:
			v, err := iprot.ReadI32(ctx)
			if err != nil {
				return err
			}
			p.LastAccessTime = &v
		case fieldID == 6 && fieldTypeID == thrift.STRUCT:
			sd := &StorageDescriptor{}
			if err := sd.Read(ctx, iprot); err != nil {
				return err
			}
			p.Sd = sd
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

func (p *Partition) Write(ctx context.Context, oprot thrift.TProtocol) error {
	return writeEmptyStruct(ctx, oprot, "Partition")
}

// FunctionTypeJava is the only function type the Hive IDL defines.
const FunctionTypeJava int32 = 1

// Function is one element of the get_all_functions response.
type Function struct {
	FunctionName *string // 1
	DbName       *string // 2
	ClassName    *string // 3
	OwnerName    *string // 4
	CreateTime   *int32  // 6
	FunctionType *int32  // 7
}

func (p *Function) Read(ctx context.Context, iprot thrift.TProtocol) error {
	if _, err := iprot.ReadStructBegin(ctx); err != nil {
		return thrift.PrependError(fmt.Sprintf("%T read struct begin error: ", p), err)
	}
	for {
		_, fieldTypeID, fieldID, err := iprot.ReadFieldBegin(ctx)
		if err != nil {
			return thrift.PrependError(fmt.Sprintf("%T field read error: ", p), err)
		}
		if fieldTypeID == thrift.STOP {
			break
		}
		switch {
		case fieldID == 1 && fieldTypeID == thrift.STRING:
			v, err := iprot.ReadString(ctx)
			if err != nil {
				return err
			}
			p.FunctionName = &v
		case fieldID == 2 && fieldTypeID == thrift.STRING:
			v, err := iprot.ReadString(ctx)
			if err != nil {
				return err
			}
			p.DbName = &v
		case fieldID == 3 && fieldTypeID == thrift.STRING:
			v, err := iprot.ReadString(ctx)
			if err != nil {
				return err
			}
			p.ClassName = &v
		case fieldID == 4 && fieldTypeID == thrift.STRING:
			v, err := iprot.ReadString(ctx)
			if err != nil {
				return err
			}
			p.OwnerName = &v
		case fieldID == 6 && fieldTypeID == thrift.I32:
			v, err := iprot.ReadI32(ctx)
			if err != nil {
				return err
			}
			p.CreateTime = &v
		case fieldID == 7 && fieldTypeID == thrift.I32:
			v, err := iprot.ReadI32(ctx)
			if err != nil {
				return err
			}
			p.FunctionType = &v
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

func (p *Function) Write(ctx context.Context, oprot thrift.TProtocol) error {
	return writeEmptyStruct(ctx, oprot, "Function")
}

// GetAllFunctionsResponse wraps the function list (Hive 2.0+).
type GetAllFunctionsResponse struct {
	Functions []*Function // 1
}

func (p *GetAllFunctionsResponse) Read(ctx context.Context, iprot thrift.TProtocol) error {
	if _, err := iprot.ReadStructBegin(ctx); err != nil {
		return thrift.PrependError(fmt.Sprintf("%T read struct begin error: ", p), err)
	}
	for {
		_, fieldTypeID, fieldID, err := iprot.ReadFieldBegin(ctx)
		if err != nil {
			return thrift.PrependError(fmt.Sprintf("%T field read error: ", p), err)
		}
		if fieldTypeID == thrift.STOP {
			break
		}
		if fieldID == 1 && fieldTypeID == thrift.LIST {
			_, size, err := iprot.ReadListBegin(ctx)
			if err != nil {
				return err
			}
			fns := make([]*Function, 0, size)
			for i := 0; i < size; i++ {
				fn := &Function{}
				if err := fn.Read(ctx, iprot); err != nil {
					return err
				}
				fns = append(fns, fn)
			}
			if err := iprot.ReadListEnd(ctx); err != nil {
				return err
			}
			p.Functions = fns
		} else if err := thrift.SkipDefaultDepth(ctx, iprot, fieldTypeID); err != nil {
			return err
		}
		if err := iprot.ReadFieldEnd(ctx); err != nil {
			return err
		}
	}
	return iprot.ReadStructEnd(ctx)
}

func (p *GetAllFunctionsResponse) Write(ctx context.Context, oprot thrift.TProtocol) error {
	return writeEmptyStruct(ctx, oprot, "GetAllFunctionsResponse")
}

// remoteError is the wire shape shared by the metastore's declared
// exceptions (MetaException, NoSuchObjectException, UnknownDBException): a
// single message field.
type remoteError struct {
	Message *string
}

func (p *remoteError) Error() string {
	if p.Message != nil {
		return *p.Message
	}
	return "metastore error (no message)"
}

func (p *remoteError) Read(ctx context.Context, iprot thrift.TProtocol) error {
	if _, err := iprot.ReadStructBegin(ctx); err != nil {
		return thrift.PrependError(fmt.Sprintf("%T read struct begin error: ", p), err)
	}
	for {
		_, fieldTypeID, fieldID, err := iprot.ReadFieldBegin(ctx)
		if err != nil {
			return thrift.PrependError(fmt.Sprintf("%T field read error: ", p), err)
		}
		if fieldTypeID == thrift.STOP {
			break
		}
		if fieldID == 1 && fieldTypeID == thrift.STRING {
			v, err := iprot.ReadString(ctx)
			if err != nil {
				return err
			}
			p.Message = &v
		} else if err := thrift.SkipDefaultDepth(ctx, iprot, fieldTypeID); err != nil {
			return err
		}
		if err := iprot.ReadFieldEnd(ctx); err != nil {
			return err
		}
	}
	return iprot.ReadStructEnd(ctx)
}

func readFieldSchemaList(ctx context.Context, iprot thrift.TProtocol) ([]*FieldSchema, error) {
	_, size, err := iprot.ReadListBegin(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*FieldSchema, 0, size)
	for i := 0; i < size; i++ {
		fs := &FieldSchema{}
		if err := fs.Read(ctx, iprot); err != nil {
			return nil, err
		}
		out = append(out, fs)
	}
	if err := iprot.ReadListEnd(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

func readStringList(ctx context.Context, iprot thrift.TProtocol) ([]string, error) {
	_, size, err := iprot.ReadListBegin(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, size)
	for i := 0; i < size; i++ {
		v, err := iprot.ReadString(ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := iprot.ReadListEnd(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

// writeEmptyStruct is the Write side of structs this client only ever reads.
// The service never receives them as arguments, but TStruct requires both
// directions.
func writeEmptyStruct(ctx context.Context, oprot thrift.TProtocol, name string) error {
	if err := oprot.WriteStructBegin(ctx, name); err != nil {
		return err
	}
	if err := oprot.WriteFieldStop(ctx); err != nil {
		return err
	}
	return oprot.WriteStructEnd(ctx)
}

// skipAllFields is the Read side of argument structs this client only ever
// writes.
func skipAllFields(ctx context.Context, iprot thrift.TProtocol) error {
	if _, err := iprot.ReadStructBegin(ctx); err != nil {
		return err
	}
	for {
		_, fieldTypeID, _, err := iprot.ReadFieldBegin(ctx)
		if err != nil {
			return err
		}
		if fieldTypeID == thrift.STOP {
			break
		}
		if err := thrift.SkipDefaultDepth(ctx, iprot, fieldTypeID); err != nil {
			return err
		}
		if err := iprot.ReadFieldEnd(ctx); err != nil {
			return err
		}
	}
	return iprot.ReadStructEnd(ctx)
}
