/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: arrow.go
Description: Columnar export of generated tables. Converts a table into an Arrow record
with nullable Int64, Float64 and String columns and writes it as an Arrow IPC stream or
a Parquet file.
*/

package export

import (
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/detective-solutions/QueryCollect/pkg/dataset"
)

// arrowType maps a semantic type onto its Arrow column type
func arrowType(t dataset.SemanticType) (arrow.DataType, error) {
	switch t {
	case dataset.String:
		return arrow.BinaryTypes.String, nil
	case dataset.Integer:
		return arrow.PrimitiveTypes.Int64, nil
	case dataset.Float:
		return arrow.PrimitiveTypes.Float64, nil
	default:
		return nil, fmt.Errorf("%w: no arrow type for %s", ErrUnsupportedFormat, t)
	}
}

// Schema builds the Arrow schema of a table. Every column is nullable.
func Schema(t *dataset.Table) (*arrow.Schema, error) {
	fields := make([]arrow.Field, len(t.Columns))
	for i, col := range t.Columns {
		typ, err := arrowType(col.Type)
		if err != nil {
			return nil, err
		}
		fields[i] = arrow.Field{Name: col.Name, Type: typ, Nullable: true}
	}
	return arrow.NewSchema(fields, nil), nil
}

// ToRecord converts a table into an Arrow record. The caller must Release it.
func ToRecord(t *dataset.Table, mem memory.Allocator) (arrow.Record, error) {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	schema, err := Schema(t)
	if err != nil {
		return nil, err
	}

	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()

	for i, col := range t.Columns {
		for r, v := range col.Values {
			if dataset.IsMissing(v) {
				b.Field(i).AppendNull()
				continue
			}
			var ok bool
			switch fb := b.Field(i).(type) {
			case *array.StringBuilder:
				var s string
				if s, ok = v.(string); ok {
					fb.Append(s)
				}
			case *array.Int64Builder:
				var n int64
				if n, ok = v.(int64); ok {
					fb.Append(n)
				}
			case *array.Float64Builder:
				var f float64
				if f, ok = v.(float64); ok {
					fb.Append(f)
				}
			}
			if !ok {
				return nil, fmt.Errorf("column %s row %d: %T does not match %s", col.Name, r, v, col.Type)
			}
		}
	}
	return b.NewRecord(), nil
}

// WriteArrow writes t as a single-batch Arrow IPC stream
func WriteArrow(w io.Writer, t *dataset.Table, mem memory.Allocator) error {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	rec, err := ToRecord(t, mem)
	if err != nil {
		return err
	}
	defer rec.Release()

	writer := ipc.NewWriter(w, ipc.WithSchema(rec.Schema()), ipc.WithAllocator(mem))
	if err := writer.Write(rec); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write arrow record: %w", err)
	}
	return writer.Close()
}

// writeOnly hides Close so the parquet writer leaves the sink open
type writeOnly struct {
	w io.Writer
}

func (o writeOnly) Write(p []byte) (int, error) {
	return o.w.Write(p)
}

// WriteParquet writes t as a Parquet file. w stays open.
func WriteParquet(w io.Writer, t *dataset.Table, mem memory.Allocator) error {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	rec, err := ToRecord(t, mem)
	if err != nil {
		return err
	}
	defer rec.Release()

	writer, err := pqarrow.NewFileWriter(rec.Schema(), writeOnly{w}, nil, pqarrow.NewArrowWriterProperties(pqarrow.WithAllocator(mem)))
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}
	if err := writer.Write(rec); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write parquet record: %w", err)
	}
	return writer.Close()
}
