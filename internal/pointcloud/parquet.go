package pointcloud

import (
	"context"
	"fmt"
	"os"

	"github.com/apache/arrow/go/v14/arrow"
	"github.com/apache/arrow/go/v14/arrow/array"
	"github.com/apache/arrow/go/v14/arrow/memory"
	"github.com/apache/arrow/go/v14/parquet"
	"github.com/apache/arrow/go/v14/parquet/compress"
	"github.com/apache/arrow/go/v14/parquet/file"
	"github.com/apache/arrow/go/v14/parquet/pqarrow"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/wegman-software/voxcity-go/internal/category"
)

// Interchange schema: coordinate triples as 32-bit floats plus a parallel
// 8-bit category column.
func cloudSchema() *arrow.Schema {
	return arrow.NewSchema([]arrow.Field{
		{Name: "x", Type: arrow.PrimitiveTypes.Float32, Nullable: false},
		{Name: "y", Type: arrow.PrimitiveTypes.Float32, Nullable: false},
		{Name: "z", Type: arrow.PrimitiveTypes.Float32, Nullable: false},
		{Name: "label", Type: arrow.PrimitiveTypes.Uint8, Nullable: false},
	}, nil)
}

const writeBatchSize = 1 << 16

// WriteParquet stores a cloud as a Parquet file with the interchange schema.
func WriteParquet(path string, cloud *Cloud) error {
	schema := cloudSchema()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create parquet file: %w", err)
	}

	writerProps := parquet.NewWriterProperties(
		parquet.WithCompression(compress.Codecs.Zstd),
		parquet.WithDictionaryDefault(false),
	)

	writer, err := pqarrow.NewFileWriter(schema, f, writerProps, pqarrow.DefaultWriterProps())
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}

	builder := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer builder.Release()

	flush := func() error {
		rec := builder.NewRecord()
		defer rec.Release()
		return writer.Write(rec)
	}

	pending := 0
	for i, p := range cloud.Points {
		builder.Field(0).(*array.Float32Builder).Append(float32(p.X))
		builder.Field(1).(*array.Float32Builder).Append(float32(p.Y))
		builder.Field(2).(*array.Float32Builder).Append(float32(p.Z))
		builder.Field(3).(*array.Uint8Builder).Append(uint8(cloud.Labels[i]))

		pending++
		if pending >= writeBatchSize {
			if err := flush(); err != nil {
				writer.Close()
				return fmt.Errorf("failed to write record batch: %w", err)
			}
			pending = 0
		}
	}
	if pending > 0 {
		if err := flush(); err != nil {
			writer.Close()
			return fmt.Errorf("failed to write record batch: %w", err)
		}
	}

	// Closing the pqarrow writer also closes the underlying file.
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}

// ReadParquet loads a cloud from a Parquet file with the interchange schema.
func ReadParquet(ctx context.Context, path string) (*Cloud, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer f.Close()

	pf, err := file.NewParquetReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to create parquet reader: %w", err)
	}
	defer pf.Close()

	arrowReader, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, memory.DefaultAllocator)
	if err != nil {
		return nil, fmt.Errorf("failed to create arrow reader: %w", err)
	}

	tbl, err := arrowReader.ReadTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read table: %w", err)
	}
	defer tbl.Release()

	cols := make(map[string]int, tbl.NumCols())
	for i, field := range tbl.Schema().Fields() {
		cols[field.Name] = i
	}
	for _, name := range []string{"x", "y", "z", "label"} {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("parquet file missing column %q", name)
		}
	}

	n := int(tbl.NumRows())
	cloud := New(n)

	xs := float32Column(tbl.Column(cols["x"]).Data().Chunks())
	ys := float32Column(tbl.Column(cols["y"]).Data().Chunks())
	zs := float32Column(tbl.Column(cols["z"]).Data().Chunks())
	labels := uint8Column(tbl.Column(cols["label"]).Data().Chunks())

	if len(xs) != n || len(ys) != n || len(zs) != n || len(labels) != n {
		return nil, fmt.Errorf("parquet column lengths are inconsistent")
	}

	for i := 0; i < n; i++ {
		cloud.Append(
			r3.Vec{X: float64(xs[i]), Y: float64(ys[i]), Z: float64(zs[i])},
			category.Category(labels[i]),
		)
	}
	return cloud, nil
}

func float32Column(chunks []arrow.Array) []float32 {
	var out []float32
	for _, chunk := range chunks {
		arr, ok := chunk.(*array.Float32)
		if !ok {
			return nil
		}
		out = append(out, arr.Float32Values()...)
	}
	return out
}

func uint8Column(chunks []arrow.Array) []uint8 {
	var out []uint8
	for _, chunk := range chunks {
		arr, ok := chunk.(*array.Uint8)
		if !ok {
			return nil
		}
		out = append(out, arr.Uint8Values()...)
	}
	return out
}
