package archive

import (
	"context"
	"os"

	"github.com/apache/arrow/go/v13/arrow"
	"github.com/apache/arrow/go/v13/arrow/array"
	"github.com/apache/arrow/go/v13/arrow/memory"
	"github.com/apache/arrow/go/v13/parquet"
	"github.com/apache/arrow/go/v13/parquet/pqarrow"

	"github.com/XiaoConstantine/evo-go/pkg/errors"
	"github.com/XiaoConstantine/evo-go/pkg/logging"
)

var historySchema = arrow.NewSchema([]arrow.Field{
	{Name: "run_id", Type: arrow.BinaryTypes.String},
	{Name: "generation", Type: arrow.PrimitiveTypes.Int64},
	{Name: "island", Type: arrow.PrimitiveTypes.Int64},
	{Name: "size", Type: arrow.PrimitiveTypes.Int64},
	{Name: "best", Type: arrow.PrimitiveTypes.Float64},
	{Name: "worst", Type: arrow.PrimitiveTypes.Float64},
	{Name: "mean", Type: arrow.PrimitiveTypes.Float64},
}, nil)

// ExportParquet writes one run's generation history to a Parquet file.
func (s *Store) ExportParquet(ctx context.Context, runID, path string) error {
	history, err := s.History(ctx, runID)
	if err != nil {
		return err
	}
	if len(history) == 0 {
		return errors.WithFields(
			errors.New(errors.ResourceNotFound, "run has no archived generations"),
			errors.Fields{"run_id": runID},
		)
	}

	builder := array.NewRecordBuilder(memory.DefaultAllocator, historySchema)
	defer builder.Release()

	for _, gs := range history {
		builder.Field(0).(*array.StringBuilder).Append(gs.RunID)
		builder.Field(1).(*array.Int64Builder).Append(int64(gs.Generation))
		builder.Field(2).(*array.Int64Builder).Append(int64(gs.Island))
		builder.Field(3).(*array.Int64Builder).Append(int64(gs.Size))
		builder.Field(4).(*array.Float64Builder).Append(gs.Best)
		builder.Field(5).(*array.Float64Builder).Append(gs.Worst)
		builder.Field(6).(*array.Float64Builder).Append(gs.Mean)
	}

	record := builder.NewRecord()
	defer record.Release()
	table := array.NewTableFromRecords(historySchema, []arrow.Record{record})
	defer table.Release()

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, errors.Unknown, "creating parquet export")
	}
	defer f.Close()

	if err := pqarrow.WriteTable(table, f, table.NumRows(),
		parquet.NewWriterProperties(), pqarrow.DefaultWriterProps()); err != nil {
		return errors.Wrap(err, errors.Unknown, "writing parquet export")
	}

	logging.GetLogger().Debug(ctx, "exported run %s (%d generations) to %s",
		runID, len(history), path)
	return nil
}
