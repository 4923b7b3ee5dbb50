package changes

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "groobi/internal/errors"
	"groobi/internal/workbook"
)

// Writer persists an encoded workbook to path
type Writer interface {
	WriteFile(ctx context.Context, path string, encode func(io.Writer) error) error
}

// Comparison is the outcome of comparing two loaded snapshots
type Comparison struct {
	Columns ColumnSet
	Noise   []NoiseReport
	Changes ChangeSet
}

// Result describes one processed workbook
type Result struct {
	ProcessedFile string
	PreviousSheet string
	CurrentSheet  string
	Columns       []string
	Noise         []NoiseReport
	ChangedRows   []int
	// Written is false when nothing changed and the file was left alone
	Written bool
}

// ChangesFound reports whether any row was highlighted
func (r *Result) ChangesFound() bool { return len(r.ChangedRows) > 0 }

// SuppressedColumns lists the columns the noise filter dropped
func (r *Result) SuppressedColumns() []string {
	var out []string
	for _, n := range r.Noise {
		if n.Dropped {
			out = append(out, n.Column)
		}
	}
	return out
}

// Engine detects and highlights changed rows between the two newest
// snapshot sheets of a workbook
type Engine struct {
	opts   Options
	writer Writer
	logger *slog.Logger
	tracer trace.Tracer
}

// NewEngine validates opts and returns an engine bound to them
func NewEngine(opts Options, writer Writer, logger *slog.Logger) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, apperrors.NewConfigError("invalid engine options", err)
	}
	if writer == nil {
		return nil, apperrors.NewConfigError("engine requires a writer", nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		opts:   opts.clone(),
		writer: writer,
		logger: logger.With(slog.String("component", "change_engine")),
		tracer: otel.Tracer("groobi/changes"),
	}, nil
}

// Options returns a copy of the engine's options
func (e *Engine) Options() Options { return e.opts.clone() }

// Process runs the full pipeline on the workbook at path and, when rows
// changed, overwrites it atomically with the highlighted version. On error
// the file is left as it was.
func (e *Engine) Process(ctx context.Context, path string) (*Result, error) {
	ctx, span := e.tracer.Start(ctx, "changes.Process", trace.WithAttributes(attribute.String("file.path", path)))
	defer span.End()

	result, err := e.process(ctx, path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		e.logger.ErrorContext(ctx, "processing failed",
			slog.String("file_path", path),
			slog.String("error_type", string(apperrors.TypeOf(err))),
			slog.String("error", err.Error()))
		return nil, err
	}

	span.SetAttributes(
		attribute.Bool("changes.found", result.ChangesFound()),
		attribute.Int("changes.rows", len(result.ChangedRows)),
	)
	e.logger.InfoContext(ctx, "processing complete",
		slog.String("file_path", path),
		slog.String("previous_sheet", result.PreviousSheet),
		slog.String("current_sheet", result.CurrentSheet),
		slog.Bool("changes_found", result.ChangesFound()),
		slog.Int("changed_rows", len(result.ChangedRows)),
		slog.Bool("written", result.Written))
	return result, nil
}

func (e *Engine) process(ctx context.Context, path string) (*Result, error) {
	wb, err := workbook.Open(path)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	sel, err := SelectSnapshots(wb.SheetNames(), e.opts.DateOrder)
	if err != nil {
		return nil, err
	}
	e.logger.DebugContext(ctx, "snapshots selected",
		slog.String("previous", sel.Previous.Name),
		slog.String("current", sel.Current.Name),
		slog.Int("eligible", len(sel.Eligible)))

	previous, err := e.loadSheet(ctx, wb, sel.Previous.Name)
	if err != nil {
		return nil, err
	}
	current, err := e.loadSheet(ctx, wb, sel.Current.Name)
	if err != nil {
		return nil, err
	}

	cmp, err := e.Compare(ctx, previous, current)
	if err != nil {
		return nil, err
	}

	result := &Result{
		ProcessedFile: path,
		PreviousSheet: previous.Name,
		CurrentSheet:  current.Name,
		Columns:       cmp.Columns.Names(),
		Noise:         cmp.Noise,
		ChangedRows:   cmp.Changes.RowNumbers(),
	}
	if !cmp.Changes.Found() {
		return result, nil
	}

	if err := e.highlight(ctx, wb, current, cmp.Changes); err != nil {
		return nil, err
	}

	if err := e.writer.WriteFile(ctx, path, wb.Encode); err != nil {
		return nil, err
	}
	result.Written = true
	return result, nil
}

func (e *Engine) loadSheet(ctx context.Context, wb *workbook.Workbook, name string) (*workbook.Sheet, error) {
	sheet, err := wb.LoadSheet(name, e.opts.HeaderRow)
	if err != nil {
		return nil, err
	}
	if len(sheet.Duplicates) > 0 {
		e.logger.WarnContext(ctx, "duplicate header names, first occurrence used",
			slog.String("sheet", name),
			slog.Any("columns", sheet.Duplicates))
	}
	return sheet, nil
}

// Compare aligns, filters and classifies current against previous. It does
// not touch any file.
func (e *Engine) Compare(ctx context.Context, previous, current *workbook.Sheet) (*Comparison, error) {
	_, span := e.tracer.Start(ctx, "changes.Compare", trace.WithAttributes(
		attribute.String("sheet.previous", previous.Name),
		attribute.String("sheet.current", current.Name),
	))
	defer span.End()

	norm := e.opts.Normalizer()

	aligned, err := AlignColumns(previous, current, e.opts.IgnoredColumns)
	if err != nil {
		return nil, err
	}

	cols, noise := FilterNoise(aligned, previous, current, e.opts.NoiseThreshold, norm)
	for _, n := range noise {
		level := slog.LevelDebug
		if n.Dropped {
			level = slog.LevelInfo
		}
		e.logger.Log(ctx, level, "column change ratio",
			slog.String("column", n.Column),
			slog.Float64("ratio", n.Ratio),
			slog.Int("changed", n.Changed),
			slog.Int("aligned", n.Aligned),
			slog.Bool("dropped", n.Dropped))
	}
	if cols.Len() == 0 {
		return nil, apperrors.NewNoComparableColumnsError(
			fmt.Sprintf("every shared column of %q and %q exceeds the noise threshold %v",
				previous.Name, current.Name, e.opts.NoiseThreshold)).
			WithContext("suppressed_columns", aligned.Names())
	}

	prevSigs := BuildSignatures(previous, cols, SidePrevious, norm)
	curSigs := BuildSignatures(current, cols, SideCurrent, norm)
	set := Classify(prevSigs, curSigs, func(pos int) bool {
		return current.Rows[pos].Blank()
	})

	span.SetAttributes(
		attribute.Int("columns.compared", cols.Len()),
		attribute.Int("rows.changed", set.Len()),
	)
	e.logger.DebugContext(ctx, "rows classified",
		slog.Any("columns", cols.Names()),
		slog.Int("previous_rows", len(prevSigs)),
		slog.Int("current_rows", len(curSigs)),
		slog.Int("changed_rows", set.Len()))

	return &Comparison{Columns: cols, Noise: noise, Changes: set}, nil
}

func (e *Engine) highlight(ctx context.Context, wb *workbook.Workbook, sheet *workbook.Sheet, set ChangeSet) error {
	_, span := e.tracer.Start(ctx, "changes.Highlight")
	defer span.End()

	if err := Highlight(wb, sheet, set, e.opts.HighlightColor); err != nil {
		span.RecordError(err)
		return apperrors.NewWriteFailureError(fmt.Sprintf("highlight sheet %q", sheet.Name), err).
			WithContext("sheet", sheet.Name)
	}
	return nil
}
