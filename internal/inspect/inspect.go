package inspect

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Rana718/dbtools/internal/database"
	"github.com/Rana718/dbtools/internal/types"
	"github.com/fatih/color"
	"golang.org/x/sync/errgroup"
)

const defaultWorkers = 4

// Describe reflects the columns of tables. With no table names every table
// in the database is described. Results keep the order of the input names.
func Describe(ctx context.Context, accessor database.TableAccessor, tables []string) ([]types.SchemaTable, error) {
	if len(tables) == 0 {
		names, err := accessor.GetAllTableNames(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list tables: %w", err)
		}
		tables = names
	}

	described := make([]types.SchemaTable, len(tables))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(defaultWorkers)

	for i, name := range tables {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			columns, err := accessor.GetTableColumns(ctx, name)
			if err != nil {
				return err
			}
			if len(columns) == 0 {
				return types.NewTableError(name, types.ErrMissingTable, nil)
			}
			described[i] = types.SchemaTable{Name: name, Columns: columns}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return described, nil
}

// Render writes one block per table with a column per line.
func Render(w io.Writer, tables []types.SchemaTable) error {
	if len(tables) == 0 {
		_, err := fmt.Fprintln(w, "📄 No tables found in database")
		return err
	}

	bold := color.New(color.FgCyan, color.Bold).SprintFunc()
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, table := range tables {
		fmt.Fprintf(tw, "📋 %s\n", bold(table.Name))
		for _, col := range table.Columns {
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", col.Name, col.Type, attributes(col))
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

func attributes(col types.SchemaColumn) string {
	attrs := ""
	if col.IsPrimary {
		attrs += "PK "
	}
	if col.IsAutoIncrement {
		attrs += "AUTO "
	}
	if !col.Nullable {
		attrs += "NOT NULL "
	}
	if col.Default != "" {
		attrs += "DEFAULT " + col.Default
	}
	return attrs
}
