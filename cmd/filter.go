package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chartloom/chartloom-cli/internal/dataset"
	"github.com/chartloom/chartloom-cli/internal/filter"
	"github.com/chartloom/chartloom-cli/internal/session"
)

var (
	fltWhere    []string
	fltFormat   string
	fltHead     int
	fltColumns  []string
	fltDescribe bool
)

var filterCmd = &cobra.Command{
	Use:   "filter <file>",
	Short: "Apply column filters to a dataset and print the surviving rows",
	Long: `Filters combine with AND. Each --where takes the form column:op:value.
String columns support contains, equals, !=, starts_with, ends_with;
numeric columns support >, <, >=, <=, equals, !=. Comparisons are
case-insensitive, and numeric-looking text compares numerically.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if fltDescribe {
			for _, col := range ds.Columns {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", col, ds.InferType(col))
			}
			return nil
		}

		columns := ds.Columns
		if len(fltColumns) > 0 {
			columns, err = projectColumns(ds.Columns, fltColumns)
			if err != nil {
				return err
			}
		}

		var set filter.Set
		for _, spec := range fltWhere {
			p, err := filter.ParsePredicate(spec)
			if err != nil {
				return err
			}
			set = append(set, p)
		}

		sess := session.New()
		sess.SetDataset(ds)
		sess.SetFilters(set)
		rows := sess.Rows()
		if fltHead > 0 && fltHead < len(rows) {
			rows = rows[:fltHead]
		}

		switch strings.ToLower(fltFormat) {
		case "", "csv":
			printCSV(cmd, columns, rows)
		case "json":
			return printJSON(cmd, columns, rows)
		default:
			return fmt.Errorf("unknown format %q (use csv or json)", fltFormat)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "✓ %d of %d rows matched\n", len(sess.Rows()), ds.Len())
		return nil
	},
}

func printCSV(cmd *cobra.Command, columns []string, rows []dataset.Row) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, strings.Join(columns, ","))
	for _, row := range rows {
		fields := make([]string, len(columns))
		for i, col := range columns {
			fields[i] = row.Value(col).Text()
		}
		fmt.Fprintln(out, strings.Join(fields, ","))
	}
}

func printJSON(cmd *cobra.Command, columns []string, rows []dataset.Row) error {
	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		obj := make(map[string]any, len(columns))
		for _, col := range columns {
			v := row.Value(col)
			if n, ok := v.Num(); ok {
				obj[col] = n
			} else {
				obj[col] = v.Text()
			}
		}
		out = append(out, obj)
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// projectColumns keeps header order and rejects unknown names.
func projectColumns(all, want []string) ([]string, error) {
	known := make(map[string]bool, len(want))
	for _, w := range want {
		known[w] = true
	}
	out := make([]string, 0, len(want))
	for _, col := range all {
		if known[col] {
			out = append(out, col)
			delete(known, col)
		}
	}
	for col := range known {
		return nil, fmt.Errorf("unknown column %q", col)
	}
	return out, nil
}

func init() {
	rootCmd.AddCommand(filterCmd)
	filterCmd.Flags().StringArrayVarP(&fltWhere, "where", "w", nil, "predicate column:op:value (repeatable, ANDed)")
	filterCmd.Flags().StringVar(&fltFormat, "format", "csv", "output format: csv | json")
	filterCmd.Flags().IntVar(&fltHead, "head", 0, "print at most this many rows (0 = all)")
	filterCmd.Flags().StringSliceVar(&fltColumns, "columns", nil, "output only these columns")
	filterCmd.Flags().BoolVar(&fltDescribe, "describe", false, "list columns with inferred types and exit")
}
