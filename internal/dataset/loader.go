package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"

	"pvcli/internal/config"
	apperrors "pvcli/internal/errors"
	"pvcli/internal/infrastructure"
)

// Load reads the configured violations table fully into memory.
// The whole table is loaded as string columns; numeric interpretation is
// deferred to the transformers so that missing vehicle years survive
// loading and can be imputed.
func Load(ctx context.Context, cfg *config.Config) (dataframe.DataFrame, error) {
	logger := infrastructure.LoggerFromContext(ctx)

	if _, err := os.Stat(cfg.Input.Path); os.IsNotExist(err) {
		return dataframe.DataFrame{}, apperrors.NewConfigurationError(
			fmt.Sprintf("input file %s does not exist", cfg.Input.Path), err)
	}

	var (
		df  dataframe.DataFrame
		err error
	)

	switch cfg.Input.Format {
	case "xlsx":
		df, err = LoadXLSX(cfg.Input.Path, cfg.Input.Sheet)
	default:
		df, err = LoadCSV(cfg.Input.Path, []rune(cfg.Input.Delimiter)[0])
	}
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	if df.Nrow() == 0 {
		return dataframe.DataFrame{}, apperrors.NewDataQualityError(
			fmt.Sprintf("input table %s contains no rows", cfg.Input.Path), nil)
	}

	if err := ValidateColumns(df, cfg.Columns.Required()); err != nil {
		return dataframe.DataFrame{}, err
	}

	logger.InfoContext(ctx, "violations table loaded",
		slog.String("path", cfg.Input.Path),
		slog.String("format", cfg.Input.Format),
		slog.Int("rows", df.Nrow()),
		slog.Int("columns", df.Ncol()),
	)

	return df, nil
}

// LoadCSV reads a delimited file into a string-typed dataframe
func LoadCSV(path string, delimiter rune) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, apperrors.NewConfigurationError(
			fmt.Sprintf("failed to open input file %s", path), err)
	}
	defer f.Close()

	df := dataframe.ReadCSV(f,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.WithDelimiter(delimiter),
	)
	if df.Error() != nil {
		return dataframe.DataFrame{}, apperrors.NewDataQualityError(
			fmt.Sprintf("failed to parse CSV %s", path), df.Error())
	}

	return df, nil
}

// LoadXLSX reads one sheet of a workbook into a string-typed dataframe.
// The first row is the header; short rows are padded so every column has
// the same length.
func LoadXLSX(path, sheet string) (dataframe.DataFrame, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return dataframe.DataFrame{}, apperrors.NewConfigurationError(
			fmt.Sprintf("failed to open workbook %s", path), err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return dataframe.DataFrame{}, apperrors.NewConfigurationError(
			fmt.Sprintf("sheet %s not found in %s", sheet, path), err)
	}
	if len(rows) == 0 {
		return dataframe.DataFrame{}, apperrors.NewDataQualityError(
			fmt.Sprintf("sheet %s in %s is empty", sheet, path), nil)
	}

	headers := rows[0]
	if len(headers) == 0 {
		return dataframe.DataFrame{}, apperrors.NewDataQualityError(
			fmt.Sprintf("sheet %s in %s has an empty header row", sheet, path), nil)
	}

	columns := make([][]string, len(headers))
	for i := range columns {
		columns[i] = make([]string, 0, len(rows)-1)
	}

	// excelize trims trailing empty cells, so rows may be ragged
	for _, row := range rows[1:] {
		for i := range headers {
			if i < len(row) {
				columns[i] = append(columns[i], row[i])
			} else {
				columns[i] = append(columns[i], "")
			}
		}
	}

	seriesList := make([]series.Series, len(headers))
	for i, name := range headers {
		seriesList[i] = series.New(columns[i], series.String, name)
	}

	df := dataframe.New(seriesList...)
	if df.Error() != nil {
		return dataframe.DataFrame{}, apperrors.NewDataQualityError(
			fmt.Sprintf("failed to assemble table from sheet %s", sheet), df.Error())
	}

	return df, nil
}

// ValidateColumns checks that every required column is present
func ValidateColumns(df dataframe.DataFrame, required []string) error {
	names := make(map[string]bool, df.Ncol())
	for _, name := range df.Names() {
		names[name] = true
	}

	var missing []string
	for _, col := range required {
		if !names[col] {
			missing = append(missing, col)
		}
	}

	if len(missing) > 0 {
		return apperrors.NewConfigurationError(
			fmt.Sprintf("required columns missing from table: %s", strings.Join(missing, ", ")), nil).
			WithContext("missing_columns", missing)
	}

	return nil
}

// IsMissing reports whether a raw cell value counts as a missing entry
func IsMissing(value string) bool {
	switch strings.TrimSpace(value) {
	case "", "NA", "N/A", "NaN", "nan", "null", "NULL":
		return true
	}
	return false
}

// Describe logs a profile of the table: row count plus missing-entry
// counts for each column of interest. It returns the per-column counts
// so callers can act on them.
func Describe(ctx context.Context, df dataframe.DataFrame, columns []string) map[string]int {
	logger := infrastructure.LoggerFromContext(ctx)

	missing := make(map[string]int, len(columns))
	for _, col := range columns {
		count := 0
		for _, v := range df.Col(col).Records() {
			if IsMissing(v) {
				count++
			}
		}
		missing[col] = count

		logger.DebugContext(ctx, "column profile",
			slog.String("column", col),
			slog.Int("missing", count),
			slog.Int("rows", df.Nrow()),
		)
	}

	return missing
}
