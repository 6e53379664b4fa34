package services

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/mindbankhq/mindbank-api/models"
	"github.com/mindbankhq/mindbank-api/utils"
)

// ============================================================================
// CATEGORY CSV BULK IMPORT / EXPORT
// Collect-and-report semantics: every malformed row becomes an error
// entry with its row number and reason, and valid rows are imported
// anyway. Export writes the same fixed header so that exporting and
// re-importing with overwrite reproduces the same categories.
// ============================================================================

// CategoryCSVHeader is the fixed column order of import and export files.
var CategoryCSVHeader = []string{"name", "description", "hourly_rate_usd", "color", "icon", "is_active"}

const maxCategoryNameLen = 100

// CategoryRow is one validated CSV row, before persistence.
type CategoryRow struct {
	Line          int
	Name          string
	Description   string
	HourlyRateUSD float64
	Color         string
	Icon          string
	IsActive      bool
}

type ImportService struct {
	db *sql.DB
}

func NewImportService(db *sql.DB) *ImportService {
	return &ImportService{db: db}
}

// ParseCategoryCSV reads a CSV payload and splits it into valid rows
// and row errors. Row numbers are 1-based over data rows, matching the
// numbers a spreadsheet user sees below the header.
func ParseCategoryCSV(r io.Reader) ([]CategoryRow, []models.ImportRowError, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, fmt.Errorf("empty CSV file")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	if err := validateHeader(header); err != nil {
		return nil, nil, err
	}

	var rows []CategoryRow
	var rowErrors []models.ImportRowError
	seen := make(map[string]bool)

	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			rowErrors = append(rowErrors, models.ImportRowError{Row: line, Reason: "malformed CSV row"})
			continue
		}

		row, reason := validateCategoryRow(line, record)
		if reason != "" {
			rowErrors = append(rowErrors, models.ImportRowError{Row: line, Reason: reason})
			continue
		}

		key := strings.ToLower(row.Name)
		if seen[key] {
			rowErrors = append(rowErrors, models.ImportRowError{
				Row:    line,
				Reason: fmt.Sprintf("duplicate name %q within batch", row.Name),
			})
			continue
		}
		seen[key] = true

		rows = append(rows, row)
	}

	return rows, rowErrors, nil
}

func validateHeader(header []string) error {
	if len(header) != len(CategoryCSVHeader) {
		return fmt.Errorf("expected header %q", strings.Join(CategoryCSVHeader, ","))
	}
	for i, col := range header {
		if !strings.EqualFold(strings.TrimSpace(col), CategoryCSVHeader[i]) {
			return fmt.Errorf("expected header %q", strings.Join(CategoryCSVHeader, ","))
		}
	}
	return nil
}

func validateCategoryRow(line int, record []string) (CategoryRow, string) {
	var row CategoryRow
	row.Line = line

	if len(record) != len(CategoryCSVHeader) {
		return row, fmt.Sprintf("expected %d columns, got %d", len(CategoryCSVHeader), len(record))
	}

	row.Name = strings.TrimSpace(record[0])
	if row.Name == "" {
		return row, "name is required"
	}
	if len(row.Name) > maxCategoryNameLen {
		return row, fmt.Sprintf("name exceeds %d characters", maxCategoryNameLen)
	}

	row.Description = strings.TrimSpace(record[1])

	rate, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
	if err != nil {
		return row, "hourly_rate_usd must be a number"
	}
	if rate < 0 {
		return row, "hourly_rate_usd must be >= 0"
	}
	row.HourlyRateUSD = rate

	row.Color = strings.TrimSpace(record[3])
	if row.Color != "" && !models.ValidHexColor(row.Color) {
		return row, "color must be a #rrggbb hex value"
	}

	row.Icon = strings.TrimSpace(record[4])

	row.IsActive = true
	if active := strings.TrimSpace(record[5]); active != "" {
		parsed, err := strconv.ParseBool(active)
		if err != nil {
			return row, "is_active must be true or false"
		}
		row.IsActive = parsed
	}

	return row, ""
}

// categoryUpdate pairs a parsed row with the stored category it
// overwrites.
type categoryUpdate struct {
	ID  string
	Row CategoryRow
}

// importPlan is the partition of a parsed batch against the caller's
// stored categories: what gets inserted, what gets updated in place,
// and what gets skipped with a per-row reason.
type importPlan struct {
	Inserts []CategoryRow
	Updates []categoryUpdate
	Skipped []models.ImportRowError
}

// planImport partitions parsed rows against stored category names.
// The existing map is keyed by lowercased name, so the comparison is
// case-insensitive. Without overwrite a name collision is a skip;
// with overwrite it becomes an in-place update of the stored row.
func planImport(rows []CategoryRow, existing map[string]string, overwrite bool) importPlan {
	var plan importPlan
	for _, row := range rows {
		existingID, exists := existing[strings.ToLower(row.Name)]
		switch {
		case exists && !overwrite:
			plan.Skipped = append(plan.Skipped, models.ImportRowError{
				Row:    row.Line,
				Reason: fmt.Sprintf("category %q already exists (enable overwrite to update)", row.Name),
			})
		case exists:
			plan.Updates = append(plan.Updates, categoryUpdate{ID: existingID, Row: row})
		default:
			plan.Inserts = append(plan.Inserts, row)
		}
	}
	return plan
}

// result assembles the counts and errors reported to the caller,
// folding in the parse-time row errors.
func (p importPlan) result(rowErrors []models.ImportRowError) *models.ImportResult {
	result := &models.ImportResult{
		Imported: len(p.Inserts),
		Updated:  len(p.Updates),
		Skipped:  len(rowErrors) + len(p.Skipped),
		Errors:   append(rowErrors, p.Skipped...),
	}
	if result.Errors == nil {
		result.Errors = []models.ImportRowError{}
	}
	return result
}

// ImportCategories parses and persists a CSV batch for one user.
// Rows whose name collides with a stored category are skipped unless
// overwrite is set, in which case they update the stored category.
func (s *ImportService) ImportCategories(ctx context.Context, userID string, r io.Reader, overwrite bool) (*models.ImportResult, error) {
	rows, rowErrors, err := ParseCategoryCSV(r)
	if err != nil {
		return nil, err
	}

	existing, err := s.existingCategoryIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	plan := planImport(rows, existing, overwrite)

	err = utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		for _, upd := range plan.Updates {
			_, err := tx.ExecContext(ctx, `
				UPDATE categories
				SET name = $1, description = $2, hourly_rate_usd = $3,
				    color = $4, icon = $5, is_active = $6, updated_at = NOW()
				WHERE id = $7 AND user_id = $8
			`, upd.Row.Name, upd.Row.Description, upd.Row.HourlyRateUSD, models.ColorOrDefault(upd.Row.Color), upd.Row.Icon, upd.Row.IsActive, upd.ID, userID)
			if err != nil {
				return fmt.Errorf("failed to update category %q: %w", upd.Row.Name, err)
			}
		}

		for _, row := range plan.Inserts {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO categories (id, user_id, name, description, hourly_rate_usd, color, icon, is_active, position)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8,
					COALESCE((SELECT MAX(position) + 1 FROM categories WHERE user_id = $2), 0))
			`, uuid.New().String(), userID, row.Name, row.Description, row.HourlyRateUSD, models.ColorOrDefault(row.Color), row.Icon, row.IsActive)
			if err != nil {
				return fmt.Errorf("failed to insert category %q: %w", row.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := plan.result(rowErrors)
	utils.LogImport(userID, result.Imported, result.Updated, result.Skipped)
	return result, nil
}

func (s *ImportService) existingCategoryIDs(ctx context.Context, userID string) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, LOWER(name) FROM categories WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load existing categories: %w", err)
	}
	defer rows.Close()

	existing := make(map[string]string)
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		existing[name] = id
	}
	return existing, rows.Err()
}

// WriteCategoriesCSV writes categories in the import format, so the
// round trip back through ImportCategories is lossless.
func WriteCategoriesCSV(w io.Writer, categories []models.Category) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(CategoryCSVHeader); err != nil {
		return err
	}

	for _, cat := range categories {
		record := []string{
			cat.Name,
			cat.Description,
			strconv.FormatFloat(cat.HourlyRateUSD, 'f', 2, 64),
			cat.Color,
			cat.Icon,
			strconv.FormatBool(cat.IsActive),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
