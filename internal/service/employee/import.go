package employee

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jwalitptl/ideabox-api/internal/model"
	"github.com/jwalitptl/ideabox-api/internal/repository"
	apperrors "github.com/jwalitptl/ideabox-api/pkg/errors"
	"github.com/jwalitptl/ideabox-api/pkg/spreadsheet"
	"github.com/jwalitptl/ideabox-api/pkg/validator"
)

// importRequired lists the columns a row must fill, in ImportColumns order.
var importRequired = []string{"employeeNumber", "name", "email", "department", "designation", "mobileNumber"}

// openRows reads the first sheet at path and removes the file.
func openRows(path string) ([][]string, error) {
	defer os.Remove(path)

	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewInternal(fmt.Errorf("failed to open upload: %w", err))
	}
	defer f.Close()

	rows, err := spreadsheet.Read(f)
	if err != nil {
		return nil, apperrors.NewBadRequest("Invalid Excel file", err)
	}
	if len(rows) == 0 {
		return nil, apperrors.NewBadRequest("Excel file is empty", nil)
	}
	return rows, nil
}

func checkHeader(header []string) error {
	if len(header) != len(model.ImportColumns) {
		return invalidHeader()
	}
	for i, col := range model.ImportColumns {
		if strings.TrimSpace(header[i]) != col {
			return invalidHeader()
		}
	}
	return nil
}

func invalidHeader() error {
	return apperrors.NewValidation("Invalid file format", []string{
		"Expected columns: " + strings.Join(model.ImportColumns, ", "),
	})
}

func checkRowCount(data [][]string) error {
	if len(data) == 0 {
		return apperrors.NewBadRequest("No data rows found", nil)
	}
	if len(data) > model.MaxImportRows {
		return apperrors.NewBadRequest(fmt.Sprintf("Maximum %d rows allowed per import", model.MaxImportRows), nil)
	}
	return nil
}

// roster tracks the principals seen so far so that later rows of a file
// observe the effect of earlier ones.
type roster struct {
	byNumber     map[string]*model.Principal
	emailToOwner map[string]string
}

func loadRoster(ctx context.Context, principals repository.PrincipalRepository) (*roster, error) {
	all, _, err := principals.List(ctx, model.PrincipalQuery{IncludeInactive: true})
	if err != nil {
		return nil, err
	}
	r := &roster{
		byNumber:     make(map[string]*model.Principal, len(all)),
		emailToOwner: make(map[string]string, len(all)),
	}
	for _, p := range all {
		r.put(p)
	}
	return r, nil
}

func (r *roster) put(p *model.Principal) {
	if prev, ok := r.byNumber[p.EmployeeNumber]; ok && !strings.EqualFold(prev.Email, p.Email) {
		delete(r.emailToOwner, strings.ToLower(prev.Email))
	}
	r.byNumber[p.EmployeeNumber] = p
	r.emailToOwner[strings.ToLower(p.Email)] = p.EmployeeNumber
}

// conflict returns the row error for a duplicate, or "".
func (r *roster) conflict(p *model.Principal) string {
	if owner, ok := r.emailToOwner[p.Email]; ok && owner != p.EmployeeNumber {
		return fmt.Sprintf("Duplicate email found for another employee (employeeNumber: %s)", owner)
	}
	if existing, ok := r.byNumber[p.EmployeeNumber]; ok && !strings.EqualFold(existing.Email, p.Email) {
		return fmt.Sprintf("Employee number already exists with a different email (%s)", existing.Email)
	}
	return ""
}

// parseImportRow validates one data row. It returns the principal to
// upsert, an optional warning, and a row error when the row is rejected.
func parseImportRow(row []string) (*model.Principal, string, string) {
	values := make(map[string]string, len(model.ImportColumns))
	for i, col := range model.ImportColumns {
		values[col] = spreadsheet.Cell(row, i)
	}

	var missing []string
	for _, col := range importRequired {
		if values[col] == "" {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, "", "Missing required fields: " + strings.Join(missing, ", ")
	}

	email := normalizeEmail(values["email"])
	if !validator.IsValidEmail(email) {
		return nil, "", fmt.Sprintf("Invalid email format (%s)", values["email"])
	}

	var warning string
	role := model.Role(strings.ToLower(values["role"]))
	if role == "" {
		role = model.RoleEmployee
	} else if !role.Valid() {
		warning = fmt.Sprintf("Invalid role \"%s\", defaulted to employee", values["role"])
		role = model.RoleEmployee
	}

	mobile := validator.NormalizeMobile(values["mobileNumber"])
	if !validator.IsValidMobile(mobile) {
		return nil, warning, fmt.Sprintf("Invalid mobile number (%s)", values["mobileNumber"])
	}

	return &model.Principal{
		EmployeeNumber: values["employeeNumber"],
		Name:           values["name"],
		Email:          email,
		Department:     strings.ToLower(values["department"]),
		Designation:    values["designation"],
		Role:           role,
		MobileNumber:   mobile,
	}, warning, ""
}

func (s *employeeService) Import(ctx context.Context, path string) (*model.ImportReport, error) {
	start := time.Now()
	defer func() { s.metrics.ImportDuration.Observe(time.Since(start).Seconds()) }()

	rows, err := openRows(path)
	if err != nil {
		return nil, err
	}
	if err := checkHeader(rows[0]); err != nil {
		return nil, err
	}
	data := rows[1:]
	if err := checkRowCount(data); err != nil {
		return nil, err
	}

	known, err := loadRoster(ctx, s.principals)
	if err != nil {
		return nil, apperrors.NewInternal(err)
	}

	report := &model.ImportReport{
		Total:     len(data),
		Successes: []string{},
		Errors:    []string{},
		Warnings:  []string{},
		Employees: []*model.Principal{},
	}
	for i, row := range data {
		label := fmt.Sprintf("Row %d", i+2)

		p, warning, rowErr := parseImportRow(row)
		if warning != "" {
			report.Warnings = append(report.Warnings, label+": "+warning)
		}
		if rowErr == "" {
			rowErr = known.conflict(p)
		}
		if rowErr == "" {
			var saved *model.Principal
			saved, err = s.principals.Upsert(ctx, p)
			if err == nil {
				known.put(saved)
				report.Employees = append(report.Employees, saved)
				report.Successes = append(report.Successes, fmt.Sprintf("%s: Imported/updated employeeNumber %s", label, saved.EmployeeNumber))
				s.metrics.ImportRows.WithLabelValues("import", "success").Inc()
				continue
			}
			rowErr = s.upsertError(label, p.EmployeeNumber, err)
		}

		report.Errors = append(report.Errors, label+": "+rowErr)
		s.metrics.ImportRows.WithLabelValues("import", "error").Inc()
	}

	report.Succeeded = len(report.Successes)
	report.Failed = len(report.Errors)
	report.Message = fmt.Sprintf("Import completed. %d succeeded, %d failed.", report.Succeeded, report.Failed)
	s.logger.Info("employee import finished", "total", report.Total, "succeeded", report.Succeeded, "failed", report.Failed)
	return report, nil
}

// upsertError turns a store failure into a row message. Anything other than
// a duplicate key is logged and reported generically.
func (s *employeeService) upsertError(label, employeeNumber string, err error) string {
	if field, ok := repository.IsDuplicate(err); ok {
		return fmt.Sprintf("Employee with this %s already exists", field)
	}
	s.logger.Error(err, "employee import row failed", "row", label, "employee_number", employeeNumber)
	return "Failed to save employee"
}
