package employee

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jwalitptl/ideabox-api/internal/model"
	"github.com/jwalitptl/ideabox-api/internal/repository"
	apperrors "github.com/jwalitptl/ideabox-api/pkg/errors"
	"github.com/jwalitptl/ideabox-api/pkg/spreadsheet"
)

// employeeNumberColumn finds the column holding employee numbers.
func employeeNumberColumn(header []string) int {
	for i, h := range header {
		switch strings.TrimSpace(h) {
		case "Employee Number", "employeeNumber":
			return i
		}
	}
	return -1
}

func (s *employeeService) BulkDelete(ctx context.Context, path string) (*model.BulkDeleteReport, error) {
	rows, err := openRows(path)
	if err != nil {
		return nil, err
	}
	col := employeeNumberColumn(rows[0])
	if col < 0 {
		return nil, apperrors.NewValidation("Invalid file format", []string{"Expected an \"Employee Number\" column"})
	}
	data := rows[1:]
	if err := checkRowCount(data); err != nil {
		return nil, err
	}

	report := &model.BulkDeleteReport{
		Successes:        []string{},
		NotFound:         []string{},
		Errors:           []string{},
		DeletedEmployees: []*model.Principal{},
	}
	for i, row := range data {
		label := fmt.Sprintf("Row %d", i+2)
		number := spreadsheet.Cell(row, col)
		if number == "" {
			report.Errors = append(report.Errors, label+": No Employee Number found")
			s.metrics.ImportRows.WithLabelValues("bulk_delete", "error").Inc()
			continue
		}

		p, err := s.principals.DeactivateByEmployeeNumber(ctx, number)
		switch {
		case err == nil:
			report.DeletedEmployees = append(report.DeletedEmployees, p)
			report.Successes = append(report.Successes, fmt.Sprintf("%s: Deleted employee %s (%s)", label, p.Name, p.EmployeeNumber))
			s.metrics.ImportRows.WithLabelValues("bulk_delete", "success").Inc()
		case errors.Is(err, repository.ErrNotFound):
			report.NotFound = append(report.NotFound, fmt.Sprintf("%s: Employee with Employee Number \"%s\" not found", label, number))
			s.metrics.ImportRows.WithLabelValues("bulk_delete", "not_found").Inc()
		default:
			s.logger.Error(err, "employee bulk delete row failed", "row", label, "employee_number", number)
			report.Errors = append(report.Errors, label+": Failed to delete employee")
			s.metrics.ImportRows.WithLabelValues("bulk_delete", "error").Inc()
		}
	}

	report.Message = fmt.Sprintf("Bulk delete completed. %d deleted, %d not found, %d errors.",
		len(report.Successes), len(report.NotFound), len(report.Errors))
	s.logger.Info("employee bulk delete finished", "deleted", len(report.Successes), "not_found", len(report.NotFound))
	return report, nil
}
