package employee

import (
	"context"

	"github.com/jwalitptl/ideabox-api/internal/model"
	"github.com/jwalitptl/ideabox-api/internal/service"
	apperrors "github.com/jwalitptl/ideabox-api/pkg/errors"
	"github.com/jwalitptl/ideabox-api/pkg/spreadsheet"
)

var exportColumns = []spreadsheet.Column{
	{Header: "Employee Number", Width: 18},
	{Header: "Name", Width: 25},
	{Header: "Email", Width: 30},
	{Header: "Department", Width: 20},
	{Header: "Designation", Width: 22},
	{Header: "Role", Width: 12},
	{Header: "Credit Points", Width: 14},
	{Header: "Phone Number", Width: 18},
	{Header: "Created At", Width: 14},
}

// Export renders every active principal, ordered by employee number.
func (s *employeeService) Export(ctx context.Context) ([]byte, error) {
	list, _, err := s.principals.List(ctx, model.PrincipalQuery{
		Sort: model.SortOrder{Field: "employeeNumber"},
	})
	if err != nil {
		return nil, service.StoreError(resource, err)
	}

	rows := make([][]interface{}, 0, len(list))
	for _, p := range list {
		rows = append(rows, []interface{}{
			p.EmployeeNumber,
			p.Name,
			p.Email,
			p.Department,
			p.Designation,
			string(p.Role),
			p.CreditPoints,
			p.MobileNumber,
			p.CreatedAt.Format("2006-01-02"),
		})
	}

	return render(spreadsheet.Sheet{Name: "Employees", Columns: exportColumns, Rows: rows})
}

func (s *employeeService) BulkDeleteTemplate() ([]byte, error) {
	return render(spreadsheet.Sheet{
		Name:    "Bulk Delete Template",
		Columns: []spreadsheet.Column{{Header: "Employee Number", Width: 20}},
		Rows: [][]interface{}{
			{"12345"},
			{"23456"},
			{"34567"},
		},
	})
}

func (s *employeeService) BulkInsertTemplate() ([]byte, error) {
	columns := make([]spreadsheet.Column, len(model.ImportColumns))
	for i, c := range model.ImportColumns {
		columns[i] = spreadsheet.Column{Header: c, Width: 20}
	}
	return render(spreadsheet.Sheet{
		Name:    "Bulk Insert Template",
		Columns: columns,
		Rows: [][]interface{}{
			{"EMP001", "John Doe", "john.doe@example.com", "engineering", "Software Engineer", "employee", "9876543210"},
		},
	})
}

func render(sheet spreadsheet.Sheet) ([]byte, error) {
	b, err := spreadsheet.Bytes(sheet)
	if err != nil {
		return nil, apperrors.NewInternal(err)
	}
	return b, nil
}
