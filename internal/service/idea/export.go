package idea

import (
	"context"

	"github.com/jwalitptl/ideabox-api/internal/model"
	"github.com/jwalitptl/ideabox-api/internal/service"
	apperrors "github.com/jwalitptl/ideabox-api/pkg/errors"
	"github.com/jwalitptl/ideabox-api/pkg/spreadsheet"
)

const exportTimeLayout = "2006-01-02 15:04"

var exportColumns = []spreadsheet.Column{
	{Header: "Title", Width: 30},
	{Header: "Department", Width: 20},
	{Header: "Employee ID", Width: 15},
	{Header: "Employee Name", Width: 25},
	{Header: "Status", Width: 15},
	{Header: "Priority", Width: 10},
	{Header: "Submitted Date", Width: 20},
	{Header: "Reviewed By", Width: 20},
	{Header: "Review Comments", Width: 30},
	{Header: "Estimated Savings", Width: 18},
}

// Export renders the caller's listing, first page only, as an xlsx workbook.
// The page size defaults to the export limit instead of the listing size.
func (s *ideaService) Export(ctx context.Context, caller model.Caller, f model.IdeaFilter) ([]byte, error) {
	f.Page = 1
	q := Scope(caller, f, model.DefaultExportLimit)

	ideas, _, err := s.ideas.List(ctx, q)
	if err != nil {
		return nil, service.StoreError("Idea", err)
	}

	rows := make([][]interface{}, 0, len(ideas))
	for _, idea := range ideas {
		rows = append(rows, exportRow(idea))
	}

	body, err := spreadsheet.Bytes(spreadsheet.Sheet{Name: "Ideas", Columns: exportColumns, Rows: rows})
	if err != nil {
		return nil, apperrors.NewInternal(err)
	}
	return body, nil
}

func exportRow(idea *model.Idea) []interface{} {
	var savings interface{} = ""
	if idea.EstimatedSavings > 0 {
		savings = idea.EstimatedSavings
	}
	return []interface{}{
		idea.Title,
		idea.Department,
		idea.SubmittedByEmployeeNumber,
		idea.SubmittedByName,
		string(idea.Status),
		string(idea.Priority),
		idea.CreatedAt.Format(exportTimeLayout),
		idea.ReviewedBy,
		idea.ReviewComments,
		savings,
	}
}
