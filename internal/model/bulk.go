package model

// ImportColumns is the exact header row a bulk import file must carry.
var ImportColumns = []string{"employeeNumber", "name", "email", "department", "designation", "role", "mobileNumber"}

// MaxImportRows caps the data rows of a single import file.
const MaxImportRows = 1000

type ImportReport struct {
	Message   string       `json:"message"`
	Total     int          `json:"total"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
	Successes []string     `json:"successes"`
	Errors    []string     `json:"errors"`
	Warnings  []string     `json:"warnings"`
	Employees []*Principal `json:"employees"`
}

type BulkDeleteReport struct {
	Message          string       `json:"message"`
	Successes        []string     `json:"successes"`
	NotFound         []string     `json:"notFound"`
	Errors           []string     `json:"errors"`
	DeletedEmployees []*Principal `json:"deletedEmployees"`
}

type BulkUpsertRequest struct {
	Users []BulkUser `json:"users"`
}

// BulkUser is a loosely-typed roster row; missing fields take defaults.
type BulkUser struct {
	EmployeeNumber string `json:"employeeNumber"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Department     string `json:"department"`
	Designation    string `json:"designation"`
	Role           Role   `json:"role"`
	CreditPoints   int    `json:"creditPoints"`
	IsActive       *bool  `json:"isActive"`
	MobileNumber   string `json:"mobileNumber"`
}

type BulkUpsertResult struct {
	Message string `json:"message"`
	Added   int    `json:"added"`
	Skipped int    `json:"skipped"`
}
