package spreadsheet

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteThenRead(t *testing.T) {
	body, err := Bytes(Sheet{
		Name:    "Employees",
		Columns: []Column{{Header: "Employee Number", Width: 18}, {Header: "Name"}, {Header: "Credit Points"}},
		Rows: [][]interface{}{
			{"E100", "Asha", 12},
			{"E101", "Ravi", 0},
		},
	})
	require.NoError(t, err)

	rows, err := Read(bytes.NewReader(body))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Employee Number", "Name", "Credit Points"}, rows[0])
	assert.Equal(t, []string{"E100", "Asha", "12"}, rows[1])
	assert.Equal(t, "Ravi", Cell(rows[2], 1))
	assert.Equal(t, "", Cell(rows[2], 7))
}

func TestReadRejectsNonWorkbook(t *testing.T) {
	_, err := Read(bytes.NewReader([]byte("employeeNumber,name\nE1,Asha\n")))
	assert.Error(t, err)
}
