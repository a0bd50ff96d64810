package expense

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateExpenseRequest_DecodeAndValidate(t *testing.T) {
	var req CreateExpenseRequest
	err := json.Unmarshal([]byte(`{"date":"2024-03-12","destination":"Modena","km":40,"km_cost":"12.40","toll":3.5}`), &req)
	require.NoError(t, err)

	assert.NoError(t, req.Validate())
	e := req.ToExpense("user-1")
	assert.Equal(t, time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC), e.Date)
	assert.Equal(t, "15.9", e.Total().String())
	assert.True(t, e.Food.IsZero())
}

func TestCreateExpenseRequest_Invalid(t *testing.T) {
	req := CreateExpenseRequest{Date: "12/03/2024", Toll: decimal.NewFromInt(-1)}

	err := req.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "date")
	assert.Contains(t, err.Error(), "toll must not be negative")
}

func TestListExpensesFilter_Range(t *testing.T) {
	month := ListExpensesFilter{Month: 12, Year: 2024}
	from, to := month.Range()
	assert.Equal(t, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), to)

	year := ListExpensesFilter{Year: 2024}
	from, to = year.Range()
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), to)

	assert.Error(t, (&ListExpensesFilter{Month: 13, Year: 2024}).Validate())
	assert.Error(t, (&ListExpensesFilter{Month: 1, Year: 1969}).Validate())
}
