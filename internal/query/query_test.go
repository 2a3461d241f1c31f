package query

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/ginjaninja78/pos-report/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d, hour int) time.Time {
	return time.Date(2021, time.March, d, hour, 0, 0, 0, time.UTC)
}

func TestLowStock(t *testing.T) {
	products := []types.Product{
		{ID: "P1", Quantity: 3},
		{ID: "P2", Quantity: 740},
		{ID: "P3", Quantity: 499},
		{ID: "P4", Quantity: 500},
		{ID: "P5", Quantity: 0},
	}

	tests := []struct {
		threshold int
		want      []string
	}{
		{500, []string{"P1", "P3", "P5"}},
		{0, nil},
		{1, []string{"P5"}},
		{1000, []string{"P1", "P2", "P3", "P4", "P5"}},
	}

	for _, tt := range tests {
		seq := LowStock(products, tt.threshold)
		assert.Equal(t, tt.want, slices.Collect(seq), "threshold %d", tt.threshold)
		// Ranging again gives the same result.
		assert.Equal(t, tt.want, slices.Collect(seq), "threshold %d (second pass)", tt.threshold)
	}
}

func TestLowStockScenario(t *testing.T) {
	got := slices.Collect(LowStock([]types.Product{{ID: "P1", Quantity: 3}}, 500))
	assert.Equal(t, []string{"P1"}, got)
}

func TestLowStockStopsEarly(t *testing.T) {
	products := []types.Product{{ID: "P1"}, {ID: "P2"}, {ID: "P3"}}

	var got []string
	for id := range LowStock(products, 10) {
		got = append(got, id)
		if len(got) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"P1", "P2"}, got)
}

func TestTransactionsBetween(t *testing.T) {
	transactions := []types.Transaction{
		{ID: "T0", Date: time.Date(2021, time.February, 28, 23, 59, 59, 0, time.UTC)},
		{ID: "T1", Date: day(1, 0)},
		{ID: "T2", Date: day(2, 12)},
		{ID: "T3", Date: time.Date(2021, time.March, 3, 23, 59, 59, 999, time.UTC)},
		{ID: "T4", Date: day(4, 0)},
	}

	ids := func(seq func(func(types.Transaction) bool)) []string {
		var out []string
		for tr := range seq {
			out = append(out, tr.ID)
		}
		return out
	}

	// Time of day on the bounds is ignored.
	assert.Equal(t, []string{"T1", "T2", "T3"}, ids(TransactionsBetween(transactions, day(1, 18), day(3, 0))))
	assert.Equal(t, []string{"T2"}, ids(TransactionsBetween(transactions, day(2, 0), day(2, 0))))
	assert.Empty(t, ids(TransactionsBetween(transactions, day(3, 0), day(1, 0))))
	assert.Empty(t, ids(TransactionsBetween(nil, day(1, 0), day(3, 0))))
}

func TestBusiestBranchScenario(t *testing.T) {
	transactions := []types.Transaction{
		{ID: "T1", BranchID: "B1"},
		{ID: "T2", BranchID: "B1"},
		{ID: "T3", BranchID: "B2"},
	}
	branches := []types.Branch{{ID: "B1", Address: "X"}, {ID: "B2", Address: "Y"}}

	got, err := BusiestBranch(transactions, branches)
	require.NoError(t, err)
	assert.Equal(t, BranchActivity{BranchID: "B1", Address: "X", Count: 2}, got)
}

func TestBusiestBranchIsMaximal(t *testing.T) {
	transactions := []types.Transaction{
		{BranchID: "B2"}, {BranchID: "B1"}, {BranchID: "B3"},
		{BranchID: "B3"}, {BranchID: "B1"}, {BranchID: "B3"},
	}
	branches := []types.Branch{{ID: "B1"}, {ID: "B2"}, {ID: "B3", Address: "Z"}}

	got, err := BusiestBranch(transactions, branches)
	require.NoError(t, err)
	assert.Equal(t, "B3", got.BranchID)
	assert.Equal(t, 3, got.Count)

	counts := map[string]int{}
	for _, tr := range transactions {
		counts[tr.BranchID]++
	}
	for id, n := range counts {
		assert.GreaterOrEqual(t, got.Count, n, id)
	}
}

func TestBusiestBranchTieGoesToFirstSeen(t *testing.T) {
	transactions := []types.Transaction{
		{BranchID: "B2"}, {BranchID: "B1"}, {BranchID: "B1"}, {BranchID: "B2"},
	}
	branches := []types.Branch{{ID: "B1", Address: "X"}, {ID: "B2", Address: "Y"}}

	got, err := BusiestBranch(transactions, branches)
	require.NoError(t, err)
	assert.Equal(t, "B2", got.BranchID)
	assert.Equal(t, "Y", got.Address)
}

func TestBusiestBranchErrors(t *testing.T) {
	_, err := BusiestBranch(nil, []types.Branch{{ID: "B1"}})
	var empty *EmptyInputError
	require.True(t, errors.As(err, &empty))
	assert.Equal(t, "transactions", empty.Input)

	_, err = BusiestBranch([]types.Transaction{{BranchID: "B9"}}, []types.Branch{{ID: "B1"}})
	var notFound *NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "B9", notFound.ID)
	assert.EqualError(t, err, "branch 'B9' not found")
}

func TestTopSellingStaffScenario(t *testing.T) {
	staff := []types.Staff{{ID: "S1"}, {ID: "S2"}}
	transactions := []types.Transaction{{ID: "T1", StaffID: "S1"}}
	purchases := []types.Purchase{{TransactionID: "T1", ProductIDs: []string{"Pa", "Pb"}}}

	top, err := TopSellingStaff(staff, transactions, purchases)
	require.NoError(t, err)
	assert.Equal(t, StaffSales{StaffID: "S1", Total: 2}, top)

	assert.Equal(t, []StaffSales{{"S1", 2}, {"S2", 0}}, SalesByStaff(staff, transactions, purchases))
}

func TestSalesByStaffJoin(t *testing.T) {
	staff := []types.Staff{{ID: "S1"}, {ID: "S2"}, {ID: "S3"}}
	transactions := []types.Transaction{
		{ID: "T1", StaffID: "S1"},
		{ID: "T2", StaffID: "S2"},
		{ID: "T3", StaffID: "S2"}, // no purchase
		{ID: "T4", StaffID: "S9"}, // unknown staff
	}
	purchases := []types.Purchase{
		{ID: "PU1", TransactionID: "T1", ProductIDs: []string{"P1"}},
		{ID: "PU2", TransactionID: "T2", ProductIDs: []string{"P1", "P1", "P2"}},
		{ID: "PU3", TransactionID: "T2", ProductIDs: []string{"P3"}},
		{ID: "PU4", TransactionID: "T4", ProductIDs: []string{"P1", "P2", "P3", "P4", "P5"}},
		{ID: "PU5", TransactionID: "T9", ProductIDs: []string{"P1"}}, // no transaction
	}

	want := []StaffSales{{"S1", 1}, {"S2", 4}, {"S3", 0}}
	assert.Equal(t, want, SalesByStaff(staff, transactions, purchases))

	// Totals do not depend on transaction or purchase order.
	reversedT := slices.Clone(transactions)
	slices.Reverse(reversedT)
	reversedP := slices.Clone(purchases)
	slices.Reverse(reversedP)
	assert.Equal(t, want, SalesByStaff(staff, reversedT, reversedP))

	top, err := TopSellingStaff(staff, reversedT, reversedP)
	require.NoError(t, err)
	assert.Equal(t, StaffSales{StaffID: "S2", Total: 4}, top)
}

func TestTopSellingStaffTiesAndEmpty(t *testing.T) {
	staff := []types.Staff{{ID: "S2"}, {ID: "S1"}}

	top, err := TopSellingStaff(staff, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, StaffSales{StaffID: "S2", Total: 0}, top)

	_, err = TopSellingStaff(nil, []types.Transaction{{ID: "T1", StaffID: "S1"}}, nil)
	var empty *EmptyInputError
	require.True(t, errors.As(err, &empty))
	assert.Equal(t, "staff", empty.Input)
}
