package validation

import (
	"errors"
	"testing"

	"github.com/ginjaninja78/pos-report/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func integrityDataset() *types.Dataset {
	return &types.Dataset{
		Products:  []types.Product{{ID: "P1", Quantity: 3}, {ID: "P2", Quantity: 740}},
		Branches:  []types.Branch{{ID: "B1", Address: "X"}},
		Staff:     []types.Staff{{ID: "S1", Name: "Ann", Email: "ann@example.com"}},
		Customers: []types.Customer{{ID: "C1", Name: "Eve", Email: "eve@example.com"}},
		Transactions: []types.Transaction{
			{ID: "T1", CustomerID: "C1", StaffID: "S1", BranchID: "B1"},
		},
		Purchases: []types.Purchase{
			{ID: "PU1", TransactionID: "T1", ProductIDs: []string{"P1", "P2", "P1"}},
		},
	}
}

func TestCheckReferencesClean(t *testing.T) {
	assert.NoError(t, CheckReferences(integrityDataset()))
	assert.NoError(t, CheckReferences(&types.Dataset{}))
}

func TestCheckReferencesDangling(t *testing.T) {
	dataset := integrityDataset()
	dataset.Transactions = append(dataset.Transactions,
		types.Transaction{ID: "T2", CustomerID: "C9", StaffID: "S1", BranchID: "B7"})
	dataset.Purchases = append(dataset.Purchases,
		types.Purchase{ID: "PU2", TransactionID: "T8", ProductIDs: []string{"P1", "P5", "P5"}})

	err := CheckReferences(dataset)

	var ierr *IntegrityError
	require.True(t, errors.As(err, &ierr))
	assert.Equal(t, []DanglingReference{
		{Kind: types.KindTransaction, Index: 1, ID: "T2", Field: "customer_details", Target: types.KindCustomer, Value: "C9"},
		{Kind: types.KindTransaction, Index: 1, ID: "T2", Field: "branch_details", Target: types.KindBranch, Value: "B7"},
		{Kind: types.KindPurchase, Index: 1, ID: "PU2", Field: "trans_details", Target: types.KindTransaction, Value: "T8"},
		{Kind: types.KindPurchase, Index: 1, ID: "PU2", Field: "product_details", Target: types.KindProduct, Value: "P5"},
	}, ierr.References)

	assert.Contains(t, err.Error(), "4 dangling reference(s)")
	assert.Contains(t, err.Error(), "transactions[1] T2: customer_details 'C9' not found in customers")
}
