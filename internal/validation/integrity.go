package validation

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/pos-report/internal/types"
)

// =============================================================================
// REFERENTIAL INTEGRITY
// =============================================================================

// DanglingReference is a foreign id that matches no entity of its target
// collection.
type DanglingReference struct {
	// Kind and Index locate the referencing entity.
	Kind  types.Kind
	Index int
	ID    string

	// Field holds the reference; Target is the collection it points into.
	Field  string
	Target types.Kind
	Value  string
}

// String renders the reference for log output.
func (r DanglingReference) String() string {
	return fmt.Sprintf("%s[%d] %s: %s '%s' not found in %s",
		r.Kind, r.Index, r.ID, r.Field, r.Value, r.Target)
}

// IntegrityError lists every dangling reference of a dataset.
type IntegrityError struct {
	References []DanglingReference
}

// Error implements the error interface.
func (e *IntegrityError) Error() string {
	lines := make([]string, len(e.References))
	for i, ref := range e.References {
		lines[i] = ref.String()
	}
	return fmt.Sprintf("%d dangling reference(s): %s", len(e.References), strings.Join(lines, "; "))
}

// CheckReferences verifies that every id a transaction or purchase refers to
// exists in the loaded dataset.
//
// PARAMETERS:
//   - dataset: The validated collections of one run.
//
// RETURNS:
//   - nil if every reference resolves.
//   - An *IntegrityError listing the dangling references otherwise, in
//     collection order (transactions first, then purchases).
func CheckReferences(dataset *types.Dataset) error {
	customers := indexIDs(dataset.Customers, func(c types.Customer) string { return c.ID })
	staff := indexIDs(dataset.Staff, func(s types.Staff) string { return s.ID })
	branches := indexIDs(dataset.Branches, func(b types.Branch) string { return b.ID })
	transactions := indexIDs(dataset.Transactions, func(t types.Transaction) string { return t.ID })
	products := indexIDs(dataset.Products, func(p types.Product) string { return p.ID })

	var refs []DanglingReference

	for i, t := range dataset.Transactions {
		check := func(field string, target types.Kind, known map[string]struct{}, value string) {
			if _, ok := known[value]; !ok {
				refs = append(refs, DanglingReference{
					Kind: types.KindTransaction, Index: i, ID: t.ID,
					Field: field, Target: target, Value: value,
				})
			}
		}
		check("customer_details", types.KindCustomer, customers, t.CustomerID)
		check("staff_details", types.KindStaff, staff, t.StaffID)
		check("branch_details", types.KindBranch, branches, t.BranchID)
	}

	for i, p := range dataset.Purchases {
		if _, ok := transactions[p.TransactionID]; !ok {
			refs = append(refs, DanglingReference{
				Kind: types.KindPurchase, Index: i, ID: p.ID,
				Field: "trans_details", Target: types.KindTransaction, Value: p.TransactionID,
			})
		}

		// A product listed twice is reported once.
		reported := make(map[string]bool)
		for _, productID := range p.ProductIDs {
			if _, ok := products[productID]; ok || reported[productID] {
				continue
			}
			reported[productID] = true
			refs = append(refs, DanglingReference{
				Kind: types.KindPurchase, Index: i, ID: p.ID,
				Field: "product_details", Target: types.KindProduct, Value: productID,
			})
		}
	}

	if len(refs) > 0 {
		return &IntegrityError{References: refs}
	}
	return nil
}

func indexIDs[T any](items []T, id func(T) string) map[string]struct{} {
	index := make(map[string]struct{}, len(items))
	for _, item := range items {
		index[id(item)] = struct{}{}
	}
	return index
}
