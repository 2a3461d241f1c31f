// =============================================================================
// POS Report - Query Engine
// =============================================================================
//
// Four read-only queries over validated collections:
//
//   LowStock            products below a stock threshold
//   TransactionsBetween transactions inside a calendar-date window
//   BusiestBranch       the branch with the most transactions
//   TopSellingStaff     the staff member who sold the most products
//
// Queries never modify their inputs and keep no state between calls.
//
// =============================================================================

package query

import (
	"iter"
	"time"

	"github.com/ginjaninja78/pos-report/internal/types"
)

// =============================================================================
// LOW STOCK
// =============================================================================

// LowStock yields the id of every product whose quantity is strictly below
// threshold, in input order. The sequence is lazy and may be ranged over
// any number of times.
func LowStock(products []types.Product, threshold int) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, p := range products {
			if p.Quantity < threshold && !yield(p.ID) {
				return
			}
		}
	}
}

// =============================================================================
// DATE WINDOW
// =============================================================================

// TransactionsBetween yields the transactions whose date falls within
// [from, to], both inclusive. Only the calendar date is compared; the time
// of day and the location of from and to are ignored. If from is after to
// nothing is yielded.
func TransactionsBetween(transactions []types.Transaction, from, to time.Time) iter.Seq[types.Transaction] {
	start, end := calendarDay(from), calendarDay(to)

	return func(yield func(types.Transaction) bool) {
		if start > end {
			return
		}
		for _, t := range transactions {
			day := calendarDay(t.Date)
			if day >= start && day <= end && !yield(t) {
				return
			}
		}
	}
}

// calendarDay packs the date component of t into a comparable integer.
func calendarDay(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}

// =============================================================================
// BUSIEST BRANCH
// =============================================================================

// BranchActivity is the result of BusiestBranch.
type BranchActivity struct {
	BranchID string
	Address  string
	Count    int
}

// BusiestBranch counts transactions per branch and returns the branch with
// the highest count. A tie goes to the branch seen first in transactions.
//
// RETURNS:
//   - *EmptyInputError if transactions is empty.
//   - *NotFoundError if the winning branch id has no branch record.
func BusiestBranch(transactions []types.Transaction, branches []types.Branch) (BranchActivity, error) {
	if len(transactions) == 0 {
		return BranchActivity{}, &EmptyInputError{Query: "busiest branch", Input: "transactions"}
	}

	counts := make(map[string]int)
	var order []string
	for _, t := range transactions {
		if _, seen := counts[t.BranchID]; !seen {
			order = append(order, t.BranchID)
		}
		counts[t.BranchID]++
	}

	// Strict comparison keeps the first-seen branch on ties.
	winner := order[0]
	for _, id := range order[1:] {
		if counts[id] > counts[winner] {
			winner = id
		}
	}

	for _, b := range branches {
		if b.ID == winner {
			return BranchActivity{BranchID: winner, Address: b.Address, Count: counts[winner]}, nil
		}
	}
	return BranchActivity{}, &NotFoundError{Kind: "branch", ID: winner}
}

// =============================================================================
// TOP-SELLING STAFF
// =============================================================================

// StaffSales is the number of products sold by one staff member.
type StaffSales struct {
	StaffID string
	Total   int
}

// SalesByStaff attributes the products of every purchase to the staff member
// of its transaction and returns one total per staff member, in staff-list
// order. Staff members with no sales have a total of zero.
//
// A transaction without a purchase contributes nothing, and sales by staff
// ids missing from staff are dropped.
func SalesByStaff(staff []types.Staff, transactions []types.Transaction, purchases []types.Purchase) []StaffSales {
	items := make(map[string]int, len(purchases))
	for _, p := range purchases {
		items[p.TransactionID] += len(p.ProductIDs)
	}

	totals := make(map[string]int, len(staff))
	for _, s := range staff {
		totals[s.ID] = 0
	}
	for _, t := range transactions {
		if _, known := totals[t.StaffID]; known {
			totals[t.StaffID] += items[t.ID]
		}
	}

	sales := make([]StaffSales, 0, len(staff))
	seen := make(map[string]bool, len(staff))
	for _, s := range staff {
		if seen[s.ID] {
			continue
		}
		seen[s.ID] = true
		sales = append(sales, StaffSales{StaffID: s.ID, Total: totals[s.ID]})
	}
	return sales
}

// TopSellingStaff returns the staff member with the highest SalesByStaff
// total. A tie goes to the member listed first in staff.
//
// RETURNS:
//   - *EmptyInputError if staff is empty.
func TopSellingStaff(staff []types.Staff, transactions []types.Transaction, purchases []types.Purchase) (StaffSales, error) {
	sales := SalesByStaff(staff, transactions, purchases)
	if len(sales) == 0 {
		return StaffSales{}, &EmptyInputError{Query: "top-selling staff", Input: "staff"}
	}

	top := sales[0]
	for _, s := range sales[1:] {
		if s.Total > top.Total {
			top = s
		}
	}
	return top, nil
}
