// =============================================================================
// POS Report - Shared Types
// =============================================================================
//
// This package contains the record types shared across the loader, the
// validation engine, the query engine and the report pipeline. Keeping them
// here avoids import cycles between those packages.
//
// ENTITIES:
//   Product, Staff, Customer, Branch, Transaction, Purchase
//
// Entities are built once by the validation package from a raw Record and
// are never mutated afterwards. Cross-entity references are plain ids.
//
// =============================================================================

package types

import "time"

// =============================================================================
// RAW RECORDS
// =============================================================================

// Record is one raw entry read from an input resource before validation.
// Keys are field names; values are whatever the source format produced
// (json.Number, string, []any, ...).
type Record map[string]any

// Kind identifies an entity collection.
type Kind string

const (
	KindProduct     Kind = "products"
	KindBranch      Kind = "branches"
	KindStaff       Kind = "staff"
	KindCustomer    Kind = "customers"
	KindTransaction Kind = "transactions"
	KindPurchase    Kind = "purchases"
)

// Kinds lists every collection in load order.
var Kinds = []Kind{
	KindProduct,
	KindBranch,
	KindStaff,
	KindCustomer,
	KindTransaction,
	KindPurchase,
}

// =============================================================================
// ENTITIES
// =============================================================================

// Product is a stocked item.
type Product struct {
	ID       string `json:"product_id"`
	Quantity int    `json:"product_quantity" validate:"min=0"`
}

// Staff is a member of staff who can ring up transactions.
type Staff struct {
	ID    string `json:"staff_id"`
	Name  string `json:"staff_name"`
	Email string `json:"staff_email" validate:"email"`
}

// Customer is a registered customer.
type Customer struct {
	ID          string  `json:"customer_id"`
	Name        string  `json:"customer_name"`
	Email       string  `json:"customer_email" validate:"email"`
	PhoneNumber float64 `json:"customer_ph_no"`
}

// Branch is a physical store.
type Branch struct {
	ID      string `json:"branch_id"`
	Address string `json:"branch_address"`
}

// Transaction is a single sale. CustomerID, StaffID and BranchID reference
// the other collections by id only.
type Transaction struct {
	ID         string    `json:"trans_id"`
	Date       time.Time `json:"trans_date"`
	CustomerID string    `json:"customer_details"`
	StaffID    string    `json:"staff_details"`
	BranchID   string    `json:"branch_details"`
}

// Purchase lists the products sold in a transaction. ProductIDs keeps input
// order and may contain duplicates.
type Purchase struct {
	ID            string   `json:"purchase_id"`
	TransactionID string   `json:"trans_details"`
	ProductIDs    []string `json:"product_details"`
}

// =============================================================================
// DATASET
// =============================================================================

// Dataset holds the validated collections of a single run.
type Dataset struct {
	Products     []Product
	Branches     []Branch
	Staff        []Staff
	Customers    []Customer
	Transactions []Transaction
	Purchases    []Purchase
}

// Count returns the number of entities loaded for a collection.
func (d *Dataset) Count(kind Kind) int {
	switch kind {
	case KindProduct:
		return len(d.Products)
	case KindBranch:
		return len(d.Branches)
	case KindStaff:
		return len(d.Staff)
	case KindCustomer:
		return len(d.Customers)
	case KindTransaction:
		return len(d.Transactions)
	case KindPurchase:
		return len(d.Purchases)
	default:
		return 0
	}
}
