// =============================================================================
// POS Report - Validation Engine
// =============================================================================
//
// This module turns raw records into typed entities. Every collection goes
// through the same steps, record by record:
//
//   1. Shape:       unknown fields and missing fields are flagged
//   2. Type:        each declared field is coerced to its type
//                   (string, integer, number, email, datetime, list)
//   3. Constraints: struct tags on the entity types are checked
//                   (email format, non-negative product quantity)
//
// ERROR HANDLING:
//   - Errors are collected, not returned at the first failure
//   - A record either validates fully or is flagged; there is no repair
//   - Every collection returns the records that validated together with one
//     aggregated *ValidationError, so the caller decides whether a failure
//     is fatal for that collection
//
// =============================================================================

package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/ginjaninja78/pos-report/internal/types"
	"github.com/go-playground/validator/v10"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// FieldError describes one failed check on one record.
type FieldError struct {
	// Index is the position of the record in its source (0-based).
	Index int

	// Field is the name of the field that failed validation.
	Field string

	// Value is the offending raw value, if any.
	Value any

	// Rule is the check that failed: "unknown", "required", "null",
	// "type", or a constraint tag such as "email" or "min".
	Rule string

	// Message is a human-readable error message.
	Message string
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("record %d, field '%s': %s", e.Index, e.Field, e.Message)
	}
	return fmt.Sprintf("record %d, field '%s': %s (value: '%v')", e.Index, e.Field, e.Message, e.Value)
}

// ValidationError aggregates every FieldError of one collection.
type ValidationError struct {
	Kind   types.Kind
	Errors []*FieldError
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Error()
	}
	return fmt.Sprintf("invalid %s: %s", e.Kind, strings.Join(parts, "; "))
}

// Messages groups the error messages by record index and field name.
func (e *ValidationError) Messages() map[int]map[string][]string {
	messages := make(map[int]map[string][]string)
	for _, fe := range e.Errors {
		if messages[fe.Index] == nil {
			messages[fe.Index] = make(map[string][]string)
		}
		messages[fe.Index][fe.Field] = append(messages[fe.Index][fe.Field], fe.Message)
	}
	return messages
}

// InvalidRecords returns the number of distinct records that failed.
func (e *ValidationError) InvalidRecords() int {
	return len(e.Messages())
}

// =============================================================================
// VALIDATOR
// =============================================================================

// Options contains options for validation.
type Options struct {
	// ListSeparator splits list fields delivered as a single string.
	// Default: "|"
	ListSeparator string

	// SplitStringLists accepts a string where a list is declared and splits
	// it on ListSeparator. Set it for tabular sources (CSV, XLSX), whose
	// cells are always strings. Otherwise a string list field is a type error.
	// Default: false
	SplitStringLists bool
}

// DefaultOptions returns the default validation options.
func DefaultOptions() Options {
	return Options{ListSeparator: "|"}
}

// TabularOptions returns the options for records read from CSV or XLSX.
func TabularOptions(listSeparator string) Options {
	return Options{ListSeparator: listSeparator, SplitStringLists: true}
}

// Validator validates raw records of every collection.
type Validator struct {
	options  Options
	validate *validator.Validate
}

// NewValidator creates a new Validator instance.
func NewValidator(options Options) *Validator {
	if options.ListSeparator == "" {
		options.ListSeparator = DefaultOptions().ListSeparator
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	// Report constraint failures under the record's field names.
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{options: options, validate: validate}
}

// =============================================================================
// COLLECTION LOADERS
// =============================================================================

// Products validates product records.
func (v *Validator) Products(records []types.Record) ([]types.Product, error) {
	return decodeAll(v, types.KindProduct, records, func(f fields) types.Product {
		return types.Product{
			ID:       f.str("product_id"),
			Quantity: f.integer("product_quantity"),
		}
	})
}

// RestockProducts validates product records like Products, but also keeps
// the products whose only failure is a negative quantity. Those are the most
// urgent restock cases; a lenient run reports them instead of dropping them.
// The returned error still lists every failure.
func (v *Validator) RestockProducts(records []types.Record) ([]types.Product, error) {
	return decodeWith(v, types.KindProduct, records, true, func(f fields) types.Product {
		return types.Product{
			ID:       f.str("product_id"),
			Quantity: f.integer("product_quantity"),
		}
	})
}

// Staff validates staff records.
func (v *Validator) Staff(records []types.Record) ([]types.Staff, error) {
	return decodeAll(v, types.KindStaff, records, func(f fields) types.Staff {
		return types.Staff{
			ID:    f.str("staff_id"),
			Name:  f.str("staff_name"),
			Email: f.str("staff_email"),
		}
	})
}

// Customers validates customer records.
func (v *Validator) Customers(records []types.Record) ([]types.Customer, error) {
	return decodeAll(v, types.KindCustomer, records, func(f fields) types.Customer {
		return types.Customer{
			ID:          f.str("customer_id"),
			Name:        f.str("customer_name"),
			Email:       f.str("customer_email"),
			PhoneNumber: f.number("customer_ph_no"),
		}
	})
}

// Branches validates branch records.
func (v *Validator) Branches(records []types.Record) ([]types.Branch, error) {
	return decodeAll(v, types.KindBranch, records, func(f fields) types.Branch {
		return types.Branch{
			ID:      f.str("branch_id"),
			Address: f.str("branch_address"),
		}
	})
}

// Transactions validates transaction records.
func (v *Validator) Transactions(records []types.Record) ([]types.Transaction, error) {
	return decodeAll(v, types.KindTransaction, records, func(f fields) types.Transaction {
		return types.Transaction{
			ID:         f.str("trans_id"),
			Date:       f.datetime("trans_date"),
			CustomerID: f.str("customer_details"),
			StaffID:    f.str("staff_details"),
			BranchID:   f.str("branch_details"),
		}
	})
}

// Purchases validates purchase records.
func (v *Validator) Purchases(records []types.Record) ([]types.Purchase, error) {
	return decodeAll(v, types.KindPurchase, records, func(f fields) types.Purchase {
		return types.Purchase{
			ID:            f.str("purchase_id"),
			TransactionID: f.str("trans_details"),
			ProductIDs:    f.list("product_details"),
		}
	})
}

// decodeAll validates every record of a collection and builds the entities
// of the records that pass. The returned slice keeps input order.
func decodeAll[T any](v *Validator, kind types.Kind, records []types.Record, build func(fields) T) ([]T, error) {
	return decodeWith(v, kind, records, false, build)
}

// decodeWith is decodeAll with keepOutOfRange: when set, entities that only
// failed a "min" check are returned along with the valid ones.
func decodeWith[T any](v *Validator, kind types.Kind, records []types.Record, keepOutOfRange bool, build func(fields) T) ([]T, error) {
	schema, ok := Schemas[kind]
	if !ok {
		return nil, fmt.Errorf("no schema for collection %q", kind)
	}

	valid := make([]T, 0, len(records))
	var fieldErrors []*FieldError

	for i, record := range records {
		values, errs := v.checkRecord(schema, i, record)
		if len(errs) > 0 {
			fieldErrors = append(fieldErrors, errs...)
			continue
		}

		entity := build(values)
		if errs := v.checkConstraints(i, &entity); len(errs) > 0 {
			fieldErrors = append(fieldErrors, errs...)
			if !keepOutOfRange || !onlyRule(errs, "min") {
				continue
			}
		}

		valid = append(valid, entity)
	}

	if len(fieldErrors) > 0 {
		return valid, &ValidationError{Kind: kind, Errors: fieldErrors}
	}
	return valid, nil
}

// checkRecord performs the shape and type checks of one record.
func (v *Validator) checkRecord(schema []FieldSpec, index int, record types.Record) (fields, []*FieldError) {
	var errs []*FieldError
	values := make(fields, len(schema))
	declared := make(map[string]bool, len(schema))

	for _, spec := range schema {
		declared[spec.Name] = true

		raw, present := record[spec.Name]
		switch {
		case !present:
			errs = append(errs, &FieldError{Index: index, Field: spec.Name, Rule: "required", Message: msgMissing})
			continue
		case raw == nil:
			errs = append(errs, &FieldError{Index: index, Field: spec.Name, Rule: "null", Message: msgNull})
			continue
		}

		value, msg := v.coerce(raw, spec.Type)
		if msg != "" {
			errs = append(errs, &FieldError{Index: index, Field: spec.Name, Value: raw, Rule: "type", Message: msg})
			continue
		}
		values[spec.Name] = value
	}

	// Unknown fields are reported in name order so output is stable.
	var unknown []string
	for name := range record {
		if !declared[name] {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	for _, name := range unknown {
		errs = append(errs, &FieldError{Index: index, Field: name, Value: record[name], Rule: "unknown", Message: msgUnknown})
	}

	return values, errs
}

// checkConstraints evaluates the validate struct tags of an entity.
func (v *Validator) checkConstraints(index int, entity any) []*FieldError {
	err := v.validate.Struct(entity)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []*FieldError{{Index: index, Rule: "internal", Message: err.Error()}}
	}

	errs := make([]*FieldError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		errs = append(errs, &FieldError{
			Index:   index,
			Field:   fe.Field(),
			Value:   fe.Value(),
			Rule:    fe.Tag(),
			Message: constraintMessage(fe),
		})
	}
	return errs
}

// onlyRule reports whether every error failed the given rule.
func onlyRule(errs []*FieldError, rule string) bool {
	for _, fe := range errs {
		if fe.Rule != rule {
			return false
		}
	}
	return true
}

// constraintMessage maps a failed struct tag to a message.
func constraintMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "email":
		return msgEmail
	case "min":
		if fe.Field() == "product_quantity" {
			return RangeMessage
		}
		return fmt.Sprintf("Must be greater than or equal to %s.", fe.Param())
	default:
		return fmt.Sprintf("Failed the '%s' check.", fe.Tag())
	}
}

// =============================================================================
// ERROR FORMATTING
// =============================================================================

// FormatErrors formats validation errors for display.
//
// PARAMETERS:
//   - errs: The validation errors to format, one per collection.
//
// RETURNS:
//   - A formatted string containing all errors.
func FormatErrors(errs []*ValidationError) string {
	total := 0
	for _, err := range errs {
		total += len(err.Errors)
	}

	if total == 0 {
		return "No validation errors."
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Validation completed with %d error(s):\n\n", total))

	n := 0
	for _, err := range errs {
		for _, fe := range err.Errors {
			n++
			builder.WriteString(fmt.Sprintf("%d. [%s] %s\n", n, err.Kind, fe.Error()))
		}
	}

	return builder.String()
}
