package report

import (
	"errors"
	"fmt"

	"github.com/ginjaninja78/pos-report/internal/query"
)

// runQueries runs the four queries against the loaded dataset and logs
// their results. A failing query does not stop the others.
func (r *Runner) runQueries(result *Result) error {
	dataset := result.Dataset
	settings := r.cfg.Query

	from, to, err := settings.Window()
	if err != nil {
		return fmt.Errorf("failed to parse date window: %w", err)
	}

	// Restock notices.
	for id := range query.LowStock(dataset.Products, settings.StockThreshold) {
		r.logger.Info().Str("product_id", id).Int("threshold", settings.StockThreshold).Msg("product to be stocked")
		result.LowStock = append(result.LowStock, id)
	}
	if len(result.LowStock) == 0 {
		r.logger.Info().Int("threshold", settings.StockThreshold).Msg("no product below the stock threshold")
	}

	// Transactions in the date window.
	for t := range query.TransactionsBetween(dataset.Transactions, from, to) {
		r.logger.Info().
			Str("trans_id", t.ID).
			Time("trans_date", t.Date).
			Str("customer_id", t.CustomerID).
			Str("staff_id", t.StaffID).
			Str("branch_id", t.BranchID).
			Msg("transaction in date window")
		result.InWindow = append(result.InWindow, t)
	}
	r.logger.Info().
		Str("from", settings.FromDate).
		Str("to", settings.ToDate).
		Int("transactions", len(result.InWindow)).
		Msg("date window scanned")

	var errs []error

	branch, err := query.BusiestBranch(dataset.Transactions, dataset.Branches)
	if err != nil {
		r.logger.Error().Err(err).Msg("busiest branch query failed")
		errs = append(errs, fmt.Errorf("failed to find busiest branch: %w", err))
	} else {
		result.BusiestBranch = &branch
		r.logger.Info().
			Str("branch_id", branch.BranchID).
			Str("branch_address", branch.Address).
			Int("transactions", branch.Count).
			Msg("branch with the most transactions")
	}

	for _, sales := range query.SalesByStaff(dataset.Staff, dataset.Transactions, dataset.Purchases) {
		r.logger.Debug().Str("staff_id", sales.StaffID).Int("products", sales.Total).Msg("staff sales")
	}

	top, err := query.TopSellingStaff(dataset.Staff, dataset.Transactions, dataset.Purchases)
	if err != nil {
		r.logger.Error().Err(err).Msg("top-selling staff query failed")
		errs = append(errs, fmt.Errorf("failed to find top-selling staff: %w", err))
	} else {
		result.TopStaff = &top
		r.logger.Info().
			Str("staff_id", top.StaffID).
			Int("products", top.Total).
			Msg("staff member sold the most products")
	}

	return errors.Join(errs...)
}
