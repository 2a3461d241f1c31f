// =============================================================================
// POS Report - Report Pipeline
// =============================================================================
//
// This module orchestrates a report run, from reading the source files to
// logging the query results.
//
// REPORT PIPELINE:
//   1. Resolve and read the source of every collection
//   2. Validate each collection and apply its failure policy
//   3. Check referential integrity between collections
//   4. Run the four queries and log their results
//
// FAILURE POLICY:
//   - "abort":    a collection that fails validation stops the run
//   - "continue": the failures are logged and the run goes on with the
//                 records that validated
//   Query failures are logged; every query still runs and the failures are
//   returned together at the end.
//
// =============================================================================

package report

import (
	"errors"
	"fmt"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/ginjaninja78/pos-report/internal/config"
	"github.com/ginjaninja78/pos-report/internal/csvparser"
	"github.com/ginjaninja78/pos-report/internal/jsonparser"
	"github.com/ginjaninja78/pos-report/internal/query"
	"github.com/ginjaninja78/pos-report/internal/types"
	"github.com/ginjaninja78/pos-report/internal/validation"
	"github.com/ginjaninja78/pos-report/internal/xlsxparser"
	"github.com/ginjaninja78/pos-report/pkg/utils"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of a run.
type Result struct {
	// RunID identifies the run in every log line.
	RunID string

	// Dataset holds the records that validated.
	Dataset *types.Dataset

	// ValidationErrors holds one entry per collection that failed validation.
	ValidationErrors []*validation.ValidationError

	// Integrity lists dangling references. Nil if the pass was skipped or
	// found nothing.
	Integrity *validation.IntegrityError

	// LowStock holds the ids of products below the stock threshold.
	LowStock []string

	// InWindow holds the transactions inside the date window.
	InWindow []types.Transaction

	// BusiestBranch and TopStaff are nil if their query failed.
	BusiestBranch *query.BranchActivity
	TopStaff      *query.StaffSales

	// Stats contains run statistics.
	Stats RunStats
}

// RunStats contains statistics about a run.
type RunStats struct {
	// Loaded is the number of valid records per collection.
	Loaded map[types.Kind]int

	// Rejected is the number of records per collection that failed.
	Rejected map[types.Kind]int

	// DanglingReferences is the number of unresolved foreign ids.
	DanglingReferences int

	// ProcessingTime is the time taken by the run.
	ProcessingTime time.Duration
}

// =============================================================================
// RUNNER STRUCTURE
// =============================================================================

// Runner executes report runs for one configuration.
type Runner struct {
	cfg       *config.MainConfig
	files     *utils.FileManager
	validator *validation.Validator
	tabular   *validation.Validator
	logger    zerolog.Logger
	runID     string
}

// spewConfig dumps records at debug level without pointer noise.
var spewConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// New creates a new Runner.
//
// PARAMETERS:
//   - cfg: The validated application configuration.
//   - logger: The logger every line of the run is written to.
//
// RETURNS:
//   - A new Runner instance with a fresh run id.
func New(cfg *config.MainConfig, logger zerolog.Logger) *Runner {
	runID := uuid.New().String()

	return &Runner{
		cfg:       cfg,
		files:     utils.NewFileManager(cfg.DataDir),
		validator: validation.NewValidator(validation.DefaultOptions()),
		tabular:   validation.NewValidator(validation.TabularOptions(cfg.Validation.ListSeparator)),
		logger:    logger.With().Str("run_id", runID).Logger(),
		runID:     runID,
	}
}

// RunID returns the id attached to every log line of the runner.
func (r *Runner) RunID() string {
	return r.runID
}

// =============================================================================
// MAIN PROCESSING FUNCTIONS
// =============================================================================

// Run executes the full report pipeline.
//
// RETURNS:
//   - The Result of the run. It is never nil, so partial results can be
//     inspected after a failure.
//   - An error if loading fails under the configured policies, or the
//     joined errors of the queries that failed.
func (r *Runner) Run() (*Result, error) {
	startTime := time.Now()
	result := r.newResult()
	defer func() { result.Stats.ProcessingTime = time.Since(startTime) }()

	r.logger.Info().Str("data_dir", r.cfg.DataDir).Msg("starting report run")

	// =========================================================================
	// STEPS 1-3: LOAD, VALIDATE, CHECK INTEGRITY
	// =========================================================================

	if err := r.load(result, false); err != nil {
		return result, err
	}

	// =========================================================================
	// STEP 4: RUN QUERIES
	// =========================================================================

	if err := r.runQueries(result); err != nil {
		return result, err
	}

	r.logger.Info().Dur("elapsed", time.Since(startTime)).Msg("report run complete")
	return result, nil
}

// Check loads and validates every collection without running the queries.
// Unlike Run it does not stop at the first failing collection, so one call
// reports every problem; failure policies are ignored and dangling
// references are always an error.
//
// RETURNS:
//   - The Result of the check. It is never nil.
//   - An error joining every read, validation and integrity failure.
func (r *Runner) Check() (*Result, error) {
	startTime := time.Now()
	result := r.newResult()
	defer func() { result.Stats.ProcessingTime = time.Since(startTime) }()

	r.logger.Info().Str("data_dir", r.cfg.DataDir).Msg("starting validation run")

	err := r.load(result, true)
	if err == nil {
		r.logger.Info().Msg("all collections are valid")
	}
	return result, err
}

func (r *Runner) newResult() *Result {
	return &Result{
		RunID:   r.runID,
		Dataset: &types.Dataset{},
		Stats: RunStats{
			Loaded:   make(map[types.Kind]int, len(types.Kinds)),
			Rejected: make(map[types.Kind]int, len(types.Kinds)),
		},
	}
}

// load reads and validates every collection, then runs the integrity pass.
// In check mode every failure is collected instead of stopping the run.
func (r *Runner) load(result *Result, check bool) error {
	dataset := result.Dataset
	loaders := []struct {
		kind types.Kind
		load func() error
	}{
		{types.KindProduct, func() error {
			// A lenient run still scans out-of-range quantities for restocking.
			validate := (*validation.Validator).Products
			if !check && r.cfg.Validation.PolicyFor(types.KindProduct) == config.PolicyContinue {
				validate = (*validation.Validator).RestockProducts
			}
			return loadCollection(r, result, types.KindProduct, validate, &dataset.Products)
		}},
		{types.KindBranch, func() error {
			return loadCollection(r, result, types.KindBranch, (*validation.Validator).Branches, &dataset.Branches)
		}},
		{types.KindStaff, func() error {
			return loadCollection(r, result, types.KindStaff, (*validation.Validator).Staff, &dataset.Staff)
		}},
		{types.KindCustomer, func() error {
			return loadCollection(r, result, types.KindCustomer, (*validation.Validator).Customers, &dataset.Customers)
		}},
		{types.KindTransaction, func() error {
			return loadCollection(r, result, types.KindTransaction, (*validation.Validator).Transactions, &dataset.Transactions)
		}},
		{types.KindPurchase, func() error {
			return loadCollection(r, result, types.KindPurchase, (*validation.Validator).Purchases, &dataset.Purchases)
		}},
	}

	var errs []error
	for _, loader := range loaders {
		err := loader.load()
		if err == nil {
			continue
		}
		if check {
			errs = append(errs, err)
			continue
		}

		var verr *validation.ValidationError
		if !errors.As(err, &verr) {
			return err
		}
		if r.cfg.Validation.PolicyFor(loader.kind) == config.PolicyAbort {
			return fmt.Errorf("failed to load %s: %w", loader.kind, verr)
		}
		r.logger.Warn().
			Str("collection", string(loader.kind)).
			Int("kept", result.Stats.Loaded[loader.kind]).
			Int("rejected", result.Stats.Rejected[loader.kind]).
			Msg("continuing with the records that validated")
	}

	if err := r.checkIntegrity(result, check); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// loadCollection reads one collection, validates it and stores the records
// that validated in dst. A validation failure is returned as the bare
// *validation.ValidationError so the caller can apply the failure policy;
// read failures are wrapped.
func loadCollection[T any](r *Runner, result *Result, kind types.Kind, validate func(*validation.Validator, []types.Record) ([]T, error), dst *[]T) error {
	logger := r.logger.With().Str("collection", string(kind)).Logger()

	records, source, err := r.readRecords(kind)
	if err != nil {
		logger.Error().Err(err).Msg("failed to read source")
		return fmt.Errorf("failed to read %s: %w", kind, err)
	}

	logger.Debug().
		Str("source", source.String()).
		Str("format", string(source.Format)).
		Int64("bytes", source.Size).
		Int("records", len(records)).
		Msg("read source")

	valid, err := validate(r.validatorFor(source.Format), records)
	*dst = valid
	result.Stats.Loaded[kind] = len(valid)

	var verr *validation.ValidationError
	if err != nil {
		if !errors.As(err, &verr) {
			return fmt.Errorf("failed to validate %s: %w", kind, err)
		}

		result.ValidationErrors = append(result.ValidationErrors, verr)
		result.Stats.Rejected[kind] = len(records) - len(valid)
		if kept := verr.InvalidRecords() - result.Stats.Rejected[kind]; kept > 0 {
			logger.Warn().Int("kept", kept).Msg("keeping out-of-range records for the restock scan")
		}
		for _, fe := range verr.Errors {
			logger.Error().
				Int("record", fe.Index).
				Str("field", fe.Field).
				Str("rule", fe.Rule).
				Msg(fe.Message)
		}
	}

	logger.Info().Int("records", len(valid)).Msg("loaded collection")

	if len(valid) > 0 {
		if e := logger.Debug(); e.Enabled() {
			e.Msg("first record:\n" + spewConfig.Sdump(valid[0]))
		}
	}

	if verr != nil {
		return verr
	}
	return nil
}

// validatorFor returns the validator for records of the given format.
// Tabular cells are strings, so only their list fields may be split.
func (r *Runner) validatorFor(format utils.Format) *validation.Validator {
	if format == utils.FormatJSON {
		return r.validator
	}
	return r.tabular
}

// readRecords resolves the source of a collection and reads its raw records
// with the reader its format calls for.
func (r *Runner) readRecords(kind types.Kind) ([]types.Record, utils.Source, error) {
	source, err := r.files.Resolve(r.cfg.Sources[kind])
	if err != nil {
		return nil, utils.Source{}, err
	}

	switch source.Format {
	case utils.FormatJSON:
		records, err := jsonparser.Parse(source.Path)
		return records, source, err

	case utils.FormatCSV:
		data, err := csvparser.Parse(source.Path, r.cfg.CSVSettings)
		if err != nil {
			return nil, source, err
		}
		return data.Records, source, nil

	case utils.FormatXLSX:
		// A workbook without a sheet selector holds the collection in the
		// sheet named after it.
		if source.Sheet == "" {
			source.Sheet = string(kind)
		}
		data, err := xlsxparser.Parse(source.Path, source.Sheet)
		if err != nil {
			return nil, source, err
		}
		return data.Records, source, nil

	default:
		return nil, source, fmt.Errorf("no reader for format %q", source.Format)
	}
}

// checkIntegrity runs the referential integrity pass according to the
// configured mode. In check mode dangling references are always an error.
func (r *Runner) checkIntegrity(result *Result, check bool) error {
	mode := r.cfg.Validation.Integrity
	if check {
		mode = config.IntegrityStrict
	}
	if mode == config.IntegrityOff {
		return nil
	}

	err := validation.CheckReferences(result.Dataset)
	if err == nil {
		r.logger.Debug().Msg("all references resolve")
		return nil
	}

	var ierr *validation.IntegrityError
	if !errors.As(err, &ierr) {
		return err
	}

	result.Integrity = ierr
	result.Stats.DanglingReferences = len(ierr.References)

	event := r.logger.Warn
	if mode == config.IntegrityStrict {
		event = r.logger.Error
	}
	for _, ref := range ierr.References {
		event().
			Str("collection", string(ref.Kind)).
			Str("id", ref.ID).
			Str("field", ref.Field).
			Str("value", ref.Value).
			Msgf("dangling reference to %s", ref.Target)
	}

	if mode == config.IntegrityStrict {
		return fmt.Errorf("failed integrity check: %w", ierr)
	}
	return nil
}
