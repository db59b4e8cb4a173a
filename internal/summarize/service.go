package summarize

import (
	"context"
	"time"

	"golang-ledger-summary-service/internal/loader"
	"golang-ledger-summary-service/internal/models"
	"golang-ledger-summary-service/internal/reconcile"
	"golang-ledger-summary-service/internal/tabular"
	"golang-ledger-summary-service/pkg/logger"
)

// Config holds the dataset naming and decoding settings for the service.
type Config struct {
	LedgerPrefix    string
	ReferencePrefix string
	LedgerConfig    *tabular.LedgerConfig
	ReferenceConfig *tabular.ReferenceConfig
}

// DefaultConfig matches the monthly export naming used in production.
func DefaultConfig() Config {
	return Config{
		LedgerPrefix:    "T1",
		ReferencePrefix: "Claroscore",
	}
}

// SummaryRequest describes one summary computation. Month selects which
// monthly export pair to load; the caller supplies it explicitly, the
// pipeline never reads the wall clock.
type SummaryRequest struct {
	Month     time.Time
	StartDate *time.Time
	EndDate   *time.Time
	Statuses  []string
	SortBy    SortBy
}

// PipelineStats reports what the pipeline did for one request.
type PipelineStats struct {
	reconcile.Stats
	FilteredCount int `json:"filtered_count"`
	ReviewCount   int `json:"review_count"`
}

// SummaryResult is the complete outcome of one request. When HasTables is
// false no status was selected and the three views are nil; FilterOptions is
// always populated from the full dataset.
type SummaryResult struct {
	Month           time.Time             `json:"month"`
	FilterOptions   FilterOptions         `json:"filter_options"`
	HasTables       bool                  `json:"has_tables"`
	ByEmail         *EmailSummary         `json:"by_email,omitempty"`
	ByAccount       *AccountSummary       `json:"by_account,omitempty"`
	ByDistinctEmail *DistinctEmailSummary `json:"by_distinct_email,omitempty"`
	Stats           PipelineStats         `json:"stats"`
}

// Service runs the full load, reconcile, filter and aggregate cycle for a
// request. It holds no mutable state; every request rebuilds the dataset from
// the two source files.
type Service struct {
	loader     loader.Loader
	config     Config
	reconciler *reconcile.Reconciler
	log        logger.Logger
}

// NewService creates a Service over the given dataset loader.
func NewService(l loader.Loader, config Config) *Service {
	if config.LedgerPrefix == "" {
		config.LedgerPrefix = DefaultConfig().LedgerPrefix
	}
	if config.ReferencePrefix == "" {
		config.ReferencePrefix = DefaultConfig().ReferencePrefix
	}
	return &Service{
		loader:     l,
		config:     config,
		reconciler: reconcile.NewReconciler(),
		log:        logger.GetGlobalLogger().WithComponent("summary_service"),
	}
}

// Summarize executes one request end to end. Either all requested views are
// produced or an error is returned; there is no partial result.
func (s *Service) Summarize(ctx context.Context, req SummaryRequest) (*SummaryResult, error) {
	started := time.Now()

	entries, err := s.loadLedger(ctx, req.Month)
	if err != nil {
		return nil, err
	}
	records, err := s.loadReference(ctx, req.Month)
	if err != nil {
		return nil, err
	}

	transactions, reconcileStats := s.reconciler.Reconcile(entries, records)

	result := &SummaryResult{
		Month:         req.Month,
		FilterOptions: CollectFilterOptions(transactions),
		Stats:         PipelineStats{Stats: reconcileStats},
	}

	// An empty status selection renders no tables; the caller still gets the
	// filter options of the whole dataset.
	if len(req.Statuses) == 0 {
		s.log.WithField("duration", time.Since(started).String()).
			Info("summary computed without tables, no statuses selected")
		return result, nil
	}

	filter := &Filter{StartDate: req.StartDate, EndDate: req.EndDate, Statuses: req.Statuses}
	filtered := filter.Apply(transactions)
	result.Stats.FilteredCount = len(filtered)
	for _, tx := range filtered {
		if tx.Homologated == models.StatusReview {
			result.Stats.ReviewCount++
		}
	}

	result.HasTables = true
	result.ByEmail = SummarizeByEmail(filtered, req.SortBy)
	result.ByAccount = SummarizeByAccount(filtered, req.SortBy)
	result.ByDistinctEmail = SummarizeDistinctEmails(filtered, req.SortBy)

	s.log.WithFields(logger.Fields{
		"month":    req.Month.Format("2006-01"),
		"filtered": len(filtered),
		"review":   result.Stats.ReviewCount,
		"duration": time.Since(started).String(),
	}).Info("summary computed")
	return result, nil
}

func (s *Service) loadLedger(ctx context.Context, month time.Time) ([]models.LedgerEntry, error) {
	name := loader.MonthlyFilename(s.config.LedgerPrefix, month)
	data, err := s.loader.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	table, err := tabular.Decode(name, data)
	if err != nil {
		return nil, err
	}
	return tabular.DecodeLedger(table, s.config.LedgerConfig)
}

func (s *Service) loadReference(ctx context.Context, month time.Time) ([]models.ReferenceRecord, error) {
	name := loader.MonthlyFilename(s.config.ReferencePrefix, month)
	data, err := s.loader.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	table, err := tabular.Decode(name, data)
	if err != nil {
		return nil, err
	}
	return tabular.DecodeReference(table, s.config.ReferenceConfig)
}
