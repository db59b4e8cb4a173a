package cmd

import (
	"context"
	"os"
	"time"

	"golang-ledger-summary-service/cmd/summarizer/config"
	"golang-ledger-summary-service/internal/report"
	"golang-ledger-summary-service/internal/summarize"
	"golang-ledger-summary-service/pkg/errors"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	monthFlag     string
	startDateFlag string
	endDateFlag   string
	statusesFlag  []string
	sortByFlag    string
	formatFlag    string
	dataDirFlag   string
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Compute the monthly summary views",
	Long: `Summarize loads the ledger and reference exports for the given month,
reconciles them, and prints the three summary views.

The month selects which export pair to load ({prefix}_{MM}{YYYY}.xlsx).
Without --statuses no tables are produced, only the available filter
options are listed.`,
	RunE: runSummarize,
}

func init() {
	rootCmd.AddCommand(summarizeCmd)

	summarizeCmd.Flags().StringVar(&monthFlag, "month", "", "report month as YYYY-MM (required)")
	summarizeCmd.Flags().StringVar(&startDateFlag, "start-date", "", "filter start date as YYYY-MM-DD")
	summarizeCmd.Flags().StringVar(&endDateFlag, "end-date", "", "filter end date as YYYY-MM-DD")
	summarizeCmd.Flags().StringSliceVar(&statusesFlag, "statuses", nil, "operation statuses to include")
	summarizeCmd.Flags().StringVar(&sortByFlag, "sort-by", "none", "sort order: none, approved_count_desc, rejected_count_desc")
	summarizeCmd.Flags().StringVar(&formatFlag, "output-format", "console", "output format: console, json, html")
	summarizeCmd.Flags().StringVar(&dataDirFlag, "data-dir", "", "read exports from a local directory instead of blob storage")

	summarizeCmd.MarkFlagRequired("month")
}

func runSummarize(cmd *cobra.Command, args []string) error {
	handler := NewCLIErrorHandler()

	req, err := buildRequest()
	if err != nil {
		os.Exit(handler.HandleError(err))
	}

	renderer, err := report.NewRenderer(formatFlag)
	if err != nil {
		os.Exit(handler.HandleError(err))
	}

	if dataDirFlag != "" {
		viper.Set("storage", config.StorageFilesystem)
		viper.Set("data_dir", dataDirFlag)
	}
	settings, err := config.Load()
	if err != nil {
		os.Exit(handler.HandleError(err))
	}
	datasetLoader, err := settings.NewLoader()
	if err != nil {
		os.Exit(handler.HandleError(err))
	}

	service := summarize.NewService(datasetLoader, settings.ServiceConfig())
	result, err := service.Summarize(context.Background(), req)
	if err != nil {
		os.Exit(handler.HandleError(err))
	}

	if err := renderer.Render(os.Stdout, result); err != nil {
		os.Exit(handler.HandleError(err))
	}
	return nil
}

func buildRequest() (summarize.SummaryRequest, error) {
	var req summarize.SummaryRequest

	month, err := time.Parse("2006-01", monthFlag)
	if err != nil {
		return req, errors.Wrap(err, errors.CategoryConfiguration, errors.CodeInvalidSetting,
			"invalid --month, expected YYYY-MM")
	}
	req.Month = month
	req.Statuses = statusesFlag

	if startDateFlag != "" {
		d, err := time.Parse("2006-01-02", startDateFlag)
		if err != nil {
			return req, errors.Wrap(err, errors.CategoryConfiguration, errors.CodeInvalidSetting,
				"invalid --start-date, expected YYYY-MM-DD")
		}
		req.StartDate = &d
	}
	if endDateFlag != "" {
		d, err := time.Parse("2006-01-02", endDateFlag)
		if err != nil {
			return req, errors.Wrap(err, errors.CategoryConfiguration, errors.CodeInvalidSetting,
				"invalid --end-date, expected YYYY-MM-DD")
		}
		req.EndDate = &d
	}

	req.SortBy, err = summarize.ParseSortBy(sortByFlag)
	if err != nil {
		return req, err
	}
	return req, nil
}
