// Package export writes the pipeline's durable JSON artifacts.
package export

import (
	"cmp"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/customer-pipeline/internal/model"
	"github.com/sells-group/customer-pipeline/internal/summary"
)

// Artifact file names inside the output directory.
const (
	CustomersFile = "processed_customers.json"
	SummaryFile   = "summary_report.json"
)

// Exporter writes enriched customers and the summary report to disk.
type Exporter struct {
	now func() time.Time
}

// New creates an Exporter.
func New() *Exporter {
	return &Exporter{now: time.Now}
}

// ExportCustomers writes the customer artifact: records sorted by full name
// (ties broken by ID for determinism) wrapped with export metadata.
func (e *Exporter) ExportCustomers(customers []model.EnrichedCustomer, path string) error {
	sorted := slices.Clone(customers)
	slices.SortFunc(sorted, func(a, b model.EnrichedCustomer) int {
		if c := cmp.Compare(a.FullName, b.FullName); c != 0 {
			return c
		}
		return cmp.Compare(a.CustomerID, b.CustomerID)
	})

	out := model.CustomerExport{
		Metadata: model.ExportMetadata{
			TotalCustomers:  len(sorted),
			ExportTimestamp: e.now().UTC(),
			QualitySummary:  summary.Summarize(sorted).QualitySummary,
		},
		Customers: sorted,
	}

	if err := writeJSON(path, out); err != nil {
		return err
	}

	zap.L().Info("export: customers written",
		zap.String("path", path),
		zap.Int("customers", len(sorted)),
	)
	return nil
}

// ExportSummary writes the summary report artifact.
func (e *Exporter) ExportSummary(customers []model.EnrichedCustomer, path string) error {
	report := summary.Summarize(customers)

	if err := writeJSON(path, report); err != nil {
		return err
	}

	zap.L().Info("export: summary written",
		zap.String("path", path),
		zap.Int("customers", report.TotalCustomers),
		zap.Float64("average_score", report.AverageQualityScore),
	)
	return nil
}

// ExportAll writes both artifacts into dir concurrently and returns their
// paths. Either write failing fails the whole export.
func (e *Exporter) ExportAll(customers []model.EnrichedCustomer, dir string) ([]string, error) {
	customersPath := filepath.Join(dir, CustomersFile)
	summaryPath := filepath.Join(dir, SummaryFile)

	var g errgroup.Group
	g.Go(func() error { return e.ExportCustomers(customers, customersPath) })
	g.Go(func() error { return e.ExportSummary(customers, summaryPath) })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return []string{customersPath, summaryPath}, nil
}

func writeJSON(path string, v any) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return eris.Wrapf(err, "export: create directory %s", dir)
		}
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return eris.Wrap(err, "export: marshal")
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "export: write %s", path)
	}
	return nil
}
