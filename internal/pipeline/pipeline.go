package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pfrederiksen/jurisdiction-links/internal/jurisdiction"
	"github.com/pfrederiksen/jurisdiction-links/internal/logger"
	"github.com/pfrederiksen/jurisdiction-links/internal/scraper"
)

// Scraper resolves the links of one jurisdiction
type Scraper interface {
	ScrapeJurisdiction(ctx context.Context, name string) (*scraper.Result, error)
}

// Checkpointer persists the full table
type Checkpointer interface {
	Save(table *jurisdiction.Table) error
}

// Summary counts what happened during a run
type Summary struct {
	Total              int           `json:"total"`
	Processed          int           `json:"processed"`
	FetchFailed        int           `json:"fetch_failed"`
	ParseFailed        int           `json:"parse_failed"`
	RegulatorFound     int           `json:"regulator_found"`
	RegulationFound    int           `json:"regulation_found"`
	RegulationExcluded int           `json:"regulation_excluded"`
	Checkpoints        int           `json:"checkpoints"`
	Elapsed            time.Duration `json:"elapsed"`
	Interrupted        bool          `json:"interrupted,omitempty"`
}

// Runner drives the loop over a table
type Runner struct {
	scraper Scraper
	store   Checkpointer
	now     func() time.Time
}

// New creates a Runner
func New(sc Scraper, store Checkpointer) *Runner {
	return &Runner{
		scraper: sc,
		store:   store,
		now:     time.Now,
	}
}

// Run processes every jurisdiction in table. Per-jurisdiction failures are logged
// and skipped; only checkpoint failures end the run early. When ctx is cancelled
// the loop stops between jurisdictions and Run returns the context error along
// with the summary so far.
func (r *Runner) Run(ctx context.Context, table *jurisdiction.Table) (*Summary, error) {
	start := r.now()
	summary := &Summary{Total: table.Len()}

	for _, name := range table.Names() {
		if ctx.Err() != nil {
			summary.Interrupted = true
			break
		}

		if err := r.process(ctx, table, name, summary); err != nil {
			return summary, err
		}
	}

	// Leave an output file behind even when no jurisdiction produced an update.
	if err := r.checkpoint(table, summary); err != nil {
		return summary, err
	}

	summary.Elapsed = r.now().Sub(start)
	logger.Info("Run complete", logger.Fields{
		"jurisdictions": summary.Total,
		"processed":     summary.Processed,
		"elapsed":       summary.Elapsed.String(),
	})

	if summary.Interrupted {
		return summary, ctx.Err()
	}
	return summary, nil
}

// process scrapes one jurisdiction, merges the results and checkpoints
func (r *Runner) process(ctx context.Context, table *jurisdiction.Table, name string, summary *Summary) error {
	logger.Info("Scraping jurisdiction", logger.Fields{"jurisdiction": name})

	result, err := r.scraper.ScrapeJurisdiction(ctx, name)
	if err != nil {
		if ctx.Err() != nil {
			summary.Interrupted = true
			return nil
		}

		var perr *scraper.ParseError
		if errors.As(err, &perr) {
			summary.ParseFailed++
			logger.Warn("Failed to parse jurisdiction page", logger.Fields{"jurisdiction": name}, err)
		} else {
			summary.FetchFailed++
			logger.Warn("Could not fetch data for jurisdiction", logger.Fields{"jurisdiction": name}, err)
		}
		return nil
	}

	update := merge(result, summary)
	rec, ok := table.Get(name)
	if !ok {
		return fmt.Errorf("updating %s: jurisdiction not found", name)
	}
	if !update.IsEmpty() {
		if rec, err = table.Apply(name, update); err != nil {
			return fmt.Errorf("updating %s: %w", name, err)
		}
	}
	summary.Processed++

	logger.Info("Updated jurisdiction", logger.Fields{
		"jurisdiction":   rec.Name,
		"regulator_url":  rec.RegulatorURL,
		"regulation_url": rec.RegulationURL,
	})

	return r.checkpoint(table, summary)
}

// merge turns the per-field results into a table update, logging every field
// that is left unset
func merge(result *scraper.Result, summary *Summary) jurisdiction.Update {
	var update jurisdiction.Update
	fields := logger.Fields{"jurisdiction": result.Jurisdiction, "url": result.PageURL}

	if result.Regulator.Found() {
		url := result.Regulator.URL
		update.RegulatorURL = &url
		summary.RegulatorFound++
	} else {
		logger.Warn("Could not fetch regulator", fields, result.Regulator.Err)
	}

	switch result.Regulation.Outcome {
	case scraper.OutcomeFound:
		url := result.Regulation.URL
		update.RegulationURL = &url
		summary.RegulationFound++
	case scraper.OutcomeExcluded:
		summary.RegulationExcluded++
		logger.Debug("Skipping state law tracker link", logger.Fields{
			"jurisdiction": result.Jurisdiction,
			"link":         result.Regulation.URL,
		})
	default:
		logger.Warn("Could not fetch regulation", fields, result.Regulation.Err)
	}

	return update
}

func (r *Runner) checkpoint(table *jurisdiction.Table, summary *Summary) error {
	if err := r.store.Save(table); err != nil {
		return fmt.Errorf("saving table: %w", err)
	}
	summary.Checkpoints++
	return nil
}
