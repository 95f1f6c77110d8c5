package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/close-import/internal/contacts"
	"github.com/sells-group/close-import/internal/importer"
	"github.com/sells-group/close-import/internal/report"
	"github.com/sells-group/close-import/pkg/closeio"
)

// runOptions holds the inputs of one import-and-report run.
type runOptions struct {
	InputPath  string
	OutputPath string
	XLSXPath   string
	Window     report.Window
	DryRun     bool
}

// runSummary is what a run did, for logging and tests.
type runSummary struct {
	Import    *importer.Result
	Leads     int
	Qualified int
	Rows      []report.Row
}

// runPipeline parses and imports the contacts, then re-reads every lead from
// Close and writes the state report. Any error stops the run; records created
// before the error stay in Close.
func runPipeline(ctx context.Context, client closeio.Client, opts runOptions) (*runSummary, error) {
	cs, err := contacts.ParseCSV(opts.InputPath)
	if err != nil {
		return nil, err
	}

	res, err := importer.New(client, importer.WithDryRun(opts.DryRun)).Run(ctx, cs)
	if err != nil {
		return nil, err
	}

	leads, err := client.ListLeads(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "report: list leads")
	}

	qualified, err := report.Filter(leads, report.Fields{
		Founded: res.Fields.Founded,
		Revenue: res.Fields.Revenue,
	}, opts.Window)
	if err != nil {
		return nil, err
	}

	zap.L().Info("report: filtered leads",
		zap.Int("leads", len(leads)),
		zap.Int("qualified", len(qualified)),
		zap.Time("start", opts.Window.Start),
		zap.Time("end", opts.Window.End),
	)

	rows := report.Aggregate(qualified)

	if err := report.WriteCSV(rows, opts.OutputPath); err != nil {
		return nil, err
	}
	if opts.XLSXPath != "" {
		if err := report.WriteXLSX(rows, opts.XLSXPath); err != nil {
			return nil, err
		}
	}

	zap.L().Info("report: written",
		zap.String("csv", opts.OutputPath),
		zap.String("xlsx", opts.XLSXPath),
		zap.Int("states", len(rows)),
	)

	return &runSummary{
		Import:    res,
		Leads:     len(leads),
		Qualified: len(qualified),
		Rows:      rows,
	}, nil
}
