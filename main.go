package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	av "github.com/Kde29/FinancialAnalysis-AutomobileCompanies/api/alpha_vantage"
	"github.com/Kde29/FinancialAnalysis-AutomobileCompanies/config"
	c "github.com/Kde29/FinancialAnalysis-AutomobileCompanies/core"
	r "github.com/Kde29/FinancialAnalysis-AutomobileCompanies/renderer"
)

func main() {
	// initialize context and signal handler, listen for interrupt and term signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// configuration comes from the environment, seeded from .env when present
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	rc := c.ReportContext{
		Context: ctx,
		Client:  av.GetClient(cfg.ApiKey),
		Config:  cfg,
	}

	report, err := rc.BuildReport()
	if err != nil {
		log.Fatalf("Report run aborted: %v", err)
	}

	markdown, err := r.RenderReport(report)
	if err != nil {
		log.Fatalf("Failed to render report: %v", err)
	}

	if err := r.Write(cfg.Output, markdown); err != nil {
		log.Fatalf("Failed to write %s: %v", cfg.Output, err)
	}
	log.Printf("Report written to %s", cfg.Output)

	if err := r.Display(markdown); err != nil {
		log.Printf("Terminal render skipped: %v", err)
	}
}
