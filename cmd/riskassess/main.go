package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/recoverly/riskcore/internal/config"
	"github.com/recoverly/riskcore/internal/domain/patient"
	"github.com/recoverly/riskcore/internal/domain/protocol"
	"github.com/recoverly/riskcore/internal/engine"
	"github.com/recoverly/riskcore/pkg/logger"
	"github.com/recoverly/riskcore/pkg/metrics"
	"github.com/recoverly/riskcore/pkg/tracer"
)

// riskassess reads one patient document (JSON) from a file argument or
// stdin, runs a risk assessment against the built-in protocols, and
// writes the assessment JSON to stdout.
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "riskassess:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	tp, err := tracer.Init(cfg.Tracing)
	if err != nil {
		return err
	}
	ctx := context.Background()
	defer tp.Shutdown(ctx) //nolint:errcheck

	collector := metrics.NewCollector(cfg.App.Name, prometheus.DefaultRegisterer)

	eng := engine.New(log, collector, cfg.Engine.HistoryLimit)
	eng.RegisterProtocol(protocol.KneeReplacement())
	eng.RegisterProtocol(protocol.AbdominalSurgery())

	data, err := readInput()
	if err != nil {
		return err
	}

	var pat patient.Patient
	if err := json.Unmarshal(data, &pat); err != nil {
		return fmt.Errorf("parsing patient document: %w", err)
	}

	result, err := eng.AssessPatientRisk(ctx, &pat)
	if err != nil {
		return err
	}

	log.Info("assessment complete",
		zap.String("patient_id", pat.ID),
		zap.String("risk_level", string(result.OverallRiskLevel)),
	)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func readInput() ([]byte, error) {
	if len(os.Args) > 1 && os.Args[1] != "-" {
		return os.ReadFile(os.Args[1])
	}
	return io.ReadAll(os.Stdin)
}
