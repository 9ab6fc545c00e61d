package main

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path"

	"github.com/joho/godotenv"

	"github.com/yumyai/cassis/logger"
	"github.com/yumyai/cassis/pkg/config"
	"github.com/yumyai/cassis/pkg/motiftool"
	"github.com/yumyai/cassis/pkg/pipeline"
	"github.com/yumyai/cassis/pkg/results"
	"github.com/yumyai/cassis/pkg/seqrec"
	"github.com/yumyai/cassis/pkg/store"
	"go.uber.org/zap"

	_ "modernc.org/sqlite"
)

func main() {

	VERSION := "0.1.0"

	// Try load env before the logger so the log level can come from .env
	dotenvErr := godotenv.Load()

	if err := logger.InitLogger(logger.ParseLevel(os.Getenv("CASSIS_LOG_LEVEL"))); err != nil {
		panic(err)
	}

	if dotenvErr != nil {
		logger.Warn("No .env found, using local environment")
	}

	defer logger.Sync() // Make sure that the buffered is flushed.

	opts := config.FromEnv()

	fastaPath := os.Getenv("CASSIS_GENOME_FASTA")
	genesPath := os.Getenv("CASSIS_GENE_TABLE")
	if fastaPath == "" || genesPath == "" {
		logger.Fatal("CASSIS_GENOME_FASTA and CASSIS_GENE_TABLE must be set")
	}

	logger.Info("Start:", zap.String("Version", VERSION))

	record, err := seqrec.LoadRecord(fastaPath, genesPath)
	if err != nil {
		logger.Fatal("Cannot load record", zap.Error(err))
	}
	logger.Info("Record loaded",
		zap.String("record", record.ID), zap.Int("genes", len(record.Genes())))

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		logger.Fatal("Cannot create output directory", zap.Error(err))
	}

	dbPath := os.Getenv("CASSIS_RUN_DB")
	if dbPath == "" {
		dbPath = path.Join(opts.OutputDir, "cassis_runs.db")
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		logger.Fatal("Cannot open run database", zap.Error(err))
	}
	defer db.Close()

	ctx := context.Background()
	runs := store.New(db)
	if err := runs.Init(ctx); err != nil {
		logger.Fatal("Cannot initialize run database", zap.Error(err))
	}
	logger.Info("Open run database on", zap.String("DB_LOC", dbPath))

	// A previous run is only reused when its validity key (record id and
	// thresholds) still matches.
	var previous *results.CassisResults
	raw, err := runs.LoadLatest(ctx, record.ID)
	switch {
	case err == nil:
		previous = results.RegeneratePreviousResults(raw, record, opts)
		if previous != nil {
			logger.Info("Previous results are still valid", zap.String("record", record.ID))
		}
	case errors.Is(err, store.ErrNoPreviousRun):
		logger.Debug("No previous run stored", zap.String("record", record.ID))
	default:
		logger.Fatal("Cannot load previous run", zap.Error(err))
	}

	detector := pipeline.New(
		motiftool.NewMemeCommand(opts.MemeBin, opts.Cpus),
		motiftool.NewFimoCommand(opts.FimoBin),
	)

	res, err := results.RunOnRecord(detector, record, previous, opts)
	if err != nil {
		logger.Fatal("Cluster border detection failed", zap.Error(err))
	}

	payload, err := res.ToJSON(opts)
	if err != nil {
		logger.Fatal("Cannot serialize results", zap.Error(err))
	}

	jsonPath := path.Join(opts.OutputDir, record.Name+"_cassis.json")
	if err := os.WriteFile(jsonPath, payload, 0644); err != nil {
		logger.Fatal("Cannot write results document", zap.Error(err))
	}

	runID, err := runs.SaveRun(ctx, record.ID, opts.MaxPercentage, opts.MaxGapLength, payload)
	if err != nil {
		logger.Fatal("Cannot store run", zap.Error(err))
	}

	logger.Info("Done",
		zap.String("run_id", runID),
		zap.Int("borders", len(res.Borders)),
		zap.Int("promoters", len(res.Promoters)),
		zap.String("results", jsonPath))
}
