package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ammar-qazi/HisaabFlow-sub002/internal/classify"
	"github.com/ammar-qazi/HisaabFlow-sub002/internal/config"
	"github.com/ammar-qazi/HisaabFlow-sub002/internal/ingest"
	"github.com/ammar-qazi/HisaabFlow-sub002/internal/match"
	"github.com/ammar-qazi/HisaabFlow-sub002/internal/model"
	"github.com/ammar-qazi/HisaabFlow-sub002/internal/normalize"
	"github.com/ammar-qazi/HisaabFlow-sub002/internal/overrides"
	"github.com/ammar-qazi/HisaabFlow-sub002/internal/runlog"
)

const configFileName = "hisaabflow.yaml"

type detectOptions struct {
	configPath string
	importDir  string
	identity   string
	tolerance  int
	outPath    string
	logPath    string
	verbose    bool
}

func newDetectCommand() *cobra.Command {
	var opts detectOptions

	cmd := &cobra.Command{
		Use:   "detect [files...]",
		Short: "Detect transfer pairs across statement CSV exports",
		Long: "Detect parses each statement CSV, normalizes rows, classifies transfer\n" +
			"candidates, and pairs outgoing and incoming legs across files. With no file\n" +
			"arguments it scans the import directory.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", configFileName, "path to hisaabflow.yaml")
	cmd.Flags().StringVar(&opts.importDir, "import-dir", "import", "directory scanned when no files are given")
	cmd.Flags().StringVar(&opts.identity, "identity", "", "account holder name (overrides config)")
	cmd.Flags().IntVar(&opts.tolerance, "tolerance-hours", 0, "date tolerance in hours (overrides config)")
	cmd.Flags().StringVar(&opts.outPath, "out", "", "write categorization overrides CSV to this path")
	cmd.Flags().StringVar(&opts.logPath, "log", "", "append a run summary row to this CSV file")
	cmd.Flags().BoolVar(&opts.verbose, "verbose", false, "trace matching decisions to stderr")

	return cmd
}

func runDetect(args []string, opts detectOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	paths := args
	if len(paths) == 0 {
		files, err := ingest.Scan(opts.importDir)
		if err != nil {
			return err
		}
		for _, f := range files {
			paths = append(paths, f.Path)
		}
	}
	if len(paths) == 0 {
		return fmt.Errorf("no statement CSVs given and none found in %s/", opts.importDir)
	}

	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	batches, err := ingest.ReadFiles(paths)
	if err != nil {
		return err
	}

	norm := normalize.New(hintRules(cfg))
	var (
		pool  []model.Transaction
		stats normalize.Stats
	)
	for _, b := range batches {
		txns, s := norm.Batch(b)
		pool = append(pool, txns...)
		stats.Add(s)
		logger.Debug("normalized batch", "file", b.Name, "rows", len(b.Rows))
	}
	pool = classify.Apply(pool)
	logger.Debug("pool normalized",
		"transactions", stats.Rows,
		"date_invalid", stats.DateInvalid,
		"zero_amount", stats.ZeroAmount)

	engine, err := match.NewEngine(match.Options{
		Identity:          cfg.Identity.Name,
		DateTolerance:     time.Duration(cfg.Matching.DateToleranceHours) * time.Hour,
		NameDateTolerance: time.Duration(cfg.Matching.NameDateToleranceHours) * time.Hour,
		Logger:            logger,
	})
	if err != nil {
		return err
	}

	result := engine.Detect(pool)
	if verrs := match.ValidateResult(result); len(verrs) > 0 {
		return fmt.Errorf("detection produced an invalid result: %v", verrs[0])
	}

	printResult(result, len(batches))

	if opts.outPath != "" {
		if err := writeOverrides(opts.outPath, result.Pairs, cfg.Overrides.Category); err != nil {
			return err
		}
		fmt.Printf("Wrote %d overrides to %s\n", 2*len(result.Pairs), opts.outPath)
	}

	if opts.logPath != "" {
		entry := runlog.Entry{
			Timestamp:    time.Now(),
			Files:        len(batches),
			Transactions: result.Summary.Transactions,
			Candidates:   result.Summary.Candidates,
			Pairs:        result.Summary.Pairs,
			Potentials:   result.Summary.Potentials,
			DateInvalid:  result.Summary.DateInvalid,
			ZeroAmount:   result.Summary.ZeroAmount,
		}
		if err := runlog.Append(opts.logPath, entry); err != nil {
			return err
		}
	}

	return nil
}

// loadConfig reads the config file when present, applies flag overrides, and
// validates. A missing default config is fine as long as flags fill the gaps.
func loadConfig(opts detectOptions) (*config.Config, error) {
	cfg := config.Default("")
	loaded, err := config.Load(opts.configPath)
	switch {
	case err == nil:
		cfg = loaded
	case errors.Is(err, fs.ErrNotExist) && opts.configPath == configFileName:
		// fall through to flag overrides
	default:
		return nil, err
	}

	if opts.identity != "" {
		cfg.Identity.Name = opts.identity
	}
	if opts.tolerance > 0 {
		cfg.Matching.DateToleranceHours = opts.tolerance
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func hintRules(cfg *config.Config) []normalize.HintRule {
	var rules []normalize.HintRule
	for _, r := range cfg.BankHints {
		rules = append(rules, normalize.HintRule{
			Match: r.Match,
			Bank:  model.BankHint(r.Bank),
		})
	}
	return rules
}

func writeOverrides(path string, pairs []model.TransferPair, category string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	return overrides.Write(f, overrides.FromPairs(pairs, category))
}

func printResult(result match.Result, files int) {
	s := result.Summary
	fmt.Printf("Considered %d transactions across %d files (%d transfer candidates)\n",
		s.Transactions, files, s.Candidates)

	if len(result.Pairs) > 0 {
		fmt.Printf("\nTransfer pairs (%d):\n", len(result.Pairs))
		for _, p := range result.Pairs {
			fmt.Printf("  %s  %s -> %s  %s  %s  confidence %.2f\n",
				p.PairID[:8], p.Outgoing.ID, p.Incoming.ID,
				p.MatchedAmount.StringFixed(2), p.Strategy, p.Confidence)
		}
	}

	if len(result.Potentials) > 0 {
		fmt.Printf("\nPotential transfers needing review (%d):\n", len(result.Potentials))
		for _, t := range result.Potentials {
			fmt.Printf("  %s  %s  %s\n", t.ID, t.Amount.StringFixed(2), t.Description)
		}
	}

	if s.DateInvalid > 0 || s.ZeroAmount > 0 {
		fmt.Printf("\nSkipped: %d rows with unparsable dates, %d zero-amount rows\n",
			s.DateInvalid, s.ZeroAmount)
	}
}
