package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/kersley/repogauge/internal/output"
	"github.com/kersley/repogauge/internal/progress"
	"github.com/kersley/repogauge/pkg/analyzer"
	"github.com/kersley/repogauge/pkg/config"
	"github.com/kersley/repogauge/pkg/models"
)

var version = "dev"

// getPath returns the repository path from the first positional arg,
// defaulting to the current directory.
func getPath(c *cli.Context) string {
	if c.Args().Len() > 0 {
		return c.Args().First()
	}
	return "."
}

func main() {
	app := &cli.App{
		Name:    "repogauge",
		Usage:   "Git repository health and maintainability analysis",
		Version: version,
		Description: `Repogauge reads a repository's git history and working tree to produce
commit and author statistics, per-file complexity and maintainability
metrics, structural coupling analysis, and an overall health score.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (TOML, YAML, or JSON)",
				EnvVars: []string{"REPOGAUGE_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "table",
				Usage:   "Output format: table, json, yaml",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write output to file",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose output",
			},
		},
		Commands: []*cli.Command{
			analyzeCmd(),
		},
		DefaultCommand: "analyze",
	}

	if err := app.Run(os.Args); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func analyzeCmd() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Aliases:   []string{"run"},
		Usage:     "Analyze a repository's history, metrics, and health",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Number of file analysis workers (default: min(4, CPUs))",
			},
			&cli.StringFlag{
				Name:  "branch",
				Usage: "Branch to analyze (default: auto-detected)",
			},
			&cli.BoolFlag{
				Name:  "no-filter",
				Usage: "Include every tracked file regardless of extension",
			},
			&cli.BoolFlag{
				Name:  "keep-commits",
				Usage: "Retain the full commit list in JSON/YAML output",
			},
			&cli.IntFlag{
				Name:  "top",
				Value: 10,
				Usage: "Number of rows in the author and file tables",
			},
		},
		Action: runAnalyzeCmd,
	}
}

func runAnalyzeCmd(c *cli.Context) error {
	repoPath, err := filepath.Abs(getPath(c))
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if n := c.Int("workers"); n > 0 {
		cfg.Analysis.Workers = n
	}
	if b := c.String("branch"); b != "" {
		cfg.Analysis.Branch = b
	}
	if c.Bool("no-filter") {
		cfg.Filter.ByExtension = false
	}
	if c.Bool("keep-commits") {
		cfg.Analysis.KeepCommits = true
	}
	cfg.Output.Verbose = cfg.Output.Verbose || c.Bool("verbose")

	format := output.ParseFormat(c.String("format"))
	outFile := c.String("output")
	formatter, err := output.NewFormatter(format, outFile, format == output.FormatTable)
	if err != nil {
		return err
	}
	defer formatter.Close()

	// The bar shares stderr with nothing else; machine formats going to
	// stdout still get one so long runs are not silent.
	tracker := progress.NewTracker("Analyzing repository...", true)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	started := time.Now()
	engine := analyzer.New(repoPath,
		analyzer.WithConfig(cfg),
		analyzer.WithProgress(tracker.Update),
	)
	data, err := engine.AnalyzeWithContext(ctx)
	tracker.FinishSuccess()
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if format != output.FormatTable {
		return formatter.Marshal(data)
	}

	renderReport(formatter, data, c.Int("top"))
	if cfg.Output.Verbose {
		fmt.Fprintf(formatter.Writer(), "Completed in %s\n", time.Since(started).Round(time.Millisecond))
	}
	return nil
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	if path := c.String("config"); path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config %s: %w", path, err)
		}
		return cfg, nil
	}
	return config.LoadOrDefault(), nil
}

func renderReport(f *output.Formatter, data *models.RepositoryData, top int) {
	renderHealth(f, data)
	renderAuthors(f, data, top)
	renderWorstFiles(f, data, top)
	renderHotspots(f, data, top)
	renderCoupling(f, data)
	renderRecommendations(f, data)
}

func renderHealth(f *output.Formatter, data *models.RepositoryData) {
	h := data.Health
	f.Title("Repository Health")

	score := fmt.Sprintf("%.1f / 100", h.QualityScore)
	switch {
	case h.QualityScore >= 80:
		score = color.GreenString(score)
	case h.QualityScore >= 50:
		score = color.YellowString(score)
	default:
		score = color.RedString(score)
	}

	busFactor := fmt.Sprintf("%d", h.BusFactor)
	if h.BusFactor <= 2 {
		busFactor = color.RedString(busFactor)
	}

	f.Table([]string{"Metric", "Value"}, [][]string{
		{"Quality score", score},
		{"Bus factor", busFactor},
		{"Default branch", data.DefaultBranch},
		{"Files", fmt.Sprintf("%d", h.TotalFiles)},
		{"Commits", fmt.Sprintf("%d", h.TotalCommits)},
		{"Authors", fmt.Sprintf("%d", h.TotalAuthors)},
		{"Avg complexity", fmt.Sprintf("%.1f", h.AverageComplexity)},
		{"Avg maintainability", fmt.Sprintf("%.1f", h.AverageMaintainability)},
		{"Large files (>500 lines)", fmt.Sprintf("%d", h.LargeFiles)},
		{"Complex files (CC>20)", fmt.Sprintf("%d", h.ComplexFiles)},
		{"Critical files", fmt.Sprintf("%d", h.CriticalFiles)},
		{"First commit", formatDate(data.FirstCommit)},
		{"Last commit", formatDate(data.LastCommit)},
	})
}

func renderAuthors(f *output.Formatter, data *models.RepositoryData, top int) {
	if len(data.Authors) == 0 {
		return
	}

	authors := make([]*models.AuthorStatistics, 0, len(data.Authors))
	for _, a := range data.Authors {
		authors = append(authors, a)
	}
	sort.Slice(authors, func(i, j int) bool {
		if authors[i].Commits != authors[j].Commits {
			return authors[i].Commits > authors[j].Commits
		}
		return authors[i].Name < authors[j].Name
	})
	if len(authors) > top {
		authors = authors[:top]
	}

	var rows [][]string
	for _, a := range authors {
		rows = append(rows, []string{
			a.Name,
			fmt.Sprintf("%d", a.Commits),
			fmt.Sprintf("+%d/-%d", a.LinesAdded, a.LinesRemoved),
			fmt.Sprintf("%d", a.DaysActive()),
			formatDate(a.LastCommit),
		})
	}

	f.Title(fmt.Sprintf("Top Authors (by commits, top %d)", len(authors)))
	f.Table([]string{"Author", "Commits", "Lines", "Active Days", "Last Commit"}, rows)
}

func renderWorstFiles(f *output.Formatter, data *models.RepositoryData, top int) {
	files := make([]*models.FileStatistics, 0, len(data.Files))
	for _, fs := range data.Files {
		if fs.Metrics.Valid {
			files = append(files, fs)
		}
	}
	if len(files) == 0 {
		return
	}
	sort.Slice(files, func(i, j int) bool {
		if files[i].Metrics.MIRaw != files[j].Metrics.MIRaw {
			return files[i].Metrics.MIRaw < files[j].Metrics.MIRaw
		}
		return files[i].Path < files[j].Path
	})
	if len(files) > top {
		files = files[:top]
	}

	var rows [][]string
	for _, fs := range files {
		mi := fmt.Sprintf("%.1f", fs.Metrics.MI)
		switch fs.Metrics.MIStatus {
		case models.MaintainabilityCritical:
			mi = color.RedString(mi)
		case models.MaintainabilityDifficult:
			mi = color.YellowString(mi)
		}

		cc := fmt.Sprintf("%d", fs.Metrics.Cyclomatic)
		if fs.IsComplex() {
			cc = color.RedString(cc)
		}

		rows = append(rows, []string{
			fs.Path,
			fmt.Sprintf("%d", fs.Metrics.LOC.Physical),
			cc,
			mi,
			string(fs.Metrics.MIStatus),
			fmt.Sprintf("%d", fs.Revisions),
		})
	}

	f.Title(fmt.Sprintf("Least Maintainable Files (top %d)", len(files)))
	f.Table([]string{"File", "Lines", "Complexity", "MI", "Status", "Revisions"}, rows)
}

func renderHotspots(f *output.Formatter, data *models.RepositoryData, top int) {
	r := data.Hotspots
	if r == nil || len(r.Hotspots) == 0 {
		return
	}

	spots := r.Top(top)
	var rows [][]string
	for _, h := range spots {
		risk := fmt.Sprintf("%.1f", h.RiskScore)
		switch h.Risk {
		case models.RiskCritical:
			risk = color.RedString(risk)
		case models.RiskHigh:
			risk = color.YellowString(risk)
		}

		coupled := "-"
		if len(h.CoupledFiles) > 0 {
			coupled = fmt.Sprintf("%d", len(h.CoupledFiles))
		}

		rows = append(rows, []string{
			h.Path,
			fmt.Sprintf("%d", h.Revisions),
			fmt.Sprintf("%.0f", h.ChurnScore),
			fmt.Sprintf("%.0f", h.ComplexityScore),
			coupled,
			risk,
			string(h.Risk),
		})
	}

	f.Title(fmt.Sprintf("Change Hotspots (by risk, top %d)", len(spots)))
	f.Table([]string{"File", "Revisions", "Churn", "Complexity", "Coupled", "Risk", "Level"}, rows)
}

func renderCoupling(f *output.Formatter, data *models.RepositoryData) {
	r := data.Coupling
	if r == nil || len(r.Files) == 0 {
		return
	}

	pain := fmt.Sprintf("%d", r.InZoneOfPain())
	if r.InZoneOfPain() > 0 {
		pain = color.RedString(pain)
	}

	f.Title("Structural Coupling")
	f.Table([]string{"Metric", "Value"}, [][]string{
		{"Analyzed files", fmt.Sprintf("%d", len(r.Files))},
		{"Avg distance from main sequence", fmt.Sprintf("%.2f", r.AverageDistance)},
		{"Zone of pain", pain},
		{"Zone of uselessness", fmt.Sprintf("%d", r.InZoneOfUselessness())},
	})
}

func renderRecommendations(f *output.Formatter, data *models.RepositoryData) {
	recs := append([]string{}, data.Health.Recommendations...)
	if data.Coupling != nil {
		recs = append(recs, data.Coupling.Recommendations...)
	}
	if len(recs) == 0 {
		color.Green("No recommendations. Repository looks healthy.")
		return
	}

	color.Yellow("Recommendations (%d):", len(recs))
	for _, r := range recs {
		fmt.Fprintf(f.Writer(), "  - %s\n", r)
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}
