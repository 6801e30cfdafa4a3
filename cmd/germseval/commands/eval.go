package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"germseval/pkg/cache"
	"germseval/pkg/core"
	"germseval/pkg/dataset"
	"germseval/pkg/harness"
	"germseval/pkg/model"
	"germseval/pkg/normalize"
	"germseval/pkg/reporter"
	"germseval/pkg/runlog"
	"germseval/pkg/runner"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newEvalCommand() *cobra.Command {
	var (
		datasetPath      string
		annotatedPath    string
		goldStrategy     string
		predictionsPath  string
		predictionSource string
		workers          int
		outputPath       string
		format           string
		modelName        string
		mockResponse     string
		provider         string
		fewshotCount     int
		rateLimitRPS     float64
		rateLimitBurst   int
		promptTemplate   string
		logDir           string
		logFormat        string
		label            string
		threshold        float64
		affirmative      []string
		negative         []string
		temperature      float64
		maxTokens        int
		topP             float64
		cacheEnabled     bool
		cacheDir         string
	)

	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Evaluate one methodology against the gold labels",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := buildDataset(
				resolveString(datasetPath, appConfig.Dataset),
				resolveString(annotatedPath, appConfig.Annotated),
				resolveString(goldStrategy, appConfig.GoldStrategy),
			)
			if err != nil {
				return err
			}

			formatResolved := resolveString(format, appConfig.Format)
			if formatResolved == "" {
				formatResolved = reporter.FormatTable
			}
			outputResolved := resolveString(outputPath, appConfig.Output)
			labelResolved := resolveString(label, appConfig.Label)
			logDirResolved := resolveString(logDir, appConfig.LogDir)
			logFormatResolved := resolveString(logFormat, appConfig.LogFormat)
			if logFormatResolved == "" {
				logFormatResolved = "json"
			}
			workerCount := resolveInt(workers, appConfig.Workers, 1)

			norm := buildNormalizer(threshold, affirmative, negative)

			predictionsResolved := resolveString(predictionsPath, appConfig.Predictions)
			providerResolved := resolveString(provider, appConfig.Provider)
			if providerResolved == "" && predictionsResolved == "" {
				providerResolved = "mock"
			}

			run, err := buildRunner(runnerInputs{
				predictionsPath:  predictionsResolved,
				predictionSource: predictionSource,
				provider:         providerResolved,
				modelName:        resolveString(modelName, appConfig.Model.Name),
				mockResponse:     resolveString(mockResponse, appConfig.Model.MockResponse),
				fewshotCount:     fewshotCount,
				promptTemplate:   promptTemplate,
				cacheEnabled:     cacheEnabled || appConfig.Cache.Enabled,
				cacheDir:         resolveString(cacheDir, appConfig.Cache.Dir),
				cacheTTLHours:    appConfig.Cache.TTLHours,
				options: core.GenerateOptions{
					Temperature: float32(temperature),
					MaxTokens:   maxTokens,
					TopP:        float32(topP),
				},
				dataset: ds,
			})
			if err != nil {
				return err
			}

			var rateLimiter core.RateLimiter
			if rateLimitRPS > 0 {
				limiter, stop, err := core.NewRateLimiter(rateLimitRPS, rateLimitBurst)
				if err != nil {
					return err
				}
				rateLimiter = limiter
				defer stop()
			}

			totalExamples := 0
			if count, err := ds.Len(context.Background()); err == nil {
				totalExamples = count
			}
			progress := newProgressBar(progressWriter(cmd), totalExamples)
			progress.Update(0)

			h := harness.Harness{
				Dataset:       ds,
				Runner:        run,
				Normalizer:    norm,
				Workers:       workerCount,
				RateLimiter:   rateLimiter,
				TotalExamples: totalExamples,
				Label:         labelResolved,
				Progress: func(completed, total int) {
					progress.Update(completed)
				},
			}

			report, err := h.Run(context.Background())
			if err != nil {
				return err
			}
			if report.Metadata == nil {
				report.Metadata = map[string]string{}
			}
			if providerResolved != "" {
				report.Metadata["provider"] = providerResolved
			}
			report.Metadata["threshold"] = fmt.Sprintf("%.4f", norm.Threshold())

			logger.Info("run complete",
				zap.String("run", report.Label),
				zap.Int("examples", report.Counts.Total()),
				zap.Float64("f1", report.Metrics.F1),
				zap.Float64("accuracy", report.Metrics.Accuracy),
			)

			writer := os.Stdout
			if outputResolved != "" {
				file, err := os.Create(outputResolved)
				if err != nil {
					return err
				}
				defer file.Close()
				writer = file
			}

			rep, err := reporter.New(formatResolved, writer)
			if err != nil {
				return err
			}
			if err := rep.Report(report); err != nil {
				return err
			}

			if logFormatResolved != "none" {
				if logDirResolved == "" {
					logDirResolved = "./runs"
				}
				if err := writeRunLog(logFormatResolved, logDirResolved, report); err != nil {
					return err
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&datasetPath, "dataset", "", "path to labelled dataset (json or jsonl)")
	cmd.Flags().StringVar(&annotatedPath, "annotated", "", "path to raw annotated dataset (jsonl with per-annotator labels)")
	cmd.Flags().StringVar(&goldStrategy, "gold-strategy", "", "gold aggregation for annotated data (majority, one, all)")
	cmd.Flags().StringVar(&predictionsPath, "predictions", "", "path to precomputed predictions (jsonl); skips any model call")
	cmd.Flags().StringVar(&predictionSource, "prediction-source", "classifier_score", "source kind for prediction records without one (classifier_score, llm_text)")
	cmd.Flags().IntVar(&workers, "workers", 0, "number of workers")
	cmd.Flags().StringVar(&outputPath, "output", "", "output file path")
	cmd.Flags().StringVar(&format, "format", "", "output format (table, json, html, markdown, csv)")
	cmd.Flags().StringVar(&modelName, "model", "", "model name")
	cmd.Flags().StringVar(&mockResponse, "mock-response", "", "fixed mock response")
	cmd.Flags().StringVar(&provider, "provider", "", "model provider (mock, openai, anthropic, gemini, ollama)")
	cmd.Flags().IntVar(&fewshotCount, "fewshot", 0, "number of few-shot examples taken from the dataset")
	cmd.Flags().Float64Var(&rateLimitRPS, "rate-limit-rps", 0, "max requests per second (0 = unlimited)")
	cmd.Flags().IntVar(&rateLimitBurst, "rate-limit-burst", 1, "rate limit burst size")
	cmd.Flags().StringVar(&promptTemplate, "prompt-template", "", "prompt template with {{text}} placeholder")
	cmd.Flags().StringVar(&logDir, "log-dir", "", "directory for run logs")
	cmd.Flags().StringVar(&logFormat, "log-format", "", "run log format (json, archive, none)")
	cmd.Flags().StringVar(&label, "label", "", "run label used in comparisons")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "classifier decision boundary (0 = default 0.5)")
	cmd.Flags().StringSliceVar(&affirmative, "affirmative-marker", nil, "override affirmative verdict markers")
	cmd.Flags().StringSliceVar(&negative, "negative-marker", nil, "override negative verdict markers")
	cmd.Flags().Float64Var(&temperature, "temperature", 0, "model temperature (0 = default)")
	cmd.Flags().IntVar(&maxTokens, "max-tokens", 0, "max completion tokens (0 = provider default)")
	cmd.Flags().Float64Var(&topP, "top-p", 0, "nucleus sampling top-p (0 = default)")
	cmd.Flags().BoolVar(&cacheEnabled, "cache", false, "cache model completions on disk")
	cmd.Flags().StringVar(&cacheDir, "cache-dir", "", "completion cache directory")

	return cmd
}

func buildDataset(path, annotatedPath, goldStrategy string) (core.Dataset, error) {
	switch {
	case annotatedPath != "":
		strategy := dataset.GoldStrategy(goldStrategy)
		if strategy == "" {
			strategy = dataset.GoldMajority
		}
		return dataset.LoadAnnotated(annotatedPath, strategy)
	case path != "":
		return dataset.NewFileDataset(path), nil
	default:
		return nil, errors.New("dataset path is required (--dataset or --annotated)")
	}
}

func buildNormalizer(threshold float64, affirmative, negative []string) *normalize.Normalizer {
	var opts []normalize.Option
	if threshold > 0 {
		opts = append(opts, normalize.WithThreshold(threshold))
	} else if appConfig.Normalize.Threshold > 0 {
		opts = append(opts, normalize.WithThreshold(appConfig.Normalize.Threshold))
	}
	if len(affirmative) == 0 {
		affirmative = appConfig.Normalize.AffirmativeMarkers
	}
	if len(affirmative) > 0 {
		opts = append(opts, normalize.WithAffirmativeMarkers(affirmative...))
	}
	if len(negative) == 0 {
		negative = appConfig.Normalize.NegativeMarkers
	}
	if len(negative) > 0 {
		opts = append(opts, normalize.WithNegativeMarkers(negative...))
	}
	return normalize.New(opts...)
}

type runnerInputs struct {
	predictionsPath  string
	predictionSource string
	provider         string
	modelName        string
	mockResponse     string
	fewshotCount     int
	promptTemplate   string
	cacheEnabled     bool
	cacheDir         string
	cacheTTLHours    int
	options          core.GenerateOptions
	dataset          core.Dataset
}

func buildRunner(in runnerInputs) (core.Runner, error) {
	if in.predictionsPath != "" {
		raws, err := dataset.LoadPredictions(in.predictionsPath, core.SourceKind(in.predictionSource))
		if err != nil {
			return nil, err
		}
		predictions := make(map[string]core.RawPrediction, len(raws))
		for _, raw := range raws {
			if _, ok := predictions[raw.ID]; ok {
				return nil, fmt.Errorf("predictions: duplicate id %q in %s", raw.ID, in.predictionsPath)
			}
			predictions[raw.ID] = raw
		}
		return runner.NewStatic("static", predictions), nil
	}

	evalModel, err := buildModel(in.provider, in.modelName, in.mockResponse)
	if err != nil {
		return nil, err
	}
	if in.cacheEnabled {
		ttl := time.Duration(in.cacheTTLHours) * time.Hour
		store, err := cache.New(in.cacheDir, ttl)
		if err != nil {
			return nil, err
		}
		evalModel = model.CachedModel{Model: evalModel, Cache: store}
	}

	if in.fewshotCount > 0 {
		shots, err := loadShots(context.Background(), in.dataset, in.fewshotCount)
		if err != nil {
			return nil, err
		}
		return runner.FewShot{
			Model:          evalModel,
			Options:        in.options,
			Selector:       shots,
			PromptTemplate: in.promptTemplate,
		}, nil
	}
	return runner.ZeroShot{
		Model:          evalModel,
		Options:        in.options,
		PromptTemplate: in.promptTemplate,
	}, nil
}

func buildModel(provider, modelName, mockResponse string) (core.Model, error) {
	switch provider {
	case "mock":
		return model.MockModel{NameValue: modelName, ResponseText: mockResponse}, nil
	case "openai":
		m, err := model.NewOpenAIModelFromEnv(modelName)
		if err != nil {
			return nil, err
		}
		cfg := appConfig.OpenAI
		if cfg.Model != "" && modelName == "" {
			m.Model = cfg.Model
		}
		if cfg.TimeoutSeconds > 0 {
			m.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
		}
		if cfg.MaxRetries > 0 {
			m.MaxRetries = cfg.MaxRetries
		}
		if cfg.BackoffMillis > 0 {
			m.Backoff = time.Duration(cfg.BackoffMillis) * time.Millisecond
		}
		return m, nil
	case "anthropic":
		m, err := model.NewAnthropicModelFromEnv(modelName)
		if err != nil {
			return nil, err
		}
		cfg := appConfig.Anthropic
		if cfg.Model != "" && modelName == "" {
			m.Model = cfg.Model
		}
		if cfg.TimeoutSeconds > 0 {
			m.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
		}
		if cfg.MaxRetries > 0 {
			m.MaxRetries = cfg.MaxRetries
		}
		if cfg.BackoffMillis > 0 {
			m.Backoff = time.Duration(cfg.BackoffMillis) * time.Millisecond
		}
		if cfg.MaxTokens > 0 {
			m.MaxTokens = cfg.MaxTokens
		}
		return m, nil
	case "gemini":
		m, err := model.NewGeminiModelFromEnv(modelName)
		if err != nil {
			return nil, err
		}
		cfg := appConfig.Gemini
		if cfg.Model != "" && modelName == "" {
			m.Model = cfg.Model
		}
		if cfg.TimeoutSeconds > 0 {
			m.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
		}
		if cfg.MaxRetries > 0 {
			m.MaxRetries = cfg.MaxRetries
		}
		if cfg.BackoffMillis > 0 {
			m.Backoff = time.Duration(cfg.BackoffMillis) * time.Millisecond
		}
		return m, nil
	case "ollama":
		cfg := appConfig.Ollama
		name := modelName
		if name == "" {
			name = cfg.Model
		}
		m, err := model.NewOllamaModel(cfg.BaseURL, name)
		if err != nil {
			return nil, err
		}
		if cfg.TimeoutSeconds > 0 {
			m.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
		}
		if cfg.MaxRetries > 0 {
			m.MaxRetries = cfg.MaxRetries
		}
		if cfg.BackoffMillis > 0 {
			m.Backoff = time.Duration(cfg.BackoffMillis) * time.Millisecond
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
}

// loadShots takes the first count labelled examples from the dataset as
// static in-prompt shots.
func loadShots(ctx context.Context, ds core.Dataset, count int) (runner.StaticShots, error) {
	examples, err := dataset.Collect(ctx, ds)
	if err != nil {
		return nil, err
	}
	if len(examples) == 0 {
		return nil, errors.New("fewshot: dataset returned no examples")
	}
	if count > len(examples) {
		count = len(examples)
	}
	shots := make(runner.StaticShots, 0, count)
	for _, example := range examples[:count] {
		shots = append(shots, runner.Shot{Text: example.Text, Sexist: example.GoldLabel})
	}
	return shots, nil
}

func writeRunLog(format, logDir string, report core.RunReport) error {
	log := runlog.FromRun(report)
	switch format {
	case "json":
		_, err := runlog.WriteJSON(logDir, log)
		return err
	case "archive", "zip":
		_, err := runlog.WriteArchive(logDir, log)
		return err
	case "none":
		return nil
	default:
		return fmt.Errorf("unknown log format: %s", format)
	}
}

type progressBar struct {
	writer io.Writer
	total  int
	start  time.Time
	isTTY  bool
}

func newProgressBar(writer io.Writer, total int) *progressBar {
	return &progressBar{
		writer: writer,
		total:  total,
		start:  time.Now(),
		isTTY:  isTerminal(writer),
	}
}

func (p *progressBar) Update(completed int) {
	width := 30
	if p.total <= 0 {
		elapsed := time.Since(p.start).Truncate(time.Second)
		if p.isTTY {
			fmt.Fprintf(p.writer, "\rProcessed %d examples (%s)", completed, elapsed)
		} else {
			fmt.Fprintf(p.writer, "Processed %d examples (%s)\n", completed, elapsed)
		}
		return
	}

	ratio := float64(completed) / float64(p.total)
	if ratio > 1 {
		ratio = 1
	}
	filled := int(ratio * float64(width))

	bar := strings.Repeat("=", filled) + strings.Repeat(".", width-filled)
	percent := int(ratio * 100)
	elapsed := time.Since(p.start).Truncate(time.Second)

	barStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("62"))
	line := fmt.Sprintf("[%s] %3d%% (%d/%d) %s", barStyle.Render(bar), percent, completed, p.total, elapsed)
	if p.isTTY {
		fmt.Fprintf(p.writer, "\r%s", line)
	} else {
		fmt.Fprintf(p.writer, "%s\n", line)
	}

	if completed >= p.total {
		fmt.Fprintln(p.writer)
	}
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func progressWriter(cmd *cobra.Command) io.Writer {
	stderr := cmd.ErrOrStderr()
	stdout := cmd.OutOrStdout()

	if isTerminal(stderr) {
		return stderr
	}
	if isTerminal(stdout) {
		return stdout
	}
	return stderr
}

func resolveString(value string, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}

func resolveInt(value int, fallback int, defaultValue int) int {
	if value > 0 {
		return value
	}
	if fallback > 0 {
		return fallback
	}
	return defaultValue
}
