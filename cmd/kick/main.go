package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/RyanBlaney/sonido-kick/algorithms/beat"
	"github.com/RyanBlaney/sonido-kick/kick"
	"github.com/RyanBlaney/sonido-kick/logging"
	"github.com/RyanBlaney/sonido-kick/transcode"
)

// logLevelEnv overrides the log level when -v is not given.
const logLevelEnv = "KICK_LOG_LEVEL"

var errUsage = errors.New("usage")

type options struct {
	configFile   string
	outFile      string
	selection    string
	keepFraction float64
	filterMode   string
	dumpFiltered string
	verbose      bool
	inFile       string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	switch {
	case err == nil:
	case errors.Is(err, flag.ErrHelp):
	case errors.Is(err, errUsage):
		os.Exit(2)
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		return err
	}

	if err := configureLogging(opts.verbose, stderr); err != nil {
		return err
	}

	config, err := loadConfig(opts)
	if err != nil {
		return err
	}

	analyzer, err := kick.NewAnalyzer(config)
	if err != nil {
		return err
	}

	ctx = logging.ContextWithFields(ctx, logging.Fields{"file": opts.inFile})
	start := time.Now()

	data, err := analyzer.Transcoder().DecodeFile(ctx, opts.inFile)
	if err != nil {
		return err
	}

	pcm := beat.NewPCMBuffer(data.Left, data.Right)
	analysis, err := analyzer.Analyze(ctx, pcm, data.SampleRate)
	if err != nil {
		return err
	}
	analysis.Source = opts.inFile

	if opts.dumpFiltered != "" {
		if err := dumpFiltered(analyzer, pcm, data.SampleRate, opts.dumpFiltered); err != nil {
			return err
		}
	}

	out, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}

	if opts.outFile == "-" {
		_, err = fmt.Fprintln(stdout, string(out))
		return err
	}
	if err := os.WriteFile(opts.outFile, out, 0o644); err != nil {
		return fmt.Errorf("writing result: %w", err)
	}

	fmt.Fprintf(stdout, "%s: %d BPM (confidence %.2f, %d peaks) in %v -> %s\n",
		opts.inFile, analysis.Tempo, analysis.Confidence, len(analysis.Peaks),
		time.Since(start).Round(time.Millisecond), opts.outFile)
	return nil
}

func parseArgs(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}

	fs := flag.NewFlagSet("kick", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprintln(stderr, usage()) }

	fs.StringVar(&opts.configFile, "config", "", "")
	fs.StringVar(&opts.outFile, "o", "", "")
	fs.StringVar(&opts.selection, "select", "", "")
	fs.Float64Var(&opts.keepFraction, "keep", 0, "")
	fs.StringVar(&opts.filterMode, "filter", "", "")
	fs.StringVar(&opts.dumpFiltered, "dump-filtered", "", "")
	fs.BoolVar(&opts.verbose, "v", false, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "Error: audio file name required")
		fs.Usage()
		return nil, errUsage
	}

	opts.inFile = fs.Arg(0)
	if opts.outFile == "" {
		opts.outFile = outputName(opts.inFile)
	}
	return opts, nil
}

// loadConfig applies command line overrides on top of the config file.
func loadConfig(opts *options) (*kick.AnalyzerConfig, error) {
	config := kick.DefaultAnalyzerConfig()
	if opts.configFile != "" {
		var err error
		if config, err = kick.LoadConfig(opts.configFile); err != nil {
			return nil, err
		}
	}

	if opts.selection != "" {
		config.Selection = opts.selection
	}
	if opts.keepFraction != 0 {
		config.KeepFraction = opts.keepFraction
	}
	if opts.filterMode != "" {
		config.FilterMode = kick.FilterMode(opts.filterMode)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func configureLogging(verbose bool, stderr io.Writer) error {
	level := logging.WarnLevel
	if env := os.Getenv(logLevelEnv); env != "" {
		parsed, err := logging.ParseLevel(env)
		if err != nil {
			return fmt.Errorf("%s: %w", logLevelEnv, err)
		}
		level = parsed
	}
	if verbose {
		level = logging.DebugLevel
	}

	// Logs go to stderr so "-o -" output stays clean.
	logger := logging.NewDefaultLoggerWithWriters(stderr, stderr)
	logger.SetLevel(level)
	logging.SetGlobalLogger(logger)
	return nil
}

func dumpFiltered(analyzer *kick.Analyzer, pcm beat.PCMBuffer, sampleRate int, path string) error {
	filtered, err := analyzer.Filter(pcm, sampleRate)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	return transcode.EncodeWAV(f, &transcode.AudioData{
		Left:       filtered.Left,
		Right:      filtered.Right,
		SampleRate: sampleRate,
	})
}

// outputName replaces the extension of inFile with .beat.json.
func outputName(inFile string) string {
	return strings.TrimSuffix(inFile, filepath.Ext(inFile)) + ".beat.json"
}

func usage() string {
	return fmt.Sprintf(usageFormat, strings.Join(transcode.DefaultRegistry().Formats(), ", "))
}

const usageFormat = `use: kick [-config <file>] [-select all|loudest] [-keep fraction]
            [-filter none|biquad|fft] [-dump-filtered <wav file>] [-v]
            [-o <out file>] <audio file> or
     kick -h
where
    -h displays this help

    <audio file> is an audio file with one of the extensions: %s

    -config <file>: Optional. JSON analyzer configuration.

    -select all|loudest: Optional. Keep every window peak or only the
               loudest ones. Default: all

    -keep fraction: Optional. Share of peaks kept by -select loudest.
               Default: 0.5

    -filter none|biquad|fft: Optional. Kick band filter. Default: biquad

    -dump-filtered <wav file>: Optional. Write the filtered audio.

    -v: Optional. Debug logging. The level can also be set with
               KICK_LOG_LEVEL.

    -o <out file>: Optional. "-" writes to stdout.
               Default <audio file>.beat.json`
