// Command doctotext extracts plain text from a PDF, DOCX, or image file
// and writes it to stdout or a file.
//
// An OpenAI API key (flag or OPENAI_API_KEY, optionally via a .env file)
// enables the vision transcriber; without one extraction relies on the
// local Tesseract installation alone.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/wudi/ocrkit/extract"
	"github.com/wudi/ocrkit/observability"
	"github.com/wudi/ocrkit/ocr/tesseract"
	"github.com/wudi/ocrkit/pdf"
	"github.com/wudi/ocrkit/vision"
)

type options struct {
	openaiKey string
	model     string
	policy    string
	dpi       int
	languages []string
	timeout   time.Duration
	output    string
	verbose   bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "doctotext: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "doctotext FILE",
		Short: "Extract plain text from PDF, DOCX, and image files",
		Long: `Extract plain text from a document.

Supported inputs: pdf, docx, png, jpg, jpeg. Digital PDF pages read their
text layer directly; scanned pages and images go through preprocessing,
a Tesseract segmentation sweep, and an optional OpenAI vision pass.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.openaiKey, "openai-key", "",
		"OpenAI API key for vision transcription (default: $OPENAI_API_KEY)")
	cmd.Flags().StringVar(&opts.model, "model", "",
		"vision model name (default: gpt-4o)")
	cmd.Flags().StringVar(&opts.policy, "policy", "length",
		"candidate selection policy: length or confidence")
	cmd.Flags().IntVar(&opts.dpi, "dpi", pdf.DefaultDPI,
		"rasterization resolution for scanned PDF pages")
	cmd.Flags().StringSliceVar(&opts.languages, "lang", nil,
		"recognition language hints, e.g. eng,deu")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 10*time.Minute,
		"overall extraction deadline")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "",
		"write text to this file instead of stdout")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false,
		"log per-strategy progress to stderr")
	return cmd
}

func run(ctx context.Context, path string, opts *options) error {
	// Missing .env is the common case, not an error.
	_ = godotenv.Load()

	log := newLogger(opts.verbose)

	policy, err := parsePolicy(opts.policy)
	if err != nil {
		return err
	}

	svcOpts := []extract.Option{
		extract.WithLogger(log),
		extract.WithConfig(extract.Config{
			Policy:    policy,
			DPI:       opts.dpi,
			Languages: opts.languages,
		}),
	}

	key := opts.openaiKey
	if key == "" {
		key = os.Getenv("OPENAI_API_KEY")
	}
	if key != "" {
		visionOpts := []vision.Option{vision.WithTimeout(opts.timeout)}
		if opts.model != "" {
			visionOpts = append(visionOpts, vision.WithModel(opts.model))
		}
		client, err := vision.New(key, visionOpts...)
		if err != nil {
			return fmt.Errorf("vision client: %w", err)
		}
		svcOpts = append(svcOpts, extract.WithTranscriber(client))
	} else {
		log.Info("no OpenAI API key configured, using local recognition only")
	}

	svc := extract.New(tesseract.New(), svcOpts...)

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	text, err := svc.ExtractText(ctx, data, filepath.Base(path))
	if err != nil {
		return err
	}

	if opts.output != "" {
		return os.WriteFile(opts.output, []byte(text), 0o644)
	}
	_, err = fmt.Println(text)
	return err
}

func parsePolicy(name string) (extract.SelectionPolicy, error) {
	switch name {
	case "length":
		return extract.PolicyLongestText, nil
	case "confidence":
		return extract.PolicyHighestConfidence, nil
	default:
		return 0, fmt.Errorf("unknown selection policy %q (want length or confidence)", name)
	}
}

func newLogger(verbose bool) observability.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zl := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
	return observability.NewZerologLogger(zl)
}
