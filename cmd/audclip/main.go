// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ik5/audclip"
	"github.com/ik5/audclip/edit"
	"github.com/ik5/audclip/encode"
	"github.com/ik5/audclip/encode/ffmpeg"
	"github.com/ik5/audclip/encode/opus"
	"github.com/ik5/audclip/export"
	"github.com/ik5/audclip/internal/config"
	"github.com/ik5/audclip/internal/pipeline"
	"github.com/ik5/audclip/internal/timecode"
)

// The allocation cap from max_buffer_seconds is sized for this shape.
const (
	limitChannels = 2
	limitRate     = 48000
)

func main() {
	var (
		configFlag  = flag.String("config", "", "Path to config file")
		outputFlag  = flag.String("o", "", "Output file name (extension follows -format)")
		dirFlag     = flag.String("dir", "", "Output directory (overrides config)")
		formatFlag  = flag.String("format", "", "Output format: wav, mp3, webm, opus (overrides config)")
		qualityFlag = flag.String("quality", "", "Lossy quality: high, medium, low (overrides config)")
		titleFlag   = flag.String("title", "", "MP3 title tag (defaults to the output name)")

		startFlag = flag.String("start", "", "Trim start, seconds or mm:ss.mmm")
		endFlag   = flag.String("end", "", "Trim end, seconds or mm:ss.mmm")

		fadeInFlag    = flag.Float64("fade-in", 0, "Fade-in length in seconds")
		fadeOutFlag   = flag.Float64("fade-out", 0, "Fade-out length in seconds")
		normalizeFlag = flag.Bool("normalize", false, "Scale the peak to normalize_target")
		speedFlag     = flag.Float64("speed", 1, "Playback speed factor")
		reverseFlag   = flag.Bool("reverse", false, "Reverse the audio")
		monoFlag      = flag.Bool("mono", false, "Downmix to one channel")
		silenceFlag   = flag.Bool("remove-silence", false, "Cut silent regions")
		thresholdFlag = flag.Float64("silence-threshold", 0, "Silence threshold (overrides config)")
		minSilentFlag = flag.Float64("silence-min", 0, "Shortest silence to cut, in seconds (overrides config)")
		policyFlag    = flag.String("channels", edit.FillSilence.String(), "Merging inputs with different channel counts: fill or reject")

		peaksFlag   = flag.Int("peaks", 0, "Include this many peaks per channel in the report (-1 uses peaks_count)")
		reportFlag  = flag.Bool("report", false, "Print a JSON report of the result instead of exporting")
		verboseFlag = flag.Bool("verbose", false, "Log every step")
	)

	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "audclip - trim, shape and re-encode audio clips")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  audclip [options] <input> [more inputs...]")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintf(os.Stderr, "Inputs: %s\n\n", strings.Join(audclip.Formats(), ", "))
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Apply flags
	if *dirFlag != "" {
		cfg.OutputDir = *dirFlag
	}
	if *formatFlag != "" {
		cfg.DefaultFormat = *formatFlag
	}
	if *qualityFlag != "" {
		cfg.DefaultQuality = *qualityFlag
	}
	if *thresholdFlag > 0 {
		cfg.SilenceThreshold = *thresholdFlag
	}
	if *minSilentFlag > 0 {
		cfg.SilenceMinDuration = *minSilentFlag
	}
	if *verboseFlag {
		cfg.LogLevel = logrus.DebugLevel.String()
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(cfg.Level())

	policy, err := edit.ParseChannelPolicy(*policyFlag)
	if err != nil {
		log.WithError(err).Fatal("invalid -channels")
	}

	edits := pipeline.Edits{
		RemoveSilence: *silenceFlag,
		Silence:       cfg.SilenceOptions(),
		Speed:         *speedFlag,
		Reverse:       *reverseFlag,
		Mono:          *monoFlag,
		FadeIn:        *fadeInFlag,
		FadeOut:       *fadeOutFlag,
	}
	if *normalizeFlag {
		edits.Normalize = cfg.NormalizeTarget
	}
	if edits.TrimStart, err = parseTime(*startFlag); err != nil {
		log.WithError(err).Fatal("invalid -start")
	}
	if edits.TrimEnd, err = parseTime(*endFlag); err != nil {
		log.WithError(err).Fatal("invalid -end")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	alloc := cfg.Allocator(limitChannels, limitRate)
	started := time.Now()

	buf, err := pipeline.Load(alloc, log, policy, flag.Args()...)
	if err != nil {
		log.WithError(err).Fatal("loading input")
	}

	buf, err = pipeline.Apply(alloc, log, buf, edits)
	if err != nil {
		log.WithError(err).Fatal("editing")
	}

	if *reportFlag {
		count := *peaksFlag
		if count < 0 {
			count = cfg.PeaksCount
		}
		opts := cfg.SilenceOptions()

		report, err := pipeline.NewReport(buf, &opts, count)
		if err != nil {
			log.WithError(err).Fatal("building report")
		}
		if _, err := report.WriteTo(os.Stdout); err != nil {
			log.WithError(err).Fatal("writing report")
		}
		return
	}

	exp := export.New(
		export.WithBackend(encode.Opus, opus.Backend{}),
		export.WithBackend(encode.MP3, ffmpeg.Backend{Path: cfg.FFmpegPath}),
		export.WithBackend(encode.WebM, ffmpeg.Backend{Path: cfg.FFmpegPath}),
		export.WithAllocator(alloc),
		export.WithLogger(log),
		export.WithTimeout(time.Duration(cfg.EncodeTimeout)),
	)

	name := *outputFlag
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(flag.Arg(0)), filepath.Ext(flag.Arg(0)))
	}

	path, err := exp.Export(ctx, buf, export.Options{
		Format:  cfg.Format(),
		Quality: cfg.Quality(),
		Name:    name,
		Dir:     cfg.OutputDir,
		Title:   *titleFlag,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "Export cancelled.")
			os.Exit(130)
		}
		os.Exit(1)
	}

	fmt.Printf("%s (%s, %s)\n", path, timecode.Format(buf.Duration()),
		time.Since(started).Round(time.Millisecond))
}

func parseTime(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return timecode.Parse(s)
}
