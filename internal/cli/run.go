package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/alnah/yt-transcript/internal/clean"
	"github.com/alnah/yt-transcript/internal/config"
	"github.com/alnah/yt-transcript/internal/store"
	"github.com/alnah/yt-transcript/internal/usage"
	"github.com/alnah/yt-transcript/internal/youtube"
)

// run executes one invocation: resolve the video, fetch its transcript,
// clean it (unless --raw), write outputs, and report usage.
func run(ctx context.Context, env *Env, urlOrID string, flags runFlags) error {
	cfg, err := env.ConfigLoader.Load()
	if err != nil {
		return err
	}
	if flags.chunkSizeSet {
		if flags.chunkSize <= 0 {
			return fmt.Errorf("%w: got %d", config.ErrInvalidChunkSize, flags.chunkSize)
		}
		cfg.ChunkSize = flags.chunkSize
	}
	if flags.outputDirSet {
		cfg.OutputDir = config.ExpandPath(flags.outputDir)
	}

	needsModel := !flags.raw || flags.explain || flags.summary || flags.tldr
	if needsModel && cfg.APIKey == "" {
		return fmt.Errorf("%w (set your API key, or use --raw to skip model processing)", ErrAPIKeyMissing)
	}

	videoID, err := youtube.ExtractVideoID(urlOrID)
	if err != nil {
		return err
	}

	title, err := env.VideoSource.Title(ctx, videoID)
	if err != nil {
		return fmt.Errorf("fetching video title: %w", err)
	}
	fmt.Fprintf(env.Stdout, "Video: %s\n\n", title)

	// A prior partial run supplies the raw text it was chunked from, the
	// resume index, and the cleaned prefix persisted when it failed.
	var prior *store.PartialRun
	var state RunState
	defer func() {
		if state != nil {
			_ = state.Close()
		}
	}()
	openState := func() (RunState, error) {
		if state != nil {
			return state, nil
		}
		path, err := env.StatePath()
		if err != nil {
			return nil, err
		}
		state, err = env.StateOpener.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening resume state: %w", err)
		}
		return state, nil
	}

	if flags.resume {
		st, err := openState()
		if err != nil {
			return err
		}
		saved, ok, err := st.LoadPartial(videoID)
		if err != nil {
			return err
		}
		if ok {
			prior = &saved
		} else {
			fmt.Fprintln(env.Stderr, "No saved partial run for this video; starting from the beginning.")
		}
	}

	var raw string
	if prior != nil {
		// Re-chunking the identical raw text keeps segment boundaries
		// stable, which the resume index depends on.
		raw = prior.RawText
	} else {
		raw, err = env.VideoSource.Transcript(ctx, videoID)
		if err != nil {
			return fmt.Errorf("fetching transcript: %w", err)
		}
	}

	ledger := usage.NewLedger(cfg.Pricing)
	var pipe *clean.Pipeline
	if needsModel {
		invoker := env.InvokerFactory.NewInvoker(cfg, ledger)
		pipe = clean.NewPipeline(invoker, clean.WithProgress(cleanProgress(env.Stderr)))
	}

	document := raw
	if !flags.raw {
		resumeFrom := 0
		prefix := ""
		chunkSize := cfg.ChunkSize
		if prior != nil {
			resumeFrom = prior.Completed
			prefix = prior.Document
			// The resume index counts segments of the original chunking, so
			// the saved chunk size wins over the current setting. A different
			// size would shift every segment boundary and splice the cleaned
			// prefix over the wrong words.
			if prior.ChunkSize > 0 {
				if prior.ChunkSize != chunkSize {
					fmt.Fprintf(env.Stderr, "Resuming with the original chunk size of %d words.\n", prior.ChunkSize)
				}
				chunkSize = prior.ChunkSize
			}
			fmt.Fprintf(env.Stderr, "Resuming cleanup from segment %d of %d...\n", resumeFrom+1, prior.Total)
		} else {
			fmt.Fprintln(env.Stderr, "Cleaning transcript...")
		}

		outcome, err := pipe.Clean(ctx, raw, chunkSize, resumeFrom)
		if err != nil {
			printUsage(env, ledger, needsModel)
			return err
		}

		if !outcome.Complete() {
			partial := store.PartialRun{
				VideoID:   videoID,
				Title:     title,
				RawText:   raw,
				ChunkSize: chunkSize,
				Completed: outcome.Completed,
				Total:     outcome.Total,
				Document:  spliceDocument(prefix, outcome, resumeFrom),
			}
			if st, err := openState(); err != nil {
				fmt.Fprintf(env.Stderr, "Warning: cannot persist partial run: %v\n", err)
			} else if err := st.SavePartial(partial); err != nil {
				fmt.Fprintf(env.Stderr, "Warning: cannot persist partial run: %v\n", err)
			}

			fmt.Fprintf(env.Stderr, "Cleaned %d of %d segments before the model service failed.\n",
				outcome.Completed, outcome.Total)
			fmt.Fprintf(env.Stderr, "Re-run with --resume to continue from segment %d.\n",
				outcome.ResumeIndex()+1)
			printUsage(env, ledger, needsModel)
			return fmt.Errorf("cleanup incomplete (%d of %d segments): %w",
				outcome.Completed, outcome.Total, outcome.Cause)
		}

		document = spliceDocument(prefix, outcome, resumeFrom)

		// The run finished; stale resume state would shadow future runs.
		if prior != nil {
			if st, err := openState(); err == nil {
				_ = st.Delete(videoID)
			}
		}
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o750); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	base := sanitizeFilename(title)
	if base == "" {
		base = strings.ToLower(videoID)
	}

	if err := saveAndPrint(env.Stdout, filepath.Join(cfg.OutputDir, base+".md"), document, "Transcript"); err != nil {
		return err
	}

	derivedErr := runDerived(ctx, env, pipe, cfg, flags, document, base)

	printUsage(env, ledger, needsModel)
	return derivedErr
}

// runDerived generates the requested derived outputs concurrently. Each
// failure is reported and scoped to its own output; the first one is
// returned so the process exits non-zero.
func runDerived(ctx context.Context, env *Env, pipe *clean.Pipeline, cfg config.Config, flags runFlags, document, base string) error {
	jobs := []struct {
		enabled bool
		label   string
		suffix  string
		fn      func(context.Context, string) (string, error)
	}{
		{flags.explain, "Explanation", "-explained", pipe.Explain},
		{flags.summary, "Summary", "-summary", pipe.Summarize},
		{flags.tldr, "TLDR", "-tldr", pipe.TLDR},
	}

	texts := make([]string, len(jobs))
	errs := make([]error, len(jobs))

	var g errgroup.Group
	for i, job := range jobs {
		if !job.enabled {
			continue
		}
		fmt.Fprintf(env.Stderr, "Generating %s...\n", strings.ToLower(job.label))
		g.Go(func() error {
			texts[i], errs[i] = job.fn(ctx, document)
			return nil
		})
	}
	_ = g.Wait()

	var firstErr error
	for i, job := range jobs {
		if !job.enabled {
			continue
		}
		if errs[i] != nil {
			fmt.Fprintf(env.Stderr, "%s failed: %v\n", job.label, errs[i])
			if firstErr == nil {
				firstErr = errs[i]
			}
			continue
		}
		path := filepath.Join(cfg.OutputDir, base+job.suffix+".md")
		if err := saveAndPrint(env.Stdout, path, texts[i], job.label); err != nil {
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// spliceDocument assembles the final document for a resumed run. The
// pipeline carries segments below the resume index through as raw text;
// the persisted cleaned prefix replaces them here.
func spliceDocument(prefix string, outcome *clean.Outcome, resumeFrom int) string {
	if prefix == "" || resumeFrom <= 0 {
		return outcome.Document()
	}

	parts := []string{prefix}
	for _, r := range outcome.Results {
		if r.Index >= resumeFrom {
			parts = append(parts, r.Text)
		}
	}
	return strings.Join(parts, "\n\n")
}

// cleanProgress returns the pipeline progress callback. Single-segment
// transcripts skip the part counter.
func cleanProgress(w io.Writer) func(current, total int) {
	return func(current, total int) {
		if total > 1 {
			_, _ = fmt.Fprintf(w, "  Cleaning part %d/%d...\n", current, total)
		}
	}
}

// printUsage reports the run's token consumption and estimated cost.
func printUsage(env *Env, ledger *usage.Ledger, usedModel bool) {
	if !usedModel {
		return
	}
	rep := ledger.Report()
	fmt.Fprintf(env.Stdout, "Usage: %d input tokens, %d output tokens (estimated cost: $%.2f)\n",
		rep.InputTokens, rep.OutputTokens, rep.Cost)
}
