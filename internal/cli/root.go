package cli

import (
	"github.com/spf13/cobra"

	"github.com/alnah/yt-transcript/internal/chunk"
)

// runFlags carries the command-line surface into run.
type runFlags struct {
	raw     bool
	explain bool
	summary bool
	tldr    bool
	resume  bool

	chunkSize int
	outputDir string

	// Changed-tracking: a flag only overrides config when the user set it.
	chunkSizeSet bool
	outputDirSet bool
}

// RootCmd builds the yt-transcript command.
func RootCmd(env *Env) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "yt-transcript <url-or-id>",
		Short: "Fetch a YouTube transcript and clean it up with an LLM",
		Long: `Fetch a YouTube transcript, clean it up with a language model, and
optionally produce a plain-English explanation, a key-points summary, or a
one-paragraph TLDR. Long transcripts are cleaned in segments; if the model
service fails mid-run the completed prefix is kept and the run can be
continued with --resume.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.chunkSizeSet = cmd.Flags().Changed("chunk-size")
			flags.outputDirSet = cmd.Flags().Changed("output-dir")
			return run(cmd.Context(), env, args[0], flags)
		},
	}

	cmd.Flags().BoolVar(&flags.raw, "raw", false,
		"skip cleanup and output the unprocessed transcript")
	cmd.Flags().BoolVar(&flags.explain, "explain", false,
		"add a plain-English explanation of the content")
	cmd.Flags().BoolVar(&flags.summary, "summary", false,
		"add a bulleted summary of key points")
	cmd.Flags().BoolVar(&flags.tldr, "tldr", false,
		"add a one-paragraph TLDR")
	cmd.Flags().BoolVar(&flags.resume, "resume", false,
		"continue a previously failed cleanup run for this video")
	cmd.Flags().IntVar(&flags.chunkSize, "chunk-size", chunk.DefaultMaxWords,
		"maximum words per cleanup segment")
	cmd.Flags().StringVar(&flags.outputDir, "output-dir", "",
		"directory for output files (default ~/transcripts)")

	return cmd
}
