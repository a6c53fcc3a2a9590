package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	lperrors "github.com/matzehuels/letterpress/pkg/errors"
	"github.com/matzehuels/letterpress/pkg/pipeline"
)

// hangOpts holds the command-line flags for the hang command.
type hangOpts struct {
	output   string // output file (stdout if empty)
	escape   bool   // input is plain text
	markdown bool   // input is Markdown
	noCache  bool   // disable the result cache
	refresh  bool   // skip the cache lookup
	stats    bool   // print filter statistics
}

// hangCommand creates the hang command.
func (c *CLI) hangCommand() *cobra.Command {
	var opts hangOpts

	cmd := &cobra.Command{
		Use:   "hang [file]",
		Short: "Add hanging punctuation to an HTML fragment",
		Long: `Read an HTML fragment from a file (or stdin when the file is absent or "-")
and write it with hanging punctuation spans.

Examples:
  letterpress hang article.html -o article.hung.html
  echo 'He said "hello"' | letterpress hang --escape
  letterpress hang --markdown README.md --stats`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("markdown") {
				opts.markdown = c.Config.Filter.Markdown
			}
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return c.runHang(cmd, path, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.escape, "escape", false, "treat input as plain text and escape it first")
	cmd.Flags().BoolVar(&opts.markdown, "markdown", false, "render input as Markdown first")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results")
	cmd.Flags().BoolVar(&opts.stats, "stats", false, "print what the filter did")

	return cmd
}

func (c *CLI) runHang(cmd *cobra.Command, path string, opts hangOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	input, err := readInput(cmd.InOrStdin(), path)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache, "")
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	res, err := runner.Execute(ctx, pipeline.Options{
		Text:     input,
		Escape:   opts.escape,
		Markdown: opts.markdown,
		Refresh:  opts.refresh,
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	prog.debug("Filtered fragment")

	if err := writeOutput(cmd.OutOrStdout(), opts.output, string(res.HTML)); err != nil {
		return err
	}

	if opts.output != "" {
		printSuccess("Wrote fragment")
		printFile(opts.output)
	}
	if opts.stats {
		printHangStats(res)
	}
	return nil
}

// readInput reads path, or r when path is empty or "-".
func readInput(r io.Reader, path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(r)
		if err != nil {
			return "", lperrors.Wrap(lperrors.ErrCodeInvalidInput, err, "cannot read stdin")
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", lperrors.New(lperrors.ErrCodeFileNotFound, "file not found: %s", path)
	}
	if err != nil {
		return "", lperrors.Wrap(lperrors.ErrCodeInvalidInput, err, "cannot read %s", path)
	}
	return string(data), nil
}

// writeOutput writes s to path, or to w when path is empty.
func writeOutput(w io.Writer, path, s string) error {
	if path == "" {
		_, err := io.WriteString(w, s)
		return err
	}
	if err := os.WriteFile(path, []byte(s), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
