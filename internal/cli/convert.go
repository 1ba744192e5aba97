package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/svgembed/svgembed/pkg/convert"
	apperrors "github.com/svgembed/svgembed/pkg/errors"
	"github.com/svgembed/svgembed/pkg/host"
)

// convertCommand creates the convert command.
func (c *CLI) convertCommand() *cobra.Command {
	var (
		output  string
		inline  bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "convert [file.png ...]",
		Short: "Wrap PNG files into SVG documents",
		Long: `Wrap PNG files into SVG documents.

Each input is embedded unchanged as a base64 data URL inside a minimal SVG
sized from the PNG's intrinsic width and height. Files whose header cannot
be read still convert, falling back to percentage sizing.

With no arguments, an interactive picker lists the PNG files in the current
directory. With --inline the document is printed to stdout as a
data:image/svg+xml;base64 URL instead of being written next to the input.

Results are cached locally for faster repeated conversions.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConvert(cmd.Context(), args, output, inline, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single input only; default: <input>.svg)")
	cmd.Flags().BoolVar(&inline, "inline", false, "print a data URL to stdout instead of writing a file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runConvert converts each input file, degrading per-file failures to
// error lines rather than aborting the batch.
func (c *CLI) runConvert(ctx context.Context, files []string, output string, inline, noCache bool) error {
	if len(files) == 0 {
		picked, err := pickPNG(".")
		if err != nil {
			return err
		}
		if picked == "" {
			printInfo("Nothing selected")
			return nil
		}
		files = []string{picked}
	}

	if output != "" && len(files) > 1 {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "--output is only valid with a single input file")
	}

	cch, err := openCache(noCache)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer cch.Close()

	conv := convert.Converter{
		Source: host.NewDirSource("."),
		Cache:  cch,
		Logger: c.Logger,
	}
	if !inline {
		conv.Sink = host.NewDirSink(".")
	}

	var spinner *Spinner
	if len(files) > 1 && !inline {
		spinner = newSpinnerWithContext(ctx, fmt.Sprintf("Converting %d files", len(files)))
		spinner.Start()
	}

	converted, failed := 0, 0
	for _, file := range files {
		if spinner != nil {
			spinner.UpdateMessage("Converting " + file)
		}

		result, err := conv.Convert(ctx, file, outputNameFor(file, output))
		if err != nil {
			failed++
			if spinner != nil {
				spinner.UpdateMessage("")
			}
			printError("%s: %s", file, apperrors.UserMessage(err))
			continue
		}
		converted++

		if result.Written() {
			if spinner == nil {
				printFile(result.WrittenAs)
			}
		} else {
			fmt.Println(result.DataURL)
		}
	}

	if spinner != nil {
		if spinner.Cancelled() {
			spinner.Stop()
			return ctx.Err()
		}
		spinner.StopWithSuccess(fmt.Sprintf("Converted %d of %d files", converted, len(files)))
	} else if !inline && converted > 0 {
		printSuccess("Converted %d file(s)", converted)
	}

	if failed > 0 {
		return apperrors.New(apperrors.ErrCodeReadUnavailable, "%d of %d conversions failed", failed, len(files))
	}
	return nil
}

// outputNameFor derives the artifact name for an input file. An explicit
// output wins; otherwise the input's extension is swapped for .svg by the
// converter's own suffix rule.
func outputNameFor(file, output string) string {
	if output != "" {
		return output
	}
	return strings.TrimSuffix(file, filepath.Ext(file))
}
