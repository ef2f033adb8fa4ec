package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chrisuehlinger/tinyrender/observability"
	"github.com/chrisuehlinger/tinyrender/pipeline"
	"github.com/chrisuehlinger/tinyrender/render"
)

func newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a document to an image file.",
		Long: `Render loads a document and an optional stylesheet, lays them out in a
viewport and writes the painted canvas as PNG, BMP or TIFF.

The format comes from --format, then render.format in the config, then the
extension of --output. Use "-o -" to write the image to stdout.`,
		Example: `  tinyrender render -H page.html -c style.css -o out.png
  tinyrender render -H https://example.com/ --width 1024 --backend gg -o page.bmp`,
		Args: cobra.NoArgs,
		RunE: runRender,
	}
	addRenderFlags(cmd)
	cmd.Flags().StringP("output", "o", "", "output image path, or - for stdout (required)")
	cmd.Flags().String("format", "", "output format: png, bmp or tiff")
	cmd.Flags().Bool("dump-display-list", false, "print the display list to stdout")
	cmd.Flags().Bool("dump-layout", false, "print the laid out box tree to stdout")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg := configFrom(cmd)
	logger := observability.GetLogger()

	htmlRef, _ := cmd.Flags().GetString("html")
	cssRef, _ := cmd.Flags().GetString("css")
	output, _ := cmd.Flags().GetString("output")
	dumpList, _ := cmd.Flags().GetBool("dump-display-list")
	dumpLayout, _ := cmd.Flags().GetBool("dump-layout")

	format := render.FormatFromPath(output)
	if cfg.Render.Format != "" {
		f, err := render.ParseFormat(cfg.Render.Format)
		if err != nil {
			return err
		}
		format = f
	}
	if (dumpList || dumpLayout) && output == "-" {
		return fmt.Errorf("cannot dump to stdout while writing the image to stdout")
	}

	p, err := pipeline.New(cfg, pipeline.WithLogger(logger))
	if err != nil {
		return err
	}
	res, err := p.Render(cmd.Context(), htmlRef, cssRef)
	if err != nil {
		return err
	}

	if dumpLayout {
		fmt.Fprint(cmd.OutOrStdout(), res.LayoutRoot.Dump())
	}
	if dumpList {
		fmt.Fprint(cmd.OutOrStdout(), res.DisplayList.String())
	}

	if err := writeImage(cmd.OutOrStdout(), output, res.Canvas, format); err != nil {
		return err
	}
	logger.Info("Wrote image.",
		zap.String("output", output),
		zap.String("format", string(format)),
		zap.String("run_id", res.RunID))
	return nil
}

func writeImage(stdout io.Writer, path string, c *render.Canvas, format render.Format) (err error) {
	if path == "-" {
		return render.Encode(stdout, c.ToImage(), format)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing output: %w", cerr)
		}
	}()
	if err := render.Encode(f, c.ToImage(), format); err != nil {
		return fmt.Errorf("encoding %s: %w", format, err)
	}
	return nil
}
