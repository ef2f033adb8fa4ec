package cmd

import (
	"context"
	"fmt"

	"fyne.io/fyne/v2/app"
	"github.com/spf13/cobra"

	"github.com/chrisuehlinger/tinyrender/observability"
	"github.com/chrisuehlinger/tinyrender/pipeline"
	"github.com/chrisuehlinger/tinyrender/render"
	"github.com/chrisuehlinger/tinyrender/ui"
)

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Render a document and show it in a window.",
		Long: `View renders like the render command and shows the canvas in a window
sized to the viewport. Reload (Ctrl+R) reads the document and stylesheet again.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFrom(cmd)
			logger := observability.GetLogger()

			htmlRef, _ := cmd.Flags().GetString("html")
			cssRef, _ := cmd.Flags().GetString("css")

			p, err := pipeline.New(cfg, pipeline.WithLogger(logger))
			if err != nil {
				return err
			}
			renderFn := func(ctx context.Context) (*render.Canvas, error) {
				res, err := p.Render(ctx, htmlRef, cssRef)
				if err != nil {
					return nil, err
				}
				return res.Canvas, nil
			}

			title := fmt.Sprintf("tinyrender: %s", htmlRef)
			v := ui.NewViewer(app.NewWithID("io.github.chrisuehlinger.tinyrender"), title, cfg.Viewport.Width, cfg.Viewport.Height, renderFn, logger)
			v.Run(cmd.Context())
			return nil
		},
	}
	addRenderFlags(cmd)
	return cmd
}
