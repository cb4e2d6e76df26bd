package main

import (
	"strings"

	"github.com/spf13/cobra"

	"movieshelf/internal/config"
	"movieshelf/internal/logging"
	"movieshelf/internal/render"
)

func newRenderCommand(ctx *commandContext) *cobra.Command {
	var outputFlag string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Write the catalog as a static HTML page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			target := cfg.Render.OutputPath
			if strings.TrimSpace(outputFlag) != "" {
				if target, err = config.ExpandPath(strings.TrimSpace(outputFlag)); err != nil {
					return err
				}
			}
			store, err := ctx.openStore(cmd)
			if err != nil {
				return err
			}
			coll, err := store.Load()
			if err != nil {
				return err
			}
			if err := render.WritePage(target, cfg.Render.PageTitle, coll); err != nil {
				return err
			}
			ctx.commandLogger(cmd).Info("page rendered",
				logging.String("path", target),
				logging.Int("movies", coll.Len()),
			)
			printStatus(cmd.OutOrStdout(), statusOK, "wrote %d movies to %s", coll.Len(), target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Destination HTML file (defaults to render.output_path)")
	return cmd
}
