package main

import (
	"github.com/spf13/cobra"

	"movieshelf/internal/shell"
)

func newMenuCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Run the interactive numbered menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := ctx.openStore(cmd)
			if err != nil {
				return err
			}
			if _, err := store.Init(); err != nil {
				return err
			}
			opts := shell.Options{
				Store:     store,
				PagePath:  cfg.Render.OutputPath,
				PageTitle: cfg.Render.PageTitle,
				In:        cmd.InOrStdin(),
				Out:       cmd.OutOrStdout(),
				Logger:    ctx.commandLogger(cmd),
			}
			resolver, err := ctx.resolver(cmd, false)
			if err != nil {
				return err
			}
			if resolver != nil {
				opts.Resolver = resolver
			}
			session, err := shell.NewSession(opts)
			if err != nil {
				return err
			}
			return session.Run(ctx.commandCtx(cmd))
		},
	}
}
