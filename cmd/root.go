package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	var configFile string
	app := &app{}

	rootCmd := &cobra.Command{
		Use:           "haggle",
		Short:         "Negotiate product prices and delivery fees",
		Long:          "haggle runs price negotiations over a local shop catalog: start a negotiation for a product or an order's delivery fee, send offers, and get accept, reject or counter decisions. It also serves the same engine over HTTP.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if !needsApp(cmd) {
				return nil
			}

			wired, err := wireApp(cmd.Context(), configFile, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			*app = *wired
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return app.close()
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ~/.haggle/config.toml)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newShopCmd(app),
		newProductCmd(app),
		newOrderCmd(app),
		newNegotiateCmd(app),
		newEvaluateCmd(app),
		newChatCmd(app),
		newServeCmd(app),
	)

	return rootCmd
}

const skipWireAnnotation = "haggle/skip-wire"

func needsApp(cmd *cobra.Command) bool {
	_, skip := cmd.Annotations[skipWireAnnotation]
	return !skip
}

