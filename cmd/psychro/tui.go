package main

import (
	"github.com/Veraticus/psychro/internal/controller"
	"github.com/Veraticus/psychro/internal/tui"
	"github.com/Veraticus/psychro/internal/tui/themes"
	"github.com/spf13/cobra"
)

func tuiCmd(a *app) *cobra.Command {
	var theme string
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive chart page",
		Long: `Open the interactive chart page. Enter a data file path or a temperature and
humidity pair, toggle the design zone with Ctrl+T and clear stored data with
Ctrl+X. The chart is written to the output directory after every change.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sink := a.newSink()
			bridge := tui.NewBridge(sink)

			ctrl := controller.New(a.newClient(nil), bridge,
				controller.WithContainer(a.cfg.Chart.Container),
				controller.WithFeedback(bridge),
			)

			return tui.Run(cmd.Context(), ctrl, bridge,
				tui.WithTheme(themes.GetTheme(theme)),
				tui.WithOutputs(sink.Paths(a.cfg.Chart.Container)...),
			)
		},
	}
	cmd.Flags().StringVar(&theme, "theme", "default", "color theme (default, catppuccin-mocha)")
	return cmd
}
