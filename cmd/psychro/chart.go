package main

import (
	"context"
	"fmt"
	"io"

	"github.com/Veraticus/psychro/internal/chartclient"
	"github.com/Veraticus/psychro/internal/cli"
	"github.com/Veraticus/psychro/internal/config"
	"github.com/Veraticus/psychro/internal/controller"
	"github.com/Veraticus/psychro/internal/model"
	"github.com/Veraticus/psychro/internal/render"
	"github.com/spf13/cobra"
)

// reportedError marks a failure the controller already printed as a status line.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }

func (e *reportedError) Unwrap() error { return e.err }

// zoneFlags holds the design-zone flags shared by the chart commands.
type zoneFlags struct {
	minTemp string
	maxTemp string
	minRH   string
	maxRH   string
	enabled bool
}

func (z *zoneFlags) register(cmd *cobra.Command) {
	def := model.DefaultDesignZone().Input()
	cmd.Flags().BoolVar(&z.enabled, "zone", false, "overlay the design zone")
	cmd.Flags().StringVar(&z.minTemp, "min-temp", def.MinTemp, "design zone minimum temperature (°C)")
	cmd.Flags().StringVar(&z.maxTemp, "max-temp", def.MaxTemp, "design zone maximum temperature (°C)")
	cmd.Flags().StringVar(&z.minRH, "min-rh", def.MinRH, "design zone minimum relative humidity (%)")
	cmd.Flags().StringVar(&z.maxRH, "max-rh", def.MaxRH, "design zone maximum relative humidity (%)")
}

// options validates the zone flags into a controller option.
func (z *zoneFlags) options() ([]controller.Option, error) {
	if !z.enabled {
		return nil, nil
	}
	zone, err := model.ZoneInput{MinTemp: z.minTemp, MaxTemp: z.maxTemp, MinRH: z.minRH, MaxRH: z.maxRH}.Parse()
	if err != nil {
		return nil, err
	}
	return []controller.Option{controller.WithActiveZone(zone)}, nil
}

// reportingSink prints a summary after each successful render.
type reportingSink struct {
	out  io.Writer
	sink render.Multi
}

func (s reportingSink) Render(container string, fig model.Figure) error {
	if err := s.sink.Render(container, fig); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(s.out, cli.FormatChartSummary(fig, s.sink.Paths(container)))
	return nil
}

func (a *app) newClient(progress io.Writer) *chartclient.Client {
	opts := []chartclient.Option{
		chartclient.WithFs(a.fs),
		chartclient.WithTimeout(a.cfg.Server.Timeout),
		chartclient.WithUserAgent("psychro/" + version),
	}
	if progress != nil {
		opts = append(opts, chartclient.WithUploadProgress(progress))
	}
	return chartclient.New(a.cfg.Server.BaseURL, opts...)
}

func (a *app) newSink() render.Multi {
	switch a.cfg.Output.Format {
	case config.FormatJSON:
		return render.Multi{render.NewJSONSink(a.fs, a.cfg.Output.Dir)}
	case config.FormatBoth:
		return render.Multi{
			render.NewHTMLSink(a.fs, a.cfg.Output.Dir),
			render.NewJSONSink(a.fs, a.cfg.Output.Dir),
		}
	default:
		return render.Multi{render.NewHTMLSink(a.fs, a.cfg.Output.Dir)}
	}
}

// runChart builds a one-shot controller and runs action against it.
func (a *app) runChart(cmd *cobra.Command, zone *zoneFlags, progress io.Writer, action func(context.Context, *controller.Controller) error) error {
	out := cmd.OutOrStdout()
	status := cli.NewStatusWriter(out)

	opts := []controller.Option{
		controller.WithContainer(a.cfg.Chart.Container),
		controller.WithFeedback(status),
	}
	if zone != nil {
		zoneOpts, err := zone.options()
		if err != nil {
			status.SetStatus(controller.TargetMain, err.Error())
			return &reportedError{err: err}
		}
		opts = append(opts, zoneOpts...)
	}

	ctrl := controller.New(a.newClient(progress), reportingSink{out: out, sink: a.newSink()}, opts...)
	if err := action(cmd.Context(), ctrl); err != nil {
		return &reportedError{err: err}
	}
	return nil
}

func defaultCmd(a *app) *cobra.Command {
	var zone zoneFlags
	cmd := &cobra.Command{
		Use:   "default",
		Short: "Render the default chart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runChart(cmd, &zone, nil, func(ctx context.Context, ctrl *controller.Controller) error {
				return ctrl.LoadDefault(ctx)
			})
		},
	}
	zone.register(cmd)
	return cmd
}

func uploadCmd(a *app) *cobra.Command {
	var zone zoneFlags
	var quiet bool
	cmd := &cobra.Command{
		Use:   "upload FILE",
		Short: "Plot the readings in an .xlsx data file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = config.ExpandPath(args[0])
			}

			var progress io.Writer
			if !quiet {
				progress = cmd.ErrOrStderr()
			}
			return a.runChart(cmd, &zone, progress, func(ctx context.Context, ctrl *controller.Controller) error {
				return ctrl.UploadFile(ctx, path)
			})
		},
	}
	zone.register(cmd)
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not show upload progress")
	return cmd
}

func plotCmd(a *app) *cobra.Command {
	var zone zoneFlags
	var temperature, humidity string
	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Plot a single temperature/humidity point",
		Example: `  psychro plot --temperature 25 --humidity 50
  psychro plot -t=-5 -r 80 --zone --min-temp 18 --max-temp 26`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runChart(cmd, &zone, nil, func(ctx context.Context, ctrl *controller.Controller) error {
				return ctrl.PlotPoint(ctx, temperature, humidity)
			})
		},
	}
	zone.register(cmd)
	cmd.Flags().StringVarP(&temperature, "temperature", "t", "", "dry-bulb temperature (°C, -10 to 50)")
	cmd.Flags().StringVarP(&humidity, "humidity", "r", "", "relative humidity (%)")
	return cmd
}

func clearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear data stored on the chart service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runChart(cmd, nil, nil, func(ctx context.Context, ctrl *controller.Controller) error {
				return ctrl.Clear(ctx)
			})
		},
	}
}
