package cmd

import (
	"fmt"

	"github.com/keepr/mediakit/internal/ffmpeg"
	"github.com/keepr/mediakit/internal/speed"
	"github.com/keepr/mediakit/pkg/logger"
	"github.com/spf13/cobra"
)

func newSpeedCmd(app *application) *cobra.Command {
	var (
		request    speed.Request
		keepOutput bool
	)

	speedCmd := &cobra.Command{
		Use:   "speed",
		Short: "Re-encode a video with selected time ranges sped up",
		Example: `  keepr speed -i talk.mp4 -o talk_fast.mp4 -r 00:02-00:54 -s 2
  keepr speed -i in.mov -o out.mov -r 00:10-00:20 -r 01:00-01:30 -s 1.5 --codec libx265`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config := app.config.Render.SpeedConfig()
			if keepOutput {
				config.Overwrite = false
			}

			transformer := speed.New(config, ffmpeg.NewEngine(app.config.Render.Engine))
			transformer.OnProgress(func(progress *ffmpeg.Progress) {
				log.Emit(logger.INFO, "Encoding... %.1f%% (speed=%s)\n", progress.Progress, progress.Speed)
			})

			result, err := transformer.Run(cmd.Context(), request)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d segments, %.3fs -> %.3fs)\n",
				result.OutputPath, len(result.Segments), result.SourceDuration, result.OutputDuration)
			return nil
		},
	}

	flags := speedCmd.Flags()
	flags.StringVarP(&request.InputPath, "input", "i", "", "input video path")
	flags.StringVarP(&request.OutputPath, "output", "o", "", "output video path")
	flags.StringArrayVarP(&request.Timestamps, "range", "r", nil, "time range to speed up as MM:SS-MM:SS (repeatable)")
	flags.Float64VarP(&request.Speed, "speed", "s", 2.0, "speed multiplier applied to every range")
	flags.StringVar(&request.VideoCodec, "codec", "", "video codec override (defaults to the configured codec)")
	flags.BoolVar(&keepOutput, "no-overwrite", false, "fail if the output file already exists")
	_ = speedCmd.MarkFlagRequired("input")
	_ = speedCmd.MarkFlagRequired("output")

	return speedCmd
}
