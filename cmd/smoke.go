package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var defaultSmokeURLs = []string{
	"https://www.instagram.com/p/ABC123/",
	"https://www.instagram.com/reel/XYZ789/",
}

func newSmokeCmd(app *application) *cobra.Command {
	return &cobra.Command{
		Use:   "smoke [url...]",
		Short: "Run the Instagram extractor over sample URLs and print a summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			urls := args
			if len(urls) == 0 {
				urls = defaultSmokeURLs
			}

			extractor := app.newExtractor(app.config.Instagram)
			out := cmd.OutOrStdout()
			for _, url := range urls {
				fmt.Fprintf(out, "Testing: %s\n", url)

				result := extractor.Extract(cmd.Context(), url)
				fmt.Fprintf(out, "  success:  %v\n", result.Success)
				fmt.Fprintf(out, "  title:    %s\n", result.Title)
				fmt.Fprintf(out, "  username: @%s\n", result.Username)
				fmt.Fprintf(out, "  type:     %s\n", result.Type)
				fmt.Fprintf(out, "  hashtags: %v\n", result.Hashtags)
				if result.Note != "" {
					fmt.Fprintf(out, "  note:     %s\n", result.Note)
				}
			}

			return nil
		},
	}
}
