package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/keepr/mediakit/internal/instagram"
	"github.com/keepr/mediakit/pkg/logger"
	"github.com/spf13/cobra"
)

type failureOutput struct {
	Error    string `json:"error"`
	Success  bool   `json:"success"`
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

func newInstagramCmd(app *application) *cobra.Command {
	return &cobra.Command{
		Use:   "instagram <url>",
		Short: "Print link metadata for an Instagram post or reel as JSON",
		Long: `Extracts the author, caption and hashtags of an Instagram post and prints
them as JSON on stdout. If the post cannot be fetched, a reduced result built
from the URL alone is printed with "success": false. Diagnostics are written
to stderr.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			out := cmd.OutOrStdout()
			if len(args) != 1 {
				writeJSON(out, map[string]string{"error": "Usage: keepr instagram <instagram_url>"})
				return &exitError{code: 1}
			}

			url := args[0]
			if !instagram.IsInstagramURL(url) {
				writeJSON(out, map[string]string{"error": "Not a valid Instagram URL"})
				return &exitError{code: 1}
			}

			defer func() {
				if r := recover(); r != nil {
					log.Emit(logger.ERROR, "Extraction of %s panicked: %v\n", url, r)
					writeJSON(out, failureOutput{Error: fmt.Sprint(r), Platform: "instagram", URL: url})
					err = &exitError{code: 1}
				}
			}()

			config := app.config.Instagram
			if !config.Verbose && !app.verbose {
				logger.SetMinLoggingLevel(logger.WARNING.Level())
			}

			result := app.newExtractor(config).Extract(cmd.Context(), url)
			if config.SaveMetadata {
				saveMetadata(url, result)
			}

			writeJSON(out, result)
			return nil
		},
	}
}

// saveMetadata writes the result alongside the working directory as
// <shortcode>.json. Failure to save is logged and does not fail the command.
func saveMetadata(url string, result *instagram.Result) {
	name := instagram.ParseURL(url).Shortcode
	if name == "" {
		name = "instagram"
	}

	encoded, err := json.MarshalIndent(result, "", "  ")
	if err == nil {
		err = os.WriteFile(filepath.Clean(name+".json"), encoded, 0o644)
	}

	if err != nil {
		log.Emit(logger.WARNING, "Failed to save metadata for %s: %v\n", url, err)
	}
}

func writeJSON(out io.Writer, v interface{}) {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		log.Emit(logger.ERROR, "Failed to encode output: %v\n", err)
	}
}
