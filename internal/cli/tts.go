package cli

import (
	"github.com/spf13/cobra"

	"github.com/tgrunnagle/playing-card-gen/pkg/deck"
	"github.com/tgrunnagle/playing-card-gen/pkg/tts"
)

// ttsCommand creates the tts command: render a sheet and its back, then write
// a Tabletop Simulator saved object that references them.
func (c *CLI) ttsCommand() *cobra.Command {
	var (
		opts    renderOpts
		baseURL string
		objDir  string
	)

	cmd := &cobra.Command{
		Use:   "tts <config> <decklist>",
		Short: "Render a deck sheet and export it to Tabletop Simulator",
		Long: `Render the decklist as a single sheet plus back, then write a saved object
(<deck>.json) into the Tabletop Simulator "Saved Objects" folder.

The game downloads the images by URL. Pass --base-url when the output folder
is published somewhere (for example a bucket or static site); otherwise the
saved object points at the local files.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.layout = string(deck.LayoutSheet)
			popts, err := opts.pipelineOptions(args[0], args[1])
			if err != nil {
				return err
			}
			result, err := c.runPipeline(cmd.Context(), popts, opts.deckLabel(args[1]), opts.noCache)
			if err != nil {
				return err
			}
			printResult(result)
			if result.Stats.CardCount == 0 {
				return nil
			}

			params, err := result.TTSDeck(baseURL)
			if err != nil {
				return err
			}
			obj, err := tts.BuildDeck(params)
			if err != nil {
				return err
			}
			dir := objDir
			if dir == "" {
				dir = result.Config.TTS.OutputFolder
			}
			path, err := tts.Save(dir, result.DeckName, obj)
			if err != nil {
				return err
			}
			printSuccess("Saved Tabletop Simulator object")
			printFile(path)
			printDetail("Face: %s", params.FaceURL)
			printDetail("Back: %s", params.BackURL)
			return nil
		},
	}

	opts.register(cmd, false)
	cmd.Flags().StringVar(&baseURL, "base-url", "", "URL the output folder is published under")
	cmd.Flags().StringVar(&objDir, "objects-dir", "", "saved objects folder (default: config tts.output_folder, then the game's folder)")
	return cmd
}
