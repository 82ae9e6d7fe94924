package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tgrunnagle/playing-card-gen/pkg/deck"
	"github.com/tgrunnagle/playing-card-gen/pkg/observability"
	"github.com/tgrunnagle/playing-card-gen/pkg/pipeline"
)

// renderOpts holds the command-line flags shared by render and tts.
type renderOpts struct {
	output  string // output folder, overrides output.folder
	layout  string // sheet or singleton, overrides output.layout
	name    string // deck name, defaults to the decklist file name
	noBack  bool   // skip the back image
	refresh bool   // ignore cached renders and images
	noCache bool   // disable the cache entirely
}

func (o *renderOpts) register(cmd *cobra.Command, withLayout bool) {
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "output folder (default: config output.folder)")
	cmd.Flags().StringVarP(&o.name, "name", "n", "", "deck name (default: decklist file name)")
	cmd.Flags().BoolVar(&o.refresh, "refresh", false, "re-render and re-fetch even if cached")
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "disable the render cache")
	if withLayout {
		cmd.Flags().StringVarP(&o.layout, "layout", "l", "", "output layout: sheet, singleton (default: config output.layout)")
		cmd.Flags().BoolVar(&o.noBack, "no-back", false, "do not render the deck back")
		_ = cmd.RegisterFlagCompletionFunc("layout", completeLayouts)
	}
	cmd.ValidArgsFunction = completeDeckArgs
}

// deckLabel names the deck for progress output before the pipeline has
// resolved it.
func (o *renderOpts) deckLabel(listPath string) string {
	if o.name != "" {
		return o.name
	}
	base := filepath.Base(listPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (o *renderOpts) pipelineOptions(cfgPath, listPath string) (pipeline.Options, error) {
	if o.layout != "" {
		if _, err := deck.ParseLayout(o.layout); err != nil {
			return pipeline.Options{}, err
		}
	}
	return pipeline.Options{
		ConfigPath:   cfgPath,
		DecklistPath: listPath,
		DeckName:     o.name,
		Layout:       o.layout,
		OutputDir:    o.output,
		SkipBack:     o.noBack,
		Refresh:      o.refresh,
	}, nil
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <config> <decklist>",
		Short: "Render a decklist into deck images",
		Long: `Render every card of a CSV decklist with the layer templates of a JSON or
TOML configuration, then pack the cards into sheets (a grid, default) or one
image per card. The deck back, when configured, is written next to them.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			popts, err := opts.pipelineOptions(args[0], args[1])
			if err != nil {
				return err
			}
			result, err := c.runPipeline(cmd.Context(), popts, opts.deckLabel(args[1]), opts.noCache)
			if err != nil {
				return err
			}
			printResult(result)
			if len(result.Faces()) == 1 && result.BackArtifact() != nil {
				printNextStep("Export to Tabletop Simulator", fmt.Sprintf("%s tts %s %s --base-url <url>", appName, args[0], args[1]))
			}
			return nil
		},
	}

	opts.register(cmd, true)
	return cmd
}

// runPipeline executes the pipeline behind a spinner when stderr is a
// terminal and logging is not verbose.
func (c *CLI) runPipeline(ctx context.Context, opts pipeline.Options, label string, noCache bool) (*pipeline.Result, error) {
	runner, err := c.newRunner(ctx, opts.ConfigPath, noCache)
	if err != nil {
		return nil, err
	}
	defer runner.Close()
	opts.Logger = c.Logger

	prog := newProgress(c.Logger)
	stop := func() {}
	if useSpinner(stderrIsTerminal(), c.Logger.GetLevel()) {
		spinner := newSpinner(ctx, os.Stderr, label)
		prev := observability.Render()
		observability.SetRenderHooks(observability.TeeRenderHooks{prev, spinner})
		spinner.Start()
		stop = func() {
			spinner.Stop()
			observability.SetRenderHooks(prev)
		}
	}

	result, err := runner.Execute(ctx, opts)
	stop()
	if err != nil {
		return nil, err
	}
	prog.done(fmt.Sprintf("Rendered %s", plural(result.Stats.CardCount, "card")))
	return result, nil
}

func printResult(result *pipeline.Result) {
	if result.Stats.CardCount == 0 {
		printWarning("Decklist %s has no cards to render", result.DeckName)
		return
	}
	printSuccess("Rendered deck %s", StyleTitle.Render(result.DeckName))
	printStats(result.Stats.CardCount, len(result.Artifacts), result.CacheInfo.RenderHit)
	for _, a := range result.Artifacts {
		printFile(a.Location)
	}
}
