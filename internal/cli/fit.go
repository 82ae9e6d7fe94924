package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tgrunnagle/playing-card-gen/pkg/fonts"
	"github.com/tgrunnagle/playing-card-gen/pkg/geom"
	"github.com/tgrunnagle/playing-card-gen/pkg/textfit"
)

type fitOpts struct {
	width, height int
	font          string
	fontDir       string
	maxSize       int
	minSize       int
	spacing       float64
	valign        string
}

// fitCommand creates the fit command, a debugging aid that shows the layout
// a text layer would choose for a box.
func (c *CLI) fitCommand() *cobra.Command {
	opts := fitOpts{
		font:    fonts.Default,
		maxSize: textfit.DefaultMaxFontSize,
		minSize: textfit.DefaultMinFontSize,
	}

	cmd := &cobra.Command{
		Use:   "fit <text>",
		Short: "Show how text fits a box",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			layout, err := runFit(args[0], opts)
			if err != nil {
				return err
			}
			printFit(layout, opts)
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.width, "width", "W", 200, "box width in pixels")
	cmd.Flags().IntVarP(&opts.height, "height", "H", 100, "box height in pixels")
	cmd.Flags().StringVarP(&opts.font, "font", "f", opts.font, "font: builtin name, file path or system font name")
	cmd.Flags().StringVar(&opts.fontDir, "font-dir", ".", "folder relative font paths are resolved against")
	cmd.Flags().IntVar(&opts.maxSize, "max", opts.maxSize, "largest font size tried")
	cmd.Flags().IntVar(&opts.minSize, "min", opts.minSize, "smallest font size tried")
	cmd.Flags().Float64Var(&opts.spacing, "spacing", 0, "line spacing as a fraction of line height")
	cmd.Flags().StringVar(&opts.valign, "valign", "top", "vertical alignment: top, middle, bottom")
	_ = cmd.RegisterFlagCompletionFunc("valign", completeVAlign)
	_ = cmd.RegisterFlagCompletionFunc("font", completeFonts)
	return cmd
}

func runFit(text string, opts fitOpts) (*textfit.Layout, error) {
	place := geom.Placement{W: opts.width, H: opts.height}
	if err := place.Validate(); err != nil {
		return nil, err
	}
	valign, err := textfit.ParseVAlignment(opts.valign)
	if err != nil {
		return nil, err
	}
	font, err := fonts.NewLoader(opts.fontDir).Load(opts.font)
	if err != nil {
		return nil, err
	}
	return textfit.Fit(text, place, font, textfit.Options{
		MaxFontSize:  opts.maxSize,
		MinFontSize:  opts.minSize,
		SpacingRatio: opts.spacing,
		VAlign:       valign,
	})
}

func printFit(l *textfit.Layout, opts fitOpts) {
	printKeyValue("box", fmt.Sprintf("%dx%d", opts.width, opts.height))
	printKeyValue("font size", fmt.Sprint(l.FontSize))
	printKeyValue("block", fmt.Sprintf("%dx%d", l.Width, l.Height))
	printKeyValue("v offset", fmt.Sprint(l.VOffset))
	printKeyValue("spacing", fmt.Sprint(l.Spacing))
	for i, line := range l.DisplayLines() {
		printDetail("%2d │ %s", i+1, strings.TrimRight(line, " "))
	}
	if l.Overflow {
		printWarning("Text does not fit at the minimum size %d", opts.minSize)
	}
	if l.Unbreakable {
		printWarning("A word is wider than the box")
	}
}
