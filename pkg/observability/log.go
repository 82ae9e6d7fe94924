package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogRenderHooks writes render events to a logger at debug level, and card
// and deck failures at error level. Text layers warn about overflow
// themselves, through the logger carried by the render context.
type LogRenderHooks struct {
	Logger *log.Logger
}

func (h LogRenderHooks) logger() *log.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return log.Default()
}

func (h LogRenderHooks) OnCardStart(_ context.Context, card string) {
	h.logger().Debug("rendering card", "card", card)
}

func (h LogRenderHooks) OnCardComplete(_ context.Context, card string, d time.Duration, err error) {
	if err != nil {
		h.logger().Error("card failed", "card", card, "error", err)
		return
	}
	h.logger().Debug("card rendered", "card", card, "took", d.Round(time.Millisecond))
}

func (h LogRenderHooks) OnFitOverflow(_ context.Context, layer string, fontSize int) {
	h.logger().Debug("text does not fit", "layer", layer, "font_size", fontSize)
}

func (h LogRenderHooks) OnDeckComplete(_ context.Context, deck string, cards int, d time.Duration, err error) {
	if err != nil {
		h.logger().Error("deck failed", "deck", deck, "error", err)
		return
	}
	h.logger().Debug("deck rendered", "deck", deck, "cards", cards, "took", d.Round(time.Millisecond))
}
