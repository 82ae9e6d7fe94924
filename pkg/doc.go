// Package pkg provides the core libraries for cardgen, a playing card
// compositor.
//
// # Overview
//
// A card is a stack of layers (images, fitted text, symbol rows, QR codes)
// drawn onto a blank canvas. A layout configuration describes the layers of
// each card type; a CSV decklist supplies one row of properties per card.
// Cards are packed into decks and written out as print sheets, single card
// images, or Tabletop Simulator saved objects.
//
// # Architecture
//
// The typical data flow:
//
//	config (JSON/TOML) + decklist (CSV)
//	         ↓
//	    [config] package (parse, validate, build cards)
//	         ↓
//	    [layer] + [card] packages (composite each card)
//	         ↓
//	    [deck] package (pack into sheets or singletons)
//	         ↓
//	    [source] packages (save as PNG locally or in GridFS)
//
// [pipeline] runs the whole flow with caching and is shared by the CLI and the
// HTTP server.
//
// # Quick Start
//
//	cfg, _ := config.Load("deck.toml")
//	list, _ := config.LoadDecklist("starter.csv")
//
//	src := local.New(cfg.Assets.Folder, "out")
//	d, _ := config.NewBuilder(cfg, src, fonts.NewLoader(cfg.Assets.Folder)).Deck(list)
//
//	sheets, _ := d.Render(ctx)
//	src.Save(ctx, "starter.png", sheets[0])
//
// # Main Packages
//
// ## Drawing
//
// [geom] - Placement boxes and their validation.
//
// [textfit] - Text fitting: the largest font size whose wrapped lines fit a
// box, plus inline symbol images embedded in text.
//
// [fonts] - Font loading from builtin Go fonts, files, or installed system
// fonts.
//
// [layer] - Layer specs and their renderers. [card] composites layers into a
// card image.
//
// [deck] - Packing of cards into a grid sheet or one image per card.
//
// ## Inputs and Outputs
//
// [config] - Layout configuration and decklist parsing.
//
// [source] - Image sources: local folders, HTTP with caching, MongoDB GridFS.
//
// [tts] - Tabletop Simulator saved object export.
//
// ## Infrastructure
//
// [cache] - Byte caches (file, memory, Redis) keyed by input hashes.
//
// [errors] - Coded errors shared by every package, mapped to HTTP statuses by
// the server.
//
// [observability] - Hooks for cache and render events.
//
// # Testing
//
//	go test ./pkg/...
//	go test ./pkg/textfit/...
//
// [geom]: https://pkg.go.dev/github.com/tgrunnagle/playing-card-gen/pkg/geom
// [textfit]: https://pkg.go.dev/github.com/tgrunnagle/playing-card-gen/pkg/textfit
// [fonts]: https://pkg.go.dev/github.com/tgrunnagle/playing-card-gen/pkg/fonts
// [layer]: https://pkg.go.dev/github.com/tgrunnagle/playing-card-gen/pkg/layer
// [card]: https://pkg.go.dev/github.com/tgrunnagle/playing-card-gen/pkg/card
// [deck]: https://pkg.go.dev/github.com/tgrunnagle/playing-card-gen/pkg/deck
// [config]: https://pkg.go.dev/github.com/tgrunnagle/playing-card-gen/pkg/config
// [source]: https://pkg.go.dev/github.com/tgrunnagle/playing-card-gen/pkg/source
// [tts]: https://pkg.go.dev/github.com/tgrunnagle/playing-card-gen/pkg/tts
// [cache]: https://pkg.go.dev/github.com/tgrunnagle/playing-card-gen/pkg/cache
// [errors]: https://pkg.go.dev/github.com/tgrunnagle/playing-card-gen/pkg/errors
// [observability]: https://pkg.go.dev/github.com/tgrunnagle/playing-card-gen/pkg/observability
// [pipeline]: https://pkg.go.dev/github.com/tgrunnagle/playing-card-gen/pkg/pipeline
package pkg
