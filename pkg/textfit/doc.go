// Package textfit chooses a font size and line wrapping so that a string fits
// inside an axis-aligned box.
//
// # Algorithm
//
// [Fit] starts at Options.MaxFontSize and walks down one point at a time. At
// each size it wraps the text to the box width with [SplitLines], measures the
// resulting multiline block and accepts the first size whose block is
// contained in the box (normalised to the origin). If the next size would fall
// below Options.MinFontSize the current best-effort layout is accepted and
// flagged with [Layout.Overflow]. Overflow is a warning, never an error: a card
// with slightly overflowing text is still rendered.
//
// # Line breaking
//
// [NextFitLength] is greedy and word preserving. Literal newlines are hard
// breaks. When a segment is too wide the cut backs off to the end of the
// previous word; if no whitespace boundary exists the function returns 0 and
// [SplitLines] keeps the whole remainder on one line, flagging
// [Layout.Unbreakable].
//
// # Embedded glyphs
//
// [FitEmbedded] extends the fit loop with a two-pass substitution: words found
// in an embedding map are replaced by a run of spaces wide enough to hold a
// glyph ([PadEmbeddings]); once lines are chosen, [PlaceEmbeds] converts the
// recorded indexes into pixel boxes relative to the text origin.
//
// # Measurement
//
// The package never touches font files. Callers supply a [Font], which yields
// a [Face] per integer size; faces report single-line advances and a line
// height. Package fonts provides the TrueType implementation; tests use
// fixed-width stubs so that layouts are exact.
package textfit
