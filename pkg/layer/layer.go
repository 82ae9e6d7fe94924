// Package layer implements the renderable parts of a card.
//
// Every layer draws itself onto a shared RGBA canvas at a fixed placement.
// Layers are built once from a [Spec] and the card's properties by [Build],
// and are immutable afterwards, so rendering the same layer twice produces
// the same pixels.
//
// Layer types:
//
//	static_text    fixed text fitted into its box
//	text           text taken from a card property
//	embedded_text  property text with words replaced by inline glyphs
//	static_image   a fixed image id
//	image          an image id taken from a card property
//	symbol_row     one glyph per character of a property, in a row
//	qr_code        a QR code of fixed text or a property
package layer

import (
	"context"
	"image"
)

// Layer is one renderable element of a card.
type Layer interface {
	// Render draws the layer onto canvas. Text that cannot fit is drawn
	// anyway and reported; missing images and fonts are errors.
	Render(ctx context.Context, canvas *image.RGBA) error
}

// ImageUser is implemented by layers that fetch images from a source.
type ImageUser interface {
	// ImageIDs returns every image id the layer may fetch when rendered.
	ImageIDs() []string
}

// Type names a layer variant in configuration.
type Type string

// Layer types.
const (
	TypeStaticText   Type = "static_text"
	TypeText         Type = "text"
	TypeEmbeddedText Type = "embedded_text"
	TypeStaticImage  Type = "static_image"
	TypeImage        Type = "image"
	TypeSymbolRow    Type = "symbol_row"
	TypeQRCode       Type = "qr_code"
)

// Types lists every layer type in documentation order.
var Types = []Type{
	TypeStaticText, TypeText, TypeEmbeddedText,
	TypeStaticImage, TypeImage, TypeSymbolRow, TypeQRCode,
}
