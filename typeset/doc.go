// Package typeset resolves font descriptors to faces and shapes text into
// positioned glyph runs, implementing the canvas TypesetService.
//
// Faces are parsed twice from the same bytes: once with x/image opentype
// for metrics and glyph outlines, once with go-text/typesetting for HarfBuzz
// shaping. Text is split into directional runs with the Unicode bidi
// algorithm before shaping, so mixed-direction lines lay out in visual
// order.
//
// Typical setup registers faces at startup and hands the service to the
// canvas:
//
//	svc := typeset.New()
//	if _, err := svc.Register("Go", easel.FontPlain, goregular.TTF); err != nil {
//		log.Fatal(err)
//	}
//	cv, err := easel.New(800, 600,
//		easel.WithDevice(dev),
//		easel.WithTypesetService(svc),
//	)
//
// A font height is the sum of ascent and descent, not the em size; the
// service converts between the two per face, so text drawn at height 14
// occupies 14 logical units vertically regardless of the font's internal
// proportions.
package typeset
