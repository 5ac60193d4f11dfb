package easel

// FontStyle is a bitmask of style flags for font selection.
type FontStyle uint8

const (
	// FontPlain selects the regular style.
	FontPlain FontStyle = 0
	// FontBold selects a bold weight.
	FontBold FontStyle = 1 << 0
	// FontItalic selects an italic slant.
	FontItalic FontStyle = 1 << 1
)

// Bold reports whether the bold flag is set.
func (s FontStyle) Bold() bool { return s&FontBold != 0 }

// Italic reports whether the italic flag is set.
func (s FontStyle) Italic() bool { return s&FontItalic != 0 }

// String returns the style name.
func (s FontStyle) String() string {
	switch {
	case s.Bold() && s.Italic():
		return "bold italic"
	case s.Bold():
		return "bold"
	case s.Italic():
		return "italic"
	default:
		return "plain"
	}
}

// Font describes a font by value: family, style, height and width scaling.
// It carries no loaded font data; the TypesetService resolves it to a
// FontFace, and the state stack caches that face until the font changes.
//
// Fonts compare with ==, which is what the cache invalidation relies on.
type Font struct {
	// Family is the family name, matched against registered faces.
	// Empty selects the service's default face.
	Family string

	// Style selects weight and slant.
	Style FontStyle

	// Height is the total font height in logical units (ascent + descent).
	Height float64

	// HorizontalScale stretches glyphs horizontally. 1.0 is the natural
	// width. Applied as a pre-multiplied transform when glyphs are drawn,
	// after positions are laid out.
	HorizontalScale float64

	// Kerning is extra advance added between glyphs, as a proportion of
	// the font height.
	Kerning float64
}

// DefaultFont returns the font used by a fresh frame state.
func DefaultFont() Font {
	return Font{Height: 14, HorizontalScale: 1}
}

// normalized returns f with zero-value fields replaced by usable defaults,
// so a zero Font behaves like DefaultFont with sizes filled in.
func (f Font) normalized() Font {
	if f.Height <= 0 {
		f.Height = 14
	}
	if f.HorizontalScale <= 0 {
		f.HorizontalScale = 1
	}
	return f
}
