package typeset

import "golang.org/x/text/unicode/bidi"

// segment is a directionally uniform slice of a line.
type segment struct {
	text string
	rtl  bool
}

// visualSegments splits a single line into directional runs, ordered left
// to right as they should appear on screen. Text without strong
// right-to-left characters comes back as one LTR run.
func visualSegments(text string) []segment {
	var p bidi.Paragraph
	if _, err := p.SetString(text); err != nil {
		return []segment{{text: text}}
	}
	ordering, err := p.Order()
	if err != nil {
		return []segment{{text: text}}
	}
	n := ordering.NumRuns()
	if n == 0 {
		return []segment{{text: text}}
	}
	segs := make([]segment, 0, n)
	for i := 0; i < n; i++ {
		run := ordering.Run(i)
		segs = append(segs, segment{
			text: run.String(),
			rtl:  run.Direction() == bidi.RightToLeft,
		})
	}
	return segs
}
