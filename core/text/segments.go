package text

import "regexp"

var htmlTagRegex = regexp.MustCompile(`<[^>]*>`)

// StripHTML removes the inline markup (<b>, <i>, <small>...) the provider leaves in texts.
func StripHTML(s string) string {
	return htmlTagRegex.ReplaceAllString(s, "")
}

// Segments pairs the Hebrew and English entries of ch by position.
// The longer of the two arrays sets the count; a missing side is empty.
func Segments(ch Chapter) []Segment {
	count := len(ch.He)
	if len(ch.Text) > count {
		count = len(ch.Text)
	}
	segs := make([]Segment, 0, count)
	for i := 0; i < count; i++ {
		seg := Segment{Number: i + 1}
		if i < len(ch.He) {
			seg.Hebrew = StripHTML(ch.He[i])
		}
		if i < len(ch.Text) {
			seg.English = StripHTML(ch.Text[i])
		}
		segs = append(segs, seg)
	}
	return segs
}
