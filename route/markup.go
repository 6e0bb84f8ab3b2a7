package route

import "strings"

// StripMarkup removes simple HTML tags and entities from instruction text,
// returning the plain form suitable for speech. Raw markup never travels past
// route normalization.
func StripMarkup(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			if inTag {
				inTag = false
			} else {
				b.WriteRune(r)
			}
		case !inTag:
			b.WriteRune(r)
		}
	}
	out := b.String()
	replacer := strings.NewReplacer(
		"&nbsp;", " ",
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
	)
	out = replacer.Replace(out)
	return strings.Join(strings.Fields(out), " ")
}
