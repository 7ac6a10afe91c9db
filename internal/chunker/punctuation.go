package chunker

import "unicode"

var sentenceEndings = runeSet(".!?" + "。！？‼⁇⁈⁉")

var wordBreaks = runeSet(",;: ()[]{}\t\n" +
	"、，；：（）【】「」『』〔〕〈〉《》〖〗〘〙〚〛〝〞〟〰–—‘’‚‛“”„‟‹›")

func runeSet(s string) map[rune]struct{} {
	set := make(map[rune]struct{}, len(s))
	for _, r := range s {
		set[r] = struct{}{}
	}
	return set
}

func isSentenceEnd(r rune) bool {
	_, ok := sentenceEndings[r]
	return ok
}

func isWordBreak(r rune) bool {
	_, ok := wordBreaks[r]
	return ok
}

func isSpace(r rune) bool { return unicode.IsSpace(r) }
