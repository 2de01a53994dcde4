package diagnosis

import (
	"strconv"
	"strings"
)

// NotSpecified is returned for any block missing from the model reply.
// A malformed reply is not an error; it degrades field by field.
const NotSpecified = "Not specified"

// ExtractBlock returns the trimmed content following the Nth numbered
// label in text, up to (but not including) the next numbered label or the
// end of text. The reply is expected to contain lines like
//
//	N. <label>: <content>
//
// This is a best-effort scan over unstructured model output, not a
// grammar: the upstream model is only asked, informally, to follow the
// six-section format, so behavior on format drift is undefined beyond
// "missing blocks come back as the placeholder".
func ExtractBlock(n int, text string) string {
	start := blockContentStart(n, text)
	if start < 0 {
		return NotSpecified
	}
	content := text[start:]
	if end := strings.Index(content, strconv.Itoa(n+1)+"."); end >= 0 {
		content = content[:end]
	}
	return strings.TrimSpace(content)
}

// blockContentStart finds the index just past the colon of the Nth
// numbered label, or -1. The label must sit on one line: "N. " followed by
// a colon before the next newline. Blocks are located independently, so
// out-of-order replies still extract.
func blockContentStart(n int, text string) int {
	marker := strconv.Itoa(n) + ". "
	from := 0
	for {
		i := strings.Index(text[from:], marker)
		if i < 0 {
			return -1
		}
		i += from
		rest := text[i+len(marker):]
		lineEnd := strings.IndexByte(rest, '\n')
		if lineEnd < 0 {
			lineEnd = len(rest)
		}
		colon := strings.IndexByte(rest[:lineEnd], ':')
		if colon >= 0 {
			return i + len(marker) + colon + 1
		}
		from = i + len(marker)
	}
}

// ExtractResult slices a six-section reply into the named result fields
// and attaches the transcript.
func ExtractResult(reply, transcript string) Result {
	return Result{
		Diagnosis:    ExtractBlock(1, reply),
		Message:      ExtractBlock(2, reply),
		Severity:     ExtractBlock(3, reply),
		DangerLevel:  ExtractBlock(4, reply),
		CostEstimate: ExtractBlock(5, reply),
		NextStep:     ExtractBlock(6, reply),
		Transcript:   transcript,
	}
}
