package mindmap

import (
	"strings"
	"unicode"

	"github.com/pkoukk/tiktoken-go"
)

// Chunk is one token-bounded, sentence-aligned segment of the input text.
// Start and End are sentence indices into the split input; chunks after the
// first re-include a trailing fraction of the previous chunk's sentences so
// no idea is cut mid-context.
type Chunk struct {
	Index int
	Start int
	End   int
	Text  string
}

// BuildChunks splits raw text into overlapping, sentence-bounded chunks of
// at most maxTokens tokens (measured with the given tiktoken encoding).
// overlap is the fraction of a chunk's sentences repeated at the start of
// the next chunk.
//
// Splitting is a pure function: identical input and parameters always yield
// identical chunk boundaries. Falls back to line splitting when the text
// has no sentence boundaries, and to a single whole-text chunk when it has
// no line structure either.
func BuildChunks(text string, encoder string, maxTokens int, overlap float64) ([]Chunk, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	enc, err := tiktoken.GetEncoding(encoder)
	if err != nil {
		return nil, err
	}
	if maxTokens <= 0 {
		maxTokens = 1
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap > 0.9 {
		overlap = 0.9
	}

	sentences := splitIntoSentences(text)

	// A single oversized "sentence" means there were no usable sentence
	// boundaries; retry on line boundaries before giving up.
	if len(sentences) <= 1 && len(enc.Encode(text, nil, nil)) > maxTokens {
		sentences = splitIntoLines(text)
	}
	if len(sentences) == 0 {
		sentences = []string{text}
	}

	counts := make([]int, len(sentences))
	for i, s := range sentences {
		counts[i] = len(enc.Encode(s, nil, nil))
	}

	var chunks []Chunk
	for start := 0; start < len(sentences); {
		end := start + 1
		tokens := counts[start]
		for end < len(sentences) && tokens+counts[end] <= maxTokens {
			tokens += counts[end]
			end++
		}

		chunks = append(chunks, Chunk{
			Index: len(chunks),
			Start: start,
			End:   end,
			Text:  strings.Join(sentences[start:end], " "),
		})

		if end >= len(sentences) {
			break
		}

		keep := int(float64(end-start) * overlap)
		if keep >= end-start {
			keep = end - start - 1
		}
		if keep < 0 {
			keep = 0
		}
		start = end - keep
	}

	return chunks, nil
}

func splitIntoLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// splitIntoSentences breaks text into sentences. Lines belonging to the
// same sentence are joined; an empty line always ends the current sentence.
func splitIntoSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	flush := func() {
		s := strings.TrimSpace(current.String())
		if s != "" {
			sentences = append(sentences, s)
		}
		current.Reset()
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			flush()
			continue
		}

		for _, sentence := range splitLineIntoSentences(trimmed) {
			if current.Len() > 0 {
				current.WriteString(" ")
			}
			current.WriteString(sentence)

			if hasSentenceTerminator(sentence) {
				flush()
			}
		}
	}
	flush()

	return sentences
}

func hasSentenceTerminator(sentence string) bool {
	s := strings.TrimRight(strings.TrimSpace(sentence), "\"')]}")
	return strings.HasSuffix(s, ".") ||
		strings.HasSuffix(s, "!") ||
		strings.HasSuffix(s, "?")
}

func splitLineIntoSentences(line string) []string {
	var sentences []string
	var current strings.Builder

	for i := 0; i < len(line); i++ {
		current.WriteByte(line[i])

		if line[i] != '.' && line[i] != '!' && line[i] != '?' {
			continue
		}

		// "1. First item" style listings are not sentence ends
		if line[i] == '.' && i > 0 && unicode.IsDigit(rune(line[i-1])) &&
			i+1 < len(line) && line[i+1] == ' ' {
			continue
		}

		j := i + 1
		for j < len(line) && (line[j] == '.' || line[j] == '!' || line[j] == '?') {
			current.WriteByte(line[j])
			j++
		}
		for j < len(line) && (line[j] == '"' || line[j] == '\'' || line[j] == ')' ||
			line[j] == ']' || line[j] == '}') {
			current.WriteByte(line[j])
			j++
		}

		if s := strings.TrimSpace(current.String()); s != "" {
			sentences = append(sentences, s)
		}
		current.Reset()
		i = j - 1
	}

	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}
