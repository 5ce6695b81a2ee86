package pipeline

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/siherrmann/retriever/model"
)

var (
	questionPattern = regexp.MustCompile(`(?mi)^[ \t]*(?:q|question)[ \t]*[:.)][ \t]*`)
	answerPattern   = regexp.MustCompile(`(?mi)^[ \t]*(?:a|answer)[ \t]*[:.)][ \t]*`)
)

// HasQADelimiters reports whether the text contains at least one
// question/answer delimited unit.
func HasQADelimiters(text string) bool {
	return questionPattern.MatchString(text) && answerPattern.MatchString(text)
}

// QAChunker creates a chunking function for question/answer delimited
// documents. Every delimited unit becomes exactly one chunk so a pair is
// never split across chunks and never merged with a neighbouring pair.
// Text before the first question marker becomes a plain text chunk.
func QAChunker() ChunkFunc {
	return func(text string) ([]*model.Chunk, error) {
		if strings.TrimSpace(text) == "" {
			return []*model.Chunk{}, nil
		}

		markers := questionPattern.FindAllStringIndex(text, -1)
		if len(markers) == 0 {
			return nil, fmt.Errorf("no question markers found in text")
		}

		var chunks []*model.Chunk
		chunkIndex := 0

		appendChunk := func(start, end int, chunkType model.ChunkType, hasQuestion, hasAnswer bool) {
			content := strings.TrimSpace(text[start:end])
			if content == "" {
				return
			}
			startPos := start
			endPos := end
			index := chunkIndex
			chunks = append(chunks, &model.Chunk{
				Content:     content,
				ChunkType:   chunkType,
				HasQuestion: hasQuestion,
				HasAnswer:   hasAnswer,
				Keywords:    ExtractKeywords(content, defaultKeywordLimit),
				StartPos:    &startPos,
				EndPos:      &endPos,
				ChunkIndex:  &index,
			})
			chunkIndex++
		}

		// Preamble before the first question marker
		appendChunk(0, markers[0][0], model.ChunkTypeText, false, false)

		for i, marker := range markers {
			end := len(text)
			if i+1 < len(markers) {
				end = markers[i+1][0]
			}
			unit := text[marker[0]:end]
			appendChunk(marker[0], end, model.ChunkTypeQA, true, answerPattern.MatchString(unit))
		}

		return chunks, nil
	}
}

// WindowChunker creates a sliding window chunking function. Windows are cut
// preferring paragraph breaks over sentence ends over word boundaries, with a
// hard cut as last resort. Consecutive chunks overlap by the given number of
// characters. Start and end positions are exact offsets into the input, so
// concatenating chunk contents minus overlaps reconstructs the document.
// Windows that trim to nothing are dropped, so a whitespace run longer than a
// window leaves a gap in the reconstruction; positions stay exact offsets
// either way and every gap is pure whitespace. A trailing chunk shorter than
// minChunkSize is merged into its predecessor, or dropped when it has none.
func WindowChunker(maxChunkSize int, overlap int, minChunkSize int) ChunkFunc {
	return func(text string) ([]*model.Chunk, error) {
		if maxChunkSize <= 0 {
			return nil, fmt.Errorf("max chunk size must be positive, got %d", maxChunkSize)
		}
		if overlap < 0 || overlap >= maxChunkSize {
			return nil, fmt.Errorf("overlap must be in [0, %d), got %d", maxChunkSize, overlap)
		}
		if strings.TrimSpace(text) == "" {
			return []*model.Chunk{}, nil
		}

		var chunks []*model.Chunk
		chunkIndex := 0
		pos := 0

		for pos < len(text) {
			end := pos + maxChunkSize
			if end >= len(text) {
				end = len(text)
			} else {
				end = findBreakpoint(text, pos, end)
			}

			content := text[pos:end]
			if strings.TrimSpace(content) != "" {
				startPos := pos
				endPos := end
				index := chunkIndex
				chunks = append(chunks, &model.Chunk{
					Content:    content,
					ChunkType:  model.ChunkTypeText,
					Keywords:   ExtractKeywords(content, defaultKeywordLimit),
					StartPos:   &startPos,
					EndPos:     &endPos,
					ChunkIndex: &index,
				})
				chunkIndex++
			}

			if end >= len(text) {
				break
			}

			next := end - overlap
			if next <= pos {
				next = pos + 1
			}
			pos = next
		}

		// Trailing runt handling
		if len(chunks) > 0 {
			last := chunks[len(chunks)-1]
			if len(last.Content) < minChunkSize {
				if len(chunks) == 1 {
					return []*model.Chunk{}, nil
				}
				prev := chunks[len(chunks)-2]
				prev.Content = text[*prev.StartPos:*last.EndPos]
				*prev.EndPos = *last.EndPos
				prev.Keywords = ExtractKeywords(prev.Content, defaultKeywordLimit)
				chunks = chunks[:len(chunks)-1]
			}
		}

		return chunks, nil
	}
}

// findBreakpoint picks the cut position for the window text[start:limit].
// Only candidates in the second half of the window are considered so chunks
// never shrink below half the window size.
func findBreakpoint(text string, start int, limit int) int {
	window := text[start:limit]
	minCut := len(window) / 2

	if i := strings.LastIndex(window, "\n\n"); i >= minCut {
		return start + i + 2
	}

	best := -1
	for _, sep := range []string{". ", "! ", "? ", ".\n", "!\n", "?\n"} {
		if i := strings.LastIndex(window, sep); i >= minCut && i+len(sep) > best {
			best = i + len(sep)
		}
	}
	if best >= 0 {
		return start + best
	}

	if i := strings.LastIndexByte(window, ' '); i >= minCut {
		return start + i + 1
	}

	return limit
}

// AutoChunker creates a chunking function that detects the document shape.
// Question/answer delimited documents go through the QA chunker, everything
// else through the sliding window chunker configured from the given config.
func AutoChunker(config *model.RetrievalConfig) ChunkFunc {
	qaChunker := QAChunker()
	windowChunker := WindowChunker(config.ChunkSize, config.EffectiveOverlap(), config.MinChunkSize)

	return func(text string) ([]*model.Chunk, error) {
		if HasQADelimiters(text) {
			return qaChunker(text)
		}
		return windowChunker(text)
	}
}
