package pipeline

import (
	"fmt"
	"strings"

	"github.com/siherrmann/retriever/model"
)

// ChunkFunc is a function that splits document text into chunks.
// Returned chunks carry content, type, flags, keywords and exact start/end
// positions, but no embeddings yet.
type ChunkFunc func(text string) ([]*model.Chunk, error)

// EmbedFunc is a function that generates embeddings for text
type EmbedFunc func(text string) ([]float32, error)

// Pipeline combines chunking and embedding functions
type Pipeline struct {
	Chunker  ChunkFunc
	Embedder EmbedFunc
}

// NewPipeline creates a new processing pipeline
func NewPipeline(chunker ChunkFunc, embedder EmbedFunc) *Pipeline {
	return &Pipeline{
		Chunker:  chunker,
		Embedder: embedder,
	}
}

// ProcessingResult contains the embedded chunks and the number of chunks
// whose embedding failed and that were therefore left out.
type ProcessingResult struct {
	Chunks []*model.Chunk
	Failed int
}

// Process splits text into chunks and embeds each of them. An embedding
// failure for a single chunk does not abort its siblings; failed chunks are
// counted and skipped. A document that yields no viable chunks at all is a
// processing failure for that document.
func (p *Pipeline) Process(text string) (*ProcessingResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("document content is empty")
	}

	chunks, err := p.Chunker(text)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("document produced no viable chunks")
	}

	result := &ProcessingResult{}
	for _, chunk := range chunks {
		embedding, err := p.Embedder(chunk.Content)
		if err != nil {
			result.Failed++
			continue
		}

		chunk.Embedding = embedding
		result.Chunks = append(result.Chunks, chunk)
	}

	return result, nil
}
