package pipeline

import (
	"errors"
	"strings"
	"testing"

	"github.com/siherrmann/retriever/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int {
	return &i
}

// Mock ChunkFunc for testing
func mockChunkFunc(text string) ([]*model.Chunk, error) {
	if text == "" {
		return nil, errors.New("empty text")
	}

	chunks := []*model.Chunk{
		{
			Content:    "Chunk 1",
			ChunkType:  model.ChunkTypeText,
			StartPos:   intPtr(0),
			EndPos:     intPtr(7),
			ChunkIndex: intPtr(0),
			Metadata:   model.Metadata{"index": 0},
		},
		{
			Content:    "Chunk 2",
			ChunkType:  model.ChunkTypeText,
			StartPos:   intPtr(8),
			EndPos:     intPtr(15),
			ChunkIndex: intPtr(1),
			Metadata:   model.Metadata{"index": 1},
		},
	}
	return chunks, nil
}

// Mock EmbedFunc for testing
func mockEmbedFunc(text string) ([]float32, error) {
	if text == "" {
		return nil, errors.New("empty text")
	}

	embedding := make([]float32, 384)
	for i := range embedding {
		embedding[i] = float32((len(text)+i)%100) / 100.0
	}
	return embedding, nil
}

func TestNewPipeline(t *testing.T) {
	t.Run("Creates pipeline with both functions", func(t *testing.T) {
		p := NewPipeline(mockChunkFunc, mockEmbedFunc)

		require.NotNil(t, p)
		assert.NotNil(t, p.Chunker)
		assert.NotNil(t, p.Embedder)
	})
}

func TestPipelineProcess(t *testing.T) {
	t.Run("Processes text into embedded chunks", func(t *testing.T) {
		p := NewPipeline(mockChunkFunc, mockEmbedFunc)

		result, err := p.Process("Chunk 1 Chunk 2")

		require.NoError(t, err)
		require.Len(t, result.Chunks, 2)
		assert.Equal(t, 0, result.Failed)
		for i, chunk := range result.Chunks {
			assert.Len(t, chunk.Embedding, 384, "Chunk %d should carry an embedding", i)
		}
	})

	t.Run("Empty text is rejected", func(t *testing.T) {
		p := NewPipeline(mockChunkFunc, mockEmbedFunc)

		_, err := p.Process("   ")
		assert.Error(t, err)
	})

	t.Run("Chunker error aborts processing", func(t *testing.T) {
		failingChunker := func(text string) ([]*model.Chunk, error) {
			return nil, errors.New("chunker broke")
		}
		p := NewPipeline(failingChunker, mockEmbedFunc)

		_, err := p.Process("some text")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "chunker broke")
	})

	t.Run("Zero viable chunks is a processing failure", func(t *testing.T) {
		emptyChunker := func(text string) ([]*model.Chunk, error) {
			return []*model.Chunk{}, nil
		}
		p := NewPipeline(emptyChunker, mockEmbedFunc)

		_, err := p.Process("some text")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no viable chunks")
	})

	t.Run("Single embedding failure does not abort siblings", func(t *testing.T) {
		// Fails only for content containing "poison"
		selectiveEmbedder := func(text string) ([]float32, error) {
			if strings.Contains(text, "poison") {
				return nil, errors.New("embedding service unavailable")
			}
			return mockEmbedFunc(text)
		}
		chunker := func(text string) ([]*model.Chunk, error) {
			return []*model.Chunk{
				{Content: "healthy chunk one", ChunkType: model.ChunkTypeText},
				{Content: "poison chunk", ChunkType: model.ChunkTypeText},
				{Content: "healthy chunk two", ChunkType: model.ChunkTypeText},
			}, nil
		}
		p := NewPipeline(chunker, selectiveEmbedder)

		result, err := p.Process("irrelevant")

		require.NoError(t, err, "A single failing chunk should not fail the document")
		assert.Len(t, result.Chunks, 2, "Healthy chunks should survive")
		assert.Equal(t, 1, result.Failed, "The failed chunk should be counted")
		for _, chunk := range result.Chunks {
			assert.NotContains(t, chunk.Content, "poison")
		}
	})

	t.Run("All embeddings failing leaves no chunks", func(t *testing.T) {
		failingEmbedder := func(text string) ([]float32, error) {
			return nil, errors.New("embedding service down")
		}
		p := NewPipeline(mockChunkFunc, failingEmbedder)

		result, err := p.Process("Chunk 1 Chunk 2")

		require.NoError(t, err)
		assert.Empty(t, result.Chunks)
		assert.Equal(t, 2, result.Failed)
	})
}
