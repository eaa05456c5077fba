package services

import "strings"

type TextChunker interface {
	ChunkText(text string, chunkSize int) []string
}

type textChunker struct{}

func NewTextChunker() TextChunker {
	return &textChunker{}
}

// ChunkText implements TextChunker. It splits on '.' as a terminal delimiter
// (a deliberately naive sentence split) and greedily packs sentences into
// chunks of roughly chunkSize characters. Sentences are never split; a chunk
// is closed once the next sentence would push it past the target. The whole
// text is returned as a single chunk when no sentences are found.
func (tc *textChunker) ChunkText(text string, chunkSize int) []string {
	if chunkSize <= 0 {
		chunkSize = 500
	}

	sentences := strings.Split(text, ".")

	var chunks []string
	var current []string
	currentLength := 0

	for _, sentence := range sentences {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}

		sentenceLen := len(sentence)

		if currentLength+sentenceLen > chunkSize && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, ". ")+".")
			current = []string{sentence}
			currentLength = sentenceLen
		} else {
			current = append(current, sentence)
			currentLength += sentenceLen
		}
	}

	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, ". ")+".")
	}

	if len(chunks) == 0 {
		return []string{text}
	}

	return chunks
}
