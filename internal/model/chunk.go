package model

// Chunk is one token-bounded segment produced by the external document
// chunker. The routing core reads Section for all chunks and Text for the
// opening chunks used by project-type classification.
type Chunk struct {
	ChunkID    int    `json:"chunk_id"`
	Page       int    `json:"page"`
	Section    string `json:"section"`
	Text       string `json:"text"`
	TokenCount int    `json:"token_count"`
}
