package embedding

import "context"

// Cache stores previously computed query embeddings.
type Cache interface {
	Get(key string) ([]float32, bool)
	Set(key string, vector []float32)
}

// Provider vectorizes text over the network.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
