package domain

import (
	"context"
	"time"
)

// LabelScore is one class of a classifier's output distribution.
type LabelScore struct {
	Label string
	Score float64
}

// NeuralProvider abstracts an external pre-trained sequence classifier.
// Classify returns the raw label distribution for a text; the adapter
// normalizes heterogeneous label schemas into the common [0,1] scale.
type NeuralProvider interface {
	Classify(ctx context.Context, text string) ([]LabelScore, error)
	Name() string
}

// ResultCache is the opaque get/set side-channel for computed results,
// keyed by a deterministic content hash. Implementations must treat a miss
// as a normal outcome; the engine tolerates cache absence entirely.
type ResultCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
