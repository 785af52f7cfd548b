// Package neural contains NeuralProvider implementations: an HTTP client
// for self-hosted transformer inference services and an OpenAI-backed
// classifier. Providers return raw label distributions; normalization to
// the common sentiment scale happens in the analysis package.
package neural
