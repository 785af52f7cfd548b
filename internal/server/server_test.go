package server

import (
	"context"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/parwely/brands-intelligence-platform/internal/analysis"
	"github.com/parwely/brands-intelligence-platform/internal/config"
)

type stubPinger struct {
	err error
}

func (p *stubPinger) Ping(context.Context) error { return p.err }

// newTestServer builds a server over a real lexicon-only engine, so
// handler tests exercise actual scoring semantics.
func newTestServer(t *testing.T, pinger cachePinger) *Server {
	t.Helper()

	clock := clockwork.NewFakeClock()
	lex := analysis.NewLexicon()
	ensemble, err := analysis.NewEnsemble(
		analysis.NewLexiconScorer(lex),
		nil,
		analysis.NewNeuralAdapter(nil, analysis.NeuralOptions{}),
		analysis.DefaultEnsembleWeights(),
	)
	require.NoError(t, err)

	engine := analysis.NewEngine(
		ensemble,
		analysis.NewCrisisDetector(lex, clock),
		analysis.NewHealthAggregator(),
		nil,
		clock,
	)

	cfg := &config.Config{Port: "0"}
	return NewServer(cfg, engine, pinger, clock)
}
