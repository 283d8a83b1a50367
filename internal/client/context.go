package client

import "context"

type seqKey struct{}

// WithSequence tags ctx with a request sequence number for the wire log.
func WithSequence(ctx context.Context, seq uint64) context.Context {
	return context.WithValue(ctx, seqKey{}, seq)
}

// SequenceFrom returns the sequence number set by WithSequence.
func SequenceFrom(ctx context.Context) (uint64, bool) {
	seq, ok := ctx.Value(seqKey{}).(uint64)
	return seq, ok
}
