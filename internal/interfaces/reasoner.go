package interfaces

import "context"

// Reasoner is the single request/response boundary to the external
// natural-language reasoning service. Implementations send a system
// instruction plus a user prompt and return the raw text reply.
type Reasoner interface {
	Complete(ctx context.Context, system, user string) (string, error)
}
