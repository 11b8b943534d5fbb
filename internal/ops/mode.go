package ops

import "context"

type interactiveKey struct{}

// WithInteractive returns a context whose interactive flag is on. Operations
// run with an interactive context compose a text summary in Result.Output.
// The parent context is not modified, so an override ends with the scope
// that uses the returned context.
func WithInteractive(ctx context.Context, on bool) context.Context {
	return context.WithValue(ctx, interactiveKey{}, on)
}

// Interactive reports whether ctx asks for text summaries.
func Interactive(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	on, _ := ctx.Value(interactiveKey{}).(bool)
	return on
}
