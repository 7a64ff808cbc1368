package embeddings

import "fmt"

// ProviderError indicates the embedding provider call failed after the retry
// budget was spent (transient failures) or immediately (permanent failures).
type ProviderError struct {
	Transient bool
	Attempts  int
	Cause     error
}

func (e *ProviderError) Error() string {
	kind := "permanent"
	if e.Transient {
		kind = "transient"
	}
	return fmt.Sprintf("embedding provider failed (%s, %d attempts): %v", kind, e.Attempts, e.Cause)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}
