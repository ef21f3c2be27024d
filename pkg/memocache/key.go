package memocache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Key builds a cache key from an operation name and its arguments.
//
// The name should qualify the operation unambiguously (e.g.
// "resolver.FindProperty") so that different operations sharing one Cache
// never collide. Arguments are canonicalized by JSON marshalling — object
// keys are emitted sorted, so maps with equal contents produce equal keys
// regardless of insertion order — and hashed with SHA-256.
//
// Arguments that cannot be marshalled (channels, functions) are a caller
// contract violation and return an error rather than silently bypassing
// the cache.
func Key(name string, args ...any) (string, error) {
	data, err := json.Marshal(args)
	if err != nil {
		return "", fmt.Errorf("memocache: key for %s: unencodable arguments: %w", name, err)
	}
	sum := sha256.Sum256(data)
	return name + ":" + hex.EncodeToString(sum[:]), nil
}
