package cache

import (
	"crypto/sha256"
	"encoding/hex"

	json "github.com/goccy/go-json"
)

// RenderKeyOpts identifies how a DOT source is turned into an artifact.
type RenderKeyOpts struct {
	Engine string `json:"engine"` // dot, neato, sfdp, circo
	Format string `json:"format"` // svg, plain
}

// Keyer generates cache keys for rendered artifacts.
type Keyer interface {
	// RenderKey returns the key for the artifact of dot rendered with opts.
	RenderKey(dot []byte, opts RenderKeyOpts) string
}

// DefaultKeyer hashes the DOT source together with the render options.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// RenderKey implements [Keyer].
func (DefaultKeyer) RenderKey(dot []byte, opts RenderKeyOpts) string {
	return hashKey("render", Hash(dot), opts)
}

// ScopedKeyer puts every key of its inner Keyer into a namespace. The CLI
// scopes keys by release, so frames styled by an older tdvisu are never
// served to a newer one.
//
//	keyer := NewScopedKeyer(nil, "v0.4.0:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// A nil inner keyer falls back to [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// RenderKey generates a prefixed render key.
func (k *ScopedKeyer) RenderKey(dot []byte, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(dot, opts)
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey returns "prefix:" followed by the hash of the JSON encoding of parts.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return prefix + ":" + Hash(data)
}
