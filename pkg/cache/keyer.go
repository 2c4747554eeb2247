package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// keyVersion changes whenever the render output changes shape,
// so entries written by older builds are never read back.
const keyVersion = "v1"

// Keyer builds cache keys for rendered artifacts. Layouts are cheap to
// recompute and are never stored.
type Keyer interface {
	// ArtifactKey is the key for one rendered output of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the options that affect a rendered artifact.
type ArtifactKeyOpts struct {
	Format      string `json:"f"`
	Interactive bool   `json:"i,omitempty"`
	Outline     bool   `json:"o,omitempty"`
	AssetBase   string `json:"a,omitempty"`
}

// DefaultKeyer produces "<stage>:v1:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return stageKey("artifact", layoutHash, opts)
}

// ScopedKeyer prefixes every key of an inner Keyer, so several servers can
// share one Redis instance, e.g. NewScopedKeyer(nil, "pinmap:prod:").
type ScopedKeyer struct {
	Inner  Keyer
	Prefix string
}

// NewScopedKeyer wraps inner, or a DefaultKeyer when inner is nil. An empty
// prefix returns inner unchanged.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = DefaultKeyer{}
	}
	if prefix == "" {
		return inner
	}
	return ScopedKeyer{Inner: inner, Prefix: prefix}
}

func (k ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.Prefix + k.Inner.ArtifactKey(layoutHash, opts)
}

var (
	_ Keyer = DefaultKeyer{}
	_ Keyer = ScopedKeyer{}
)

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func stageKey(stage, parent string, opts any) string {
	h := sha256.New()
	h.Write([]byte(parent))
	h.Write([]byte{0})
	_ = json.NewEncoder(h).Encode(opts)
	return stage + ":" + keyVersion + ":" + hex.EncodeToString(h.Sum(nil))
}
