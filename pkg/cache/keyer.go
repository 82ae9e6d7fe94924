package cache

// Keyer generates cache keys.
type Keyer interface {
	// ImageKey is the key for a decoded-and-reencoded image from a source.
	ImageKey(source, id string) string

	// ArtifactKey is the key for a rendered output identified by the hash of
	// its inputs.
	ArtifactKey(inputHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts holds the render options that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Layout     string `json:"layout"`
	Padding    int    `json:"padding,omitempty"`
	Background string `json:"background,omitempty"`
	MaxWidth   int    `json:"max_width,omitempty"`
	Index      int    `json:"index"`
}

// DefaultKeyer produces unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ImageKey returns "image:<source>:<id>".
func (DefaultKeyer) ImageKey(source, id string) string {
	return "image:" + source + ":" + id
}

// ArtifactKey hashes the input hash together with opts.
func (DefaultKeyer) ArtifactKey(inputHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", inputHash, opts)
}
