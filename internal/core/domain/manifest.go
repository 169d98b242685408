package domain

// Manifest is everything that determines the bytes of an artifact.
// Fingerprinting encodes it canonically, so field order and tags are part of
// the naming contract.
type Manifest struct {
	InputPaths   []string          `cbor:"1,keyasint"`
	Debug        bool              `cbor:"2,keyasint"`
	Flags        KindFlags         `cbor:"3,keyasint"`
	Template     string            `cbor:"4,keyasint"`
	Presets      map[string]string `cbor:"5,keyasint,omitempty"`
	Kind         Kind              `cbor:"6,keyasint"`
	Assets       []string          `cbor:"7,keyasint"`
	LastModified int64             `cbor:"8,keyasint"`
}

// NewManifest builds the manifest of a packer state.
func NewManifest(kind Kind, cfg Config, reg *Registry) Manifest {
	m := Manifest{
		InputPaths: cfg.InputPaths(),
		Debug:      cfg.Debug(),
		Flags:      reg.Flags(),
		Template:   cfg.Name().String(),
		Presets:    cfg.Presets(),
		Kind:       kind,
		Assets:     reg.Paths(),
	}
	if lm := reg.LastModified(); !lm.IsZero() {
		m.LastModified = lm.UnixNano()
	}
	return m
}
