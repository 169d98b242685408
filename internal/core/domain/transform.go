package domain

// TransformRequest is the input of a single transform run.
type TransformRequest struct {
	Kind    Kind
	Assets  []Asset
	Debug   bool
	Flags   KindFlags
	Presets map[string]string
}

// CompileRequest asks a preprocessor to turn one source into plain CSS.
type CompileRequest struct {
	Source  Source
	Path    string
	Content []byte
	Presets map[string]string
}
