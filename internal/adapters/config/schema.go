package config

import (
	"gopkg.in/yaml.v3"
)

// Packerfile represents the structure of the packer.yaml configuration file.
type Packerfile struct {
	Version     string              `yaml:"version"`
	InputPath   PathList            `yaml:"input_path"`
	OutputPath  string              `yaml:"output_path"`
	Debug       bool                `yaml:"debug"`
	Hash        HashDTO             `yaml:"hash"`
	Precompress []string            `yaml:"precompress"`
	Compilers   map[string][]string `yaml:"compilers"`
	Bundles     BundleList          `yaml:"bundles"`
}

// HashDTO configures fingerprinting.
type HashDTO struct {
	Algorithm string `yaml:"algorithm"`
	Length    int    `yaml:"length"`
}

// BundleDTO represents a bundle definition in the configuration.
type BundleDTO struct {
	Name       string            `yaml:"-"`
	Kind       string            `yaml:"kind"`
	FileName   string            `yaml:"file_name"`
	InputPath  PathList          `yaml:"input_path"`
	OutputPath string            `yaml:"output_path"`
	Debug      *bool             `yaml:"debug"`
	AddOnce    bool              `yaml:"add_once"`
	AtomicAdd  bool              `yaml:"atomic_add"`
	Presets    map[string]string `yaml:"presets"`
	Assets     []string          `yaml:"assets"`
}

// PathList accepts either a single path or a list of paths.
type PathList []string

// UnmarshalYAML implements custom unmarshaling to support both string and list forms.
func (p *PathList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		if value.Value == "" {
			*p = nil
			return nil
		}
		*p = PathList{value.Value}
		return nil
	}

	var list []string
	if err := value.Decode(&list); err != nil {
		return err
	}
	*p = list
	return nil
}

// BundleList keeps bundles in the order they are declared.
type BundleList []BundleDTO

// UnmarshalYAML decodes a mapping of bundle name to definition.
func (b *BundleList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return &yaml.TypeError{Errors: []string{"bundles must be a mapping of name to bundle"}}
	}

	list := make(BundleList, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		var dto BundleDTO
		if err := value.Content[i+1].Decode(&dto); err != nil {
			return err
		}
		dto.Name = value.Content[i].Value
		list = append(list, dto)
	}
	*b = list
	return nil
}
