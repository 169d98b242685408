package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

type nameMode uint8

const (
	nameContentAddressed nameMode = iota
	nameFixed
)

// NameTemplate describes how the output file of a bundle is named.
//
// A fixed name maps every state of the packer to the same file. A content
// addressed template has its single placeholder replaced by the fingerprint.
// The zero value is the content addressed template "*".
type NameTemplate struct {
	mode  nameMode
	value string
}

// FixedName returns a template that always resolves to name.
func FixedName(name string) NameTemplate {
	return NameTemplate{mode: nameFixed, value: name}
}

// ContentAddressedName returns a template whose placeholder is replaced by the fingerprint.
func ContentAddressedName(template string) (NameTemplate, error) {
	if strings.Count(template, NamePlaceholder) != 1 {
		return NameTemplate{}, zerr.With(zerr.Wrap(ErrInvalidNameTemplate, "parse name template"), "template", template)
	}
	return NameTemplate{mode: nameContentAddressed, value: template}, nil
}

// ParseNameTemplate picks the variant from the presence of the placeholder.
func ParseNameTemplate(s string) (NameTemplate, error) {
	if !strings.Contains(s, NamePlaceholder) {
		return FixedName(s), nil
	}
	return ContentAddressedName(s)
}

func mustContentAddressed(template string) NameTemplate {
	t, err := ContentAddressedName(template)
	if err != nil {
		panic(err)
	}
	return t
}

// IsContentAddressed reports whether the name depends on the fingerprint.
func (t NameTemplate) IsContentAddressed() bool {
	return t.mode == nameContentAddressed
}

// Resolve returns the file name for the given fingerprint.
func (t NameTemplate) Resolve(fingerprint string) string {
	if !t.IsContentAddressed() {
		return t.value
	}
	return strings.Replace(t.raw(), NamePlaceholder, fingerprint, 1)
}

// String returns the template as written in configuration.
func (t NameTemplate) String() string {
	return t.raw()
}

func (t NameTemplate) raw() string {
	if t.mode == nameContentAddressed && t.value == "" {
		return DefaultNameTemplate
	}
	return t.value
}
