package format

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Kind is the on-disk variant of a YAML file.
type Kind int

const (
	YAMLKind Kind = iota
	GzipYAMLKind
)

var ErrBadFormat = errors.New("bad format")

func ParseKind(v string) (Kind, error) {
	k, ok := map[string]Kind{
		"y":       YAMLKind,
		"yaml":    YAMLKind,
		"yml":     YAMLKind,
		"gz":      GzipYAMLKind,
		"yaml.gz": GzipYAMLKind,
		"yml.gz":  GzipYAMLKind,
	}[v]
	if ok {
		return k, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBadFormat, v)
}

// KindOf selects the file variant from the extension of path.
func KindOf(path string) (Kind, error) {
	base := strings.ToLower(filepath.Base(path))
	gz := false
	if strings.HasSuffix(base, ".gz") {
		gz = true
		base = strings.TrimSuffix(base, ".gz")
	}
	switch filepath.Ext(base) {
	case ".yaml", ".yml":
	default:
		return 0, fmt.Errorf("%w: %q is not a .yaml or .yml file", ErrBadFormat, path)
	}
	if gz {
		return GzipYAMLKind, nil
	}
	return YAMLKind, nil
}

func (k Kind) String() string {
	d, err := k.MarshalText()
	if err != nil {
		return err.Error()
	}
	return string(d)
}

func (k Kind) MarshalText() ([]byte, error) {
	switch k {
	case YAMLKind:
		return []byte("yaml"), nil
	case GzipYAMLKind:
		return []byte("yaml.gz"), nil
	default:
		return nil, fmt.Errorf("<err: %d is not a format kind>", k)
	}
}

func (k *Kind) UnmarshalText(d []byte) error {
	pk, err := ParseKind(string(d))
	if err != nil {
		return err
	}
	*k = pk
	return nil
}

func (k Kind) IsGzip() bool { return k == GzipYAMLKind }

// Suffix returns the file extension for this kind (including the dot).
func (k Kind) Suffix() string {
	switch k {
	case GzipYAMLKind:
		return ".yaml.gz"
	default:
		return ".yaml"
	}
}
