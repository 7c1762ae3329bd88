package content

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/adrg/frontmatter"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// SectionMetaFile is the per-directory metadata sidecar.
const SectionMetaFile = "_dir.yaml"

// yamlFrontMatter only recognizes "---" delimited YAML blocks.
var yamlFrontMatter = frontmatter.NewFormat("---", "---", yaml.Unmarshal)

// FrontMatter is the metadata block at the top of a page.
type FrontMatter struct {
	Title *string `yaml:"title"`
	Order *int    `yaml:"order"`
}

// SectionMeta is the content of a directory's _dir.yaml.
type SectionMeta struct {
	Title *string `yaml:"title"`
	Order *int    `yaml:"order"`
}

// rawMeta is the decoded form shared by front matter and _dir.yaml.
type rawMeta struct {
	Title *string  `yaml:"title"`
	Order *yamlInt `yaml:"order"`
}

func (m rawMeta) order() *int {
	if m.Order == nil {
		return nil
	}
	n := int(*m.Order)
	return &n
}

// yamlInt accepts only integer scalars. yaml.v3 truncates floats when
// decoding into an int.
type yamlInt int

func (i *yamlInt) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode || value.ShortTag() != "!!int" {
		return fmt.Errorf("line %d: order must be an integer, got %q", value.Line, value.Value)
	}
	var n int
	if err := value.Decode(&n); err != nil {
		return err
	}
	*i = yamlInt(n)
	return nil
}

// readContent reads a content file and rejects non-UTF-8 input.
func readContent(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(data) {
		return nil, ErrInvalidUTF8
	}
	return data, nil
}

// splitFrontMatter separates the front matter of data from the Markdown body.
// A file without front matter yields the zero FrontMatter and the whole input.
func splitFrontMatter(data []byte) (FrontMatter, []byte, error) {
	var raw rawMeta
	body, err := frontmatter.Parse(bytes.NewReader(data), &raw, yamlFrontMatter)
	if err != nil {
		return FrontMatter{}, nil, fmt.Errorf("%w: %w", ErrFrontMatter, err)
	}
	fm := FrontMatter{Title: raw.Title, Order: raw.order()}
	if err := validateOrder(fm.Order); err != nil {
		if errors.Is(err, ErrZeroOrder) {
			return FrontMatter{}, nil, err
		}
		return FrontMatter{}, nil, fmt.Errorf("%w: %w", ErrFrontMatter, err)
	}
	return fm, body, nil
}

// readSectionMeta loads dir/_dir.yaml. A missing file yields the zero value.
func readSectionMeta(dir string) (SectionMeta, error) {
	data, err := readContent(filepath.Join(dir, SectionMetaFile))
	if isNotExist(err) {
		return SectionMeta{}, nil
	}
	if err != nil {
		return SectionMeta{}, err
	}

	var raw rawMeta
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return SectionMeta{}, fmt.Errorf("%w: %w", ErrSectionMeta, err)
	}
	meta := SectionMeta{Title: raw.Title, Order: raw.order()}
	if err := validateOrder(meta.Order); err != nil {
		if errors.Is(err, ErrZeroOrder) {
			return SectionMeta{}, err
		}
		return SectionMeta{}, fmt.Errorf("%w: %w", ErrSectionMeta, err)
	}
	return meta, nil
}

// validateOrder accepts a missing or positive order.
func validateOrder(order *int) error {
	if order != nil && *order == 0 {
		return ErrZeroOrder
	}
	return validation.Validate(order, validation.Min(1))
}

// explicitTitle returns the trimmed title if it is set and non-blank.
func explicitTitle(title *string) (string, bool) {
	if title == nil {
		return "", false
	}
	t := strings.TrimSpace(*title)
	return t, t != ""
}
