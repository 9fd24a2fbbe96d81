// Package viewdata loads view data for rendering from JSON, HCL and TOML
// sources into cty values.
package viewdata

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/pelletier/go-toml"
	"github.com/vk/mustachio/internal/ctxlog"
	"github.com/vk/mustachio/internal/value"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// ErrUnsupportedFormat is returned by Load for unknown file extensions.
var ErrUnsupportedFormat = errors.New("unsupported view data format")

// Load reads the view data file at path, choosing the decoder by extension.
func Load(ctx context.Context, path string) (cty.Value, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading view data.", "path", path)

	ext := strings.ToLower(filepath.Ext(path))
	var decode func([]byte, string) (cty.Value, error)
	switch ext {
	case ".json":
		decode = func(b []byte, _ string) (cty.Value, error) { return FromJSON(b) }
	case ".hcl":
		decode = FromHCL
	case ".toml":
		decode = func(b []byte, _ string) (cty.Value, error) { return FromTOML(b) }
	default:
		return cty.NilVal, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return cty.NilVal, fmt.Errorf("failed to read view data: %w", err)
	}
	v, err := decode(src, path)
	if err != nil {
		return cty.NilVal, fmt.Errorf("failed to decode view data '%s': %w", path, err)
	}

	logger.Debug("Loaded view data.", "path", path, "type", v.Type().FriendlyName())
	return v, nil
}

// FromJSON decodes a JSON document. Objects become cty objects and arrays
// become tuples.
func FromJSON(src []byte) (cty.Value, error) {
	ty, err := ctyjson.ImpliedType(src)
	if err != nil {
		return cty.NilVal, err
	}
	return ctyjson.Unmarshal(src, ty)
}

// FromHCL decodes an HCL body made of top-level attributes into an object.
// Expressions are evaluated without variables or functions.
func FromHCL(src []byte, filename string) (cty.Value, error) {
	p := hclparse.NewParser()
	file, diags := p.ParseHCL(src, filename)
	if diags.HasErrors() {
		return cty.NilVal, diags
	}

	attrs, diags := file.Body.JustAttributes()
	if diags.HasErrors() {
		return cty.NilVal, diags
	}

	out := make(map[string]cty.Value, len(attrs))
	for name, attr := range attrs {
		v, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return cty.NilVal, diags
		}
		out[name] = v
	}
	return cty.ObjectVal(out), nil
}

// FromTOML decodes a TOML document into an object.
func FromTOML(src []byte) (cty.Value, error) {
	tree, err := toml.LoadBytes(src)
	if err != nil {
		return cty.NilVal, err
	}
	return value.FromGo(tree.ToMap())
}
