package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/mustachio/internal/fsutil"
	"github.com/vk/mustachio/internal/viewdata"
	"github.com/zclconf/go-cty/cty"
)

// SpecCase is one conformance case: a template rendered against Data with
// Partials registered must produce Expected.
type SpecCase struct {
	Suite    string
	Name     string
	Desc     string
	Data     cty.Value
	Template string
	Partials map[string]string
	Expected string
}

type rawSuite struct {
	Tests []struct {
		Name     string            `json:"name"`
		Desc     string            `json:"desc"`
		Data     json.RawMessage   `json:"data"`
		Template string            `json:"template"`
		Partials map[string]string `json:"partials"`
		Expected string            `json:"expected"`
	} `json:"tests"`
}

// LoadSpecSuite reads one JSON suite file laid out like the public mustache
// conformance suites.
func LoadSpecSuite(t *testing.T, path string) []SpecCase {
	t.Helper()

	src, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw rawSuite
	require.NoError(t, json.Unmarshal(src, &raw), "suite %s", path)

	suite := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	cases := make([]SpecCase, 0, len(raw.Tests))
	for _, tc := range raw.Tests {
		data := cty.EmptyObjectVal
		if len(tc.Data) > 0 {
			data, err = viewdata.FromJSON(tc.Data)
			require.NoError(t, err, "%s: %s: data", suite, tc.Name)
		}
		cases = append(cases, SpecCase{
			Suite:    suite,
			Name:     tc.Name,
			Desc:     tc.Desc,
			Data:     data,
			Template: tc.Template,
			Partials: tc.Partials,
			Expected: tc.Expected,
		})
	}
	return cases
}

// LoadSpecSuites reads every .json suite under dir.
func LoadSpecSuites(t *testing.T, dir string) []SpecCase {
	t.Helper()

	files, err := fsutil.FindFilesByExtension(dir, ".json")
	require.NoError(t, err)
	require.NotEmpty(t, files, "no suites found in %s", dir)

	var cases []SpecCase
	for _, f := range files {
		cases = append(cases, LoadSpecSuite(t, f)...)
	}
	return cases
}
