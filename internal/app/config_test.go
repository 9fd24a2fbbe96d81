package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/mustachio/internal/token"
)

func TestNewConfig(t *testing.T) {
	testCases := []struct {
		name    string
		in      Config
		wantErr string
	}{
		{name: "missing template", in: Config{}, wantErr: "TemplatePath"},
		{name: "compact with dump", in: Config{TemplatePath: "t", Compact: true, DumpTree: true}, wantErr: "cannot be combined"},
		{name: "bad whitespace", in: Config{TemplatePath: "t", Whitespace: "loose"}, wantErr: "loose"},
		{name: "bad extension", in: Config{TemplatePath: "t", PartialExt: "mustache"}, wantErr: "must start with a dot"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewConfig(tc.in)
			require.ErrorContains(t, err, tc.wantErr)
		})
	}

	cfg, err := NewConfig(Config{TemplatePath: "t", Whitespace: "strict"})
	require.NoError(t, err)
	assert.Equal(t, DefaultPartialExt, cfg.PartialExt)
	assert.Equal(t, token.Strict, cfg.Mode())
}
