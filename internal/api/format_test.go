package api

import (
	"go/format"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHandAlignedSourcesAreGofmted covers files whose alignment is easy to
// get wrong by hand: wide-character map keys and adjacent short methods.
func TestHandAlignedSourcesAreGofmted(t *testing.T) {
	files := []string{
		"errors.go",
		filepath.Join("..", "i18n", "i18n.go"),
	}
	for _, path := range files {
		src, err := os.ReadFile(path) //#nosec G304 -- fixed list of module files
		require.NoError(t, err)

		formatted, err := format.Source(src)
		require.NoError(t, err, path)
		assert.Equal(t, string(formatted), string(src), "%s is not gofmt-formatted", path)
	}
}
