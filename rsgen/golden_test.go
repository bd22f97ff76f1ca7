package rsgen

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"
)

var update = flag.Bool("update", false, "rewrite the want.rs sections of testdata/*.txtar")

// TestGolden runs each testdata/*.txtar archive. An archive holds input.d.ts and
// want.rs, the expected output after the frontmatter, plus optional skipped.txt
// and warnings.txt listing the expected skip kinds and warning codes, one per line.
func TestGolden(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "*.txtar"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		name := strings.TrimSuffix(filepath.Base(path), ".txtar")
		t.Run(name, func(t *testing.T) {
			ar, err := txtar.ParseFile(path)
			require.NoError(t, err)
			files := make(map[string]*txtar.File)
			for i := range ar.Files {
				files[ar.Files[i].Name] = &ar.Files[i]
			}
			input, ok := files["input.d.ts"]
			require.True(t, ok, "archive has no input.d.ts")

			result, err := FromSource("input.d.ts", input.Data).Logger(discard).Generate()
			require.NoError(t, err)

			var header bytes.Buffer
			writeFrontmatter(&header, &Config{Input: "input.d.ts"})
			require.True(t, bytes.HasPrefix(result.Output, header.Bytes()), "output does not start with the frontmatter")
			got := result.Output[header.Len():]

			want, ok := files["want.rs"]
			if *update {
				if !ok {
					ar.Files = append(ar.Files, txtar.File{Name: "want.rs"})
					want = &ar.Files[len(ar.Files)-1]
				}
				want.Data = got
				require.NoError(t, os.WriteFile(path, txtar.Format(ar), 0644))
				return
			}
			require.True(t, ok, "archive has no want.rs; run with -update")
			assert.Equal(t, string(want.Data), string(got))

			var skipped, warnings []string
			for _, s := range result.Skipped {
				skipped = append(skipped, s.Kind)
			}
			for _, w := range result.Warnings {
				warnings = append(warnings, w.Code)
			}
			assert.Equal(t, lines(files["skipped.txt"]), skipped, "skipped")
			assert.Equal(t, lines(files["warnings.txt"]), warnings, "warnings")
		})
	}
}

func lines(f *txtar.File) []string {
	if f == nil {
		return nil
	}
	var out []string
	for _, line := range strings.Split(string(f.Data), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
