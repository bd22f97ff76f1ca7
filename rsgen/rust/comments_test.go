package rust

import (
	"bytes"
	"testing"

	"github.com/broady/ts2rs/rsgen/dts"
)

func TestInsertComments(t *testing.T) {
	tests := []struct {
		name     string
		comments []dts.Comment
		want     string
	}{
		{
			name: "none",
			want: "",
		},
		{
			name:     "line comment",
			comments: []dts.Comment{{Kind: dts.LineComment, Text: " The value."}},
			want:     "/// The value.\n",
		},
		{
			name:     "jsdoc block",
			comments: []dts.Comment{{Kind: dts.BlockComment, Text: "* Creates an editor. "}},
			want:     "/** Creates an editor. */\n",
		},
		{
			name: "ordered",
			comments: []dts.Comment{
				{Kind: dts.BlockComment, Text: " first "},
				{Kind: dts.LineComment, Text: " second"},
			},
			want: "/* first */\n/// second\n",
		},
		{
			name:     "line comment with delimiters",
			comments: []dts.Comment{{Kind: dts.LineComment, Text: " use /* and */ freely"}},
			want:     "/// use /\\* and *\\/ freely\n",
		},
		{
			name:     "nested opener in block",
			comments: []dts.Comment{{Kind: dts.BlockComment, Text: "* glob: src/*.ts "}},
			want:     "/** glob: src/\\*.ts */\n",
		},
		{
			name:     "block ending in slash",
			comments: []dts.Comment{{Kind: dts.BlockComment, Text: " see a/"}},
			want:     "/* see a/ */\n",
		},
		{
			name:     "multi-line block",
			comments: []dts.Comment{{Kind: dts.BlockComment, Text: "*\n * Line one.\n * Line two.\n "}},
			want:     "/**\n * Line one.\n * Line two.\n */\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := InsertComments(&buf, tt.comments); err != nil {
				t.Fatalf("InsertComments() error = %v", err)
			}
			if got := buf.String(); got != tt.want {
				t.Errorf("InsertComments() = %q, want %q", got, tt.want)
			}
		})
	}
}
