package rust

import (
	"io"
	"strings"

	"github.com/broady/ts2rs/rsgen/dts"
)

var commentEscaper = strings.NewReplacer("/*", `/\*`, "*/", `*\/`)

// InsertComments writes comments, oldest first, as Rust comments: line comments
// become `///` doc lines and block comments stay block comments, so `/** doc */`
// remains a doc comment. Nested comment delimiters in the text are escaped.
func InsertComments(w io.Writer, comments []dts.Comment) error {
	for _, c := range comments {
		text := commentEscaper.Replace(c.Text)
		var err error
		switch c.Kind {
		case dts.LineComment:
			_, err = io.WriteString(w, "///"+text+"\n")
		case dts.BlockComment:
			// A trailing `/` would join the closer into a nested `/*`.
			if strings.HasSuffix(text, "/") {
				text += " "
			}
			_, err = io.WriteString(w, "/*"+text+"*/\n")
		}
		if err != nil {
			return err
		}
	}
	return nil
}
