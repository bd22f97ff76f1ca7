package dts

import (
	"sort"
)

// CommentKind distinguishes `//` from `/* */` comments.
type CommentKind int

const (
	LineComment CommentKind = iota
	BlockComment
)

// Comment is a source comment with its delimiters stripped.
// For `// text` Text is " text"; for `/** doc */` Text is "* doc ".
type Comment struct {
	Kind CommentKind
	Text string
	Pos  int
	End  int
}

// CommentStore indexes the comments of one source file by position.
type CommentStore struct {
	src      []byte
	comments []Comment
}

// NewCommentStore builds a store over src. Comments may be given in any order.
func NewCommentStore(src []byte, comments []Comment) *CommentStore {
	sorted := make([]Comment, len(comments))
	copy(sorted, comments)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Pos < sorted[j].Pos })
	return &CommentStore{src: src, comments: sorted}
}

// Len returns the number of indexed comments.
func (s *CommentStore) Len() int {
	if s == nil {
		return 0
	}
	return len(s.comments)
}

// Leading returns the comments that immediately precede pos: the run of comments
// ending before pos where only whitespace separates each comment from the next one
// and the last comment from pos. The result is ordered oldest first, nil if empty.
func (s *CommentStore) Leading(pos int) []Comment {
	if s == nil || len(s.comments) == 0 {
		return nil
	}

	// Index of the first comment starting at or after pos.
	i := sort.Search(len(s.comments), func(i int) bool { return s.comments[i].Pos >= pos })

	end := pos
	first := i
	for j := i - 1; j >= 0; j-- {
		c := s.comments[j]
		if c.End > end || !s.blank(c.End, end) {
			break
		}
		first = j
		end = c.Pos
	}
	if first == i {
		return nil
	}

	out := make([]Comment, i-first)
	copy(out, s.comments[first:i])
	return out
}

func (s *CommentStore) blank(from, to int) bool {
	if from < 0 || to > len(s.src) || from > to {
		return false
	}
	for _, b := range s.src[from:to] {
		switch b {
		case ' ', '\t', '\n', '\r', '\f', '\v':
		default:
			return false
		}
	}
	return true
}

// LineIndex converts byte offsets to 1-based line and column numbers.
type LineIndex struct {
	starts []int
}

// NewLineIndex indexes the line starts of src.
func NewLineIndex(src []byte) *LineIndex {
	starts := []int{0}
	for i, b := range src {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{starts: starts}
}

// Position returns the 1-based line and column of offset.
func (l *LineIndex) Position(offset int) (line, col int) {
	if l == nil || len(l.starts) == 0 {
		return 0, 0
	}
	i := sort.Search(len(l.starts), func(i int) bool { return l.starts[i] > offset }) - 1
	if i < 0 {
		i = 0
	}
	return i + 1, offset - l.starts[i] + 1
}
