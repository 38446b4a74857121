// Package document defines the segmented-text input model for analysis.
package document

// FragmentKind classifies a text fragment produced by the segmenter.
type FragmentKind string

const (
	KindTitle            FragmentKind = "title"
	KindHeading          FragmentKind = "heading"
	KindParagraph        FragmentKind = "paragraph"
	KindFootnote         FragmentKind = "footnote"
	KindBibliographyLine FragmentKind = "bibliography_line"
	KindCaption          FragmentKind = "caption"
	KindUnknown          FragmentKind = "unknown"
)

// Fragment is one ordered piece of document text with its page number.
// Fragments are produced by an external segmenter; the pipeline never
// mutates them.
type Fragment struct {
	Content string       `json:"content"`
	Kind    FragmentKind `json:"kind"`
	Page    int          `json:"page"`
}

// IsProse reports whether the fragment is body text that may carry
// in-text citation markers.
func (f Fragment) IsProse() bool {
	return f.Kind == KindParagraph || f.Kind == KindHeading
}
