package dqf

import "github.com/matecat/go-dqf/pkg/dqfid"

// SourceSegment is one source-side unit of a file. Index is 1-based and
// assigned by the caller.
type SourceSegment struct {
	dqfid.Envelope

	File  *File
	Index int
	Text  string
}

// NewSourceSegment returns a pending source segment.
func NewSourceSegment(file *File, index int, text string) *SourceSegment {
	return &SourceSegment{
		Envelope: dqfid.NewEnvelope(),
		File:     file,
		Index:    index,
		Text:     text,
	}
}

// SequenceIndex returns the index used to correlate batch responses.
func (s *SourceSegment) SequenceIndex() int {
	return s.Index
}

// Equal compares segments by file name, index and text.
func (s *SourceSegment) Equal(other *SourceSegment) bool {
	if s == nil || other == nil {
		return s == other
	}
	return fileName(s.File) == fileName(other.File) &&
		s.Index == other.Index &&
		s.Text == other.Text
}

func fileName(f *File) string {
	if f == nil {
		return ""
	}
	return f.Name
}
