package dqf

import "github.com/matecat/go-dqf/pkg/dqfid"

// Segment origin names as listed by the remote "segmentOrigin" attribute.
const (
	OriginHT  = "HT"
	OriginMT  = "MT"
	OriginTM  = "TM"
	OriginMix = "MIX"
)

// TranslatedSegment is the target side of a SourceSegment in one target
// language. It references the source segment but does not own it.
type TranslatedSegment struct {
	dqfid.Envelope

	SourceSegment  *SourceSegment
	TargetLanguage *Language

	TargetText string
	EditedText string

	// Time is the elapsed editing time in milliseconds.
	Time int64

	// SegmentOrigin is resolved into SegmentOriginID when the id is unset.
	SegmentOrigin       string
	SegmentOriginID     int64
	SegmentOriginDetail string

	// MTEngine is resolved into MTEngineID when the id is unset.
	MTEngine          string
	MTEngineID        int64
	MTEngineOtherName string
	MTEngineVersion   string

	MatchRate int

	// IndexNo overrides the source segment index when non-zero.
	IndexNo int
}

// NewTranslatedSegment returns a pending translation of source into lang.
func NewTranslatedSegment(source *SourceSegment, lang, targetText string) *TranslatedSegment {
	return &TranslatedSegment{
		Envelope:       dqfid.NewEnvelope(),
		SourceSegment:  source,
		TargetLanguage: NewLanguage(lang),
		TargetText:     targetText,
	}
}

// SequenceIndex returns the index used to pair the translation with its
// source segment and to correlate batch responses.
func (t *TranslatedSegment) SequenceIndex() int {
	if t.IndexNo != 0 {
		return t.IndexNo
	}
	if t.SourceSegment != nil {
		return t.SourceSegment.Index
	}
	return 0
}

// SourceSegmentID returns the remote id of the source segment, or 0.
func (t *TranslatedSegment) SourceSegmentID() int64 {
	if t.SourceSegment == nil {
		return 0
	}
	return t.SourceSegment.RemoteID()
}
