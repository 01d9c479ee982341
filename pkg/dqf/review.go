package dqf

import (
	"encoding/json"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/matecat/go-dqf/pkg/dqfid"
)

// ReviewType is the kind of review performed by a review child project.
type ReviewType string

const (
	ReviewCorrection    ReviewType = "correction"
	ReviewErrorTypology ReviewType = "error_typology"
	ReviewCombined      ReviewType = "combined"
)

// ParseReviewType validates s as a review type.
func ParseReviewType(s string) (ReviewType, error) {
	switch t := ReviewType(s); t {
	case ReviewCorrection, ReviewErrorTypology, ReviewCombined:
		return t, nil
	}
	return "", Constraintf("ParseReviewType", "unknown review type %q", s)
}

// SeverityWeight pairs a severity attribute id with its weight.
type SeverityWeight struct {
	SeverityID int64   `json:"severityId"`
	Weight     float64 `json:"weight"`
}

// ReviewSettings configures how a review child project scores revisions.
type ReviewSettings struct {
	dqfid.Envelope

	Type         ReviewType
	TemplateName string

	ErrorCategoryIDs  []int64
	SeverityWeights   []SeverityWeight
	PassFailThreshold *float64

	// Sampling is the percentage of segments under review, if set.
	Sampling *int
}

// NewReviewSettings returns pending settings of type t.
func NewReviewSettings(t ReviewType) *ReviewSettings {
	return &ReviewSettings{
		Envelope: dqfid.NewEnvelope(),
		Type:     t,
	}
}

// AddErrorCategory appends an error category id.
func (rs *ReviewSettings) AddErrorCategory(id int64) {
	rs.ErrorCategoryIDs = append(rs.ErrorCategoryIDs, id)
}

// AddSeverityWeight appends a severity weight.
func (rs *ReviewSettings) AddSeverityWeight(severityID int64, weight float64) {
	rs.SeverityWeights = append(rs.SeverityWeights, SeverityWeight{
		SeverityID: severityID,
		Weight:     weight,
	})
}

// SetPassFailThreshold sets the threshold.
func (rs *ReviewSettings) SetPassFailThreshold(v float64) {
	rs.PassFailThreshold = &v
}

// SetSampling sets the sampling percentage.
func (rs *ReviewSettings) SetSampling(pct int) {
	rs.Sampling = &pct
}

// RequiresTypology reports whether the review type scores structural errors.
func (rs *ReviewSettings) RequiresTypology() bool {
	return rs.Type == ReviewErrorTypology || rs.Type == ReviewCombined
}

// SeverityWeightsJSON returns the weights encoded the way the remote API
// expects them: a JSON string inside the form body.
func (rs *ReviewSettings) SeverityWeightsJSON() (string, error) {
	if len(rs.SeverityWeights) == 0 {
		return "", nil
	}
	b, err := json.Marshal(rs.SeverityWeights)
	if err != nil {
		return "", fmt.Errorf("error encoding severity weights: %w", err)
	}
	return string(b), nil
}

// Validate checks the settings. Error typology and combined reviews need
// error categories, severity weights and a pass/fail threshold.
func (rs *ReviewSettings) Validate() error {
	typology := rs.RequiresTypology()
	err := validation.ValidateStruct(rs,
		validation.Field(&rs.Type,
			validation.Required,
			validation.In(ReviewCorrection, ReviewErrorTypology, ReviewCombined),
		),
		validation.Field(&rs.ErrorCategoryIDs, validation.When(typology, validation.Required)),
		validation.Field(&rs.SeverityWeights, validation.When(typology, validation.Required)),
		validation.Field(&rs.PassFailThreshold, validation.When(typology, validation.NotNil)),
		validation.Field(&rs.Sampling, validation.Min(0), validation.Max(100)),
	)
	if err != nil {
		return &Error{Op: "ReviewSettings.Validate", Err: ErrDomainConstraint, Msg: err.Error()}
	}
	return nil
}

// DiffKind tags a correction fragment.
type DiffKind string

const (
	// DiffInserted is sent as "added", the value the API expects for
	// inserted text.
	DiffInserted  DiffKind = "added"
	DiffDeleted   DiffKind = "deleted"
	DiffUnchanged DiffKind = "unchanged"
)

// CorrectionItem is one diff fragment of a correction.
type CorrectionItem struct {
	SubContent string
	Kind       DiffKind
}

// Correction is the replacement a reviewer made to a translation.
type Correction struct {
	Content string

	// Time is the elapsed correction time in milliseconds.
	Time  int64
	Items []CorrectionItem
}

// NewCorrection returns a correction without fragments.
func NewCorrection(content string, time int64) *Correction {
	return &Correction{Content: content, Time: time}
}

// AddItem appends a diff fragment.
func (c *Correction) AddItem(subContent string, kind DiffKind) error {
	switch kind {
	case DiffInserted, DiffDeleted, DiffUnchanged:
	default:
		return Constraintf("Correction.AddItem", "unknown diff kind %q", kind)
	}
	c.Items = append(c.Items, CorrectionItem{SubContent: subContent, Kind: kind})
	return nil
}

// RevisionError is a structural error recorded by a reviewer.
type RevisionError struct {
	ErrorCategoryID int64
	SeverityID      int64

	// CharPosStart and CharPosEnd delimit the error span, when known.
	CharPosStart *int
	CharPosEnd   *int
	Repeated     bool
}

// NewRevisionError returns an error without a span.
func NewRevisionError(errorCategoryID, severityID int64) RevisionError {
	return RevisionError{ErrorCategoryID: errorCategoryID, SeverityID: severityID}
}

// WithSpan returns a copy of e with the given character span.
func (e RevisionError) WithSpan(start, end int) RevisionError {
	e.CharPosStart = &start
	e.CharPosEnd = &end
	return e
}

// Revision is a single reviewer judgement on one translated segment.
type Revision struct {
	dqfid.Envelope

	Comment    string
	Errors     []RevisionError
	Correction *Correction
}

// NewRevision returns a pending revision.
func NewRevision(comment string) *Revision {
	return &Revision{
		Envelope: dqfid.NewEnvelope(),
		Comment:  comment,
	}
}

// AddError appends a structural error.
func (r *Revision) AddError(e RevisionError) {
	r.Errors = append(r.Errors, e)
}

// SetCorrection sets the correction.
func (r *Revision) SetCorrection(c *Correction) {
	r.Correction = c
}
