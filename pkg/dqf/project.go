package dqf

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/go-multierror"

	"github.com/matecat/go-dqf/pkg/dqfid"
)

// ProjectKind tags the Project variant.
type ProjectKind int

const (
	KindMaster ProjectKind = iota + 1
	KindChild
)

func (k ProjectKind) String() string {
	switch k {
	case KindMaster:
		return "master"
	case KindChild:
		return "child"
	default:
		return fmt.Sprintf("ProjectKind(%d)", int(k))
	}
}

// ChildType is the workflow step a child project performs.
type ChildType string

const (
	ChildTranslation ChildType = "translation"
	ChildReview      ChildType = "review"
)

// MasterDetails holds the fields specific to a master project.
type MasterDetails struct {
	SourceLanguage *Language

	ContentTypeID  int64
	IndustryID     int64
	ProcessID      int64
	QualityLevelID int64

	TemplateName  string
	TMSProjectKey string
}

// ChildDetails holds the fields specific to a child project.
type ChildDetails struct {
	// ParentKey is the remote correlation key of the parent project.
	ParentKey string
	// ParentID is the remote id of the parent project.
	ParentID int64

	Type     ChildType
	Assignee string
	Assigner string

	ReviewSettingsID int64

	dummy bool

	// Master is the root master project, required to build translation batches.
	Master *Project
}

// IsDummy reports whether the child is a placeholder.
func (c *ChildDetails) IsDummy() bool {
	return c.dummy
}

// Project is either a master or a child project. Shared state lives on the
// Project itself; variant fields live in MasterDetails or ChildDetails,
// exactly one of which is set.
type Project struct {
	dqfid.Envelope

	Name string

	kind   ProjectKind
	master *MasterDetails
	child  *ChildDetails

	files          []*File
	reviewSettings *ReviewSettings

	// target language code -> associations
	targetLanguages Multimap[string, *FileTargetLanguage]
	// file name -> source segments
	sourceSegments Multimap[string, *SourceSegment]
}

// NewMasterProject returns a pending master project.
func NewMasterProject(name, sourceLanguage string, contentTypeID, industryID, processID, qualityLevelID int64) *Project {
	return &Project{
		Envelope: dqfid.NewEnvelope(),
		Name:     name,
		kind:     KindMaster,
		master: &MasterDetails{
			SourceLanguage: NewLanguage(sourceLanguage),
			ContentTypeID:  contentTypeID,
			IndustryID:     industryID,
			ProcessID:      processID,
			QualityLevelID: qualityLevelID,
		},
	}
}

// NewChildProject returns a pending child project of type t.
func NewChildProject(t ChildType) (*Project, error) {
	switch t {
	case ChildTranslation, ChildReview:
	default:
		return nil, Constraintf("NewChildProject", "unknown child project type %q", t)
	}
	return &Project{
		Envelope: dqfid.NewEnvelope(),
		kind:     KindChild,
		child:    &ChildDetails{Type: t},
	}, nil
}

// Kind returns the variant tag.
func (p *Project) Kind() ProjectKind {
	return p.kind
}

// Master returns the master details, or nil for a child project.
func (p *Project) Master() *MasterDetails {
	return p.master
}

// Child returns the child details, or nil for a master project.
func (p *Project) Child() *ChildDetails {
	return p.child
}

// AsMaster returns the master details or a precondition error naming op.
func (p *Project) AsMaster(op string) (*MasterDetails, error) {
	if p == nil || p.kind != KindMaster {
		return nil, Preconditionf(op, "expected a master project, got %s", p.kindOrNil())
	}
	return p.master, nil
}

// AsChild returns the child details or a precondition error naming op.
func (p *Project) AsChild(op string) (*ChildDetails, error) {
	if p == nil || p.kind != KindChild {
		return nil, Preconditionf(op, "expected a child project, got %s", p.kindOrNil())
	}
	return p.child, nil
}

func (p *Project) kindOrNil() string {
	if p == nil {
		return "nil"
	}
	return p.kind.String()
}

// SetDummy marks a child project as a placeholder. Review children can never
// be dummies.
func (p *Project) SetDummy(dummy bool) error {
	c, err := p.AsChild("Project.SetDummy")
	if err != nil {
		return err
	}
	if dummy && c.Type == ChildReview {
		return Constraintf("Project.SetDummy", "a review child project cannot be a dummy")
	}
	c.dummy = dummy
	return nil
}

// SetParent links a child project to its parent by remote id and key.
func (p *Project) SetParent(id int64, key string) error {
	c, err := p.AsChild("Project.SetParent")
	if err != nil {
		return err
	}
	c.ParentID = id
	c.ParentKey = key
	return nil
}

// SetMasterProject links a child project to its root master project.
func (p *Project) SetMasterProject(master *Project) error {
	c, err := p.AsChild("Project.SetMasterProject")
	if err != nil {
		return err
	}
	if _, err := master.AsMaster("Project.SetMasterProject"); err != nil {
		return err
	}
	c.Master = master
	return nil
}

// MasterProject returns the root master project: the project itself for a
// master, the linked master for a child (nil if not linked).
func (p *Project) MasterProject() *Project {
	switch p.kind {
	case KindMaster:
		return p
	case KindChild:
		return p.child.Master
	}
	return nil
}

// AddFile adds f unless a file with the same name is already present.
func (p *Project) AddFile(f *File) {
	if p.HasFile(f) {
		return
	}
	p.files = append(p.files, f)
}

// HasFile reports whether a file with f's name is present.
func (p *Project) HasFile(f *File) bool {
	return f != nil && p.File(f.Name) != nil
}

// File returns the file named name, or nil.
func (p *Project) File(name string) *File {
	for _, f := range p.files {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Files returns the files in insertion order.
func (p *Project) Files() []*File {
	out := make([]*File, len(p.files))
	copy(out, p.files)
	return out
}

// ReviewSettings returns the review settings, or nil.
func (p *Project) ReviewSettings() *ReviewSettings {
	return p.reviewSettings
}

// SetReviewSettings sets the review settings.
func (p *Project) SetReviewSettings(rs *ReviewSettings) {
	p.reviewSettings = rs
}

// AssocTargetLanguageToFile appends a new association of code to f.
// Duplicates are kept.
func (p *Project) AssocTargetLanguageToFile(code string, f *File) *FileTargetLanguage {
	a := NewFileTargetLanguage(code, f)
	p.targetLanguages.Append(code, a)
	return a
}

// ModifyTargetLanguageToFile moves the (oldCode, f) association under
// newCode. The old key is deleted once empty. The new association carries
// remoteID when non-zero and is pending otherwise.
func (p *Project) ModifyTargetLanguageToFile(oldCode, newCode string, f *File, remoteID int64) *FileTargetLanguage {
	p.targetLanguages.RemoveFunc(oldCode, func(a *FileTargetLanguage) bool {
		return fileName(a.File) == fileName(f)
	})
	a := p.AssocTargetLanguageToFile(newCode, f)
	if remoteID != 0 {
		a.SetRemoteID(remoteID)
	}
	return a
}

// ClearTargetLanguages drops every association.
func (p *Project) ClearTargetLanguages() {
	p.targetLanguages.Clear()
}

// HasTargetLanguage reports whether code is associated to any file.
func (p *Project) HasTargetLanguage(code string) bool {
	return p.targetLanguages.Has(code)
}

// TargetLanguageCodes returns the associated codes in insertion order.
func (p *Project) TargetLanguageCodes() []string {
	return p.targetLanguages.Keys()
}

// TargetLanguageAssociations returns the associations of code.
func (p *Project) TargetLanguageAssociations(code string) []*FileTargetLanguage {
	return p.targetLanguages.Get(code)
}

// EachTargetLanguage visits every association in insertion order.
func (p *Project) EachTargetLanguage(fn func(code string, a *FileTargetLanguage)) {
	p.targetLanguages.Each(fn)
}

// AddSourceSegment adds s under its file unless an equal segment is present.
func (p *Project) AddSourceSegment(s *SourceSegment) {
	if p.HasSourceSegment(s) {
		return
	}
	p.sourceSegments.Append(fileName(s.File), s)
}

// HasSourceSegment reports whether an equal segment is present.
func (p *Project) HasSourceSegment(s *SourceSegment) bool {
	for _, existing := range p.sourceSegments.Get(fileName(s.File)) {
		if existing.Equal(s) {
			return true
		}
	}
	return false
}

// SourceSegments returns the segments of the file named name, in order.
func (p *Project) SourceSegments(name string) []*SourceSegment {
	return p.sourceSegments.Get(name)
}

// SourceSegmentFiles returns the names of files holding segments.
func (p *Project) SourceSegmentFiles() []string {
	return p.sourceSegments.Keys()
}

// SourceSegmentCount returns the total number of source segments.
func (p *Project) SourceSegmentCount() int {
	return p.sourceSegments.Size()
}

// Validate checks the project before it is persisted.
func (p *Project) Validate() error {
	var result *multierror.Error

	switch p.kind {
	case KindMaster:
		m := p.master
		if err := validation.ValidateStruct(p,
			validation.Field(&p.Name, validation.Required),
		); err != nil {
			result = multierror.Append(result, err)
		}
		if m.SourceLanguage == nil || m.SourceLanguage.Code == "" {
			result = multierror.Append(result, fmt.Errorf("source language is required"))
		}
		if err := validation.ValidateStruct(m,
			validation.Field(&m.ContentTypeID, validation.Required),
			validation.Field(&m.IndustryID, validation.Required),
			validation.Field(&m.ProcessID, validation.Required),
			validation.Field(&m.QualityLevelID, validation.Required),
		); err != nil {
			result = multierror.Append(result, err)
		}
		for _, f := range p.files {
			if err := f.Validate(); err != nil {
				result = multierror.Append(result, fmt.Errorf("file %q: %w", f.Name, err))
			}
		}
	case KindChild:
		c := p.child
		if c.ParentKey == "" {
			result = multierror.Append(result, fmt.Errorf("parent project is required"))
		}
		if c.Type == ChildReview {
			if c.dummy {
				result = multierror.Append(result, fmt.Errorf("a review child project cannot be a dummy"))
			}
			if p.reviewSettings == nil {
				result = multierror.Append(result, fmt.Errorf("a review child project requires review settings"))
			}
		}
	default:
		return Preconditionf("Project.Validate", "unknown project kind %s", p.kind)
	}

	if p.reviewSettings != nil {
		if err := p.reviewSettings.Validate(); err != nil {
			result = multierror.Append(result, err)
		}
	}

	if err := result.ErrorOrNil(); err != nil {
		return &Error{Op: "Project.Validate", Err: ErrDomainConstraint, Msg: err.Error()}
	}
	return nil
}
