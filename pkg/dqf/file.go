package dqf

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/matecat/go-dqf/pkg/dqfid"
)

// File is a document of a master project. Its name is the dedup key within
// the project.
type File struct {
	dqfid.Envelope

	Name         string
	SegmentCount int

	// TMSFileID is the id of the file in the caller's TMS, if any.
	TMSFileID string
}

// NewFile returns a pending file.
func NewFile(name string, segmentCount int) *File {
	return &File{
		Envelope:     dqfid.NewEnvelope(),
		Name:         name,
		SegmentCount: segmentCount,
	}
}

// Validate checks the file before it is sent.
func (f *File) Validate() error {
	return validation.ValidateStruct(f,
		validation.Field(&f.Name, validation.Required),
		validation.Field(&f.SegmentCount, validation.Min(0)),
	)
}

// FileTargetLanguage binds a target language to a file of a project.
type FileTargetLanguage struct {
	dqfid.Envelope

	Language *Language
	File     *File
}

// NewFileTargetLanguage returns a pending association.
func NewFileTargetLanguage(code string, file *File) *FileTargetLanguage {
	return &FileTargetLanguage{
		Envelope: dqfid.NewEnvelope(),
		Language: NewLanguage(code),
		File:     file,
	}
}

// Code returns the target language code.
func (a *FileTargetLanguage) Code() string {
	return a.Language.Code
}
