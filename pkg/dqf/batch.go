package dqf

// TranslationBatch groups the translations of one file into one target
// language for a child project. It is not persisted.
type TranslationBatch struct {
	child    *Project
	file     *File
	language *Language
	segments []*TranslatedSegment
}

// NewTranslationBatch validates that file belongs to the child's master
// project and that lang was declared on it.
func NewTranslationBatch(child *Project, file *File, lang string) (*TranslationBatch, error) {
	const op = "NewTranslationBatch"

	if _, err := child.AsChild(op); err != nil {
		return nil, err
	}
	master := child.MasterProject()
	if master == nil {
		return nil, Constraintf(op, "child project is not linked to a master project")
	}
	if !master.HasFile(file) {
		return nil, Constraintf(op, "file %q does not belong to the master project", fileName(file))
	}
	if !master.HasTargetLanguage(lang) {
		return nil, Constraintf(op, "target language %q was not declared on the master project", lang)
	}

	return &TranslationBatch{
		child:    child,
		file:     file,
		language: NewLanguage(lang),
	}, nil
}

// AddSegment appends a translation.
func (b *TranslationBatch) AddSegment(s *TranslatedSegment) {
	b.segments = append(b.segments, s)
}

// Segments returns the translations in insertion order.
func (b *TranslationBatch) Segments() []*TranslatedSegment {
	return b.segments
}

// Len returns the number of translations.
func (b *TranslationBatch) Len() int {
	return len(b.segments)
}

func (b *TranslationBatch) ChildProject() *Project { return b.child }
func (b *TranslationBatch) File() *File { return b.file }
func (b *TranslationBatch) TargetLanguage() *Language { return b.language }

// ReviewBatch groups the revisions of one translation. An empty batch clears
// every revision recorded for the translation.
type ReviewBatch struct {
	child       *Project
	file        *File
	language    *Language
	translation *TranslatedSegment
	batchID     string
	overwrite   bool
	revisions   []*Revision
}

// NewReviewBatch returns a batch with overwrite enabled. batchID is the
// idempotency key of the submission.
func NewReviewBatch(child *Project, file *File, lang string, translation *TranslatedSegment, batchID string) (*ReviewBatch, error) {
	const op = "NewReviewBatch"

	if _, err := child.AsChild(op); err != nil {
		return nil, err
	}
	if file == nil {
		return nil, Preconditionf(op, "file is required")
	}
	if translation == nil {
		return nil, Preconditionf(op, "translation is required")
	}
	if batchID == "" {
		return nil, Preconditionf(op, "batch id is required")
	}

	return &ReviewBatch{
		child:       child,
		file:        file,
		language:    NewLanguage(lang),
		translation: translation,
		batchID:     batchID,
		overwrite:   true,
	}, nil
}

// AddRevision appends a revision.
func (b *ReviewBatch) AddRevision(r *Revision) {
	b.revisions = append(b.revisions, r)
}

// Revisions returns the revisions, or nil when there are none.
func (b *ReviewBatch) Revisions() []*Revision {
	if len(b.revisions) == 0 {
		return nil
	}
	return b.revisions
}

// SetOverwrite controls whether the submission replaces recorded revisions.
func (b *ReviewBatch) SetOverwrite(overwrite bool) {
	b.overwrite = overwrite
}

func (b *ReviewBatch) Overwrite() bool { return b.overwrite }
func (b *ReviewBatch) BatchID() string { return b.batchID }
func (b *ReviewBatch) ChildProject() *Project { return b.child }
func (b *ReviewBatch) File() *File { return b.file }
func (b *ReviewBatch) TargetLanguage() *Language { return b.language }
func (b *ReviewBatch) Translation() *TranslatedSegment { return b.translation }
