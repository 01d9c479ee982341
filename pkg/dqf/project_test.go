package dqf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMaster() *Project {
	return NewMasterProject("master-workflow-test", "it-IT", 1, 2, 1, 1)
}

func TestProjectVariants(t *testing.T) {
	master := newTestMaster()
	assert.Equal(t, KindMaster, master.Kind())
	assert.NotNil(t, master.Master())
	assert.Nil(t, master.Child())
	assert.Same(t, master, master.MasterProject())
	assert.False(t, master.LocalID().IsZero())

	_, err := master.AsChild("op")
	assert.True(t, IsPrecondition(err))

	child, err := NewChildProject(ChildTranslation)
	require.NoError(t, err)
	assert.Equal(t, KindChild, child.Kind())
	assert.Nil(t, child.MasterProject())

	_, err = child.AsMaster("op")
	assert.True(t, IsPrecondition(err))

	_, err = NewChildProject("proofreading")
	assert.True(t, IsDomainConstraint(err))

	require.NoError(t, child.SetMasterProject(master))
	assert.Same(t, master, child.MasterProject())
	assert.True(t, IsPrecondition(child.SetMasterProject(child)))
}

func TestProjectSetDummy(t *testing.T) {
	translation, err := NewChildProject(ChildTranslation)
	require.NoError(t, err)
	require.NoError(t, translation.SetDummy(true))
	assert.True(t, translation.Child().IsDummy())

	review, err := NewChildProject(ChildReview)
	require.NoError(t, err)
	err = review.SetDummy(true)
	assert.True(t, IsDomainConstraint(err))
	assert.False(t, review.Child().IsDummy())
	assert.NoError(t, review.SetDummy(false))

	assert.True(t, IsPrecondition(newTestMaster().SetDummy(true)))
}

func TestProjectAddFile(t *testing.T) {
	p := newTestMaster()
	p.AddFile(NewFile("doc.docx", 10))
	p.AddFile(NewFile("doc.docx", 20))
	p.AddFile(NewFile("other.docx", 5))

	files := p.Files()
	require.Len(t, files, 2)
	assert.Equal(t, 10, files[0].SegmentCount)
	assert.True(t, p.HasFile(NewFile("other.docx", 0)))
	assert.Nil(t, p.File("missing"))
}

func TestProjectTargetLanguages(t *testing.T) {
	t.Run("duplicates are kept", func(t *testing.T) {
		p := newTestMaster()
		f := NewFile("doc.docx", 1)
		p.AddFile(f)
		p.AssocTargetLanguageToFile("en-US", f)
		p.AssocTargetLanguageToFile("en-US", f)

		assert.Len(t, p.TargetLanguageAssociations("en-US"), 2)
	})

	t.Run("modify removes sole entry and its key", func(t *testing.T) {
		p := newTestMaster()
		f := NewFile("doc.docx", 1)
		p.AssocTargetLanguageToFile("en-US", f).SetRemoteID(7)
		p.AssocTargetLanguageToFile("fr-FR", NewFile("other.docx", 1))

		moved := p.ModifyTargetLanguageToFile("en-US", "fr-FR", f, 0)

		assert.False(t, p.HasTargetLanguage("en-US"))
		assert.Equal(t, []string{"fr-FR"}, p.TargetLanguageCodes())
		assocs := p.TargetLanguageAssociations("fr-FR")
		require.Len(t, assocs, 2)
		assert.Same(t, moved, assocs[1])
		assert.False(t, moved.IsPersisted())
		assert.Equal(t, "doc.docx", moved.File.Name)
	})

	t.Run("modify keeps other files under old code", func(t *testing.T) {
		p := newTestMaster()
		f1 := NewFile("a.docx", 1)
		f2 := NewFile("b.docx", 1)
		p.AssocTargetLanguageToFile("en-US", f1)
		p.AssocTargetLanguageToFile("en-US", f2)

		moved := p.ModifyTargetLanguageToFile("en-US", "de-DE", NewFile("a.docx", 0), 99)

		assocs := p.TargetLanguageAssociations("en-US")
		require.Len(t, assocs, 1)
		assert.Equal(t, "b.docx", assocs[0].File.Name)
		assert.Equal(t, int64(99), moved.RemoteID())
		assert.Equal(t, "de-DE", moved.Code())
	})

	t.Run("clear", func(t *testing.T) {
		p := newTestMaster()
		p.AssocTargetLanguageToFile("en-US", NewFile("a.docx", 1))
		p.ClearTargetLanguages()
		assert.Empty(t, p.TargetLanguageCodes())
	})
}

func TestProjectAddSourceSegment(t *testing.T) {
	p := newTestMaster()
	f := NewFile("doc.docx", 3)
	p.AddFile(f)

	p.AddSourceSegment(NewSourceSegment(f, 1, "Hello"))
	p.AddSourceSegment(NewSourceSegment(f, 1, "Hello"))
	p.AddSourceSegment(NewSourceSegment(f, 1, "Hello again"))
	p.AddSourceSegment(NewSourceSegment(f, 2, "World"))

	segments := p.SourceSegments("doc.docx")
	require.Len(t, segments, 3)
	assert.Equal(t, "Hello again", segments[1].Text)
	assert.Equal(t, []string{"doc.docx"}, p.SourceSegmentFiles())
	assert.Equal(t, 3, p.SourceSegmentCount())
}

func TestProjectValidate(t *testing.T) {
	t.Run("valid master", func(t *testing.T) {
		p := newTestMaster()
		p.AddFile(NewFile("doc.docx", 3))
		assert.NoError(t, p.Validate())
	})

	t.Run("master missing fields", func(t *testing.T) {
		p := NewMasterProject("", "", 0, 2, 1, 1)
		err := p.Validate()
		require.Error(t, err)
		assert.True(t, IsDomainConstraint(err))
		assert.Contains(t, err.Error(), "source language is required")
	})

	t.Run("review child needs settings", func(t *testing.T) {
		p, err := NewChildProject(ChildReview)
		require.NoError(t, err)
		require.NoError(t, p.SetParent(1, "parent-key"))

		err = p.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "requires review settings")

		rs := NewReviewSettings(ReviewCorrection)
		p.SetReviewSettings(rs)
		assert.NoError(t, p.Validate())
	})

	t.Run("child needs parent", func(t *testing.T) {
		p, err := NewChildProject(ChildTranslation)
		require.NoError(t, err)
		err = p.Validate()
		assert.True(t, IsDomainConstraint(err))
	})
}
