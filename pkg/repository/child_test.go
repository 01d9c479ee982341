package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matecat/go-dqf/pkg/dqf"
	"github.com/matecat/go-dqf/pkg/transport"
)

func TestChildProjectRepository_SaveAndGet(t *testing.T) {
	fx := newFixture(t)
	master, f := fx.saveMaster(t, 2)

	child, err := dqf.NewChildProject(dqf.ChildTranslation)
	require.NoError(t, err)
	child.Name = "translation"
	child.Child().Assignee = "translator@example.com"
	require.NoError(t, child.SetMasterProject(master))
	child.AssocTargetLanguageToFile("en-US", f)

	require.NoError(t, fx.children.Save(context.Background(), child))

	assert.True(t, child.IsPersisted())
	assert.NotEmpty(t, child.RemoteKey())
	assert.Equal(t, master.RemoteKey(), child.Child().ParentKey, "master becomes the parent")
	for _, a := range child.TargetLanguageAssociations("en-US") {
		assert.True(t, a.IsPersisted())
	}

	create := fx.svc.Calls[len(fx.svc.Calls)-2]
	assert.Equal(t, transport.OpCreateChildProject, create.Operation)
	assert.Equal(t, master.RemoteKey(), create.Headers.ProjectKey)

	got, err := fx.children.Get(context.Background(), child.RemoteID(), child.RemoteKey())
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, dqf.KindChild, got.Kind())
	assert.Equal(t, dqf.ChildTranslation, got.Child().Type)
	assert.Equal(t, "translation", got.Name)
	assert.Equal(t, "translator@example.com", got.Child().Assignee)
	assert.Equal(t, master.RemoteID(), got.Child().ParentID)
	assert.False(t, got.Child().IsDummy())

	linked := got.MasterProject()
	require.NotNil(t, linked)
	assert.Equal(t, master.RemoteID(), linked.RemoteID())

	assocs := got.TargetLanguageAssociations("en-US")
	require.Len(t, assocs, 1)
	assert.Same(t, linked.File(f.Name), assocs[0].File)

	batch, err := dqf.NewTranslationBatch(got, assocs[0].File, "en-US")
	require.NoError(t, err, "a fetched child can build translation batches")
	assert.Equal(t, 0, batch.Len())
}

func TestChildProjectRepository_ReviewSettings(t *testing.T) {
	fx := newFixture(t)
	master, f := fx.saveMaster(t, 1)
	translation := fx.saveChild(t, dqf.ChildTranslation, master, master, f)
	review := fx.saveChild(t, dqf.ChildReview, translation, master, f)

	rs := review.ReviewSettings()
	require.True(t, rs.IsPersisted())
	assert.Equal(t, rs.RemoteID(), review.Child().ReviewSettingsID)

	got, err := fx.children.Get(context.Background(), review.RemoteID(), review.RemoteKey())
	require.NoError(t, err)
	require.NotNil(t, got.ReviewSettings())
	assert.Equal(t, dqf.ReviewCombined, got.ReviewSettings().Type)
	assert.Equal(t, []int64{1, 2}, got.ReviewSettings().ErrorCategoryIDs)
	assert.Equal(t, translation.RemoteID(), got.Child().ParentID)
	assert.Equal(t, master.RemoteID(), got.MasterProject().RemoteID())

	sampling := 20
	rs.Sampling = &sampling
	require.NoError(t, fx.children.Update(context.Background(), review))
	assert.Equal(t, 1, fx.svc.CallCount(transport.OpUpdateProjectReviewSettings))
	assert.Equal(t, float64(20), fx.svc.Child(review.RemoteID()).ReviewSettings["sampling"])
}

func TestChildProjectRepository_LocalConstraints(t *testing.T) {
	fx := newFixture(t)
	master, f := fx.saveMaster(t, 1)

	t.Run("review without settings", func(t *testing.T) {
		child, err := dqf.NewChildProject(dqf.ChildReview)
		require.NoError(t, err)
		require.NoError(t, child.SetMasterProject(master))

		err = fx.children.Save(context.Background(), child)
		require.Error(t, err)
		assert.True(t, dqf.IsDomainConstraint(err))
		assert.Zero(t, fx.svc.CallCount(transport.OpCreateChildProject))
	})

	t.Run("association to an unsaved file", func(t *testing.T) {
		child, err := dqf.NewChildProject(dqf.ChildTranslation)
		require.NoError(t, err)
		require.NoError(t, child.SetMasterProject(master))
		child.AssocTargetLanguageToFile("en-US", dqf.NewFile("unsaved.docx", 1))

		err = fx.children.Save(context.Background(), child)
		require.Error(t, err)
		assert.True(t, dqf.IsDomainConstraint(err))
		assert.Zero(t, fx.svc.CallCount(transport.OpCreateChildProject))
	})

	t.Run("no parent", func(t *testing.T) {
		child, err := dqf.NewChildProject(dqf.ChildTranslation)
		require.NoError(t, err)

		err = fx.children.Save(context.Background(), child)
		require.Error(t, err)
		assert.True(t, dqf.IsDomainConstraint(err))
	})

	t.Run("language not declared on the master", func(t *testing.T) {
		child, err := dqf.NewChildProject(dqf.ChildTranslation)
		require.NoError(t, err)
		require.NoError(t, child.SetMasterProject(master))
		child.AssocTargetLanguageToFile("ja-JP", f)

		err = fx.children.Save(context.Background(), child)
		require.Error(t, err)
		assert.True(t, dqf.IsRemoteRejected(err))
		assert.True(t, child.IsPersisted(), "the project itself was created")
	})

	t.Run("wrong variant", func(t *testing.T) {
		err := fx.children.Save(context.Background(), master)
		require.Error(t, err)
		assert.True(t, dqf.IsPrecondition(err))

		_, err = fx.children.Get(context.Background(), master.RemoteID(), master.RemoteKey())
		require.NoError(t, err, "a master id is not a child")
	})
}

func TestChildProjectRepository_UpdateAndDelete(t *testing.T) {
	fx := newFixture(t)
	master, f := fx.saveMaster(t, 1)
	master.AssocTargetLanguageToFile("fr-FR", f)
	require.NoError(t, fx.masters.Update(context.Background(), master))

	child := fx.saveChild(t, dqf.ChildTranslation, master, master, f)
	child.ModifyTargetLanguageToFile("en-US", "fr-FR", f, 0)
	require.NoError(t, fx.children.Update(context.Background(), child))

	stored := fx.svc.Child(child.RemoteID())
	require.Len(t, stored.TargetLangs, 1)
	assert.Equal(t, "fr-FR", stored.TargetLangs[0].Code)

	id := child.RemoteID()
	require.NoError(t, fx.children.Delete(context.Background(), child))
	assert.Nil(t, fx.svc.Child(id))

	err := fx.children.Delete(context.Background(), child)
	require.Error(t, err)
	assert.True(t, dqf.IsDomainConstraint(err))
}

func TestChildProjectRepository_UpdateWithUnattachedFile(t *testing.T) {
	fx := newFixture(t)
	master, f := fx.saveMaster(t, 1)
	child := fx.saveChild(t, dqf.ChildTranslation, master, master, f)
	child.AssocTargetLanguageToFile("de-DE", dqf.NewFile("unattached.docx", 1))
	before := len(fx.svc.Calls)

	err := fx.children.Update(context.Background(), child)
	require.Error(t, err)
	assert.True(t, dqf.IsDomainConstraint(err))
	assert.Len(t, fx.svc.Calls, before)
	assert.Zero(t, fx.svc.CallCount(transport.OpDeleteChildProjectTargetLanguage))

	stored := fx.svc.Child(child.RemoteID())
	require.Len(t, stored.TargetLangs, 1)
	assert.Equal(t, "en-US", stored.TargetLangs[0].Code)
	for _, a := range child.TargetLanguageAssociations("en-US") {
		assert.True(t, a.IsPersisted())
	}
}

func TestChildProjectRepository_GetRejectsUnknownReviewType(t *testing.T) {
	fx := newFixture(t)
	master, f := fx.saveMaster(t, 1)
	translation := fx.saveChild(t, dqf.ChildTranslation, master, master, f)
	review := fx.saveChild(t, dqf.ChildReview, translation, master, f)

	fx.svc.Child(review.RemoteID()).ReviewSettings["reviewType"] = "peer"

	got, err := fx.children.Get(context.Background(), review.RemoteID(), review.RemoteKey())
	require.Error(t, err)
	assert.True(t, dqf.IsRemoteRejected(err))
	assert.Nil(t, got)
}
