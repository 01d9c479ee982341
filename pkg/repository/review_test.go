package repository

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matecat/go-dqf/pkg/dqf"
	"github.com/matecat/go-dqf/pkg/session"
	"github.com/matecat/go-dqf/pkg/transport"
)

type reviewScenario struct {
	fx          *fixture
	master      *dqf.Project
	review      *dqf.Project
	file        *dqf.File
	translation *dqf.TranslatedSegment
}

func newReviewScenario(t *testing.T) *reviewScenario {
	t.Helper()
	fx := newFixture(t)
	master, f := fx.saveMaster(t, 3)
	translator := fx.saveChild(t, dqf.ChildTranslation, master, master, f)

	batch, err := fx.translations.Save(context.Background(), newTranslationBatch(t, master, translator, f))
	require.NoError(t, err)

	review := fx.saveChild(t, dqf.ChildReview, translator, master, f)
	return &reviewScenario{
		fx:          fx,
		master:      master,
		review:      review,
		file:        f,
		translation: batch.Segments()[0],
	}
}

func (s *reviewScenario) batch(t *testing.T) *dqf.ReviewBatch {
	t.Helper()
	b, err := dqf.NewReviewBatch(s.review, s.file, "en-US", s.translation, uuid.NewString())
	require.NoError(t, err)
	return b
}

func TestReviewRepository_SaveAndClear(t *testing.T) {
	s := newReviewScenario(t)
	ctx := context.Background()

	typology := dqf.NewRevision("terminology and style")
	typology.AddError(dqf.NewRevisionError(3, 2).WithSpan(0, 4))
	typology.AddError(dqf.NewRevisionError(4, 1))

	correction := dqf.NewRevision("")
	c := dqf.NewCorrection("translation one", 2500)
	require.NoError(t, c.AddItem("translation ", dqf.DiffUnchanged))
	require.NoError(t, c.AddItem("one", dqf.DiffInserted))
	correction.SetCorrection(c)

	batch := s.batch(t)
	batch.AddRevision(typology)
	batch.AddRevision(correction)

	saved, err := s.fx.reviews.Save(ctx, batch)
	require.NoError(t, err)
	require.Len(t, saved.Revisions(), 2)
	assert.Same(t, typology, saved.Revisions()[0])
	assert.Same(t, correction, saved.Revisions()[1])
	for _, rev := range saved.Revisions() {
		assert.True(t, rev.IsPersisted())
		assert.False(t, rev.LocalID().IsZero())
	}
	assert.NotEqual(t, typology.RemoteID(), correction.RemoteID())

	sent := s.fx.svc.Calls[len(s.fx.svc.Calls)-1].Body
	corrections, ok := sent["corrections"].([]any)
	require.True(t, ok)
	require.Len(t, corrections, 2)
	first := corrections[0].(map[string]any)
	assert.Len(t, first["errors"], 2, "errors are per revision")
	assert.Nil(t, first["correction"])
	second := corrections[1].(map[string]any)
	assert.Nil(t, second["errors"])
	detail := second["correction"].(map[string]any)["detailList"].([]any)
	require.Len(t, detail, 2)
	assert.Equal(t, "unchanged", detail[0].(map[string]any)["type"])
	assert.Equal(t, "added", detail[1].(map[string]any)["type"], "inserted text is sent as added")

	got, err := s.fx.reviews.GetRevisions(ctx, s.review, s.file, "en-US", s.translation)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, typology.LocalID().Equal(got[0].LocalID()))
	require.Len(t, got[0].Errors, 2)
	require.NotNil(t, got[0].Errors[0].CharPosEnd)
	assert.Equal(t, 4, *got[0].Errors[0].CharPosEnd)
	require.NotNil(t, got[1].Correction)
	assert.Equal(t, c.Items, got[1].Correction.Items)

	// Reviews block deletion until they are cleared.
	err = s.fx.children.Delete(ctx, s.review)
	require.Error(t, err)
	assert.True(t, dqf.IsRemoteRejected(err))

	cleared, err := s.fx.reviews.Save(ctx, s.batch(t))
	require.NoError(t, err)
	assert.Nil(t, cleared.Revisions())

	got, err = s.fx.reviews.GetRevisions(ctx, s.review, s.file, "en-US", s.translation)
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, s.fx.children.Delete(ctx, s.review))
	require.NoError(t, s.fx.masters.Delete(ctx, s.master))
}

func TestReviewRepository_Append(t *testing.T) {
	s := newReviewScenario(t)
	ctx := context.Background()

	b := s.batch(t)
	b.AddRevision(dqf.NewRevision("first"))
	_, err := s.fx.reviews.Save(ctx, b)
	require.NoError(t, err)

	b = s.batch(t)
	b.SetOverwrite(false)
	b.AddRevision(dqf.NewRevision("second"))
	_, err = s.fx.reviews.Save(ctx, b)
	require.NoError(t, err)

	got, err := s.fx.reviews.GetRevisions(ctx, s.review, s.file, "en-US", s.translation)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Comment)
	assert.Equal(t, "second", got[1].Comment)
}

func TestReviewRepository_Preconditions(t *testing.T) {
	s := newReviewScenario(t)

	pending := dqf.NewTranslatedSegment(s.translation.SourceSegment, "en-US", "pending")
	b, err := dqf.NewReviewBatch(s.review, s.file, "en-US", pending, "batch-1")
	require.NoError(t, err)

	before := len(s.fx.svc.Calls)
	_, err = s.fx.reviews.Save(context.Background(), b)
	require.Error(t, err)
	assert.True(t, dqf.IsPrecondition(err))
	assert.Len(t, s.fx.svc.Calls, before)

	_, err = s.fx.reviews.Save(context.Background(), nil)
	assert.True(t, dqf.IsPrecondition(err))
}

func TestReviewRepository_AcknowledgementMismatch(t *testing.T) {
	repo, err := NewReviewRepository(Config{
		Transport: transportFunc(func(context.Context, *transport.Request) (*transport.Response, error) {
			return &transport.Response{
				StatusCode: http.StatusCreated,
				Payload: map[string]any{
					"createdReviewIds": []any{map[string]any{"reviewContainerId": 1, "clientId": ""}},
				},
			}, nil
		}),
		Session: session.Static{ID: "s"},
	})
	require.NoError(t, err)

	child, err := dqf.NewChildProject(dqf.ChildReview)
	require.NoError(t, err)
	child.SetRemoteID(1)
	f := dqf.NewFile("doc.docx", 1)
	f.SetRemoteID(2)
	tr := dqf.NewTranslatedSegment(dqf.NewSourceSegment(f, 1, "a"), "en-US", "b")
	tr.SetRemoteID(3)

	b, err := dqf.NewReviewBatch(child, f, "en-US", tr, "batch-1")
	require.NoError(t, err)
	b.AddRevision(dqf.NewRevision("one"))
	b.AddRevision(dqf.NewRevision("two"))

	_, err = repo.Save(context.Background(), b)
	require.Error(t, err)
	assert.True(t, dqf.IsRemoteRejected(err))
	for _, rev := range b.Revisions() {
		assert.False(t, rev.IsPersisted())
	}
}
