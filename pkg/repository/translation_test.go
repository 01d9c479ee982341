package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matecat/go-dqf/pkg/attributes"
	"github.com/matecat/go-dqf/pkg/dqf"
	"github.com/matecat/go-dqf/pkg/transport"
)

// newTranslationBatch builds a batch translating every source segment of f.
func newTranslationBatch(t *testing.T, master, child *dqf.Project, f *dqf.File) *dqf.TranslationBatch {
	t.Helper()
	batch, err := dqf.NewTranslationBatch(child, f, "en-US")
	require.NoError(t, err)
	for _, src := range master.SourceSegments(f.Name) {
		seg := dqf.NewTranslatedSegment(src, "en-US", fmt.Sprintf("translation %d", src.Index))
		seg.Time = 1000
		seg.MatchRate = 85
		batch.AddSegment(seg)
	}
	return batch
}

func TestTranslationRepository_Save(t *testing.T) {
	fx := newFixture(t)
	master, f := fx.saveMaster(t, 300)
	child := fx.saveChild(t, dqf.ChildTranslation, master, master, f)

	batch := newTranslationBatch(t, master, child, f)
	mt := batch.Segments()[0]
	mt.SegmentOrigin = dqf.OriginMT
	mt.MTEngine = "DeepL"

	saved, err := fx.translations.Save(context.Background(), batch)
	require.NoError(t, err)
	require.Equal(t, 300, saved.Len())
	assert.Equal(t, 3, fx.svc.CallCount(transport.OpAddTranslationsInBatch))

	seen := make(map[int64]bool)
	for _, seg := range saved.Segments() {
		require.True(t, seg.IsPersisted(), "index %d", seg.SequenceIndex())
		assert.False(t, seen[seg.RemoteID()])
		seen[seg.RemoteID()] = true
		assert.True(t, seg.TargetLanguage.IsHydrated())
	}

	origin, err := fx.cfg.Resolver.ResolveID(attributes.SegmentOrigin, dqf.OriginMT)
	require.NoError(t, err)
	engine, err := fx.cfg.Resolver.ResolveID(attributes.MTEngine, "DeepL")
	require.NoError(t, err)
	assert.Equal(t, origin, mt.SegmentOriginID)
	assert.Equal(t, engine, mt.MTEngineID)

	first := saved.Segments()[0]
	got, err := fx.translations.GetTranslatedSegment(context.Background(),
		child.RemoteID(), child.RemoteKey(), f.RemoteID(), "en-US", first.SourceSegmentID(), first.RemoteID())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "translation 1", got.TargetText)
	assert.Equal(t, int64(1000), got.Time)
	assert.Equal(t, 85, got.MatchRate)
	assert.Equal(t, engine, got.MTEngineID)
	assert.Equal(t, 1, got.SequenceIndex())
	assert.True(t, first.LocalID().Equal(got.LocalID()))
}

func TestTranslationRepository_SaveIsResumable(t *testing.T) {
	fx := newFixture(t)
	master, f := fx.saveMaster(t, 250)
	child := fx.saveChild(t, dqf.ChildTranslation, master, master, f)
	fx.svc.FailOn(transport.OpAddTranslationsInBatch, 3, 503)

	batch := newTranslationBatch(t, master, child, f)
	_, err := fx.translations.Save(context.Background(), batch)
	require.Error(t, err)
	assert.True(t, dqf.IsRemoteRejected(err))

	pending := 0
	for _, seg := range batch.Segments() {
		if !seg.IsPersisted() {
			pending++
		}
	}
	assert.Equal(t, 50, pending)

	_, err = fx.translations.Save(context.Background(), batch)
	require.NoError(t, err)
	assert.Equal(t, 4, fx.svc.CallCount(transport.OpAddTranslationsInBatch))
	assert.Len(t, fx.svc.Child(child.RemoteID()).Translations, 250)
}

func TestTranslationRepository_SaveWithoutRemoteSource(t *testing.T) {
	fx := newFixture(t)
	master, f := fx.saveMaster(t, 2)
	child := fx.saveChild(t, dqf.ChildTranslation, master, master, f)

	batch, err := dqf.NewTranslationBatch(child, f, "en-US")
	require.NoError(t, err)
	batch.AddSegment(dqf.NewTranslatedSegment(dqf.NewSourceSegment(f, 7, "never submitted"), "en-US", "x"))

	_, err = fx.translations.Save(context.Background(), batch)
	require.Error(t, err)
	assert.True(t, dqf.IsDomainConstraint(err))
	assert.Zero(t, fx.svc.CallCount(transport.OpAddTranslationsInBatch))
}

func TestTranslationRepository_Update(t *testing.T) {
	fx := newFixture(t)
	master, f := fx.saveMaster(t, 2)
	child := fx.saveChild(t, dqf.ChildTranslation, master, master, f)

	batch, err := fx.translations.Save(context.Background(), newTranslationBatch(t, master, child, f))
	require.NoError(t, err)

	seg := batch.Segments()[1]
	seg.TargetText = "revised"
	seg.EditedText = "revised and edited"

	ok, err := fx.translations.Update(context.Background(), child, f, seg)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := fx.translations.GetTranslatedSegment(context.Background(),
		child.RemoteID(), child.RemoteKey(), f.RemoteID(), "en-US", seg.SourceSegmentID(), seg.RemoteID())
	require.NoError(t, err)
	assert.Equal(t, "revised", got.TargetText)
	assert.Equal(t, "revised and edited", got.EditedText)

	gone := dqf.NewTranslatedSegment(seg.SourceSegment, "en-US", "ghost")
	gone.SetRemoteID(99999)
	ok, err = fx.translations.Update(context.Background(), child, f, gone)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, fx.svc.CallCount(transport.OpUpdateTranslationForASegment))

	pending := dqf.NewTranslatedSegment(seg.SourceSegment, "en-US", "pending")
	_, err = fx.translations.Update(context.Background(), child, f, pending)
	require.Error(t, err)
	assert.True(t, dqf.IsPrecondition(err))
}
