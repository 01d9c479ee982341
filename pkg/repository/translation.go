package repository

import (
	"context"

	"github.com/matecat/go-dqf/pkg/attributes"
	"github.com/matecat/go-dqf/pkg/dqf"
	"github.com/matecat/go-dqf/pkg/dqfid"
	"github.com/matecat/go-dqf/pkg/transport"
)

// TranslationRepository submits and fetches the translations of a
// translation child project.
type TranslationRepository struct {
	base
}

// NewTranslationRepository creates a repository from cfg.
func NewTranslationRepository(cfg Config) (*TranslationRepository, error) {
	b, err := newBase(cfg, "translation-repository")
	if err != nil {
		return nil, err
	}
	return &TranslationRepository{base: b}, nil
}

// Save pairs every translation of batch with its remote source segment by
// index, then submits the pending ones in chunks. On return every accepted
// translation and its source segment carry a remote id. A failed chunk
// leaves earlier chunks persisted; saving the same batch again sends only
// the rest.
func (r *TranslationRepository) Save(ctx context.Context, batch *dqf.TranslationBatch) (*dqf.TranslationBatch, error) {
	const op = "TranslationRepository.Save"

	if batch == nil {
		return nil, dqf.Preconditionf(op, "batch is required")
	}
	child := batch.ChildProject()
	if !child.IsPersisted() {
		return nil, dqf.Preconditionf(op, "child project has no remote id")
	}
	file := batch.File()
	if !file.IsPersisted() {
		return nil, dqf.Preconditionf(op, "file %q has no remote id", file.Name)
	}
	if batch.Len() == 0 {
		return batch, nil
	}

	lang := batch.TargetLanguage()
	if err := r.hydrateLanguage(lang); err != nil {
		return nil, err
	}

	params := langParams(child, file, lang.Code)
	sources, err := r.sourceSegmentIDs(ctx, op, child, params)
	if err != nil {
		return nil, err
	}

	for _, seg := range batch.Segments() {
		if err := r.prepare(op, seg, lang, sources); err != nil {
			return nil, err
		}
	}

	sync := Synchronizer[*dqf.TranslatedSegment]{
		Limit:  r.batchLimit,
		Logger: r.logger.Named("synchronizer"),
	}
	result, err := sync.Run(ctx, batch.Segments(), func(ctx context.Context, chunk []*dqf.TranslatedSegment) ([]Assignment, error) {
		body := struct {
			SegmentPairs []segmentPairBody `json:"segmentPairs"`
		}{
			SegmentPairs: make([]segmentPairBody, 0, len(chunk)),
		}
		for _, seg := range chunk {
			body.SegmentPairs = append(body.SegmentPairs, newSegmentPairBody(seg))
		}

		var reply struct {
			Translations []Assignment `json:"translations"`
		}
		if _, err := r.call(ctx, op, transport.OpAddTranslationsInBatch, params, child.RemoteKey(), body, &reply); err != nil {
			return nil, err
		}
		return reply.Translations, nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info("saved translations",
		"project_id", child.RemoteID(),
		"file_id", file.RemoteID(),
		"language", lang.Code,
		"submitted", result.Submitted,
		"chunks", result.Chunks,
	)
	return batch, nil
}

// prepare links seg to its remote source segment and resolves its
// provenance attributes.
func (r *TranslationRepository) prepare(op string, seg *dqf.TranslatedSegment, lang *dqf.Language, sources map[int]Assignment) error {
	src := seg.SourceSegment
	if src == nil {
		return dqf.Constraintf(op, "translation at index %d has no source segment", seg.SequenceIndex())
	}
	a, ok := sources[src.Index]
	if !ok {
		return dqf.Constraintf(op, "no remote source segment with index %d", src.Index)
	}
	src.SetRemoteID(a.RemoteID)
	setClientID(&src.Envelope, a.ClientID)

	if seg.LocalID().IsZero() {
		seg.SetLocalID(dqfid.NewLocalID())
	}

	if seg.TargetLanguage == nil {
		seg.TargetLanguage = dqf.NewLanguage(lang.Code)
	}
	if seg.TargetLanguage.Code == lang.Code {
		seg.TargetLanguage.Hydrate(lang.ID, lang.Name)
	}

	if seg.SegmentOriginID == 0 && seg.SegmentOrigin != "" {
		id, err := r.resolver.ResolveID(attributes.SegmentOrigin, seg.SegmentOrigin)
		if err != nil {
			return err
		}
		seg.SegmentOriginID = id
	}
	if seg.MTEngineID == 0 && seg.MTEngine != "" {
		id, err := r.resolver.ResolveID(attributes.MTEngine, seg.MTEngine)
		if err != nil {
			return err
		}
		seg.MTEngineID = id
	}
	return nil
}

// sourceSegmentIDs returns the remote source segments of a file, by index.
func (r *TranslationRepository) sourceSegmentIDs(ctx context.Context, op string, child *dqf.Project, params transport.Params) (map[int]Assignment, error) {
	var reply struct {
		SourceSegmentList []Assignment `json:"sourceSegmentList"`
	}
	found, err := r.call(ctx, op, transport.OpGetSourceSegmentIDs, params, child.RemoteKey(), nil, &reply)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, dqf.Constraintf(op, "file %s has no source segments", params["fileId"])
	}

	out := make(map[int]Assignment, len(reply.SourceSegmentList))
	for _, a := range reply.SourceSegmentList {
		out[a.Index] = a
	}
	return out, nil
}

// Update replaces the content of one persisted translation. It reports false,
// without error, when the translation no longer exists remotely.
func (r *TranslationRepository) Update(ctx context.Context, child *dqf.Project, file *dqf.File, seg *dqf.TranslatedSegment) (bool, error) {
	const op = "TranslationRepository.Update"

	if _, err := child.AsChild(op); err != nil {
		return false, err
	}
	switch {
	case !child.IsPersisted():
		return false, dqf.Preconditionf(op, "child project has no remote id")
	case file == nil || !file.IsPersisted():
		return false, dqf.Preconditionf(op, "file has no remote id")
	case seg == nil || !seg.IsPersisted():
		return false, dqf.Preconditionf(op, "translation has no remote id")
	case seg.SourceSegmentID() == 0:
		return false, dqf.Preconditionf(op, "source segment has no remote id")
	case seg.TargetLanguage == nil:
		return false, dqf.Preconditionf(op, "translation has no target language")
	}

	existing, err := r.GetTranslatedSegment(ctx, child.RemoteID(), child.RemoteKey(), file.RemoteID(),
		seg.TargetLanguage.Code, seg.SourceSegmentID(), seg.RemoteID())
	if err != nil {
		return false, err
	}
	if existing == nil {
		return false, nil
	}

	params := translationParams(child, file, seg.TargetLanguage.Code, seg.SourceSegmentID(), seg.RemoteID())
	if _, err := r.call(ctx, op, transport.OpUpdateTranslationForASegment, params, child.RemoteKey(), newSegmentPairBody(seg), nil); err != nil {
		return false, err
	}
	r.logger.Debug("updated translation", "project_id", child.RemoteID(), "translation_id", seg.RemoteID())
	return true, nil
}

// GetTranslatedSegment fetches one translation. It returns nil, nil when the
// translation does not exist.
func (r *TranslationRepository) GetTranslatedSegment(ctx context.Context, childID int64, childKey string, fileID int64, lang string, sourceSegmentID, translationID int64) (*dqf.TranslatedSegment, error) {
	const op = "TranslationRepository.GetTranslatedSegment"

	params := transport.Params{
		"projectId":       transport.ID(childID),
		"fileId":          transport.ID(fileID),
		"targetLangCode":  lang,
		"sourceSegmentId": transport.ID(sourceSegmentID),
		"translationId":   transport.ID(translationID),
	}
	var reply struct {
		Model translationModel `json:"model"`
	}
	found, err := r.call(ctx, op, transport.OpGetTranslationForASegment, params, childKey, nil, &reply)
	if err != nil || !found {
		return nil, err
	}

	m := reply.Model
	src := dqf.NewSourceSegment(nil, m.IndexNo, "")
	src.SetRemoteID(m.SourceSegmentID)

	seg := dqf.NewTranslatedSegment(src, lang, m.TargetSegment)
	seg.SetRemoteID(m.ID)
	setClientID(&seg.Envelope, m.ClientID)
	seg.EditedText = m.EditedSegment
	seg.Time = m.Time
	seg.SegmentOriginID = m.SegmentOriginID
	seg.SegmentOriginDetail = m.SegmentOriginDetail
	seg.MTEngineID = m.MTEngineID
	seg.MTEngineOtherName = m.MTEngineOtherName
	seg.MTEngineVersion = m.MTEngineVersion
	seg.MatchRate = m.MatchRate
	seg.IndexNo = m.IndexNo
	return seg, nil
}

func langParams(child *dqf.Project, file *dqf.File, lang string) transport.Params {
	params := fileParams(child, file)
	params["targetLangCode"] = lang
	return params
}

func translationParams(child *dqf.Project, file *dqf.File, lang string, sourceSegmentID, translationID int64) transport.Params {
	params := langParams(child, file, lang)
	params["sourceSegmentId"] = transport.ID(sourceSegmentID)
	params["translationId"] = transport.ID(translationID)
	return params
}
