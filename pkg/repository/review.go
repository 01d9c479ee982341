package repository

import (
	"context"
	"fmt"

	"github.com/matecat/go-dqf/pkg/dqf"
	"github.com/matecat/go-dqf/pkg/transport"
)

// ReviewRepository records the revisions of translated segments.
type ReviewRepository struct {
	base
}

// NewReviewRepository creates a repository from cfg.
func NewReviewRepository(cfg Config) (*ReviewRepository, error) {
	b, err := newBase(cfg, "review-repository")
	if err != nil {
		return nil, err
	}
	return &ReviewRepository{base: b}, nil
}

// Save submits every revision of batch in one call and writes the returned
// ids back in submission order. A batch without revisions clears the
// revisions recorded for the translation.
func (r *ReviewRepository) Save(ctx context.Context, batch *dqf.ReviewBatch) (*dqf.ReviewBatch, error) {
	const op = "ReviewRepository.Save"

	if batch == nil {
		return nil, dqf.Preconditionf(op, "batch is required")
	}
	child, file, translation := batch.ChildProject(), batch.File(), batch.Translation()
	switch {
	case !child.IsPersisted():
		return nil, dqf.Preconditionf(op, "child project has no remote id")
	case !file.IsPersisted():
		return nil, dqf.Preconditionf(op, "file %q has no remote id", file.Name)
	case !translation.IsPersisted():
		return nil, dqf.Preconditionf(op, "translation has no remote id")
	}

	revisions := batch.Revisions()
	body := reviewBatchBody{
		BatchID:     batch.BatchID(),
		Overwrite:   batch.Overwrite(),
		Corrections: make([]revisionBody, 0, len(revisions)),
	}
	for _, rev := range revisions {
		body.Corrections = append(body.Corrections, newRevisionBody(rev))
	}

	params := reviewParams(child, file, batch.TargetLanguage().Code, translation)
	var reply reviewBatchReply
	if _, err := r.call(ctx, op, transport.OpUpdateReviewInBatch, params, child.RemoteKey(), body, &reply); err != nil {
		return nil, err
	}
	if len(reply.CreatedReviewIDs) != len(revisions) {
		return nil, &dqf.Error{
			Op:  op,
			Err: dqf.ErrRemoteRejected,
			Msg: fmt.Sprintf("service acknowledged %d of %d revisions", len(reply.CreatedReviewIDs), len(revisions)),
		}
	}

	for i, created := range reply.CreatedReviewIDs {
		revisions[i].SetRemoteID(created.ReviewContainerID)
		setClientID(&revisions[i].Envelope, created.ClientID)
	}

	if len(revisions) == 0 {
		r.logger.Info("cleared revisions", "project_id", child.RemoteID(), "translation_id", translation.RemoteID())
	} else {
		r.logger.Info("saved revisions",
			"project_id", child.RemoteID(),
			"translation_id", translation.RemoteID(),
			"batch_id", batch.BatchID(),
			"revisions", len(revisions),
		)
	}
	return batch, nil
}

// GetRevisions fetches the revisions recorded for translation.
func (r *ReviewRepository) GetRevisions(ctx context.Context, child *dqf.Project, file *dqf.File, lang string, translation *dqf.TranslatedSegment) ([]*dqf.Revision, error) {
	const op = "ReviewRepository.GetRevisions"

	if _, err := child.AsChild(op); err != nil {
		return nil, err
	}
	switch {
	case !child.IsPersisted():
		return nil, dqf.Preconditionf(op, "child project has no remote id")
	case file == nil || !file.IsPersisted():
		return nil, dqf.Preconditionf(op, "file has no remote id")
	case translation == nil || !translation.IsPersisted():
		return nil, dqf.Preconditionf(op, "translation has no remote id")
	}

	var reply struct {
		ModelList []revisionModel `json:"modelList"`
	}
	found, err := r.call(ctx, op, transport.OpGetReviews, reviewParams(child, file, lang, translation), child.RemoteKey(), nil, &reply)
	if err != nil || !found {
		return nil, err
	}

	out := make([]*dqf.Revision, 0, len(reply.ModelList))
	for _, m := range reply.ModelList {
		out = append(out, m.toRevision())
	}
	return out, nil
}

func reviewParams(child *dqf.Project, file *dqf.File, lang string, translation *dqf.TranslatedSegment) transport.Params {
	params := langParams(child, file, lang)
	params["translationId"] = transport.ID(translation.RemoteID())
	return params
}
