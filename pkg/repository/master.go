package repository

import (
	"context"

	"github.com/matecat/go-dqf/pkg/dqf"
	"github.com/matecat/go-dqf/pkg/transport"
)

// MasterProjectRepository synchronizes master projects: the project itself,
// its files, target language associations, review settings and source
// segments, in that order.
type MasterProjectRepository struct {
	base
}

// NewMasterProjectRepository creates a repository from cfg.
func NewMasterProjectRepository(cfg Config) (*MasterProjectRepository, error) {
	b, err := newBase(cfg, "master-project-repository")
	if err != nil {
		return nil, err
	}
	return &MasterProjectRepository{base: b}, nil
}

// Save creates p remotely and attaches everything it owns. Steps already
// completed are not undone when a later step fails; calling Update on the
// partially saved project completes it.
func (r *MasterProjectRepository) Save(ctx context.Context, p *dqf.Project) error {
	const op = "MasterProjectRepository.Save"

	m, err := p.AsMaster(op)
	if err != nil {
		return err
	}
	if p.IsPersisted() {
		return dqf.Preconditionf(op, "master project %d is already persisted", p.RemoteID())
	}
	if err := p.Validate(); err != nil {
		return err
	}
	if err := checkAttachments(op, p, false); err != nil {
		return err
	}
	if err := r.hydrateLanguage(m.SourceLanguage); err != nil {
		return err
	}

	var created createdReply
	if _, err := r.call(ctx, op, transport.OpCreateMasterProject, nil, "", newMasterProjectBody(p, m), &created); err != nil {
		return err
	}
	p.SetRemoteID(created.DqfID)
	p.SetRemoteKey(created.DqfUUID)
	r.logger.Info("created master project", "project_id", p.RemoteID(), "name", p.Name)

	if err := r.saveFiles(ctx, op, p, false); err != nil {
		return err
	}
	if err := r.saveTargetLanguages(ctx, op, p); err != nil {
		return err
	}
	if err := r.saveReviewSettings(ctx, op, p); err != nil {
		return err
	}
	return r.saveSourceSegments(ctx, op, p)
}

// Update pushes p's attributes and replaces its target language
// associations. Pending files, review settings and segments are created.
func (r *MasterProjectRepository) Update(ctx context.Context, p *dqf.Project) error {
	const op = "MasterProjectRepository.Update"

	m, err := p.AsMaster(op)
	if err != nil {
		return err
	}
	if !p.IsPersisted() {
		return dqf.Preconditionf(op, "master project %q has no remote id", p.Name)
	}
	if err := p.Validate(); err != nil {
		return err
	}
	if err := checkAttachments(op, p, true); err != nil {
		return err
	}
	if err := r.hydrateLanguage(m.SourceLanguage); err != nil {
		return err
	}

	if _, err := r.call(ctx, op, transport.OpUpdateMasterProject, projectParams(p), p.RemoteKey(), newMasterProjectBody(p, m), nil); err != nil {
		return err
	}
	r.logger.Info("updated master project", "project_id", p.RemoteID())

	if err := r.saveFiles(ctx, op, p, true); err != nil {
		return err
	}
	if err := r.replaceTargetLanguages(ctx, op, p); err != nil {
		return err
	}
	if err := r.saveReviewSettings(ctx, op, p); err != nil {
		return err
	}
	return r.saveSourceSegments(ctx, op, p)
}

// Delete removes p and its descendants remotely. The service refuses while
// reviews are attached to any descendant.
func (r *MasterProjectRepository) Delete(ctx context.Context, p *dqf.Project) error {
	const op = "MasterProjectRepository.Delete"

	if _, err := p.AsMaster(op); err != nil {
		return err
	}
	if !p.IsPersisted() {
		return dqf.Constraintf(op, "master project %q has no remote id", p.Name)
	}

	if _, err := r.call(ctx, op, transport.OpDeleteMasterProject, projectParams(p), p.RemoteKey(), nil, nil); err != nil {
		return err
	}
	r.logger.Info("deleted master project", "project_id", p.RemoteID())
	p.ClearRemoteID()
	return nil
}

// Get fetches a master project with its files, associations and review
// settings. It returns nil, nil when the project does not exist. Only the
// source language is hydrated.
func (r *MasterProjectRepository) Get(ctx context.Context, id int64, key string) (*dqf.Project, error) {
	const op = "MasterProjectRepository.Get"

	var reply struct {
		Model masterModel `json:"model"`
	}
	params := transport.Params{"projectId": transport.ID(id)}
	found, err := r.call(ctx, op, transport.OpGetMasterProject, params, key, nil, &reply)
	if err != nil || !found {
		return nil, err
	}

	m := reply.Model
	s := m.ProjectSettings
	p := dqf.NewMasterProject(m.Name, m.Language.LocaleCode, s.ContentType.ID, s.Industry.ID, s.Process.ID, s.Quality.ID)
	p.SetRemoteID(m.ID)
	p.SetRemoteKey(m.UUID)
	setClientID(&p.Envelope, m.ClientID)
	p.Master().TemplateName = m.TemplateName
	p.Master().TMSProjectKey = m.TMSProjectKey

	if err := r.hydrateLanguage(p.Master().SourceLanguage); err != nil {
		return nil, err
	}

	for _, f := range m.Files {
		p.AddFile(f.toFile())
	}
	for _, a := range m.FileProjectTargetLangs {
		f := p.File(a.File.Name)
		if f == nil {
			f = a.File.toFile()
			p.AddFile(f)
		}
		assoc := p.AssocTargetLanguageToFile(a.ProjectTargetLang.Language.LocaleCode, f)
		assoc.SetRemoteID(a.ID)
	}

	rs, err := r.getReviewSettings(ctx, op, p)
	if err != nil {
		return nil, err
	}
	p.SetReviewSettings(rs)

	return p, nil
}

// saveFiles creates pending files. Persisted files are skipped, or updated
// when update is set.
func (r *MasterProjectRepository) saveFiles(ctx context.Context, op string, p *dqf.Project, update bool) error {
	for _, f := range p.Files() {
		params := fileParams(p, f)
		if f.IsPersisted() {
			if !update {
				continue
			}
			if _, err := r.call(ctx, op, transport.OpUpdateMasterProjectFile, params, p.RemoteKey(), newFileBody(f), nil); err != nil {
				return err
			}
			continue
		}

		var created createdReply
		if _, err := r.call(ctx, op, transport.OpAddMasterProjectFile, params, p.RemoteKey(), newFileBody(f), &created); err != nil {
			return err
		}
		f.SetRemoteID(created.DqfID)
		r.logger.Debug("attached file", "project_id", p.RemoteID(), "file_id", f.RemoteID(), "name", f.Name)
	}
	return nil
}

// checkAttachments fails when an association or a source segment references
// a file that will have no remote id once p's files are saved. replace marks
// an update, where every association is recreated.
func checkAttachments(op string, p *dqf.Project, replace bool) error {
	attached := func(f *dqf.File) bool {
		return f.IsPersisted() || p.File(f.Name) == f
	}
	if err := checkAssociations(op, p, replace, attached); err != nil {
		return err
	}
	for _, name := range p.SourceSegmentFiles() {
		if p.File(name) == nil {
			return dqf.Constraintf(op, "source segments reference file %q which is not attached to the project", name)
		}
	}
	return nil
}

func (r *MasterProjectRepository) saveTargetLanguages(ctx context.Context, op string, p *dqf.Project) error {
	return r.addTargetLanguages(ctx, op, transport.OpAddMasterProjectTargetLanguage, p)
}

// replaceTargetLanguages deletes every association registered remotely for
// p's files and recreates the local set.
func (r *MasterProjectRepository) replaceTargetLanguages(ctx context.Context, op string, p *dqf.Project) error {
	if err := r.clearTargetLanguages(ctx, op, p,
		transport.OpGetMasterProjectTargetLanguages,
		transport.OpDeleteMasterProjectTargetLanguage,
	); err != nil {
		return err
	}
	p.EachTargetLanguage(func(_ string, a *dqf.FileTargetLanguage) {
		a.ClearRemoteID()
	})
	return r.saveTargetLanguages(ctx, op, p)
}

func (r *MasterProjectRepository) saveSourceSegments(ctx context.Context, op string, p *dqf.Project) error {
	sync := Synchronizer[*dqf.SourceSegment]{
		Limit:  r.batchLimit,
		Logger: r.logger.Named("synchronizer"),
	}

	for _, name := range p.SourceSegmentFiles() {
		f := p.File(name)
		if f == nil || !f.IsPersisted() {
			return dqf.Constraintf(op, "source segments reference file %q which is not attached to the project", name)
		}
		params := fileParams(p, f)

		result, err := sync.Run(ctx, p.SourceSegments(name), func(ctx context.Context, chunk []*dqf.SourceSegment) ([]Assignment, error) {
			body := struct {
				SourceSegments []sourceSegmentBody `json:"sourceSegments"`
			}{
				SourceSegments: make([]sourceSegmentBody, 0, len(chunk)),
			}
			for _, s := range chunk {
				body.SourceSegments = append(body.SourceSegments, sourceSegmentBody{
					Index:         s.Index,
					SourceSegment: s.Text,
					ClientID:      s.LocalID().String(),
				})
			}

			var reply struct {
				SegmentList []Assignment `json:"segmentList"`
			}
			if _, err := r.call(ctx, op, transport.OpAddSourceSegmentsInBatch, params, p.RemoteKey(), body, &reply); err != nil {
				return nil, err
			}
			return reply.SegmentList, nil
		})
		if err != nil {
			return err
		}
		if result.Submitted > 0 {
			r.logger.Info("submitted source segments",
				"project_id", p.RemoteID(),
				"file_id", f.RemoteID(),
				"segments", result.Submitted,
				"chunks", result.Chunks,
			)
		}
	}
	return nil
}

func projectParams(p *dqf.Project) transport.Params {
	return transport.Params{"projectId": transport.ID(p.RemoteID())}
}

func fileParams(p *dqf.Project, f *dqf.File) transport.Params {
	return transport.Params{
		"projectId": transport.ID(p.RemoteID()),
		"fileId":    transport.ID(f.RemoteID()),
	}
}
