package repository

import (
	"context"

	"github.com/matecat/go-dqf/pkg/dqf"
	"github.com/matecat/go-dqf/pkg/transport"
)

// ChildProjectRepository synchronizes translation and review child projects.
type ChildProjectRepository struct {
	base
	masters *MasterProjectRepository
}

// NewChildProjectRepository creates a repository from cfg.
func NewChildProjectRepository(cfg Config) (*ChildProjectRepository, error) {
	b, err := newBase(cfg, "child-project-repository")
	if err != nil {
		return nil, err
	}
	masters, err := NewMasterProjectRepository(cfg)
	if err != nil {
		return nil, err
	}
	return &ChildProjectRepository{base: b, masters: masters}, nil
}

// Save creates p under its parent, associates its target languages to the
// master's files and persists its review settings. When p has no parent key
// but is linked to a persisted master, the master becomes the parent.
func (r *ChildProjectRepository) Save(ctx context.Context, p *dqf.Project) error {
	const op = "ChildProjectRepository.Save"

	c, err := p.AsChild(op)
	if err != nil {
		return err
	}
	if p.IsPersisted() {
		return dqf.Preconditionf(op, "child project %d is already persisted", p.RemoteID())
	}
	if c.ParentKey == "" && c.Master != nil && c.Master.IsPersisted() {
		if err := p.SetParent(c.Master.RemoteID(), c.Master.RemoteKey()); err != nil {
			return err
		}
	}
	if err := p.Validate(); err != nil {
		return err
	}
	if _, err := pendingAssociations(op, p); err != nil {
		return err
	}

	var created createdReply
	if _, err := r.call(ctx, op, transport.OpCreateChildProject, nil, c.ParentKey, newChildProjectBody(p, c), &created); err != nil {
		return err
	}
	p.SetRemoteID(created.DqfID)
	p.SetRemoteKey(created.DqfUUID)
	r.logger.Info("created child project",
		"project_id", p.RemoteID(),
		"type", c.Type,
		"parent_id", c.ParentID,
	)

	if err := r.addTargetLanguages(ctx, op, transport.OpAddChildProjectTargetLanguage, p); err != nil {
		return err
	}
	return r.saveReviewSettings(ctx, op, p)
}

// Update pushes p's attributes, replaces its target language associations
// and creates or updates its review settings.
func (r *ChildProjectRepository) Update(ctx context.Context, p *dqf.Project) error {
	const op = "ChildProjectRepository.Update"

	c, err := p.AsChild(op)
	if err != nil {
		return err
	}
	if !p.IsPersisted() {
		return dqf.Preconditionf(op, "child project has no remote id")
	}
	if err := p.Validate(); err != nil {
		return err
	}
	if err := checkAssociations(op, p, true, (*dqf.File).IsPersisted); err != nil {
		return err
	}

	if _, err := r.call(ctx, op, transport.OpUpdateChildProject, projectParams(p), p.RemoteKey(), newChildProjectBody(p, c), nil); err != nil {
		return err
	}
	r.logger.Info("updated child project", "project_id", p.RemoteID())

	if err := r.clearTargetLanguages(ctx, op, p,
		transport.OpGetChildProjectTargetLanguages,
		transport.OpDeleteChildProjectTargetLanguage,
	); err != nil {
		return err
	}
	p.EachTargetLanguage(func(_ string, a *dqf.FileTargetLanguage) {
		a.ClearRemoteID()
	})
	if err := r.addTargetLanguages(ctx, op, transport.OpAddChildProjectTargetLanguage, p); err != nil {
		return err
	}
	return r.saveReviewSettings(ctx, op, p)
}

// Delete removes p remotely. Reviews recorded on p must be cleared first
// with an empty ReviewBatch; the service rejects the call otherwise.
func (r *ChildProjectRepository) Delete(ctx context.Context, p *dqf.Project) error {
	const op = "ChildProjectRepository.Delete"

	if _, err := p.AsChild(op); err != nil {
		return err
	}
	if !p.IsPersisted() {
		return dqf.Constraintf(op, "child project has no remote id")
	}

	if _, err := r.call(ctx, op, transport.OpDeleteChildProject, projectParams(p), p.RemoteKey(), nil, nil); err != nil {
		return err
	}
	r.logger.Info("deleted child project", "project_id", p.RemoteID())
	p.ClearRemoteID()
	return nil
}

// Get fetches a child project, its associations and review settings, and
// links its root master project. It returns nil, nil when the project does
// not exist.
func (r *ChildProjectRepository) Get(ctx context.Context, id int64, key string) (*dqf.Project, error) {
	const op = "ChildProjectRepository.Get"

	var reply struct {
		Model childModel `json:"model"`
	}
	params := transport.Params{"projectId": transport.ID(id)}
	found, err := r.call(ctx, op, transport.OpGetChildProject, params, key, nil, &reply)
	if err != nil || !found {
		return nil, err
	}

	m := reply.Model
	p, err := dqf.NewChildProject(dqf.ChildType(m.Type))
	if err != nil {
		return nil, err
	}
	p.SetRemoteID(m.ID)
	p.SetRemoteKey(m.UUID)
	setClientID(&p.Envelope, m.ClientID)
	p.Name = m.Name

	c := p.Child()
	c.Assignee = m.Assignee
	c.Assigner = m.Assigner
	c.ReviewSettingsID = m.ReviewSettingsID
	if err := p.SetParent(m.Parent.ID, m.Parent.UUID); err != nil {
		return nil, err
	}
	if m.IsDummy {
		if err := p.SetDummy(true); err != nil {
			return nil, err
		}
	}

	master, err := r.masters.Get(ctx, m.Root.ID, m.Root.UUID)
	if err != nil {
		return nil, err
	}
	if master != nil {
		if err := p.SetMasterProject(master); err != nil {
			return nil, err
		}
	}

	for _, a := range m.FileTargetLangs {
		var f *dqf.File
		if master != nil {
			f = master.File(a.File.Name)
		}
		if f == nil {
			f = a.File.toFile()
		}
		assoc := p.AssocTargetLanguageToFile(a.Language.LocaleCode, f)
		assoc.SetRemoteID(a.ID)
	}

	rs, err := r.getReviewSettings(ctx, op, p)
	if err != nil {
		return nil, err
	}
	p.SetReviewSettings(rs)

	return p, nil
}
