package repository

import (
	"context"

	"github.com/matecat/go-dqf/pkg/dqf"
	"github.com/matecat/go-dqf/pkg/transport"
)

// Steps shared by the master and child project repositories.

// pendingAssociations returns the associations without a remote id, failing
// when one references a file that was never attached remotely.
func pendingAssociations(op string, p *dqf.Project) ([]*dqf.FileTargetLanguage, error) {
	if err := checkAssociations(op, p, false, (*dqf.File).IsPersisted); err != nil {
		return nil, err
	}
	var pending []*dqf.FileTargetLanguage
	p.EachTargetLanguage(func(_ string, a *dqf.FileTargetLanguage) {
		if !a.IsPersisted() {
			pending = append(pending, a)
		}
	})
	return pending, nil
}

// checkAssociations fails when an association that is about to be submitted
// references a file attached reports as unavailable. With all set, persisted
// associations are checked too, since a full replace recreates them.
func checkAssociations(op string, p *dqf.Project, all bool, attached func(*dqf.File) bool) error {
	var missing *dqf.FileTargetLanguage
	p.EachTargetLanguage(func(_ string, a *dqf.FileTargetLanguage) {
		if missing != nil || (a.IsPersisted() && !all) {
			return
		}
		if a.File == nil || !attached(a.File) {
			missing = a
		}
	})
	if missing == nil {
		return nil
	}
	name := ""
	if missing.File != nil {
		name = missing.File.Name
	}
	return dqf.Constraintf(op, "target language %q references file %q which has no remote id", missing.Code(), name)
}

func (b *base) addTargetLanguages(ctx context.Context, op, operation string, p *dqf.Project) error {
	pending, err := pendingAssociations(op, p)
	if err != nil {
		return err
	}

	for _, a := range pending {
		var created createdReply
		body := targetLanguageBody{TargetLanguageCode: a.Code()}
		if _, err := b.call(ctx, op, operation, fileParams(p, a.File), p.RemoteKey(), body, &created); err != nil {
			return err
		}
		a.SetRemoteID(created.DqfID)
		b.logger.Debug("associated target language",
			"project_id", p.RemoteID(),
			"file_id", a.File.RemoteID(),
			"language", a.Code(),
		)
	}
	return nil
}

// clearTargetLanguages deletes every association registered remotely on the
// files p can reference.
func (b *base) clearTargetLanguages(ctx context.Context, op string, p *dqf.Project, list, remove string) error {
	removed := 0
	for _, f := range associableFiles(p) {
		var reply targetLanguageList
		found, err := b.call(ctx, op, list, fileParams(p, f), p.RemoteKey(), nil, &reply)
		if err != nil {
			return err
		}
		if !found {
			continue
		}

		seen := make(map[string]bool)
		for _, m := range reply.ModelList {
			if seen[m.LocaleCode] {
				continue
			}
			seen[m.LocaleCode] = true

			params := fileParams(p, f)
			params["targetLangCode"] = m.LocaleCode
			if _, err := b.call(ctx, op, remove, params, p.RemoteKey(), nil, nil); err != nil {
				return err
			}
			removed++
		}
	}
	b.logger.Debug("cleared target languages", "project_id", p.RemoteID(), "removed", removed)
	return nil
}

// associableFiles returns the persisted files p may associate languages to:
// its own files for a master, the master's files for a child, plus any file
// already referenced by an association.
func associableFiles(p *dqf.Project) []*dqf.File {
	var out []*dqf.File
	seen := make(map[string]bool)
	add := func(f *dqf.File) {
		if f == nil || !f.IsPersisted() || seen[f.Name] {
			return
		}
		seen[f.Name] = true
		out = append(out, f)
	}

	if master := p.MasterProject(); master != nil {
		for _, f := range master.Files() {
			add(f)
		}
	}
	p.EachTargetLanguage(func(_ string, a *dqf.FileTargetLanguage) {
		add(a.File)
	})
	return out
}

// saveReviewSettings creates or updates p's review settings, if any.
func (b *base) saveReviewSettings(ctx context.Context, op string, p *dqf.Project) error {
	rs := p.ReviewSettings()
	if rs == nil {
		return nil
	}
	body, err := newReviewSettingsBody(rs)
	if err != nil {
		return &dqf.Error{Op: op, Err: err}
	}

	if rs.IsPersisted() {
		if _, err := b.call(ctx, op, transport.OpUpdateProjectReviewSettings, projectParams(p), p.RemoteKey(), body, nil); err != nil {
			return err
		}
		b.logger.Debug("updated review settings", "project_id", p.RemoteID(), "settings_id", rs.RemoteID())
	} else {
		var created createdReply
		if _, err := b.call(ctx, op, transport.OpAddProjectReviewSettings, projectParams(p), p.RemoteKey(), body, &created); err != nil {
			return err
		}
		rs.SetRemoteID(created.DqfID)
		b.logger.Debug("created review settings", "project_id", p.RemoteID(), "settings_id", rs.RemoteID())
	}

	if c := p.Child(); c != nil {
		c.ReviewSettingsID = rs.RemoteID()
	}
	return nil
}

// getReviewSettings fetches p's review settings, or nil when none are set.
func (b *base) getReviewSettings(ctx context.Context, op string, p *dqf.Project) (*dqf.ReviewSettings, error) {
	var reply struct {
		Model reviewSettingsModel `json:"model"`
	}
	found, err := b.call(ctx, op, transport.OpGetProjectReviewSettings, projectParams(p), p.RemoteKey(), nil, &reply)
	if err != nil || !found {
		return nil, err
	}
	rs, err := reply.Model.toReviewSettings()
	if err != nil {
		return nil, &dqf.Error{Op: op, Err: dqf.ErrRemoteRejected, Msg: err.Error()}
	}
	return rs, nil
}
