package project

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/matecat/go-dqf/pkg/dqf"
)

// View is the printable form of a project.
type View struct {
	Kind     string `json:"kind" yaml:"kind"`
	ID       int64  `json:"id" yaml:"id"`
	Key      string `json:"key" yaml:"key"`
	ClientID string `json:"clientId,omitempty" yaml:"client_id,omitempty"`
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`

	SourceLanguage string `json:"sourceLanguage,omitempty" yaml:"source_language,omitempty"`
	TemplateName   string `json:"templateName,omitempty" yaml:"template_name,omitempty"`

	Type     string `json:"type,omitempty" yaml:"type,omitempty"`
	ParentID int64  `json:"parentId,omitempty" yaml:"parent_id,omitempty"`
	Assignee string `json:"assignee,omitempty" yaml:"assignee,omitempty"`
	MasterID int64  `json:"masterId,omitempty" yaml:"master_id,omitempty"`

	Files           []FileView          `json:"files,omitempty" yaml:"files,omitempty"`
	TargetLanguages map[string][]string `json:"targetLanguages,omitempty" yaml:"target_languages,omitempty"`
	ReviewSettings  *ReviewSettingsView `json:"reviewSettings,omitempty" yaml:"review_settings,omitempty"`
}

// FileView is a file of a master project.
type FileView struct {
	ID           int64  `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	SegmentCount int    `json:"segmentCount" yaml:"segment_count"`
}

// ReviewSettingsView summarises review settings.
type ReviewSettingsView struct {
	ID               int64   `json:"id" yaml:"id"`
	Type             string  `json:"type" yaml:"type"`
	ErrorCategoryIDs []int64 `json:"errorCategoryIds,omitempty" yaml:"error_category_ids,omitempty"`
	Sampling         *int    `json:"sampling,omitempty" yaml:"sampling,omitempty"`
}

// NewView flattens p. Target languages map a locale code to file names.
func NewView(p *dqf.Project) View {
	v := View{
		Kind: p.Kind().String(),
		ID:   p.RemoteID(),
		Key:  p.RemoteKey(),
		Name: p.Name,
	}

	switch p.Kind() {
	case dqf.KindMaster:
		m := p.Master()
		v.ClientID = p.LocalID().String()
		v.TemplateName = m.TemplateName
		if m.SourceLanguage != nil {
			v.SourceLanguage = m.SourceLanguage.Code
		}
		for _, f := range p.Files() {
			v.Files = append(v.Files, FileView{ID: f.RemoteID(), Name: f.Name, SegmentCount: f.SegmentCount})
		}
	case dqf.KindChild:
		c := p.Child()
		v.Type = string(c.Type)
		v.ParentID = c.ParentID
		v.Assignee = c.Assignee
		if master := p.MasterProject(); master != nil {
			v.MasterID = master.RemoteID()
		}
	}

	p.EachTargetLanguage(func(code string, a *dqf.FileTargetLanguage) {
		if a.File == nil {
			return
		}
		if v.TargetLanguages == nil {
			v.TargetLanguages = make(map[string][]string)
		}
		v.TargetLanguages[code] = append(v.TargetLanguages[code], a.File.Name)
	})
	for _, names := range v.TargetLanguages {
		sort.Strings(names)
	}

	if rs := p.ReviewSettings(); rs != nil {
		v.ReviewSettings = &ReviewSettingsView{
			ID:               rs.RemoteID(),
			Type:             string(rs.Type),
			ErrorCategoryIDs: rs.ErrorCategoryIDs,
			Sampling:         rs.Sampling,
		}
	}
	return v
}

// Write encodes v as json or yaml.
func (v View) Write(w io.Writer, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}
