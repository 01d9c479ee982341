package repository

import (
	"github.com/matecat/go-dqf/pkg/dqf"
	"github.com/matecat/go-dqf/pkg/dqfid"
)

// Request bodies and reply shapes of the remote API.

type createdReply struct {
	DqfID   int64  `json:"dqfId"`
	DqfUUID string `json:"dqfUUID"`
}

type idRef struct {
	ID int64 `json:"id"`
}

type localeRef struct {
	LocaleCode string `json:"localeCode"`
}

type masterProjectBody struct {
	Name               string `json:"name"`
	SourceLanguageCode string `json:"sourceLanguageCode"`
	ContentTypeID      int64  `json:"contentTypeId"`
	IndustryID         int64  `json:"industryId"`
	ProcessID          int64  `json:"processId"`
	QualityLevelID     int64  `json:"qualityLevelId"`
	ClientID           string `json:"clientId,omitempty"`
	TemplateName       string `json:"templateName,omitempty"`
	TMSProjectKey      string `json:"tmsProjectKey,omitempty"`
}

func newMasterProjectBody(p *dqf.Project, m *dqf.MasterDetails) masterProjectBody {
	return masterProjectBody{
		Name:               p.Name,
		SourceLanguageCode: m.SourceLanguage.Code,
		ContentTypeID:      m.ContentTypeID,
		IndustryID:         m.IndustryID,
		ProcessID:          m.ProcessID,
		QualityLevelID:     m.QualityLevelID,
		ClientID:           p.LocalID().String(),
		TemplateName:       m.TemplateName,
		TMSProjectKey:      m.TMSProjectKey,
	}
}

type masterModel struct {
	ID            int64     `json:"id"`
	UUID          string    `json:"uuid"`
	Name          string    `json:"name"`
	ClientID      string    `json:"clientId"`
	TemplateName  string    `json:"templateName"`
	TMSProjectKey string    `json:"tmsProjectKey"`
	Language      localeRef `json:"language"`

	ProjectSettings struct {
		ContentType idRef `json:"contentType"`
		Industry    idRef `json:"industry"`
		Process     idRef `json:"process"`
		Quality     idRef `json:"quality"`
	} `json:"projectSettings"`

	Files []fileModel `json:"files"`

	FileProjectTargetLangs []struct {
		ID                int64     `json:"id"`
		File              fileModel `json:"file"`
		ProjectTargetLang struct {
			Language localeRef `json:"language"`
		} `json:"projectTargetLang"`
	} `json:"fileProjectTargetLangs"`
}

type fileBody struct {
	Name             string `json:"name"`
	NumberOfSegments int    `json:"numberOfSegments"`
	ClientID         string `json:"clientId,omitempty"`
	TMSFileID        string `json:"tmsFileId,omitempty"`
}

func newFileBody(f *dqf.File) fileBody {
	return fileBody{
		Name:             f.Name,
		NumberOfSegments: f.SegmentCount,
		ClientID:         f.LocalID().String(),
		TMSFileID:        f.TMSFileID,
	}
}

type fileModel struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	SegmentSize int    `json:"segmentSize"`
	TMSFile     string `json:"tmsFile"`
	ClientID    string `json:"clientId"`
}

func (m fileModel) toFile() *dqf.File {
	f := dqf.NewFile(m.Name, m.SegmentSize)
	f.SetRemoteID(m.ID)
	f.TMSFileID = m.TMSFile
	setClientID(&f.Envelope, m.ClientID)
	return f
}

type targetLanguageBody struct {
	TargetLanguageCode string `json:"targetLanguageCode"`
}

type targetLanguageList struct {
	ModelList []struct {
		ID         int64  `json:"id"`
		LocaleCode string `json:"localeCode"`
	} `json:"modelList"`
}

type reviewSettingsBody struct {
	ReviewType        string   `json:"reviewType"`
	TemplateName      string   `json:"templateName,omitempty"`
	SeverityWeights   string   `json:"severityWeights,omitempty"`
	ErrorCategoryIDs  []int64  `json:"errorCategoryIds,omitempty"`
	PassFailThreshold *float64 `json:"passFailThreshold,omitempty"`
	Sampling          *int     `json:"sampling,omitempty"`
}

func newReviewSettingsBody(rs *dqf.ReviewSettings) (reviewSettingsBody, error) {
	weights, err := rs.SeverityWeightsJSON()
	if err != nil {
		return reviewSettingsBody{}, err
	}
	return reviewSettingsBody{
		ReviewType:        string(rs.Type),
		TemplateName:      rs.TemplateName,
		SeverityWeights:   weights,
		ErrorCategoryIDs:  rs.ErrorCategoryIDs,
		PassFailThreshold: rs.PassFailThreshold,
		Sampling:          rs.Sampling,
	}, nil
}

type reviewSettingsModel struct {
	ID                   int64    `json:"id"`
	Type                 string   `json:"type"`
	TemplateName         string   `json:"templateName"`
	Threshold            *float64 `json:"threshold"`
	Sampling             *int     `json:"sampling"`
	ErrorSeveritySetting []struct {
		Value         float64 `json:"value"`
		ErrorSeverity idRef   `json:"errorSeverity"`
	} `json:"errorSeveritySetting"`
	ErrorTypologySetting []struct {
		ErrorCategory idRef `json:"errorCategory"`
	} `json:"errorTypologySetting"`
}

func (m reviewSettingsModel) toReviewSettings() (*dqf.ReviewSettings, error) {
	t, err := dqf.ParseReviewType(m.Type)
	if err != nil {
		return nil, err
	}
	rs := dqf.NewReviewSettings(t)
	rs.SetRemoteID(m.ID)
	rs.TemplateName = m.TemplateName
	rs.PassFailThreshold = m.Threshold
	rs.Sampling = m.Sampling
	for _, s := range m.ErrorSeveritySetting {
		rs.AddSeverityWeight(s.ErrorSeverity.ID, s.Value)
	}
	for _, t := range m.ErrorTypologySetting {
		rs.AddErrorCategory(t.ErrorCategory.ID)
	}
	return rs, nil
}

type childProjectBody struct {
	ParentKey        string `json:"parentKey"`
	Type             string `json:"type"`
	Name             string `json:"name,omitempty"`
	Assignee         string `json:"assignee,omitempty"`
	Assigner         string `json:"assigner,omitempty"`
	IsDummy          bool   `json:"isDummy"`
	ReviewSettingsID int64  `json:"reviewSettingsId,omitempty"`
	ClientID         string `json:"clientId,omitempty"`
}

func newChildProjectBody(p *dqf.Project, c *dqf.ChildDetails) childProjectBody {
	return childProjectBody{
		ParentKey:        c.ParentKey,
		Type:             string(c.Type),
		Name:             p.Name,
		Assignee:         c.Assignee,
		Assigner:         c.Assigner,
		IsDummy:          c.IsDummy(),
		ReviewSettingsID: c.ReviewSettingsID,
		ClientID:         p.LocalID().String(),
	}
}

type childModel struct {
	ID               int64  `json:"id"`
	UUID             string `json:"uuid"`
	Name             string `json:"name"`
	Type             string `json:"type"`
	IsDummy          bool   `json:"isDummy"`
	Assignee         string `json:"assignee"`
	Assigner         string `json:"assigner"`
	ClientID         string `json:"clientId"`
	ReviewSettingsID int64  `json:"reviewSettingsId"`

	Parent struct {
		ID   int64  `json:"id"`
		UUID string `json:"uuid"`
	} `json:"parent"`
	Root struct {
		ID   int64  `json:"id"`
		UUID string `json:"uuid"`
	} `json:"root"`

	FileTargetLangs []struct {
		ID       int64     `json:"id"`
		File     fileModel `json:"file"`
		Language localeRef `json:"language"`
	} `json:"fileTargetLangs"`
}

type sourceSegmentBody struct {
	Index         int    `json:"index"`
	SourceSegment string `json:"sourceSegment"`
	ClientID      string `json:"clientId,omitempty"`
}

type segmentPairBody struct {
	SourceSegmentID     int64  `json:"sourceSegmentId"`
	ClientID            string `json:"clientId"`
	TargetSegment       string `json:"targetSegment"`
	EditedSegment       string `json:"editedSegment"`
	Time                int64  `json:"time"`
	SegmentOriginID     int64  `json:"segmentOriginId,omitempty"`
	SegmentOriginDetail string `json:"segmentOriginDetail,omitempty"`
	MTEngineID          int64  `json:"mtEngineId,omitempty"`
	MTEngineOtherName   string `json:"mtEngineOtherName,omitempty"`
	MTEngineVersion     string `json:"mtEngineVersion,omitempty"`
	MatchRate           int    `json:"matchRate"`
	IndexNo             int    `json:"indexNo"`
}

func newSegmentPairBody(t *dqf.TranslatedSegment) segmentPairBody {
	return segmentPairBody{
		SourceSegmentID:     t.SourceSegmentID(),
		ClientID:            t.LocalID().String(),
		TargetSegment:       t.TargetText,
		EditedSegment:       t.EditedText,
		Time:                t.Time,
		SegmentOriginID:     t.SegmentOriginID,
		SegmentOriginDetail: t.SegmentOriginDetail,
		MTEngineID:          t.MTEngineID,
		MTEngineOtherName:   t.MTEngineOtherName,
		MTEngineVersion:     t.MTEngineVersion,
		MatchRate:           t.MatchRate,
		IndexNo:             t.SequenceIndex(),
	}
}

type translationModel struct {
	ID                  int64  `json:"id"`
	ClientID            string `json:"clientId"`
	IndexNo             int    `json:"indexNo"`
	SourceSegmentID     int64  `json:"sourceSegmentId"`
	TargetLangCode      string `json:"targetLangCode"`
	TargetSegment       string `json:"targetSegment"`
	EditedSegment       string `json:"editedSegment"`
	Time                int64  `json:"time"`
	SegmentOriginID     int64  `json:"segmentOriginId"`
	SegmentOriginDetail string `json:"segmentOriginDetail"`
	MTEngineID          int64  `json:"mtEngineId"`
	MTEngineOtherName   string `json:"mtEngineOtherName"`
	MTEngineVersion     string `json:"mtEngineVersion"`
	MatchRate           int    `json:"matchRate"`
}

type revisionErrorBody struct {
	ErrorCategoryID int64 `json:"errorCategoryId"`
	SeverityID      int64 `json:"severityId"`
	CharPosStart    *int  `json:"charPosStart,omitempty"`
	CharPosEnd      *int  `json:"charPosEnd,omitempty"`
	IsRepeated      bool  `json:"isRepeated"`
}

type correctionItemBody struct {
	SubContent string `json:"subContent"`
	Type       string `json:"type"`
}

type correctionBody struct {
	Content    string               `json:"content"`
	Time       int64                `json:"time"`
	DetailList []correctionItemBody `json:"detailList"`
}

type revisionBody struct {
	ClientID   string              `json:"clientId,omitempty"`
	Comment    string              `json:"comment,omitempty"`
	Errors     []revisionErrorBody `json:"errors,omitempty"`
	Correction *correctionBody     `json:"correction,omitempty"`
}

func newRevisionBody(r *dqf.Revision) revisionBody {
	body := revisionBody{
		ClientID: r.LocalID().String(),
		Comment:  r.Comment,
	}
	for _, e := range r.Errors {
		body.Errors = append(body.Errors, revisionErrorBody{
			ErrorCategoryID: e.ErrorCategoryID,
			SeverityID:      e.SeverityID,
			CharPosStart:    e.CharPosStart,
			CharPosEnd:      e.CharPosEnd,
			IsRepeated:      e.Repeated,
		})
	}
	if c := r.Correction; c != nil {
		body.Correction = &correctionBody{
			Content:    c.Content,
			Time:       c.Time,
			DetailList: make([]correctionItemBody, 0, len(c.Items)),
		}
		for _, item := range c.Items {
			body.Correction.DetailList = append(body.Correction.DetailList, correctionItemBody{
				SubContent: item.SubContent,
				Type:       string(item.Kind),
			})
		}
	}
	return body
}

type reviewBatchBody struct {
	BatchID     string         `json:"batchId"`
	Overwrite   bool           `json:"overwrite"`
	Corrections []revisionBody `json:"corrections"`
}

type reviewBatchReply struct {
	CreatedReviewIDs []struct {
		ReviewContainerID int64  `json:"reviewContainerId"`
		ClientID          string `json:"clientId"`
	} `json:"createdReviewIds"`
}

type revisionModel struct {
	ReviewContainerID int64               `json:"reviewContainerId"`
	ClientID          string              `json:"clientId"`
	Comment           string              `json:"comment"`
	Errors            []revisionErrorBody `json:"errors"`
	Correction        *correctionBody     `json:"correction"`
}

func (m revisionModel) toRevision() *dqf.Revision {
	r := dqf.NewRevision(m.Comment)
	r.SetRemoteID(m.ReviewContainerID)
	setClientID(&r.Envelope, m.ClientID)
	for _, e := range m.Errors {
		r.AddError(dqf.RevisionError{
			ErrorCategoryID: e.ErrorCategoryID,
			SeverityID:      e.SeverityID,
			CharPosStart:    e.CharPosStart,
			CharPosEnd:      e.CharPosEnd,
			Repeated:        e.IsRepeated,
		})
	}
	if m.Correction != nil {
		c := dqf.NewCorrection(m.Correction.Content, m.Correction.Time)
		for _, item := range m.Correction.DetailList {
			c.Items = append(c.Items, dqf.CorrectionItem{SubContent: item.SubContent, Kind: dqf.DiffKind(item.Type)})
		}
		r.SetCorrection(c)
	}
	return r
}

// setClientID replaces the envelope's correlation key when s is a valid id.
func setClientID(e *dqfid.Envelope, s string) {
	if id, err := dqfid.ParseLocalID(s); err == nil {
		e.SetLocalID(id)
	}
}
