package mock

import (
	"encoding/json"
	"net/http"

	"github.com/matecat/go-dqf/pkg/transport"
)

func (s *Service) addSourceSegments(req *transport.Request, body map[string]any) (int, map[string]any) {
	p, status, errBody := s.project(req)
	if p == nil {
		return status, errBody
	}
	fileID := pathID(req, "fileId")
	if !p.Master || fileByID(p.Files, fileID) == nil {
		return http.StatusNotFound, errorBody("file not found")
	}

	items := list(body, "sourceSegments")
	if len(items) == 0 {
		return http.StatusBadRequest, errorBody("sourceSegments is required")
	}

	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		clientID := str(item, "clientId")
		seg := findSegmentByClientID(p.Segments[fileID], clientID)
		if seg == nil {
			seg = &Segment{
				ID:       s.generateID(),
				Index:    int(num(item, "index")),
				Text:     str(item, "sourceSegment"),
				ClientID: clientID,
			}
			p.Segments[fileID] = append(p.Segments[fileID], seg)
		}
		out = append(out, map[string]any{"index": seg.Index, "dqfId": seg.ID, "clientId": seg.ClientID})
	}
	return http.StatusCreated, okBody("Source segments successfully created", "segmentList", out)
}

func findSegmentByClientID(segments []*Segment, clientID string) *Segment {
	if clientID == "" {
		return nil
	}
	for _, seg := range segments {
		if seg.ClientID == clientID {
			return seg
		}
	}
	return nil
}

func (s *Service) getSourceSegmentIDs(req *transport.Request, _ map[string]any) (int, map[string]any) {
	p, status, errBody := s.project(req)
	if p == nil {
		return status, errBody
	}
	root := s.root(p)
	fileID := pathID(req, "fileId")
	if root == nil || fileByID(root.Files, fileID) == nil {
		return http.StatusNotFound, errorBody("file not found")
	}

	out := make([]map[string]any, 0)
	for _, seg := range sortedSegments(root.Segments[fileID]) {
		out = append(out, map[string]any{"index": seg.Index, "dqfId": seg.ID, "clientId": seg.ClientID})
	}
	return http.StatusOK, map[string]any{"sourceSegmentList": out}
}

func (s *Service) addTranslations(req *transport.Request, body map[string]any) (int, map[string]any) {
	p, status, errBody := s.project(req)
	if p == nil {
		return status, errBody
	}
	root := s.root(p)
	fileID := pathID(req, "fileId")
	lang := req.PathParams["targetLangCode"]

	items := list(body, "segmentPairs")
	if len(items) == 0 {
		return http.StatusBadRequest, errorBody("segmentPairs is required")
	}

	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		sourceID := num(item, "sourceSegmentId")
		var source *Segment
		for _, seg := range root.Segments[fileID] {
			if seg.ID == sourceID {
				source = seg
			}
		}
		if source == nil {
			return http.StatusBadRequest, errorBody("unknown sourceSegmentId")
		}

		clientID := str(item, "clientId")
		tr := s.translationByClientID(p, clientID)
		if tr == nil {
			tr = &Translation{
				ID:              s.generateID(),
				FileID:          fileID,
				Lang:            lang,
				SourceSegmentID: sourceID,
				ClientID:        clientID,
			}
			p.Translations[tr.ID] = tr
		}
		tr.Index = int(num(item, "indexNo"))
		if tr.Index == 0 {
			tr.Index = source.Index
		}
		tr.Fields = item

		out = append(out, map[string]any{"index": tr.Index, "dqfId": tr.ID, "clientId": tr.ClientID})
	}
	return http.StatusCreated, okBody("Translations successfully created", "translations", out)
}

func (s *Service) translationByClientID(p *Project, clientID string) *Translation {
	if clientID == "" {
		return nil
	}
	for _, tr := range p.Translations {
		if tr.ClientID == clientID {
			return tr
		}
	}
	return nil
}

// translation looks id up in p and its ancestors: review projects address
// the translations of their parent.
func (s *Service) translation(p *Project, id int64) *Translation {
	for q := p; q != nil; q = s.projectByKey(q.ParentKey) {
		if tr, ok := q.Translations[id]; ok {
			return tr
		}
		if q.Master {
			break
		}
	}
	return nil
}

func (s *Service) getTranslation(req *transport.Request, _ map[string]any) (int, map[string]any) {
	p, status, errBody := s.project(req)
	if p == nil {
		return status, errBody
	}
	tr := p.Translations[pathID(req, "translationId")]
	if tr == nil || tr.SourceSegmentID != pathID(req, "sourceSegmentId") {
		return http.StatusNotFound, errorBody("translation not found")
	}

	model := map[string]any{
		"id":              tr.ID,
		"clientId":        tr.ClientID,
		"indexNo":         tr.Index,
		"sourceSegmentId": tr.SourceSegmentID,
		"targetLangCode":  tr.Lang,
	}
	for k, v := range tr.Fields {
		if _, ok := model[k]; !ok {
			model[k] = v
		}
	}
	return http.StatusOK, map[string]any{"model": model}
}

func (s *Service) updateTranslation(req *transport.Request, body map[string]any) (int, map[string]any) {
	p, status, errBody := s.project(req)
	if p == nil {
		return status, errBody
	}
	tr := p.Translations[pathID(req, "translationId")]
	if tr == nil || tr.SourceSegmentID != pathID(req, "sourceSegmentId") {
		return http.StatusNotFound, errorBody("translation not found")
	}
	tr.Fields = body
	return http.StatusOK, okBody("Translation successfully updated")
}

func (s *Service) updateReviews(req *transport.Request, body map[string]any) (int, map[string]any) {
	p, status, errBody := s.project(req)
	if p == nil {
		return status, errBody
	}
	translationID := pathID(req, "translationId")
	if s.translation(p, translationID) == nil {
		return http.StatusNotFound, errorBody("translation not found")
	}
	if str(body, "batchId") == "" {
		return http.StatusBadRequest, errorBody("batchId is required")
	}

	corrections := list(body, "corrections")
	created := make([]map[string]any, 0, len(corrections))
	reviews := make([]map[string]any, 0, len(corrections))
	for _, c := range corrections {
		clientID := str(c, "clientId")
		if clientID == "" {
			clientID = newKey()
		}
		c["reviewContainerId"] = s.generateID()
		c["clientId"] = clientID
		reviews = append(reviews, c)
		created = append(created, map[string]any{
			"reviewContainerId": c["reviewContainerId"],
			"clientId":          clientID,
		})
	}

	if overwrite, _ := body["overwrite"].(bool); overwrite {
		p.Reviews[translationID] = reviews
	} else {
		p.Reviews[translationID] = append(p.Reviews[translationID], reviews...)
	}
	if len(p.Reviews[translationID]) == 0 {
		delete(p.Reviews, translationID)
	}

	return http.StatusCreated, okBody("Reviews successfully saved", "createdReviewIds", created)
}

func (s *Service) getReviews(req *transport.Request, _ map[string]any) (int, map[string]any) {
	p, status, errBody := s.project(req)
	if p == nil {
		return status, errBody
	}
	reviews := p.Reviews[pathID(req, "translationId")]
	if reviews == nil {
		reviews = []map[string]any{}
	}
	return http.StatusOK, map[string]any{"modelList": reviews}
}

func jsonUnmarshalString(raw string, out any) error {
	return json.Unmarshal([]byte(raw), out)
}
