package mock

import (
	"net/http"
	"sort"

	"github.com/matecat/go-dqf/pkg/transport"
)

func (s *Service) createMasterProject(_ *transport.Request, body map[string]any) (int, map[string]any) {
	if str(body, "name") == "" || str(body, "sourceLanguageCode") == "" {
		return http.StatusBadRequest, errorBody("name and sourceLanguageCode are required")
	}

	p := &Project{
		ID:           s.generateID(),
		Key:          newKey(),
		Master:       true,
		Fields:       body,
		Segments:     make(map[int64][]*Segment),
		Translations: make(map[int64]*Translation),
		Reviews:      make(map[int64][]map[string]any),
	}
	s.Projects[p.ID] = p

	return http.StatusCreated, okBody("Master Project successfully created", "dqfId", p.ID, "dqfUUID", p.Key)
}

func (s *Service) createChildProject(_ *transport.Request, body map[string]any) (int, map[string]any) {
	parent := s.projectByKey(str(body, "parentKey"))
	if parent == nil {
		return http.StatusBadRequest, errorBody("parent project not found")
	}
	switch str(body, "type") {
	case "translation":
	case "review":
		if b, _ := body["isDummy"].(bool); b {
			return http.StatusBadRequest, errorBody("a review project cannot be a dummy")
		}
	default:
		return http.StatusBadRequest, errorBody("invalid child project type")
	}

	p := &Project{
		ID:           s.generateID(),
		Key:          newKey(),
		Fields:       body,
		ParentKey:    parent.Key,
		Segments:     make(map[int64][]*Segment),
		Translations: make(map[int64]*Translation),
		Reviews:      make(map[int64][]map[string]any),
	}
	s.Projects[p.ID] = p

	return http.StatusCreated, okBody("Child Project successfully created", "dqfId", p.ID, "dqfUUID", p.Key)
}

func (s *Service) getMasterProject(req *transport.Request, _ map[string]any) (int, map[string]any) {
	p, status, errBody := s.project(req)
	if p == nil {
		return status, errBody
	}
	if !p.Master {
		return http.StatusNotFound, errorBody("master project not found")
	}

	files := make([]map[string]any, 0, len(p.Files))
	for _, f := range p.Files {
		files = append(files, map[string]any{
			"id":          f.ID,
			"name":        f.Name,
			"segmentSize": f.Segments,
			"tmsFile":     f.TMSFileID,
			"clientId":    f.ClientID,
		})
	}

	assocs := make([]map[string]any, 0, len(p.TargetLangs))
	for _, tl := range p.TargetLangs {
		f := fileByID(p.Files, tl.FileID)
		assocs = append(assocs, map[string]any{
			"id":   tl.ID,
			"file": map[string]any{"id": f.ID, "name": f.Name},
			"projectTargetLang": map[string]any{
				"language": map[string]any{"localeCode": tl.Code},
			},
		})
	}

	model := map[string]any{
		"id":            p.ID,
		"uuid":          p.Key,
		"name":          p.Fields["name"],
		"clientId":      p.Fields["clientId"],
		"templateName":  p.Fields["templateName"],
		"tmsProjectKey": p.Fields["tmsProjectKey"],
		"language": map[string]any{
			"localeCode": p.Fields["sourceLanguageCode"],
		},
		"projectSettings": map[string]any{
			"contentType": map[string]any{"id": p.Fields["contentTypeId"]},
			"industry":    map[string]any{"id": p.Fields["industryId"]},
			"process":     map[string]any{"id": p.Fields["processId"]},
			"quality":     map[string]any{"id": p.Fields["qualityLevelId"]},
		},
		"files":                  files,
		"fileProjectTargetLangs": assocs,
	}
	return http.StatusOK, map[string]any{"model": model}
}

func (s *Service) getChildProject(req *transport.Request, _ map[string]any) (int, map[string]any) {
	p, status, errBody := s.project(req)
	if p == nil {
		return status, errBody
	}
	if p.Master {
		return http.StatusNotFound, errorBody("child project not found")
	}

	root := s.root(p)
	assocs := make([]map[string]any, 0, len(p.TargetLangs))
	for _, tl := range p.TargetLangs {
		f := fileByID(root.Files, tl.FileID)
		assocs = append(assocs, map[string]any{
			"id":       tl.ID,
			"file":     map[string]any{"id": f.ID, "name": f.Name},
			"language": map[string]any{"localeCode": tl.Code},
		})
	}

	parent := s.projectByKey(p.ParentKey)
	model := map[string]any{
		"id":               p.ID,
		"uuid":             p.Key,
		"name":             p.Fields["name"],
		"type":             p.Fields["type"],
		"isDummy":          p.Fields["isDummy"],
		"assignee":         p.Fields["assignee"],
		"assigner":         p.Fields["assigner"],
		"clientId":         p.Fields["clientId"],
		"reviewSettingsId": p.Fields["reviewSettingsId"],
		"parent":           map[string]any{"id": parent.ID, "uuid": parent.Key, "isMaster": parent.Master},
		"root":             map[string]any{"id": root.ID, "uuid": root.Key},
		"fileTargetLangs":  assocs,
	}
	return http.StatusOK, map[string]any{"model": model}
}

func (s *Service) updateProject(req *transport.Request, body map[string]any) (int, map[string]any) {
	p, status, errBody := s.project(req)
	if p == nil {
		return status, errBody
	}
	if p.Master && (str(body, "name") == "" || str(body, "sourceLanguageCode") == "") {
		return http.StatusBadRequest, errorBody("name and sourceLanguageCode are required")
	}
	if !p.Master {
		body["parentKey"] = p.ParentKey
		body["type"] = p.Fields["type"]
	}
	p.Fields = body
	return http.StatusOK, okBody("Project successfully updated", "dqfId", p.ID)
}

func (s *Service) deleteProject(req *transport.Request, _ map[string]any) (int, map[string]any) {
	p, status, errBody := s.project(req)
	if p == nil {
		return status, errBody
	}
	if s.hasReviews(p) {
		return http.StatusBadRequest, errorBody("project has reviews attached and cannot be deleted")
	}
	s.deleteTree(p)
	return http.StatusOK, okBody("Project successfully deleted")
}

func (s *Service) deleteTree(p *Project) {
	for _, c := range s.children(p) {
		s.deleteTree(c)
	}
	delete(s.Projects, p.ID)
}

func (s *Service) addFile(req *transport.Request, body map[string]any) (int, map[string]any) {
	p, status, errBody := s.project(req)
	if p == nil {
		return status, errBody
	}
	if str(body, "name") == "" {
		return http.StatusBadRequest, errorBody("name is required")
	}

	f := &File{
		ID:        s.generateID(),
		Name:      str(body, "name"),
		Segments:  int(num(body, "numberOfSegments")),
		ClientID:  str(body, "clientId"),
		TMSFileID: str(body, "tmsFileId"),
	}
	p.Files = append(p.Files, f)
	return http.StatusCreated, okBody("File successfully created", "dqfId", f.ID)
}

func (s *Service) updateFile(req *transport.Request, body map[string]any) (int, map[string]any) {
	p, status, errBody := s.project(req)
	if p == nil {
		return status, errBody
	}
	f := fileByID(p.Files, pathID(req, "fileId"))
	if f == nil {
		return http.StatusNotFound, errorBody("file not found")
	}
	f.Name = str(body, "name")
	f.Segments = int(num(body, "numberOfSegments"))
	f.ClientID = str(body, "clientId")
	f.TMSFileID = str(body, "tmsFileId")
	return http.StatusOK, okBody("File successfully updated", "dqfId", f.ID)
}

func (s *Service) addTargetLanguage(req *transport.Request, body map[string]any) (int, map[string]any) {
	p, status, errBody := s.project(req)
	if p == nil {
		return status, errBody
	}
	code := str(body, "targetLanguageCode")
	if code == "" {
		return http.StatusBadRequest, errorBody("targetLanguageCode is required")
	}

	fileID := pathID(req, "fileId")
	root := s.root(p)
	if fileByID(root.Files, fileID) == nil {
		return http.StatusNotFound, errorBody("file not found")
	}
	if !p.Master && !declared(root, fileID, code) {
		return http.StatusBadRequest, errorBody("target language not declared on the master project")
	}

	tl := &TargetLang{ID: s.generateID(), FileID: fileID, Code: code}
	p.TargetLangs = append(p.TargetLangs, tl)
	return http.StatusCreated, okBody("Target language successfully added", "dqfId", tl.ID)
}

func declared(master *Project, fileID int64, code string) bool {
	for _, tl := range master.TargetLangs {
		if tl.FileID == fileID && tl.Code == code {
			return true
		}
	}
	return false
}

func (s *Service) getTargetLanguages(req *transport.Request, _ map[string]any) (int, map[string]any) {
	p, status, errBody := s.project(req)
	if p == nil {
		return status, errBody
	}
	fileID := pathID(req, "fileId")

	out := make([]map[string]any, 0)
	for _, tl := range p.TargetLangs {
		if tl.FileID == fileID {
			out = append(out, map[string]any{"id": tl.ID, "localeCode": tl.Code})
		}
	}
	return http.StatusOK, map[string]any{"modelList": out}
}

func (s *Service) deleteTargetLanguage(req *transport.Request, _ map[string]any) (int, map[string]any) {
	p, status, errBody := s.project(req)
	if p == nil {
		return status, errBody
	}
	fileID := pathID(req, "fileId")
	code := req.PathParams["targetLangCode"]

	kept := p.TargetLangs[:0]
	removed := 0
	for _, tl := range p.TargetLangs {
		if tl.FileID == fileID && tl.Code == code {
			removed++
			continue
		}
		kept = append(kept, tl)
	}
	p.TargetLangs = kept

	if removed == 0 {
		return http.StatusNotFound, errorBody("target language not found")
	}
	return http.StatusOK, okBody("Target language successfully removed")
}

func (s *Service) addReviewSettings(req *transport.Request, body map[string]any) (int, map[string]any) {
	p, status, errBody := s.project(req)
	if p == nil {
		return status, errBody
	}
	if p.ReviewSettings != nil {
		return http.StatusBadRequest, errorBody("review settings already set")
	}
	if str(body, "reviewType") == "" {
		return http.StatusBadRequest, errorBody("reviewType is required")
	}

	body["id"] = s.generateID()
	p.ReviewSettings = body
	return http.StatusCreated, okBody("Review settings successfully created", "dqfId", body["id"])
}

func (s *Service) updateReviewSettings(req *transport.Request, body map[string]any) (int, map[string]any) {
	p, status, errBody := s.project(req)
	if p == nil {
		return status, errBody
	}
	if p.ReviewSettings == nil {
		return http.StatusNotFound, errorBody("review settings not found")
	}
	body["id"] = p.ReviewSettings["id"]
	p.ReviewSettings = body
	return http.StatusOK, okBody("Review settings successfully updated", "dqfId", body["id"])
}

func (s *Service) getReviewSettings(req *transport.Request, _ map[string]any) (int, map[string]any) {
	p, status, errBody := s.project(req)
	if p == nil {
		return status, errBody
	}
	rs := p.ReviewSettings
	if rs == nil {
		return http.StatusNotFound, errorBody("review settings not found")
	}

	severities := make([]map[string]any, 0)
	if raw := str(rs, "severityWeights"); raw != "" {
		var weights []map[string]any
		if err := jsonUnmarshalString(raw, &weights); err != nil {
			return http.StatusInternalServerError, errorBody("corrupted severity weights")
		}
		for _, w := range weights {
			severities = append(severities, map[string]any{
				"value":         w["weight"],
				"errorSeverity": map[string]any{"id": w["severityId"]},
			})
		}
	}

	typologies := make([]map[string]any, 0)
	ids, _ := rs["errorCategoryIds"].([]any)
	for _, id := range ids {
		typologies = append(typologies, map[string]any{"errorCategory": map[string]any{"id": id}})
	}

	model := map[string]any{
		"id":                   rs["id"],
		"type":                 rs["reviewType"],
		"templateName":         rs["templateName"],
		"threshold":            rs["passFailThreshold"],
		"sampling":             rs["sampling"],
		"errorSeveritySetting": severities,
		"errorTypologySetting": typologies,
	}
	return http.StatusOK, map[string]any{"model": model}
}

func sortedSegments(segments []*Segment) []*Segment {
	out := make([]*Segment, len(segments))
	copy(out, segments)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}
