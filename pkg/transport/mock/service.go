// Package mock provides an in-memory fake of the DQF API for testing.
package mock

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"github.com/matecat/go-dqf/pkg/transport"
)

// Service is a fake DQF service implementing transport.Transport. It keeps
// all projects in memory, assigns ids sequentially and records every call.
type Service struct {
	mu sync.Mutex

	// Projects stores master and child projects by id.
	Projects map[int64]*Project

	// Attributes is the basic attributes aggregate served to callers.
	Attributes map[string][]map[string]any

	// Calls records every invocation in order.
	Calls []Call

	// SessionID, when set, is the only session accepted.
	SessionID string

	failures map[string]map[int]int // operation -> nth call -> status
	counts   map[string]int
	nextID   int64
}

// Call is a recorded invocation.
type Call struct {
	Operation  string
	PathParams transport.Params
	Headers    transport.Headers
	Body       map[string]any
}

// Project is a stored master or child project.
type Project struct {
	ID     int64
	Key    string
	Master bool

	// Fields holds the last create/update body.
	Fields map[string]any

	// ParentKey is set on child projects.
	ParentKey string

	Files          []*File
	TargetLangs    []*TargetLang
	ReviewSettings map[string]any

	Segments     map[int64][]*Segment // file id -> segments
	Translations map[int64]*Translation
	Reviews      map[int64][]map[string]any // translation id -> reviews
}

// File is a stored master project file.
type File struct {
	ID        int64
	Name      string
	Segments  int
	ClientID  string
	TMSFileID string
}

// TargetLang is a stored file/target language association.
type TargetLang struct {
	ID     int64
	FileID int64
	Code   string
}

// Segment is a stored source segment.
type Segment struct {
	ID       int64
	Index    int
	Text     string
	ClientID string
}

// Translation is a stored segment translation.
type Translation struct {
	ID              int64
	FileID          int64
	Lang            string
	SourceSegmentID int64
	Index           int
	ClientID        string
	Fields          map[string]any
}

var _ transport.Transport = (*Service)(nil)

type handler func(s *Service, req *transport.Request, body map[string]any) (int, map[string]any)

var handlers = map[string]handler{
	transport.OpGetBasicAttributes:                (*Service).getBasicAttributes,
	transport.OpCreateMasterProject:               (*Service).createMasterProject,
	transport.OpGetMasterProject:                  (*Service).getMasterProject,
	transport.OpUpdateMasterProject:               (*Service).updateProject,
	transport.OpDeleteMasterProject:               (*Service).deleteProject,
	transport.OpAddMasterProjectFile:              (*Service).addFile,
	transport.OpUpdateMasterProjectFile:           (*Service).updateFile,
	transport.OpAddMasterProjectTargetLanguage:    (*Service).addTargetLanguage,
	transport.OpGetMasterProjectTargetLanguages:   (*Service).getTargetLanguages,
	transport.OpDeleteMasterProjectTargetLanguage: (*Service).deleteTargetLanguage,
	transport.OpAddProjectReviewSettings:          (*Service).addReviewSettings,
	transport.OpGetProjectReviewSettings:          (*Service).getReviewSettings,
	transport.OpUpdateProjectReviewSettings:       (*Service).updateReviewSettings,
	transport.OpAddSourceSegmentsInBatch:          (*Service).addSourceSegments,
	transport.OpGetSourceSegmentIDs:               (*Service).getSourceSegmentIDs,
	transport.OpCreateChildProject:                (*Service).createChildProject,
	transport.OpGetChildProject:                   (*Service).getChildProject,
	transport.OpUpdateChildProject:                (*Service).updateProject,
	transport.OpDeleteChildProject:                (*Service).deleteProject,
	transport.OpAddChildProjectTargetLanguage:     (*Service).addTargetLanguage,
	transport.OpGetChildProjectTargetLanguages:    (*Service).getTargetLanguages,
	transport.OpDeleteChildProjectTargetLanguage:  (*Service).deleteTargetLanguage,
	transport.OpAddTranslationsInBatch:            (*Service).addTranslations,
	transport.OpGetTranslationForASegment:         (*Service).getTranslation,
	transport.OpUpdateTranslationForASegment:      (*Service).updateTranslation,
	transport.OpUpdateReviewInBatch:               (*Service).updateReviews,
	transport.OpGetReviews:                        (*Service).getReviews,
}

// NewService creates an empty fake service serving DefaultAttributes.
func NewService() *Service {
	return &Service{
		Projects:   make(map[int64]*Project),
		Attributes: DefaultAttributes(),
		failures:   make(map[string]map[int]int),
		counts:     make(map[string]int),
		nextID:     1,
	}
}

// FailOn makes the nth (1-based) call of operation reply with status.
func (s *Service) FailOn(operation string, nth, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failures[operation] == nil {
		s.failures[operation] = make(map[int]int)
	}
	s.failures[operation][nth] = status
}

// CallCount returns how many times operation was invoked.
func (s *Service) CallCount(operation string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[operation]
}

// Invoke implements transport.Transport.
func (s *Service) Invoke(ctx context.Context, req *transport.Request) (*transport.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	op, ok := transport.Lookup(req.Operation)
	if !ok {
		return nil, fmt.Errorf("unknown operation %q", req.Operation)
	}
	if _, err := op.Expand(req.PathParams); err != nil {
		return nil, err
	}

	body, err := roundTrip(req.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to marshal request body: %w", op.Name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.counts[op.Name]++
	s.Calls = append(s.Calls, Call{
		Operation:  op.Name,
		PathParams: req.PathParams,
		Headers:    req.Headers,
		Body:       body,
	})

	if status, ok := s.failures[op.Name][s.counts[op.Name]]; ok {
		return reply(status, errorBody("injected failure")), nil
	}

	if req.Headers.SessionID == "" || (s.SessionID != "" && req.Headers.SessionID != s.SessionID) {
		return reply(http.StatusUnauthorized, errorBody("invalid session")), nil
	}

	h, ok := handlers[op.Name]
	if !ok {
		return reply(http.StatusNotImplemented, errorBody("not implemented")), nil
	}
	status, payload := h(s, req, body)
	return reply(status, payload), nil
}

// Master returns the stored master project with the given id, or nil.
func (s *Service) Master(id int64) *Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.Projects[id]; ok && p.Master {
		return p
	}
	return nil
}

// Child returns the stored child project with the given id, or nil.
func (s *Service) Child(id int64) *Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.Projects[id]; ok && !p.Master {
		return p
	}
	return nil
}

func (s *Service) generateID() int64 {
	id := s.nextID
	s.nextID++
	return id
}

// project resolves the projectId path param and checks the projectKey header.
func (s *Service) project(req *transport.Request) (*Project, int, map[string]any) {
	id, err := strconv.ParseInt(req.PathParams["projectId"], 10, 64)
	if err != nil {
		return nil, http.StatusBadRequest, errorBody("invalid projectId")
	}
	p, ok := s.Projects[id]
	if !ok {
		return nil, http.StatusNotFound, errorBody("project not found")
	}
	if req.Headers.ProjectKey != p.Key {
		return nil, http.StatusForbidden, errorBody("invalid projectKey")
	}
	return p, 0, nil
}

func (s *Service) projectByKey(key string) *Project {
	for _, p := range s.Projects {
		if p.Key == key {
			return p
		}
	}
	return nil
}

// root walks the parent chain up to the master project.
func (s *Service) root(p *Project) *Project {
	for p != nil && !p.Master {
		p = s.projectByKey(p.ParentKey)
	}
	return p
}

func (s *Service) children(p *Project) []*Project {
	var out []*Project
	for _, c := range s.Projects {
		if !c.Master && c.ParentKey == p.Key {
			out = append(out, c)
		}
	}
	return out
}

func (s *Service) hasReviews(p *Project) bool {
	for _, rs := range p.Reviews {
		if len(rs) > 0 {
			return true
		}
	}
	for _, c := range s.children(p) {
		if s.hasReviews(c) {
			return true
		}
	}
	return false
}

func fileByID(files []*File, id int64) *File {
	for _, f := range files {
		if f.ID == id {
			return f
		}
	}
	return nil
}

func roundTrip(v any) (map[string]any, error) {
	if v == nil {
		return map[string]any{}, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// reply normalises payload through JSON, as a real HTTP round trip would.
func reply(status int, payload map[string]any) *transport.Response {
	normalised, err := roundTrip(payload)
	if err != nil {
		normalised = errorBody(err.Error())
	}
	return &transport.Response{StatusCode: status, Payload: normalised}
}

func okBody(message string, kv ...any) map[string]any {
	m := map[string]any{"status": "OK", "message": message}
	for i := 0; i+1 < len(kv); i += 2 {
		m[kv[i].(string)] = kv[i+1]
	}
	return m
}

func errorBody(message string) map[string]any {
	return map[string]any{"status": "ERROR", "message": message}
}

func newKey() string {
	return uuid.NewString()
}

func str(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func num(m map[string]any, key string) int64 {
	switch v := m[key].(type) {
	case float64:
		return int64(v)
	case string:
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	case bool:
		if v {
			return 1
		}
	}
	return 0
}

func list(m map[string]any, key string) []map[string]any {
	raw, _ := m[key].([]any)
	out := make([]map[string]any, 0, len(raw))
	for _, item := range raw {
		if obj, ok := item.(map[string]any); ok {
			out = append(out, obj)
		}
	}
	return out
}

func pathID(req *transport.Request, name string) int64 {
	n, _ := strconv.ParseInt(req.PathParams[name], 10, 64)
	return n
}
