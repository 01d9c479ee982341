package transport

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Operation names.
const (
	OpGetBasicAttributes = "getBasicAttributesAggregate"

	OpCreateMasterProject = "createMasterProject"
	OpGetMasterProject    = "getMasterProject"
	OpUpdateMasterProject = "updateMasterProject"
	OpDeleteMasterProject = "deleteMasterProject"

	OpAddMasterProjectFile    = "addMasterProjectFile"
	OpUpdateMasterProjectFile = "updateMasterProjectFile"

	OpAddMasterProjectTargetLanguage    = "addMasterProjectTargetLanguage"
	OpGetMasterProjectTargetLanguages   = "getMasterProjectTargetLanguages"
	OpDeleteMasterProjectTargetLanguage = "deleteMasterProjectTargetLanguage"

	OpAddProjectReviewSettings    = "addProjectReviewSettings"
	OpGetProjectReviewSettings    = "getProjectReviewSettings"
	OpUpdateProjectReviewSettings = "updateProjectReviewSettings"

	OpAddSourceSegmentsInBatch = "addSourceSegmentsInBatchToMasterProject"
	OpGetSourceSegmentIDs      = "getSourceSegmentIdsForAFile"

	OpCreateChildProject = "createChildProject"
	OpGetChildProject    = "getChildProject"
	OpUpdateChildProject = "updateChildProject"
	OpDeleteChildProject = "deleteChildProject"

	OpAddChildProjectTargetLanguage    = "addChildProjectTargetLanguage"
	OpGetChildProjectTargetLanguages   = "getChildProjectTargetLanguages"
	OpDeleteChildProjectTargetLanguage = "deleteChildProjectTargetLanguage"

	OpAddTranslationsInBatch       = "addTranslationsForSourceSegmentsInBatch"
	OpGetTranslationForASegment    = "getTranslationForASegment"
	OpUpdateTranslationForASegment = "updateTranslationForASegment"

	OpUpdateReviewInBatch = "updateReviewInBatch"
	OpGetReviews          = "getTranslationReviews"
)

const (
	masterPath      = "/project/master/{projectId}"
	masterFilePath  = masterPath + "/file/{fileId}"
	childPath       = "/project/child/{projectId}"
	childFilePath   = childPath + "/file/{fileId}"
	childLangPath   = childFilePath + "/targetLang/{targetLangCode}"
	translationPath = childLangPath + "/sourceSegment/{sourceSegmentId}/translation/{translationId}"
	reviewPath      = childLangPath + "/translation/{translationId}"
)

// Operation describes one endpoint of the remote API.
type Operation struct {
	Name   string
	Method string

	// Path is relative to the base URL; "{name}" segments are filled from
	// the request's path params.
	Path string

	// Expect is the status code of a successful call: 201 for creations,
	// 200 for everything else.
	Expect int
}

var catalog = map[string]Operation{}

func register(name, method, path string, expect int) {
	catalog[name] = Operation{Name: name, Method: method, Path: path, Expect: expect}
}

func init() {
	register(OpGetBasicAttributes, http.MethodGet, "/basicAttributes/aggregate", http.StatusOK)

	register(OpCreateMasterProject, http.MethodPost, "/project/master", http.StatusCreated)
	register(OpGetMasterProject, http.MethodGet, masterPath, http.StatusOK)
	register(OpUpdateMasterProject, http.MethodPut, masterPath, http.StatusOK)
	register(OpDeleteMasterProject, http.MethodDelete, masterPath, http.StatusOK)

	register(OpAddMasterProjectFile, http.MethodPost, masterPath+"/file", http.StatusCreated)
	register(OpUpdateMasterProjectFile, http.MethodPut, masterFilePath, http.StatusOK)

	register(OpAddMasterProjectTargetLanguage, http.MethodPost, masterFilePath+"/targetLang", http.StatusCreated)
	register(OpGetMasterProjectTargetLanguages, http.MethodGet, masterFilePath+"/targetLang", http.StatusOK)
	register(OpDeleteMasterProjectTargetLanguage, http.MethodDelete, masterFilePath+"/targetLang/{targetLangCode}", http.StatusOK)

	register(OpAddProjectReviewSettings, http.MethodPost, "/project/{projectId}/reviewSettings", http.StatusCreated)
	register(OpGetProjectReviewSettings, http.MethodGet, "/project/{projectId}/reviewSettings", http.StatusOK)
	register(OpUpdateProjectReviewSettings, http.MethodPut, "/project/{projectId}/reviewSettings", http.StatusOK)

	register(OpAddSourceSegmentsInBatch, http.MethodPost, masterFilePath+"/sourceSegment/batch", http.StatusCreated)
	register(OpGetSourceSegmentIDs, http.MethodGet, childLangPath+"/sourceSegment/ids", http.StatusOK)

	register(OpCreateChildProject, http.MethodPost, "/project/child", http.StatusCreated)
	register(OpGetChildProject, http.MethodGet, childPath, http.StatusOK)
	register(OpUpdateChildProject, http.MethodPut, childPath, http.StatusOK)
	register(OpDeleteChildProject, http.MethodDelete, childPath, http.StatusOK)

	register(OpAddChildProjectTargetLanguage, http.MethodPost, childFilePath+"/targetLang", http.StatusCreated)
	register(OpGetChildProjectTargetLanguages, http.MethodGet, childFilePath+"/targetLang", http.StatusOK)
	register(OpDeleteChildProjectTargetLanguage, http.MethodDelete, childLangPath, http.StatusOK)

	register(OpAddTranslationsInBatch, http.MethodPost, childLangPath+"/sourceSegment/translation/batch", http.StatusCreated)
	register(OpGetTranslationForASegment, http.MethodGet, translationPath, http.StatusOK)
	register(OpUpdateTranslationForASegment, http.MethodPut, translationPath, http.StatusOK)

	register(OpUpdateReviewInBatch, http.MethodPost, reviewPath+"/batchReview", http.StatusCreated)
	register(OpGetReviews, http.MethodGet, reviewPath+"/review", http.StatusOK)
}

// Lookup returns the operation named name.
func Lookup(name string) (Operation, bool) {
	op, ok := catalog[name]
	return op, ok
}

// Expand fills the path template with params. Values are path-escaped.
func (o Operation) Expand(params Params) (string, error) {
	var b strings.Builder
	rest := o.Path
	for {
		start := strings.IndexByte(rest, '{')
		if start < 0 {
			b.WriteString(rest)
			break
		}
		end := strings.IndexByte(rest[start:], '}')
		if end < 0 {
			return "", fmt.Errorf("malformed path template %q", o.Path)
		}
		end += start

		name := rest[start+1 : end]
		value, ok := params[name]
		if !ok || value == "" {
			return "", fmt.Errorf("%s: missing path parameter %q", o.Name, name)
		}
		b.WriteString(rest[:start])
		b.WriteString(url.PathEscape(value))
		rest = rest[end+1:]
	}
	return b.String(), nil
}
