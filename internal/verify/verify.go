// Package verify validates the identity-verification form. Nothing here is
// real identity proofing: the checks mirror the demo flow (a document of an
// accepted type, a plausible profile URL and an explicit liveness consent)
// and a passing submission simply redirects to the success page.
package verify

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"impactseed/internal/domain"
)

// Document is the uploaded identity document. Data may be omitted when the
// client already knows the content type.
type Document struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Data        []byte `json:"data,omitempty"`
}

// Submission carries the verification form fields.
type Submission struct {
	Document          Document `json:"document"`
	LinkedInURL       string   `json:"linkedinUrl"`
	TwitterURL        string   `json:"twitterUrl"`
	LivenessConfirmed bool     `json:"livenessConfirmed"`
}

var allowedDocumentTypes = map[string]struct{}{
	"image/jpeg":      {},
	"image/png":       {},
	"application/pdf": {},
}

var linkedinPattern = regexp.MustCompile(`linkedin\.com`)

// Validate checks the submission and returns a domain.ErrValidation-wrapped
// error naming the first problem. A nil return means the submission passes
// and the caller may proceed to the success redirect. Validation never
// mutates state.
func Validate(s Submission) error {
	if s.Document.Name == "" && len(s.Document.Data) == 0 {
		return fmt.Errorf("%w: please upload your government ID", domain.ErrValidation)
	}
	if _, ok := allowedDocumentTypes[documentType(s.Document)]; !ok {
		return fmt.Errorf("%w: invalid file type, please upload JPG, PNG, or PDF", domain.ErrValidation)
	}
	if url := strings.TrimSpace(s.LinkedInURL); url != "" && !linkedinPattern.MatchString(url) {
		return fmt.Errorf("%w: please enter a valid LinkedIn URL", domain.ErrValidation)
	}
	if !s.LivenessConfirmed {
		return fmt.Errorf("%w: you must agree to the liveness check declaration", domain.ErrValidation)
	}
	return nil
}

// documentType resolves the document's content type, sniffing the payload
// when the client did not declare one.
func documentType(d Document) string {
	if ct := strings.TrimSpace(d.ContentType); ct != "" {
		if i := strings.Index(ct, ";"); i >= 0 {
			ct = ct[:i]
		}
		return strings.ToLower(strings.TrimSpace(ct))
	}
	if len(d.Data) > 0 {
		ct := http.DetectContentType(d.Data)
		if i := strings.Index(ct, ";"); i >= 0 {
			ct = ct[:i]
		}
		return ct
	}
	return ""
}
