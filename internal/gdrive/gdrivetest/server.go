// Package gdrivetest provides an in-process fake of the Drive REST endpoints
// used by the document service, plus service account keys that authenticate
// against it.
package gdrivetest

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"google.golang.org/api/drive/v3"
)

// AccessToken is the bearer token handed out by the fake token endpoint.
const AccessToken = "fake-access-token"

// Call is one request observed by the fake.
type Call struct {
	Op      string // get, create, copy, update
	FileID  string
	File    drive.File
	Media   string
	Query   map[string]string
	Headers http.Header
}

// Server is a fake Drive API. Zero values of the hook fields mean success.
type Server struct {
	*httptest.Server

	// Folders maps folder ids to their capabilities. Unknown ids return 404.
	Folders map[string]*drive.FileCapabilities
	// FailCreate, FailCopy and FailUpdate make the matching call return the given status.
	FailCreate int
	FailCopy   int
	FailUpdate int

	mu     sync.Mutex
	calls  []Call
	names  map[string]string
	nextID int
}

// NewServer starts a fake Drive API. Callers must Close it.
func NewServer() *Server {
	s := &Server{Folders: map[string]*drive.FileCapabilities{}, names: map[string]string{}}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// Endpoint is the value for GOOGLE_DRIVE_ENDPOINT / option.WithEndpoint.
func (s *Server) Endpoint() string {
	return s.URL + "/drive/v3/"
}

// TokenURL is the token_uri to put in service account keys.
func (s *Server) TokenURL() string {
	return s.URL + "/token"
}

// AddFolder registers a folder with full capabilities and returns them for tweaking.
func (s *Server) AddFolder(id string) *drive.FileCapabilities {
	caps := &drive.FileCapabilities{CanAddChildren: true, CanModifyContent: true, CanEdit: true}
	s.Folders[id] = caps
	return caps
}

// Calls returns the Drive calls seen so far, token requests excluded.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// Ops returns the operation names of Calls in order.
func (s *Server) Ops() []string {
	calls := s.Calls()
	ops := make([]string, len(calls))
	for i, c := range calls {
		ops[i] = c.Op
	}
	return ops
}

func (s *Server) record(c Call) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, c)
}

func (s *Server) newID(prefix string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	return fmt.Sprintf("%s-%d", prefix, s.nextID)
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/token" {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"access_token": AccessToken,
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
		return
	}
	if r.Header.Get("Authorization") != "Bearer "+AccessToken {
		writeError(w, http.StatusUnauthorized, "missing access token")
		return
	}

	query := map[string]string{}
	for k := range r.URL.Query() {
		query[k] = r.URL.Query().Get(k)
	}
	call := Call{Query: query, Headers: r.Header.Clone()}
	path := r.URL.Path

	switch {
	case r.Method == http.MethodGet && strings.Contains(path, "/files/"):
		call.Op = "get"
		call.FileID = lastSegment(path)
		s.record(call)
		caps, ok := s.Folders[call.FileID]
		if !ok {
			writeError(w, http.StatusNotFound, "File not found: "+call.FileID)
			return
		}
		writeJSON(w, http.StatusOK, &drive.File{
			Id:           call.FileID,
			Capabilities: caps,
			Owners:       []*drive.User{{EmailAddress: "owner@example.org"}},
		})

	case r.Method == http.MethodPost && strings.HasSuffix(path, "/copy"):
		call.Op = "copy"
		call.FileID = lastSegment(strings.TrimSuffix(path, "/copy"))
		if err := json.NewDecoder(r.Body).Decode(&call.File); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.record(call)
		if s.FailCopy != 0 {
			writeError(w, s.FailCopy, "copy failed")
			return
		}
		id := s.newID("copy")
		writeJSON(w, http.StatusOK, &drive.File{
			Id:          id,
			Name:        call.File.Name,
			WebViewLink: "https://docs.google.com/document/d/" + id + "/edit",
		})

	case r.Method == http.MethodPost && strings.HasSuffix(path, "/files"):
		call.Op = "create"
		if err := readUpload(r, &call); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.record(call)
		if s.FailCreate != 0 {
			writeError(w, s.FailCreate, "create failed")
			return
		}
		id := s.newID("doc")
		s.mu.Lock()
		s.names[id] = call.File.Name
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, &drive.File{
			Id:      id,
			Name:    call.File.Name,
			Parents: []string{"root-id"},
		})

	case r.Method == http.MethodPatch && strings.Contains(path, "/files/"):
		call.Op = "update"
		call.FileID = lastSegment(path)
		s.record(call)
		if s.FailUpdate != 0 {
			writeError(w, s.FailUpdate, "update failed")
			return
		}
		s.mu.Lock()
		name := s.names[call.FileID]
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, &drive.File{
			Id:          call.FileID,
			Name:        name,
			WebViewLink: "https://docs.google.com/document/d/" + call.FileID + "/edit",
		})

	default:
		writeError(w, http.StatusNotImplemented, r.Method+" "+path)
	}
}

// readUpload decodes a multipart/related upload into metadata and media.
func readUpload(r *http.Request, call *Call) error {
	mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return err
	}
	if !strings.HasPrefix(mediaType, "multipart/") {
		return json.NewDecoder(r.Body).Decode(&call.File)
	}
	mr := multipart.NewReader(r.Body, params["boundary"])
	part, err := mr.NextPart()
	if err != nil {
		return err
	}
	if err := json.NewDecoder(part).Decode(&call.File); err != nil {
		return err
	}
	part, err = mr.NextPart()
	if err != nil {
		return err
	}
	b, err := io.ReadAll(part)
	if err != nil {
		return err
	}
	call.Media = string(b)
	call.Headers.Set("X-Media-Content-Type", part.Header.Get("Content-Type"))
	return nil
}

func lastSegment(p string) string {
	p = strings.TrimSuffix(p, "/")
	return p[strings.LastIndex(p, "/")+1:]
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{"code": status, "message": msg},
	})
}

// ServiceAccountKey returns a freshly generated service account key file whose
// token_uri points at tokenURL.
func ServiceAccountKey(tokenURL string) ([]byte, error) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, err
	}
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	return json.Marshal(map[string]string{
		"type":           "service_account",
		"project_id":     "ims-docs",
		"private_key_id": "test-key",
		"private_key":    string(keyPEM),
		"client_email":   "docs@ims-docs.iam.gserviceaccount.com",
		"client_id":      "1234567890",
		"token_uri":      tokenURL,
	})
}
