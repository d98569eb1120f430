package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/knowhyco/knowyfile/internal/server/keygen"
	"github.com/knowhyco/knowyfile/internal/server/uploads"
	"github.com/knowhyco/knowyfile/internal/shared"
)

type uploadedFile struct {
	Name      string `json:"name"`
	ShareLink string `json:"shareLink"`
}

type uploadFailure struct {
	Name  string `json:"name"`
	Cause string `json:"cause"`
}

type uploadResponse struct {
	Files    []uploadedFile  `json:"files"`
	Failures []uploadFailure `json:"failures"`
}

// handleUpload accepts a multipart form with one or more "file" parts, rejects
// oversized files before any store call, and runs the rest through the
// coordinator. Partial failures produce a 207 with both lists in the body.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Parts beyond the in-memory threshold spill to temp files.
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	fileHeaders := r.MultipartForm.File["file"]
	if len(fileHeaders) == 0 {
		writeError(w, http.StatusBadRequest, shared.ErrorNoFile.Error())
		return
	}

	var items []*uploads.Item
	var failures []uploadFailure

	for _, fh := range fileHeaders {
		name := fh.Filename
		if name == "" {
			name = "unnamed"
		}

		// The size ceiling is enforced here, in the selection layer: the
		// coordinator never sees an oversized item.
		if fh.Size > s.config.MaxUploadSize {
			failures = append(failures, uploadFailure{
				Name:  name,
				Cause: fmt.Sprintf("%s (%d bytes)", shared.ErrorSizeExceeded.Error(), s.config.MaxUploadSize),
			})
			continue
		}

		f, err := fh.Open()
		if err != nil {
			failures = append(failures, uploadFailure{Name: name, Cause: "unreadable file"})
			continue
		}
		body, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			failures = append(failures, uploadFailure{Name: name, Cause: "unreadable file"})
			continue
		}

		items = append(items, &uploads.Item{
			Name:        name,
			Body:        body,
			ContentType: fh.Header.Get("Content-Type"),
		})
	}

	for _, fail := range s.coordinator.UploadAll(ctx, items, nil) {
		failures = append(failures, uploadFailure{Name: fail.Name, Cause: fail.Cause()})
	}

	resp := uploadResponse{Files: []uploadedFile{}, Failures: failures}
	if resp.Failures == nil {
		resp.Failures = []uploadFailure{}
	}
	for _, item := range items {
		if item.ShareLink != "" {
			resp.Files = append(resp.Files, uploadedFile{Name: item.Name, ShareLink: item.ShareLink})
		}
	}

	status := http.StatusOK
	if len(resp.Failures) > 0 {
		status = http.StatusMultiStatus
	}
	writeJSON(w, status, resp)
}

// handleListFiles returns every stored upload with a fresh share link.
func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	entries, err := s.lister.List(r.Context())
	if err != nil {
		s.logger.Error(r.Context(), "listing failed", "error", err.Error())
		writeError(w, http.StatusBadGateway, "could not list uploaded files")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"files": entries})
}

type presignRequest struct {
	Name string `json:"name"`
}

// handlePresignPut issues a presigned upload URL so a client can push bytes
// to the store directly. The object does not exist yet at presign time.
func (s *Server) handlePresignPut(w http.ResponseWriter, r *http.Request) {
	var req presignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "file name required")
		return
	}

	key := keygen.Generate(req.Name)
	url, err := s.presigner.PresignPut(r.Context(), key, s.config.LinkTTL)
	if err != nil {
		s.logger.Error(r.Context(), "presign failed", "key", key, "error", err.Error())
		writeError(w, http.StatusBadGateway, "could not presign upload")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"key": key, "url": url})
}

// handleNotifications returns the notifications still within their TTL.
func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"notifications": s.notifications.Active()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
