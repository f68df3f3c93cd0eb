package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dkarlovs/cloudvault/internal/server/files"
)

type fileResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	ParentID *string `json:"parent_id"`
	IsFolder bool    `json:"is_folder"`
	Size     int64   `json:"size"`
}

func toFileResponse(f *files.File) fileResponse {
	return fileResponse{
		ID:       f.ID,
		Name:     f.Name,
		ParentID: f.ParentID,
		IsFolder: f.IsFolder,
		Size:     f.Size,
	}
}

// listFiles returns the entries in one folder; without a parent query
// parameter it lists the dashboard root.
func (s *RESTServer) listFiles(rw http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeJSON(rw, http.StatusUnauthorized, Response{Message: "unauthorized"})
		return
	}

	var parentID *string
	if p := r.URL.Query().Get("parent"); p != "" {
		parentID = &p
	}

	result, err := s.files.List(r.Context(), userID, parentID)
	if err != nil {
		writeError(rw, err)
		return
	}

	out := make([]fileResponse, 0, len(result))
	for _, f := range result {
		out = append(out, toFileResponse(f))
	}

	writeJSON(rw, http.StatusOK, out)
}

type createFileRequest struct {
	Name       string  `json:"name" validate:"required"`
	ParentID   *string `json:"parent_id"`
	IsFolder   bool    `json:"is_folder"`
	StorageKey string  `json:"storage_key"`
	Size       int64   `json:"size"`
}

func (s *RESTServer) createFile(rw http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeJSON(rw, http.StatusUnauthorized, Response{Message: "unauthorized"})
		return
	}

	var req createFileRequest
	if !readJSON(rw, r, &req) {
		return
	}

	f, err := s.files.CreateMeta(r.Context(), userID, req.Name, req.ParentID, req.IsFolder, req.StorageKey, req.Size)
	if err != nil {
		writeError(rw, err)
		return
	}

	writeJSON(rw, http.StatusCreated, toFileResponse(f))
}

func (s *RESTServer) deleteFile(rw http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeJSON(rw, http.StatusUnauthorized, Response{Message: "unauthorized"})
		return
	}

	if err := s.files.Delete(r.Context(), userID, chi.URLParam(r, "fileID")); err != nil {
		writeError(rw, err)
		return
	}

	writeJSON(rw, http.StatusOK, Response{Message: "OK"})
}

type uploadURLResponse struct {
	StorageKey string `json:"storage_key"`
	URL        string `json:"url"`
}

// uploadURL hands out a presigned PUT target. The client uploads there
// first and registers the metadata with createFile after.
func (s *RESTServer) uploadURL(rw http.ResponseWriter, r *http.Request) {
	if _, ok := userIDFromContext(r.Context()); !ok {
		writeJSON(rw, http.StatusUnauthorized, Response{Message: "unauthorized"})
		return
	}

	key, url, err := s.files.UploadURL(r.Context())
	if err != nil {
		writeError(rw, err)
		return
	}

	writeJSON(rw, http.StatusOK, uploadURLResponse{StorageKey: key, URL: url})
}

type downloadURLResponse struct {
	URL string `json:"url"`
}

func (s *RESTServer) downloadURL(rw http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeJSON(rw, http.StatusUnauthorized, Response{Message: "unauthorized"})
		return
	}

	url, err := s.files.DownloadURL(r.Context(), userID, chi.URLParam(r, "fileID"))
	if err != nil {
		writeError(rw, err)
		return
	}

	writeJSON(rw, http.StatusOK, downloadURLResponse{URL: url})
}
