package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/MaxymDv/CloudDrive-System/internal/common"
	"github.com/MaxymDv/CloudDrive-System/internal/server/models"
)

type fileResponse struct {
	DisplayName string    `json:"name"`
	Extension   string    `json:"extension"`
	Size        int64     `json:"size"`
	StorageName string    `json:"storage_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Uploader    string    `json:"uploader"`
	Editor      string    `json:"editor"`
	Access      string    `json:"access,omitempty"`
}

func toFileResponse(f *models.File, access models.AccessLevel) fileResponse {
	return fileResponse{
		DisplayName: f.DisplayName,
		Extension:   f.Extension,
		Size:        f.Size,
		StorageName: f.StorageName,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
		Uploader:    f.UploaderName,
		Editor:      f.EditorName,
		Access:      access.String(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// writeServiceError maps service sentinel errors to HTTP statuses. Unknown
// errors become a plain 500 without leaking internals.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrorUnauthenticated):
		writeJSONError(w, http.StatusUnauthorized, "unauthenticated")
	case errors.Is(err, common.ErrorUnauthorized):
		writeJSONError(w, http.StatusForbidden, "no access to this file")
	case errors.Is(err, common.ErrNoAccessToRevoke):
		writeJSONError(w, http.StatusForbidden, "no access to revoke")
	case errors.Is(err, common.ErrNotOwner):
		writeJSONError(w, http.StatusNotFound, "file not found or not owner")
	case errors.Is(err, common.ErrorNotFound):
		writeJSONError(w, http.StatusNotFound, "not found")
	case errors.Is(err, common.ErrorAlreadyExists):
		writeJSONError(w, http.StatusBadRequest, "user already exists")
	case errors.Is(err, common.ErrInvalidCredentials):
		writeJSONError(w, http.StatusBadRequest, "incorrect username or password")
	case errors.Is(err, common.ErrInvalidAccessLevel):
		writeJSONError(w, http.StatusBadRequest, "access level must be read or write")
	case errors.Is(err, common.ErrShareWithOwner):
		writeJSONError(w, http.StatusBadRequest, "cannot share a file with its owner")
	default:
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "internal server error")
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		writeJSONError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	user, err := s.users.Register(r.Context(), username, password)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"username": user.Username})
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	token, err := s.users.Login(r.Context(), username, password)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"access_token": token,
		"token_type":   "bearer",
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	files, err := s.files.List(r.Context(), user)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	out := make([]fileResponse, 0, len(files))
	for _, f := range files {
		out = append(out, toFileResponse(&f.File, f.Access))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	part, header, err := r.FormFile("file")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "a 'file' form field is required")
		return
	}
	defer part.Close()

	file, err := s.files.Upload(r.Context(), user, header.Filename, part)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	// The uploader's exact level (owner vs write guest) is not recomputed
	// here; listings carry it.
	writeJSON(w, http.StatusOK, toFileResponse(file, ""))
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	storageName := mux.Vars(r)["storage_name"]

	rc, file, err := s.files.Download(r.Context(), user, storageName)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", file.DisplayName))
	if _, err := io.Copy(w, rc); err != nil {
		s.logger.Warn(r.Context(), "download aborted", "storage_name", storageName, "error", err)
	}
}

type updateContentRequest struct {
	StorageName string `json:"storage_name"`
	Content     string `json:"content"`
}

func (s *Server) handleUpdateContent(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req updateContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.StorageName == "" {
		writeJSONError(w, http.StatusBadRequest, "storage_name and content are required")
		return
	}

	if err := s.files.UpdateContent(r.Context(), user, req.StorageName, req.Content); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

type shareRequest struct {
	Filename   string `json:"filename"`
	TargetUser string `json:"target_user"`
	Level      string `json:"level"`
}

func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req shareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil ||
		req.Filename == "" || req.TargetUser == "" {
		writeJSONError(w, http.StatusBadRequest, "filename, target_user and level are required")
		return
	}

	if err := s.files.Share(r.Context(), user, req.Filename, req.TargetUser, req.Level); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("shared %s with %s (%s)", req.Filename, req.TargetUser, req.Level),
	})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	storageName := mux.Vars(r)["storage_name"]

	result, err := s.files.Delete(r.Context(), user, storageName)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": string(result)})
}
