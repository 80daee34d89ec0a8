package httpapi

import (
	"fmt"
	"io"
	"net/http"
)

// maxUploadSize bounds csv uploads to 10 MiB.
const maxUploadSize = 10 << 20

func (s *Server) handleMyProfile(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r.Context())

	student, err := s.students.GetByEmail(r.Context(), identity.Email)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"student": student})
}

func (s *Server) handleListStudents(w http.ResponseWriter, r *http.Request) {
	list, err := s.students.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"students": list})
}

func (s *Server) handleBatchPredict(w http.ResponseWriter, r *http.Request) {
	updated, err := s.students.BatchPredict(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, fmt.Sprintf("Batch prediction complete, %d students scored", updated))
}

func (s *Server) handleAddCounseling(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r.Context())

	var req struct {
		StudentID  int    `json:"student_id"`
		Notes      string `json:"notes"`
		FollowUpAt string `json:"follow_up_at"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	note, err := s.notes.Add(r.Context(), req.StudentID, identity.ID, req.Notes, req.FollowUpAt)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeMessage(w, http.StatusCreated, "Counseling note "+note.ID+" added")
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	list, err := s.users.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	type userRow struct {
		ID    int    `json:"id"`
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	rows := make([]userRow, 0, len(list))
	for _, u := range list {
		rows = append(rows, userRow{ID: u.ID, Email: u.Email, Role: u.Role})
	}

	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	analytics, err := s.students.Analytics(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, analytics)
}

// handleUploadCSV accepts a roster file and acknowledges receipt. Ingestion
// into the student repository happens out of band.
func (s *Server) handleUploadCSV(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing file field")
		return
	}
	defer file.Close()

	size, err := io.Copy(io.Discard, file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Could not read file")
		return
	}

	s.log.Info(r.Context(), "csv received", "name", header.Filename, "bytes", size)
	writeMessage(w, http.StatusOK, fmt.Sprintf("Received %s (%d bytes)", header.Filename, size))
}
