package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/grovetool/appgraph/internal/diff"
	"github.com/grovetool/appgraph/internal/model"
	"github.com/grovetool/appgraph/internal/report"
)

// diffRequest is one base/head document pair. Base and head hold raw
// snapshot documents; null or a missing key means the file does not exist
// at that revision.
type diffRequest struct {
	Label string          `json:"label"`
	Base  json.RawMessage `json:"base"`
	Head  json.RawMessage `json:"head"`
}

type diffResponse struct {
	RunID   string      `json:"run_id"`
	Label   string      `json:"label"`
	Result  diff.Result `json:"result"`
	Section string      `json:"section"`
}

type reportRequest struct {
	Entries []diffRequest `json:"entries"`
}

// handleDiff handles POST /v1/diff.
func (s *DiffServer) handleDiff(w http.ResponseWriter, r *http.Request) {
	var in diffRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	runID := RunID(r.Context())
	entry, err := s.diffEntry(r.Context(), runID, in.Label, in.Base, in.Head)
	if err != nil {
		writeDiffError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, diffResponse{
		RunID:   runID,
		Label:   report.SectionLabel(in.Label),
		Result:  entry.Result,
		Section: report.RenderSection(entry),
	})
}

// handleReport handles POST /v1/report. Any malformed entry fails the whole
// request; no partial document is returned.
func (s *DiffServer) handleReport(w http.ResponseWriter, r *http.Request) {
	var in reportRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	runID := RunID(r.Context())
	entries := make([]report.Entry, 0, len(in.Entries))
	for _, e := range in.Entries {
		entry, err := s.diffEntry(r.Context(), runID, e.Label, e.Base, e.Head)
		if err != nil {
			writeDiffError(w, err)
			return
		}
		entries = append(entries, entry)
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(report.Render(entries)))
}

func writeDiffError(w http.ResponseWriter, err error) {
	if errors.Is(err, model.ErrMalformed) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}
