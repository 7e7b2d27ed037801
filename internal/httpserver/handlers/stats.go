package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/hatebu/internal/httpserver/deps"
	"github.com/MrSnakeDoc/hatebu/internal/logger"
)

var errNoStore = errors.New("store not initialized")

type componentStatus struct {
	OK    bool   `json:"ok"`
	Mode  string `json:"mode,omitempty"`
	Error string `json:"error,omitempty"`
}

type importStatus struct {
	Enabled  bool   `json:"enabled"`
	LastRun  string `json:"last_run,omitempty"`
	Created  *int   `json:"created,omitempty"`
	Existing *int   `json:"existing,omitempty"`
	Rejected *int   `json:"rejected,omitempty"`
	Error    string `json:"error,omitempty"`
}

type statsResponse struct {
	Status    string          `json:"status"`
	Bookmarks *int            `json:"bookmarks,omitempty"`
	Skipped   int64           `json:"skipped_records"`
	Store     componentStatus `json:"store"`
	Import    importStatus    `json:"import"`
}

// Stats reports how many bookmarks are stored, how many records had to be
// skipped while listing, and how the latest import went.
func Stats(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")

		resp := statsResponse{
			Status: "ok",
			Store:  checkStore(r, d),
			Import: lastImport(d),
		}

		if d.Bookmarks != nil {
			list, err := d.Bookmarks.List(r.Context())
			if err != nil {
				d.Logger.Warn("stats: failed to list bookmarks", logger.Error(err))
				resp.Status = "degraded"
			} else {
				n := len(list)
				resp.Bookmarks = &n
			}
			resp.Skipped = d.Bookmarks.Skipped()
		}

		if !resp.Store.OK {
			resp.Status = "degraded"
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func checkStore(r *http.Request, d deps.Deps) componentStatus {
	if err := ping(r.Context(), d); err != nil {
		msg := "unreachable"
		if errors.Is(err, errNoStore) {
			msg = err.Error()
		}
		return componentStatus{OK: false, Mode: d.StoreName, Error: msg}
	}
	return componentStatus{OK: true, Mode: d.StoreName}
}

func lastImport(d deps.Deps) importStatus {
	if d.Importer == nil {
		return importStatus{Enabled: false}
	}

	st := importStatus{Enabled: true, LastRun: "never"}
	res, ok := d.Importer.LastRun()
	if ok {
		st.LastRun = res.Finished.Format(time.RFC3339)
		st.Created = &res.Created
		st.Existing = &res.Existing
		st.Rejected = &res.Rejected
	}
	if err := d.Importer.LastError(); err != nil {
		st.Error = err.Error()
	}
	return st
}
