package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/hatebu/internal/httpserver/deps"
	"github.com/MrSnakeDoc/hatebu/internal/logger"
)

// Import triggers a manual run of the bookmark importer.
func Import(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.ImportTrigger == nil {
			http.Error(w, "import is disabled", http.StatusNotFound)
			return
		}

		select {
		case d.ImportTrigger <- struct{}{}:
			d.Logger.Info("manual import triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr))
			w.WriteHeader(http.StatusAccepted)
			if _, err := w.Write([]byte("✅ Import triggered successfully\n")); err != nil {
				d.Logger.Debug("failed to write response", logger.Error(err))
			}
		default:
			d.Logger.Warn("import already pending",
				logger.String("remote_ip", r.RemoteAddr))
			w.WriteHeader(http.StatusTooManyRequests)
			if _, err := w.Write([]byte("⏳ Import already pending, please wait\n")); err != nil {
				d.Logger.Debug("failed to write response", logger.Error(err))
			}
		}
	}
}
