package exports

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"

	"love-booth/core"
	"love-booth/export"
)

func renderError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, map[string]string{"error": msg})
}

// HandleExport saves the session's composite. The response carries the
// download URL in browser delivery; kiosk delivery saves server-side and the
// URL stays empty.
func HandleExport(store core.SessionStore, exporter *export.Exporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		sess, err := store.Get(r.Context(), id)
		if err != nil {
			renderError(w, r, http.StatusNotFound, "Session not found")
			return
		}
		if !sess.Complete() {
			renderError(w, r, http.StatusConflict, core.ErrFrameSetIncomplete.Error())
			return
		}
		if exporter.InFlight() {
			renderError(w, r, http.StatusConflict, core.ErrBusy.Error())
			return
		}

		res, ok := exporter.Export(sess)
		if !ok {
			logrus.WithField("session_id", sess.ID).Warn("Export request failed")
			renderError(w, r, http.StatusInternalServerError, "Export failed, try again")
			return
		}
		render.JSON(w, r, res)
	}
}

// HandleDownload serves a registered artifact as an attachment. Tokens
// expire on the registry's schedule, so a late request is simply gone.
func HandleDownload(registry *export.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := chi.URLParam(r, "token")
		artifact, ok := registry.Take(token)
		if !ok {
			renderError(w, r, http.StatusNotFound, "Download expired")
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Content-Disposition", `attachment; filename="`+artifact.Filename+`"`)
		w.Write(artifact.Data)
	}
}
