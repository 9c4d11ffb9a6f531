package printer

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"

	"love-booth/core"
	"love-booth/export"
	"love-booth/printing"
)

func renderError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, map[string]string{"error": msg})
}

// HandlePrint runs one print request for a completed session. Peripheral
// trouble is not an error here: the response's outcome says whether the
// composite went to the peripheral or to the system dialog fallback, whose
// page URL rides along.
func HandlePrint(store core.SessionStore, session *printing.Session) http.HandlerFunc {
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

		res, err := session.Print(r.Context(), sess)
		switch {
		case errors.Is(err, core.ErrCapabilityUnsupported):
			renderError(w, r, http.StatusNotImplemented, "Printing is not supported on this platform")
			return
		case errors.Is(err, core.ErrPopupBlocked):
			renderError(w, r, http.StatusConflict, "Allow pop-ups to use the system print dialog")
			return
		case err != nil:
			logrus.WithFields(logrus.Fields{
				"error":      err,
				"session_id": sess.ID,
			}).Error("Print request failed")
			renderError(w, r, http.StatusInternalServerError, "Print failed, try again")
			return
		}
		if res.Outcome == printing.OutcomeBusy {
			renderError(w, r, http.StatusConflict, core.ErrBusy.Error())
			return
		}
		render.JSON(w, r, res)
	}
}

// printViewPage is the top-level print context: nothing but the composite,
// which invokes the platform print dialog once it has loaded and then closes
// the window.
const printViewPage = `<!DOCTYPE html>
<html>
<head><title>Love Booth</title>
<style>body{margin:0}img{width:100%%}</style>
</head>
<body>
<img src="/print/%s/image" onload="window.print();window.close()">
</body>
</html>`

// HandlePrintView serves the auto-printing page for a fallback print.
func HandlePrintView(registry *export.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := chi.URLParam(r, "token")
		if _, ok := registry.Take(token); !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, printViewPage, token)
	}
}

// HandlePrintImage serves the composite inline for the print view page.
func HandlePrintImage(registry *export.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := chi.URLParam(r, "token")
		artifact, ok := registry.Take(token)
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(artifact.Data)
	}
}
