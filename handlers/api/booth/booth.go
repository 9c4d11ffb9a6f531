package booth

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"

	"love-booth/camera"
	"love-booth/catalog"
	"love-booth/compositor"
	"love-booth/core"
	"love-booth/frames"
)

// maxUploadBytes bounds one multipart intake. Four originals at phone-camera
// resolution fit comfortably.
const maxUploadBytes = 64 << 20

type (
	createRequest struct {
		LayoutID string `json:"layoutId"`
	}

	colorModeRequest struct {
		Mode string `json:"mode"`
	}

	cameraEventRequest struct {
		Event   string `json:"event"`
		Message string `json:"message,omitempty"`
	}

	cameraView struct {
		Status   string `json:"status"`
		Granted  bool   `json:"granted"`
		CanRetry bool   `json:"canRetry"`
	}

	sessionView struct {
		ID         string      `json:"id"`
		Layout     core.Layout `json:"layout"`
		Phase      string      `json:"phase"`
		FrameCount int         `json:"frameCount"`
		ColorMode  string      `json:"colorMode"`
	}
)

func viewOf(sess *core.Session) sessionView {
	phase := "capturing"
	if sess.Phase() == core.PhasePreview {
		phase = "preview"
	}
	return sessionView{
		ID:         sess.ID,
		Layout:     sess.Layout,
		Phase:      phase,
		FrameCount: sess.FrameCount(),
		ColorMode:  sess.ColorMode().String(),
	}
}

func renderError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, map[string]string{"error": msg})
}

// statusFor maps the failure taxonomy to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrDecodeFailure):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrFrameSetComplete),
		errors.Is(err, core.ErrFrameSetIncomplete),
		errors.Is(err, core.ErrCountdownActive),
		errors.Is(err, core.ErrBusy):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func sessionFromRequest(store core.SessionStore, w http.ResponseWriter, r *http.Request) (*core.Session, bool) {
	id := chi.URLParam(r, "id")
	if id == "" {
		renderError(w, r, http.StatusBadRequest, "Session ID is required")
		return nil, false
	}
	sess, err := store.Get(r.Context(), id)
	if err != nil {
		renderError(w, r, http.StatusNotFound, "Session not found")
		return nil, false
	}
	return sess, true
}

// HandleListLayouts returns the fixed layout catalog.
func HandleListLayouts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, catalog.All())
	}
}

// HandleCreate opens a new booth session for a catalog layout.
func HandleCreate(store core.SessionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			renderError(w, r, http.StatusBadRequest, "Invalid request body")
			return
		}
		defer r.Body.Close()

		layout, err := catalog.Resolve(req.LayoutID)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"error":  err,
				"layout": req.LayoutID,
			}).Warn("Unknown layout requested")
			renderError(w, r, http.StatusNotFound, "Unknown layout")
			return
		}

		sess := core.NewSession(ulid.Make().String(), layout)
		if err := store.Create(r.Context(), sess); err != nil {
			logrus.WithField("error", err).Error("Failed to create session")
			renderError(w, r, http.StatusInternalServerError, "Failed to create session")
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, viewOf(sess))
	}
}

// HandleGet returns the session's current phase and frame progress.
func HandleGet(store core.SessionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := sessionFromRequest(store, w, r)
		if !ok {
			return
		}
		render.JSON(w, r, viewOf(sess))
	}
}

// HandleDelete closes a session, discarding its frames and camera state.
func HandleDelete(store core.SessionStore, cameras *camera.Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := store.Delete(r.Context(), id); err != nil {
			renderError(w, r, http.StatusNotFound, "Session not found")
			return
		}
		cameras.Drop(id)
		render.Status(r, http.StatusOK)
		render.JSON(w, r, map[string]string{"status": "closed"})
	}
}

func cameraViewOf(state camera.PermissionState) cameraView {
	return cameraView{
		Status:   state.Status(),
		Granted:  state.IsGranted(),
		CanRetry: state.CanRetry(),
	}
}

// HandleGetCamera reports the session's camera permission state.
func HandleGetCamera(store core.SessionStore, cameras *camera.Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := sessionFromRequest(store, w, r)
		if !ok {
			return
		}
		render.JSON(w, r, cameraViewOf(cameras.State(sess.ID)))
	}
}

// HandleCameraEvent applies one permission lifecycle event reported by the
// shell (request, grant, deny, block, unavailable, unsupported, fail,
// release, retry). Illegal transitions leave the state unchanged.
func HandleCameraEvent(store core.SessionStore, cameras *camera.Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := sessionFromRequest(store, w, r)
		if !ok {
			return
		}

		var req cameraEventRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			renderError(w, r, http.StatusBadRequest, "Invalid request body")
			return
		}
		defer r.Body.Close()

		ev, err := camera.ParsePermissionEvent(req.Event)
		if err != nil {
			renderError(w, r, http.StatusBadRequest, "Unknown permission event")
			return
		}
		state, err := cameras.Apply(sess.ID, ev, req.Message)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"error":      err,
				"session_id": sess.ID,
				"event":      req.Event,
			}).Warn("Illegal camera permission transition")
			renderError(w, r, http.StatusConflict, err.Error())
			return
		}
		render.JSON(w, r, cameraViewOf(state))
	}
}

// HandleSetColorMode switches the session between color and monochrome. The
// mode applies to every composite rendered from here on.
func HandleSetColorMode(store core.SessionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := sessionFromRequest(store, w, r)
		if !ok {
			return
		}

		var req colorModeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			renderError(w, r, http.StatusBadRequest, "Invalid request body")
			return
		}
		defer r.Body.Close()

		mode, err := core.ParseColorMode(req.Mode)
		if err != nil {
			renderError(w, r, http.StatusBadRequest, "Unknown color mode")
			return
		}
		sess.SetColorMode(mode)
		render.JSON(w, r, viewOf(sess))
	}
}

// HandleUploadFrames takes a whole frame batch as multipart files under the
// "frames" field. The batch replaces anything captured so far, or is
// rejected as a unit.
func HandleUploadFrames(store core.SessionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := sessionFromRequest(store, w, r)
		if !ok {
			return
		}

		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			renderError(w, r, http.StatusBadRequest, "Invalid multipart body")
			return
		}
		var files []frames.File
		for _, header := range r.MultipartForm.File["frames"] {
			f, err := header.Open()
			if err != nil {
				renderError(w, r, http.StatusBadRequest, "Unreadable upload")
				return
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				renderError(w, r, http.StatusBadRequest, "Unreadable upload")
				return
			}
			files = append(files, frames.File{Name: header.Filename, Data: data})
		}

		if err := frames.IntakeBatch(sess, files); err != nil {
			logrus.WithFields(logrus.Fields{
				"error":      err,
				"session_id": sess.ID,
				"files":      len(files),
			}).Warn("Upload batch rejected")
			renderError(w, r, statusFor(err), err.Error())
			return
		}
		render.JSON(w, r, viewOf(sess))
	}
}

// HandleCapture starts a countdown capture. The shell posts the current
// video frame plus the countdown length; the countdown runs server-side and
// the capture fires when it hits zero, so the request is accepted and the
// progress arrives over the event channel.
func HandleCapture(store core.SessionStore, coord *frames.Coordinator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := sessionFromRequest(store, w, r)
		if !ok {
			return
		}

		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			renderError(w, r, http.StatusBadRequest, "Invalid multipart body")
			return
		}
		seconds, err := strconv.Atoi(r.FormValue("countdown"))
		if err != nil || !frames.ValidCountdown(seconds) {
			renderError(w, r, http.StatusBadRequest, "Countdown must be 3, 5 or 10 seconds")
			return
		}

		headers := r.MultipartForm.File["frame"]
		if len(headers) != 1 {
			renderError(w, r, http.StatusBadRequest, "Exactly one frame is required")
			return
		}
		f, err := headers[0].Open()
		if err != nil {
			renderError(w, r, http.StatusBadRequest, "Unreadable frame")
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			renderError(w, r, http.StatusBadRequest, "Unreadable frame")
			return
		}
		img, err := imaging.Decode(bytes.NewReader(data))
		if err != nil {
			renderError(w, r, http.StatusUnprocessableEntity, "Frame could not be decoded")
			return
		}

		// Pre-flight the rejections synchronously so the shell gets a
		// direct answer; the countdown itself runs detached.
		if sess.Complete() {
			renderError(w, r, http.StatusConflict, core.ErrFrameSetComplete.Error())
			return
		}
		if coord.Active(sess.ID) {
			renderError(w, r, http.StatusConflict, core.ErrCountdownActive.Error())
			return
		}

		src := camera.NewStillSource(img)
		go func() {
			defer src.Release()
			if err := coord.Capture(sess, src, seconds); err != nil {
				logrus.WithFields(logrus.Fields{
					"error":      err,
					"session_id": sess.ID,
				}).Warn("Countdown capture failed")
			}
		}()

		render.Status(r, http.StatusAccepted)
		render.JSON(w, r, map[string]any{"countdown": seconds})
	}
}

// HandleDeleteFrame removes one captured frame by index, reopening a
// complete set for recapture.
func HandleDeleteFrame(store core.SessionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := sessionFromRequest(store, w, r)
		if !ok {
			return
		}
		index, err := strconv.Atoi(chi.URLParam(r, "index"))
		if err != nil {
			renderError(w, r, http.StatusBadRequest, "Invalid frame index")
			return
		}
		if err := sess.DeleteFrame(index); err != nil {
			renderError(w, r, statusFor(err), err.Error())
			return
		}
		render.JSON(w, r, viewOf(sess))
	}
}

// HandleComposite renders the session's composite for preview. The image is
// regenerated on every request with the current color mode.
func HandleComposite(store core.SessionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := sessionFromRequest(store, w, r)
		if !ok {
			return
		}
		data, err := compositor.Render(sess.Frames(), sess.Layout, sess.ColorMode())
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"error":      err,
				"session_id": sess.ID,
			}).Warn("Composite render failed")
			renderError(w, r, statusFor(err), err.Error())
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(data)
	}
}
