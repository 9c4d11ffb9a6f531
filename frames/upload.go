package frames

import (
	"bytes"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"

	"love-booth/core"
)

// File is one uploaded still image: its client-supplied name and raw bytes.
type File struct {
	Name string
	Data []byte
}

// BatchDecodeError reports a batch that validated but lost members to
// decoding. Succeeded tells the user how many images made it.
type BatchDecodeError struct {
	Succeeded int
	Want      int
}

func (e *BatchDecodeError) Error() string {
	return fmt.Sprintf("only %d of %d images decoded", e.Succeeded, e.Want)
}

func (e *BatchDecodeError) Unwrap() error { return core.ErrDecodeFailure }

// stillExtensions is the fallback for sources that omit or mis-set the MIME
// type; sniffing runs first.
var stillExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".webp": true, ".bmp": true, ".tif": true, ".tiff": true,
}

// IntakeBatch accepts a whole upload batch or none of it. The batch is
// rejected outright when its size differs from the layout's photo count or
// any member is not a recognized still image. Members that pass the type
// check but fail to decode are dropped; the batch is then accepted only if
// the survivors still fill the layout.
func IntakeBatch(sess *core.Session, files []File) error {
	want := sess.Layout.PhotoCount
	if len(files) != want {
		return fmt.Errorf("%w: got %d files, layout %q needs %d",
			core.ErrInvalidInput, len(files), sess.Layout.ID, want)
	}

	for _, f := range files {
		if !isStillImage(f) {
			return fmt.Errorf("%w: %q is not a still image", core.ErrInvalidInput, f.Name)
		}
	}

	normalized := make([][]byte, 0, want)
	for _, f := range files {
		img, err := imaging.Decode(bytes.NewReader(f.Data))
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"session_id": sess.ID,
				"file":       f.Name,
				"error":      err,
			}).Warn("Dropping undecodable upload")
			continue
		}
		encoded, err := EncodeFrame(Normalize(img))
		if err != nil {
			return err
		}
		normalized = append(normalized, encoded)
	}

	if len(normalized) != want {
		return &BatchDecodeError{Succeeded: len(normalized), Want: want}
	}
	return sess.ReplaceFrames(normalized)
}

// isStillImage sniffs the content first and falls back to the file
// extension when sniffing is inconclusive.
func isStillImage(f File) bool {
	sniffed := http.DetectContentType(f.Data)
	if strings.HasPrefix(sniffed, "image/") {
		return true
	}
	if sniffed == "application/octet-stream" || sniffed == "text/plain; charset=utf-8" {
		return stillExtensions[strings.ToLower(filepath.Ext(f.Name))]
	}
	return false
}
