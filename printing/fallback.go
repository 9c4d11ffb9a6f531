package printing

import (
	"fmt"
	"time"

	"love-booth/core"
	"love-booth/export"
)

// ArtifactSink is where the fallback parks the composite so the print view
// page can load it. Satisfied by export.Registry.
type ArtifactSink interface {
	Put(filename string, data []byte) string
}

// DialogFallback opens the system print pathway: it registers the composite
// and returns the URL of a print view page, a top-level context containing
// only the image, which auto-invokes the platform print dialog on load and
// closes itself afterwards. If the shell cannot open the context (pop-up
// suppressed), it reports core.ErrPopupBlocked back through the API and the
// user is asked to allow pop-ups.
type DialogFallback struct {
	Sink ArtifactSink
}

func (f *DialogFallback) Open(boothID string, composite []byte) (string, error) {
	if f.Sink == nil {
		return "", fmt.Errorf("%w: no artifact sink configured", core.ErrPopupBlocked)
	}
	token := f.Sink.Put(export.Filename(time.Now()), composite)
	return "/print/" + token, nil
}
