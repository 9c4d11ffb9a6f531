package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

type (
	// Deliverer gets the serialized composite onto the user's device. The
	// two environments differ only in how the save lands; file bytes and
	// filename are identical either way.
	Deliverer interface {
		Deliver(filename string, data []byte) (url string, err error)
	}

	// BrowserDeliverer serves a standard browser tab: it registers the
	// bytes as a temporary artifact and hands back a one-shot download URL
	// for an anchor-triggered save.
	BrowserDeliverer struct {
		Registry *Registry
	}

	// KioskDeliverer serves the embedded app container, which cannot run
	// an anchor download: the file is written straight into the export
	// directory.
	KioskDeliverer struct {
		Dir string
	}
)

func (d *BrowserDeliverer) Deliver(filename string, data []byte) (string, error) {
	token := d.Registry.Put(filename, data)
	return "/api/export/" + token, nil
}

func (d *KioskDeliverer) Deliver(filename string, data []byte) (string, error) {
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(d.Dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return "", nil
}

// DelivererFromEnv picks the delivery environment, defaulting to the
// browser strategy.
func DelivererFromEnv(registry *Registry) Deliverer {
	mode := os.Getenv("LOVEBOOTH_DELIVERY")
	field := logrus.Fields{"delivery": mode}

	switch mode {
	case "kiosk":
		dir := os.Getenv("LOVEBOOTH_DOWNLOAD_DIR")
		if dir == "" {
			dir = "./downloads"
		}
		field["dir"] = dir
		logrus.WithFields(field).Info("Use delivery strategy")
		return &KioskDeliverer{Dir: dir}
	default:
		field["delivery"] = "browser"
		logrus.WithFields(field).Info("Use delivery strategy")
		return &BrowserDeliverer{Registry: registry}
	}
}
