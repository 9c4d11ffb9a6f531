package stores

import (
	"love-booth/core"
	"love-booth/stores/memory"

	"github.com/sirupsen/logrus"
)

// GetStore returns the booth session store. Sessions and their frames are
// transient: nothing outlives the process, so the only backend is memory.
func GetStore() core.SessionStore {
	logrus.WithField("storageType", "in-memory").Info("Use storage")
	return memory.NewStore()
}
