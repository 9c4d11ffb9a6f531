package main

import (
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	socketio "github.com/zishang520/socket.io/v2/socket"

	"love-booth/camera"
	"love-booth/core"
	"love-booth/events"
	"love-booth/export"
	"love-booth/frames"
	"love-booth/handlers/api/booth"
	"love-booth/handlers/api/exports"
	"love-booth/handlers/api/printer"
	"love-booth/printing"
	"love-booth/stores"
)

// artifactGrace is how long a registered export stays downloadable. Long
// enough for the save or the print view to fetch it, short enough that
// nothing lingers.
const artifactGrace = 2 * time.Minute

// handleUI serves the booth shell from the web directory, routing
// extensionless paths back to index.html for the client-side router.
func handleUI(dir string) http.HandlerFunc {
	fileServer := http.FileServer(http.Dir(dir))
	return func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/")
		if path == "" {
			path = "index.html"
		}
		if _, err := os.Stat(filepath.Join(dir, path)); err != nil {
			if os.IsNotExist(err) && !strings.Contains(path, ".") {
				http.ServeFile(w, r, filepath.Join(dir, "index.html"))
				return
			}
			http.NotFound(w, r)
			return
		}
		fileServer.ServeHTTP(w, r)
	}
}

func setupRouter(
	store core.SessionStore,
	cameras *camera.Tracker,
	coordinator *frames.Coordinator,
	exporter *export.Exporter,
	registry *export.Registry,
	printSession *printing.Session,
) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Content-Length", "Origin", "Host", "Connection", "Accept-Encoding", "Accept-Language", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/layouts", booth.HandleListLayouts())

		r.Route("/booth", func(r chi.Router) {
			r.Post("/", booth.HandleCreate(store))
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", booth.HandleGet(store))
				r.Delete("/", booth.HandleDelete(store, cameras))
				r.Get("/camera", booth.HandleGetCamera(store, cameras))
				r.Put("/camera", booth.HandleCameraEvent(store, cameras))
				r.Put("/color", booth.HandleSetColorMode(store))
				r.Post("/frames", booth.HandleUploadFrames(store))
				r.Delete("/frames/{index}", booth.HandleDeleteFrame(store))
				r.Post("/capture", booth.HandleCapture(store, coordinator))
				r.Get("/composite", booth.HandleComposite(store))
				r.Post("/export", exports.HandleExport(store, exporter))
				r.Post("/print", printer.HandlePrint(store, printSession))
			})
		})

		r.Get("/export/{token}", exports.HandleDownload(registry))
	})

	r.Route("/print/{token}", func(r chi.Router) {
		r.Get("/", printer.HandlePrintView(registry))
		r.Get("/image", printer.HandlePrintImage(registry))
	})

	return r
}

func waitForShutdown(io *socketio.Server) {
	exit := make(chan struct{})
	signalC := make(chan os.Signal, 1)

	signal.Notify(signalC, os.Interrupt, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		for s := range signalC {
			switch s {
			case os.Interrupt, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT:
				close(exit)
				return
			}
		}
	}()

	<-exit
	logrus.Info("Shutting down...")
	io.Close(nil)
	os.Exit(0)
}

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found")
	}

	listenAddress := flag.String("listen", ":3002", "The address to listen on.")
	logLevel := flag.String("loglevel", "info", "The log level (debug, info, warn, error).")
	webDir := flag.String("web", "./web", "The directory holding the booth shell assets.")
	flag.Parse()

	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	store := stores.GetStore()
	cameras := camera.NewTracker()
	hub := events.NewHub()

	registry := export.NewRegistry(artifactGrace)
	exporter := export.NewExporter(export.DelivererFromEnv(registry))
	coordinator := frames.NewCoordinator(hub)
	printSession := printing.NewSession(
		printing.AdapterFromEnv(),
		&printing.DialogFallback{Sink: registry},
		hub,
	)

	r := setupRouter(store, cameras, coordinator, exporter, registry, printSession)

	io := hub.Server()
	r.Mount("/socket.io/", io.ServeHandler(nil))
	r.NotFound(handleUI(*webDir))

	logrus.WithField("addr", *listenAddress).Info("starting server")
	go func() {
		if err := http.ListenAndServe(*listenAddress, r); err != nil {
			logrus.WithField("event", "start server").Fatal(err)
		}
	}()

	logrus.Debug("Server is running in the background")
	waitForShutdown(io)
}
