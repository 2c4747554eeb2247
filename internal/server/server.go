// Package server serves maps over HTTP.
//
// Routes:
//
//	GET /healthz
//	GET /version
//	GET /maps
//	GET /maps/{name}/layout?width=&height=
//	GET /maps/{name}/render.{svg|png|json}?width=&height=&interactive=
//	GET /maps/{name}/image
//	GET /maps/{name}/icons/{id}
//
// The layout endpoint classifies the client's device tier from its
// User-Agent unless a tier query parameter is given.
package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/pinmap/pkg/buildinfo"
	"github.com/matzehuels/pinmap/pkg/errors"
	"github.com/matzehuels/pinmap/pkg/gallery"
	"github.com/matzehuels/pinmap/pkg/iconmap"
	"github.com/matzehuels/pinmap/pkg/mapfile"
	"github.com/matzehuels/pinmap/pkg/observability"
	"github.com/matzehuels/pinmap/pkg/pipeline"
	"github.com/matzehuels/pinmap/pkg/viewport"
)

// ShutdownTimeout bounds graceful shutdown.
const ShutdownTimeout = 10 * time.Second

// Server serves the maps found in a directory.
type Server struct {
	Runner  *pipeline.Runner
	MapsDir string
	Logger  *log.Logger

	// Defaults applied when a request omits width or height.
	Width, Height float64

	// Prepare, when set, adjusts every definition after it is loaded.
	Prepare func(*mapfile.Definition)
}

// New returns a Server. A nil logger discards output.
func New(runner *pipeline.Runner, mapsDir string, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Server{
		Runner:  runner,
		MapsDir: mapsDir,
		Logger:  logger,
		Width:   pipeline.DefaultWidth,
		Height:  pipeline.DefaultHeight,
	}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/version", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, buildinfo.Get())
	})

	r.Get("/maps", s.handleList)
	r.Route("/maps/{name}", func(r chi.Router) {
		r.Get("/layout", s.handleLayout)
		r.Get("/render.{format}", s.handleRender)
		r.Get("/image", s.handleImage)
		r.Get("/icons/{id}", s.handleIcon)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.Logger.Info("listening", "addr", addr, "maps", s.MapsDir)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		s.Logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// mapSummary is one entry of the map listing.
type mapSummary struct {
	Name  string `json:"name"`
	Title string `json:"title,omitempty"`
	Icons int    `json:"icons"`
	Media int    `json:"media"`
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	names, err := mapfile.List(s.MapsDir)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]mapSummary, 0, len(names))
	for _, name := range names {
		def, err := s.load(name)
		if err != nil {
			s.Logger.Warn("skipping map", "name", name, "err", err)
			continue
		}
		out = append(out, mapSummary{Name: name, Title: def.Title, Icons: def.Icons.Len(), Media: len(def.Media)})
	}
	writeJSON(w, http.StatusOK, out)
}

// layoutResponse is the body of the layout endpoint.
type layoutResponse struct {
	Name     string              `json:"name"`
	Title    string              `json:"title,omitempty"`
	Tier     viewport.Tier       `json:"tier"`
	Viewport viewport.Config     `json:"viewport"`
	Frame    iconmap.Frame       `json:"frame"`
	Icons    []iconmap.Icon      `json:"icons"`
	Media    []gallery.MediaItem `json:"media"`
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	def, err := s.loadAssets(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := s.options(r, def)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	fr, err := s.Runner.Layout(r.Context(), def, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	tier := opts.TierValue()
	media := def.Media
	if media == nil {
		media = []gallery.MediaItem{}
	}
	writeJSON(w, http.StatusOK, layoutResponse{
		Name:     def.Name,
		Title:    def.Title,
		Tier:     tier,
		Viewport: viewport.ConfigFor(tier),
		Frame:    fr,
		Icons:    def.Icons.Icons(),
		Media:    media,
	})
}

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatJSON: "application/json",
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}
	def, err := s.loadAssets(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := s.options(r, def)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Formats = []string{format}
	opts.Interactive = r.URL.Query().Get("interactive") != "false"
	opts.Outline = r.URL.Query().Get("outline") == "true"
	opts.AssetBase = "/maps/" + def.Name

	res, err := s.Runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Pinmap-Cache", strconv.FormatBool(res.CacheInfo.RenderHit))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	def, err := s.loadAssets(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	http.ServeFile(w, r, def.Image)
}

func (s *Server) handleIcon(w http.ResponseWriter, r *http.Request) {
	def, err := s.loadAssets(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	id := chi.URLParam(r, "id")
	ic, ok := def.Icons.Get(id)
	if !ok || ic.Variant != iconmap.VariantImage || ic.Image == "" {
		s.writeError(w, r, errors.New(errors.ErrCodeMapNotFound, "map %q has no image icon %q", def.Name, id))
		return
	}
	http.ServeFile(w, r, ic.Image)
}

// load resolves and reads a map by name.
func (s *Server) load(name string) (*mapfile.Definition, error) {
	path, err := mapfile.Find(s.MapsDir, name)
	if err != nil {
		return nil, err
	}
	def, err := mapfile.Load(path)
	if err != nil {
		return nil, err
	}
	def.Name = name
	if s.Prepare != nil {
		s.Prepare(def)
	}
	return def, nil
}

// loadAssets loads the map named in the route with its remote images
// downloaded.
func (s *Server) loadAssets(r *http.Request) (*mapfile.Definition, error) {
	def, err := s.load(chi.URLParam(r, "name"))
	if err != nil {
		return nil, err
	}
	if err := s.Runner.Localize(r.Context(), def); err != nil {
		return nil, err
	}
	return def, nil
}

// options builds pipeline options from the query string.
func (s *Server) options(r *http.Request, def *mapfile.Definition) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{
		Definition: def,
		Width:      s.Width,
		Height:     s.Height,
		Logger:     s.Logger,
	}
	var err error
	if opts.Width, err = queryFloat(q.Get("width"), opts.Width); err != nil {
		return opts, err
	}
	if opts.Height, err = queryFloat(q.Get("height"), opts.Height); err != nil {
		return opts, err
	}
	if t := q.Get("tier"); t != "" {
		opts.Tier = t
	} else {
		opts.Tier = string(viewport.TierOf(viewport.UserAgent(r.UserAgent())))
	}
	return opts, opts.ValidateForLayout()
}

func queryFloat(v string, def float64) (float64, error) {
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 || f > 16384 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "invalid dimension %q", v)
	}
	return f, nil
}

// requestLogger logs each request and reports it to the HTTP hooks.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		d := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, d)
		s.Logger.Debug("request",
			"id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"remote", r.RemoteAddr,
			"duration", d)
	})
}

// errorResponse is the body of every error reply.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	if status >= 500 {
		s.Logger.Error("request failed", "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, errorResponse{Error: errors.UserMessage(err), Code: string(errors.GetCode(err))})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
