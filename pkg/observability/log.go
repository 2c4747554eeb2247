package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug records to a
// logger.
type LogHooks struct {
	Logger *log.Logger
}

var (
	_ PipelineHooks   = LogHooks{}
	_ NavigationHooks = LogHooks{}
	_ CacheHooks      = LogHooks{}
	_ HTTPHooks       = LogHooks{}
)

// InstallLogHooks registers LogHooks for all categories.
func InstallLogHooks(logger *log.Logger) {
	h := LogHooks{Logger: logger}
	SetPipelineHooks(h)
	SetNavigationHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func (h LogHooks) OnLoadComplete(_ context.Context, path string, icons int, d time.Duration, err error) {
	h.done("load", err, "path", path, "icons", icons, "took", d)
}

func (h LogHooks) OnLayoutStart(_ context.Context, name string, icons int) {
	h.Logger.Debug("layout started", "map", name, "icons", icons)
}

func (h LogHooks) OnLayoutComplete(_ context.Context, name string, placements int, d time.Duration, err error) {
	h.done("layout", err, "map", name, "placements", placements, "took", d)
}

func (h LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.Logger.Debug("render started", "formats", formats)
}

func (h LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.done("render", err, "formats", formats, "took", d)
}

func (h LogHooks) OnNavigate(channel string, from, to int) {
	h.Logger.Debug("navigate", "channel", channel, "from", from, "to", to)
}

func (h LogHooks) OnClose(index int) {
	h.Logger.Debug("viewer closed", "index", index)
}

func (h LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h LogHooks) OnRequest(_ context.Context, method, path string) {
	h.Logger.Debug("request", "method", method, "path", path)
}

func (h LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.Logger.Debug("response", "method", method, "path", path, "status", status, "took", d)
}

func (h LogHooks) done(stage string, err error, kv ...any) {
	if err != nil {
		h.Logger.Warn(stage+" failed", append(kv, "err", err)...)
		return
	}
	h.Logger.Debug(stage+" complete", kv...)
}
