package remote

import (
	"io"
	"os"
	"time"

	"github.com/studio-b12/gowebdav"

	"github.com/davplay/davplay/internal/model"
)

// Client is the subset of the WebDAV client handle the app uses. The real
// implementation is *gowebdav.Client; tests substitute fakes.
type Client interface {
	ReadDir(path string) ([]os.FileInfo, error)
	ReadStream(path string) (io.ReadCloser, error)
}

// Session is the single active authenticated connection to one configured
// server. It holds a non-owning snapshot of the config it was built from.
// Sessions are never persisted; only the chosen server id survives restarts.
type Session struct {
	Config model.ServerConfig
	Client Client
}

// Dialer builds a client handle for a config. Swapped out in tests.
type Dialer func(cfg model.ServerConfig, timeout time.Duration) Client

// DialWebDAV is the production dialer. The transport timeout bounds every
// call made through the handle, so a deadline hit also tears down the
// underlying transfer rather than leaking the connection.
func DialWebDAV(cfg model.ServerConfig, timeout time.Duration) Client {
	c := gowebdav.NewClient(cfg.URL, cfg.Username, cfg.Password)
	c.SetTimeout(timeout)
	return c
}
