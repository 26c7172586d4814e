// Package devserve serves a wasm app that routes with vghistory.
//
// Files that exist under the directory are served as is.  Any other GET for a path
// without an extension gets the app shell (index.html by default), so that
// reloading a page reached with pushState still loads the app.
package devserve

import (
	"log"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// DefaultIndex is the app shell used when Config.Index is empty.
const DefaultIndex = "index.html"

// Config configures a Server.
type Config struct {
	Dir   string // directory to serve, required
	Index string // app shell file name relative to Dir
	Quiet bool   // no request log
}

// Server is a history-fallback static file server.
type Server struct {
	dir    string
	index  string
	router *gin.Engine
}

// New returns a Server for cfg.
func New(cfg Config) *Server {
	s := &Server{
		dir:   cfg.Dir,
		index: cfg.Index,
	}
	if s.index == "" {
		s.index = DefaultIndex
	}

	if cfg.Quiet {
		s.router = gin.New()
		s.router.Use(gin.Recovery())
	} else {
		s.router = gin.Default()
	}
	s.router.NoRoute(s.handle)

	return s
}

// Handler returns the http.Handler for the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on addr and serves until it fails.
func (s *Server) Run(addr string) error {
	log.Printf("[devserve] Serving %s on %s (app shell %s)", s.dir, addr, s.index)
	return s.router.Run(addr)
}

func (s *Server) handle(c *gin.Context) {

	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		c.Header("Allow", "GET, HEAD")
		c.String(http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	// path.Clean on a rooted path never leaves ".." elements
	p := path.Clean("/" + c.Request.URL.Path)
	fp := filepath.Join(s.dir, filepath.FromSlash(p))

	if st, err := os.Stat(fp); err == nil && st.Mode().IsRegular() {
		if strings.EqualFold(path.Ext(p), ".wasm") {
			c.Header("Content-Type", "application/wasm")
		}
		c.Header("Cache-Control", "no-cache")
		c.File(fp)
		return
	}

	if path.Ext(p) != "" {
		c.String(http.StatusNotFound, "not found")
		return
	}

	indexPath := filepath.Join(s.dir, s.index)
	if _, err := os.Stat(indexPath); err != nil {
		log.Printf("[devserve] App shell missing: %v", err)
		c.String(http.StatusNotFound, "app shell not found")
		return
	}
	c.Header("Cache-Control", "no-cache")
	c.File(indexPath)
}
