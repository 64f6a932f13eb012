package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// DefaultPort is the port the server listens on when none is configured.
const DefaultPort = 8080

// shutdownTimeout bounds how long in-flight requests get after the context ends.
const shutdownTimeout = 5 * time.Second

// contentTypes maps file extensions to the Content-Type served for them.
var contentTypes = map[string]string{
	".html": "text/html",
	".css":  "text/css",
	".js":   "text/javascript",
	".json": "application/json",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".svg":  "image/svg+xml",
	".ico":  "image/x-icon",
	".glb":  "model/gltf-binary",
	".gltf": "model/gltf+json",
}

// ContentType returns the Content-Type for a file name, or application/octet-stream.
func ContentType(name string) string {
	if ct, ok := contentTypes[filepath.Ext(name)]; ok {
		return ct
	}
	return "application/octet-stream"
}

// server is the implementation of the Server interface.
type server struct {
	root   string
	port   int
	logger *zap.Logger
}

// Server serves static files from a single root directory over GET.
type Server interface {
	http.Handler

	// Root returns the directory files are served from.
	Root() string

	// Addr returns the listen address, e.g. ":8080".
	Addr() string

	// ListenAndServe serves until ctx ends, then shuts down gracefully.
	//
	// Parameters:
	//   - ctx: stops the server when done
	//
	// Returns:
	//   - error: a listen error, or nil after a clean shutdown
	ListenAndServe(ctx context.Context) error

	// Serve is ListenAndServe on an existing listener.
	Serve(ctx context.Context, ln net.Listener) error
}

var _ Server = &server{}

// NewServer creates a Server rooted at the current directory on DefaultPort.
//
// Parameters:
//   - options: variadic list of ServerBuilderOption functions
//
// Returns:
//   - Server: the configured server
func NewServer(options ...ServerBuilderOption) Server {
	s := &server{
		root:   ".",
		port:   DefaultPort,
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *server) Root() string {
	return s.root
}

func (s *server) Addr() string {
	return fmt.Sprintf(":%d", s.port)
}

func (s *server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr())
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.Addr(), err)
	}
	return s.Serve(ctx, ln)
}

func (s *server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	s.logger.Info("serving files",
		zap.String("root", s.root),
		zap.String("url", fmt.Sprintf("http://localhost:%d/", s.port)),
	)
	go func() {
		serveErr <- httpServer.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		err := httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// resolve maps a URL path to a file under root. "/" means "/index.html"; cleaning the
// rooted path drops any ".." that would climb out of root.
func (s *server) resolve(urlPath string) string {
	if urlPath == "" || urlPath == "/" {
		urlPath = "/index.html"
	}
	clean := path.Clean("/" + urlPath)
	return filepath.Join(s.root, filepath.FromSlash(clean))
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.logger.Info("request received", zap.String("method", r.Method), zap.String("url", r.URL.String()))

	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		plain(w, http.StatusMethodNotAllowed, "405 Method Not Allowed")
		return
	}

	// URL.Path never carries the query string
	filePath := s.resolve(r.URL.Path)

	info, err := os.Stat(filePath)
	if err != nil {
		s.logger.Warn("file not found", zap.String("path", filePath))
		plain(w, http.StatusNotFound, "404 Not Found")
		return
	}
	if info.IsDir() {
		indexPath := filepath.Join(filePath, "index.html")
		if _, err := os.Stat(indexPath); err != nil {
			plain(w, http.StatusNotFound, "404 Directory Index Not Found")
			return
		}
		filePath = indexPath
	}

	s.serveFile(w, filePath)
}

func (s *server) serveFile(w http.ResponseWriter, filePath string) {
	contentType := ContentType(filePath)

	data, err := os.ReadFile(filePath)
	if err != nil {
		s.logger.Error("read file", zap.String("path", filePath), zap.Error(err))
		plain(w, http.StatusInternalServerError, "500 Internal Server Error")
		return
	}

	h := w.Header()
	h.Set("Content-Type", contentType)
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "GET")
	h.Set("Access-Control-Allow-Headers", "Content-Type")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.Debug("write response", zap.String("path", filePath), zap.Error(err))
		return
	}
	s.logger.Info("served file", zap.String("path", filePath), zap.String("content_type", contentType))
}

func plain(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
