package daemon

import (
	"context"
	"log"
	"net/http"
	"os"

	pz "github.com/weberc2/httpeasy"
)

// Server es el servidor HTTP del daemon: API JSON bajo /api, archivos
// terminados bajo /downloads y la UI estática (si existe) en la raíz
type Server struct {
	addr         string
	downloadsDir string
	publicDir    string
	handlers     *Handlers
	httpServer   *http.Server
}

// NewServer crea un nuevo servidor. publicDir vacío deshabilita la raíz
// estática.
func NewServer(addr, downloadsDir, publicDir string, handlers *Handlers) *Server {
	return &Server{
		addr:         addr,
		downloadsDir: downloadsDir,
		publicDir:    publicDir,
		handlers:     handlers,
	}
}

// Handler arma el routing completo. Expuesto para poder montarlo en
// httptest.
func (s *Server) Handler() http.Handler {
	api := pz.Register(
		pz.JSONLog(os.Stderr),
		pz.Route{Method: "POST", Path: "/api/analyze", Handler: s.handlers.Analyze},
		pz.Route{Method: "POST", Path: "/api/download", Handler: s.handlers.Download},
		pz.Route{Method: "GET", Path: "/api/progress/{downloadId}", Handler: s.handlers.GetProgress},
		pz.Route{Method: "POST", Path: "/api/cancel/{downloadId}", Handler: s.handlers.Cancel},
		pz.Route{Method: "GET", Path: "/api/history", Handler: s.handlers.GetHistory},
		pz.Route{Method: "GET", Path: "/api/stats", Handler: s.handlers.GetStats},
	)

	mux := http.NewServeMux()
	mux.Handle("/api/", api)
	mux.Handle("/downloads/", http.StripPrefix("/downloads/",
		http.FileServer(http.Dir(s.downloadsDir))))
	if s.publicDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(s.publicDir)))
	}

	return mux
}

// Start inicia el servidor y bloquea hasta que Stop lo apague
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
	}

	log.Printf("Server listening on %s", s.addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop apaga el servidor drenando las conexiones en curso
func (s *Server) Stop(ctx context.Context) error {
	log.Println("Server stopping...")
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
