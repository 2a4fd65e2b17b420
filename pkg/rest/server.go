package rest

import (
	"context"
	"io"
	"net/http"

	"github.com/edgeflare/pgtables/pkg/httputil"
	"github.com/edgeflare/pgtables/pkg/httputil/middleware"
	"github.com/edgeflare/pgtables/pkg/sqlgen"
	"github.com/edgeflare/pgtables/pkg/tables"
	"go.uber.org/zap"
)

const defaultMaxBodyBytes = 10 << 20

// TableService is implemented by *tables.Service.
type TableService interface {
	ListTables(ctx context.Context, schema string) tables.Envelope
	TableDetails(ctx context.Context, ref sqlgen.TableRef) tables.Envelope
	TableStructure(ctx context.Context, ref sqlgen.TableRef) tables.Envelope
	Select(ctx context.Context, ref sqlgen.TableRef, body string) tables.Envelope
	Insert(ctx context.Context, ref sqlgen.TableRef, body string) tables.Envelope
	Delete(ctx context.Context, ref sqlgen.TableRef, body string) tables.Envelope
}

// Options configures a Server. The zero value is usable.
type Options struct {
	Logger *zap.Logger
	// LogRequests installs the request logger middleware.
	LogRequests bool
	// CORSOrigins enables CORS for the listed origins; "*" allows any.
	CORSOrigins []string
	// MaxBodyBytes caps request bodies, 10MiB when zero. Larger bodies are treated as invalid.
	MaxBodyBytes int64
	// ServerOptions customize the underlying http.Server.
	ServerOptions []func(*http.Server)
}

type Server struct {
	router   *httputil.Router
	tables   TableService
	logger   *zap.Logger
	maxBytes int64
}

// NewServer returns a Server with all routes and middleware registered.
func NewServer(svc TableService, opts *Options) *Server {
	if opts == nil {
		opts = &Options{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		router:   httputil.NewRouter(httputil.WithLogger(logger), httputil.WithServerOptions(opts.ServerOptions...)),
		tables:   svc,
		logger:   logger,
		maxBytes: opts.MaxBodyBytes,
	}
	if s.maxBytes <= 0 {
		s.maxBytes = defaultMaxBodyBytes
	}

	var mws []httputil.Middleware
	if len(opts.CORSOrigins) > 0 {
		mws = append(mws, middleware.CORSWithOptions(&middleware.CORSOptions{
			AllowedOrigins: opts.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", middleware.RequestIDHeader},
			ExposedHeaders: []string{middleware.RequestIDHeader},
		}))
	}
	var logOpts *middleware.LoggerOptions
	if opts.LogRequests {
		logOpts = &middleware.LoggerOptions{Logger: logger}
	}
	mws = append(mws, middleware.Default(logOpts)...)
	s.router.Use(mws[0], mws[1:]...)

	s.registerHandlers()
	return s
}

func (s *Server) registerHandlers() {
	s.router.HandleFunc("GET /{$}", s.handleLiveness)

	s.router.HandleFunc("GET /tables", s.handleListTables)
	s.router.HandleFunc("GET /tables/{$}", s.handleListTables)
	t := s.router.Group("/tables")
	t.HandleFunc("GET /{schema}", s.handleListTables)
	t.HandleFunc("GET /{schema}/{name}", s.handleTableDetails)
	t.HandleFunc("GET /{schema}/{name}/structure", s.handleTableStructure)

	s.router.HandleFunc("POST /select/{schema}/{name}", s.handleSelect)
	s.router.HandleFunc("POST /insert/{schema}/{name}", s.handleInsert)
	s.router.HandleFunc("POST /delete/{schema}/{name}", s.handleDelete)
}

// Handler returns the fully wrapped handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router.Handler()
}

// Start serves on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	return s.router.ListenAndServe(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.router.Shutdown(ctx)
}

func (s *Server) handleLiveness(w http.ResponseWriter, r *http.Request) {
	_ = httputil.PrettyJSON(w, http.StatusOK, map[string]string{"live-check": tables.MsgLiveCheck})
}

func (s *Server) handleListTables(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, s.tables.ListTables(r.Context(), r.PathValue("schema")))
}

func (s *Server) handleTableDetails(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, s.tables.TableDetails(r.Context(), tableRef(r)))
}

func (s *Server) handleTableStructure(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, s.tables.TableStructure(r.Context(), tableRef(r)))
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, s.tables.Select(r.Context(), tableRef(r), s.readBody(w, r)))
}

func (s *Server) handleInsert(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, s.tables.Insert(r.Context(), tableRef(r), s.readBody(w, r)))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, s.tables.Delete(r.Context(), tableRef(r), s.readBody(w, r)))
}

// respond writes env. A body that cannot be encoded is replaced by a failure envelope.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, env tables.Envelope) {
	err := httputil.PrettyJSON(w, env.Status, env.Body)
	if err == nil {
		return
	}
	middleware.Logger(r.Context()).Error("encoding response", zap.Error(err))
	fallback := tables.Failure(tables.MsgQueryExecutionError + err.Error())
	if err := httputil.PrettyJSON(w, fallback.Status, fallback.Body); err != nil {
		middleware.Logger(r.Context()).Error("writing response", zap.Error(err))
	}
}

// readBody returns the raw body. A body that cannot be read in full is returned empty, which
// every statement builder rejects.
func (s *Server) readBody(w http.ResponseWriter, r *http.Request) string {
	b, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBytes))
	if err != nil {
		middleware.Logger(r.Context()).Warn("reading request body", zap.Error(err))
		return ""
	}
	return string(b)
}

func tableRef(r *http.Request) sqlgen.TableRef {
	return sqlgen.TableRef{Schema: r.PathValue("schema"), Name: r.PathValue("name")}
}
