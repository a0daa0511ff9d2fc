// Package httpapi exposes the gallery services as the JSON REST API the
// artfolio client talks to. Routes live under /api; stored media is served
// back under /media/.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/artfolio/internal/logging"
	"github.com/dmitrijs2005/artfolio/internal/server/services"
)

const shutdownTimeout = 5 * time.Second

// Services are the handlers' backends.
type Services struct {
	Users       *services.UserService
	Photos      *services.PhotoService
	Collections *services.CollectionService
	Categories  *services.TermService
	Tags        *services.TermService
}

// MediaSource returns stored objects by key. It is nil when media lives in
// an external bucket.
type MediaSource interface {
	Open(ctx context.Context, key string) (contentType string, data []byte, err error)
}

type HTTPServer struct {
	address   string
	svc       Services
	media     MediaSource
	logger    logging.Logger
	jwtSecret []byte
	handler   http.Handler
}

func NewHTTPServer(a string, l logging.Logger, svc Services, media MediaSource, secretKey string) *HTTPServer {
	s := &HTTPServer{
		address:   a,
		logger:    l.With("module", "http_server"),
		svc:       svc,
		media:     media,
		jwtSecret: []byte(secretKey),
	}
	s.handler = s.routes()
	return s
}

// Handler returns the root handler, for mounting in tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.handler
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *HTTPServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn(ctx, "HTTP server shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
