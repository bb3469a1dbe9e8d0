// Package chassis runs the HTTP surface on one port.
//
// TCP always serves HTTP/1.1 (and HTTP/2 when TLS is on). With HTTP/3
// enabled, UDP on the same port serves QUIC and TCP responses carry an
// Alt-Svc header advertising it, so capable clients upgrade transparently.
//
// HTTP/3 needs TLS: without cert/key files a self-signed ECDSA P-256 cert
// is generated for development.
package chassis

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/quic-go/quic-go"
	"github.com/quic-go/quic-go/http3"
)

// Config holds configuration for the chassis server.
type Config struct {
	Addr         string       // Listen address (e.g. ":8420"), TCP + UDP same port
	Handler      http.Handler // API mux
	HTTP3        bool         // also serve HTTP/3 over QUIC
	TLS          *tls.Config  // overrides CertFile/KeyFile
	CertFile     string       // production cert path
	KeyFile      string       // production key path
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Logger       *slog.Logger
}

// Server is the unified chassis.
type Server struct {
	cfg       Config
	logger    *slog.Logger
	tlsCfg    *tls.Config
	tcpServer *http.Server
	h3Server  *http3.Server
	tcpLn     net.Listener
	ready     chan struct{}
	mu        sync.Mutex
}

func New(cfg Config) (*Server, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Handler == nil {
		return nil, errors.New("chassis: nil handler")
	}

	tlsCfg, source, err := resolveTLS(cfg)
	if err != nil {
		return nil, err
	}
	if tlsCfg != nil {
		cfg.Logger.Info("TLS enabled", "source", source)
	}

	return &Server{
		cfg:    cfg,
		logger: cfg.Logger,
		tlsCfg: tlsCfg,
		ready:  make(chan struct{}),
	}, nil
}

// securityHeaders wraps an http.Handler and adds standard security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
		next.ServeHTTP(w, r)
	})
}

// altSvcMiddleware wraps an http.Handler and adds Alt-Svc header
// to advertise HTTP/3 availability on the same port.
func altSvcMiddleware(port int, next http.Handler) http.Handler {
	altSvc := fmt.Sprintf(`h3=":%d"; ma=86400`, port)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Alt-Svc", altSvc)
		next.ServeHTTP(w, r)
	})
}

// Start opens the listeners and serves until ctx is done or a listener
// fails. It returns nil on cancellation; call Stop to drain connections.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()

	var (
		ln  net.Listener
		err error
	)
	if s.tlsCfg != nil {
		tcpTLS := s.tlsCfg.Clone()
		tcpTLS.NextProtos = []string{"h2", "http/1.1"}
		ln, err = tls.Listen("tcp", s.cfg.Addr, tcpTLS)
	} else {
		ln, err = net.Listen("tcp", s.cfg.Addr)
	}
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("TCP listen: %w", err)
	}
	s.tcpLn = ln
	port := ln.Addr().(*net.TCPAddr).Port

	handler := securityHeaders(s.cfg.Handler)
	if s.cfg.HTTP3 {
		handler = altSvcMiddleware(port, handler)
		host, _, _ := net.SplitHostPort(s.cfg.Addr)
		s.h3Server = &http3.Server{
			Addr:      net.JoinHostPort(host, strconv.Itoa(port)),
			Handler:   handler,
			TLSConfig: http3.ConfigureTLSConfig(s.tlsCfg),
			QUICConfig: &quic.Config{
				MaxIdleTimeout:  30 * time.Second,
				KeepAlivePeriod: 10 * time.Second,
			},
		}
	}

	s.tcpServer = &http.Server{
		Handler:      handler,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}
	s.mu.Unlock()
	close(s.ready)

	s.logger.Info("chassis started",
		"addr", ln.Addr().String(),
		"tls", s.tlsCfg != nil,
		"http3", s.cfg.HTTP3,
	)

	errCh := make(chan error, 2)
	go func() {
		if err := s.tcpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("TCP: %w", err)
		}
	}()
	if s.h3Server != nil {
		go func() {
			if err := s.h3Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("QUIC: %w", err)
			}
		}()
	}

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

// Addr returns the bound TCP address once Start has opened its listener.
func (s *Server) Addr() net.Addr {
	<-s.ready
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tcpLn.Addr()
}

// Stop gracefully shuts down both TCP and QUIC listeners.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger.Info("chassis stopping")

	var firstErr error
	if s.tcpServer != nil {
		if err := s.tcpServer.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if s.h3Server != nil {
		if err := s.h3Server.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	s.logger.Info("chassis stopped")
	return firstErr
}
