package main

import (
	"bufio"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"sync"

	"github.com/nickyhof/GridDB"
	"github.com/nickyhof/GridDB/core"
	"github.com/nickyhof/GridDB/db"
	"github.com/nickyhof/GridDB/logging"
	"github.com/nickyhof/GridDB/op"
)

// Server exposes the GridDB engine over TCP, one JSON command per line.
type Server struct {
	listener   net.Listener
	instance   *GridDB.Instance
	identity   core.Identity
	opts       op.Options
	authConfig *AuthConfig
	tls        bool
	log        *slog.Logger

	mu     sync.Mutex
	engine *db.Engine

	// stopMu orders wg.Add against the close of done.
	stopMu sync.Mutex
	done   chan struct{}
	wg     sync.WaitGroup
}

// NewServer creates a server whose commits are authored by identity.
func NewServer(instance *GridDB.Instance, identity core.Identity, opts op.Options) *Server {
	return &Server{
		instance: instance,
		identity: identity,
		opts:     opts,
		log:      logging.WithComponent("server"),
		engine:   instance.Engine(identity, opts),
		done:     make(chan struct{}),
	}
}

// NewServerWithAuth creates a server that requires AUTH before any command.
// Commits of an authenticated connection are authored by its token identity.
func NewServerWithAuth(instance *GridDB.Instance, authConfig *AuthConfig, opts op.Options) *Server {
	s := NewServer(instance, core.Identity{Name: "GridDB Server", Email: "server@griddb.local"}, opts)
	s.authConfig = authConfig
	return s
}

// Listen binds addr without accepting connections yet.
func (s *Server) Listen(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	s.listener = listener
	s.log.Info("listening", "addr", listener.Addr().String())
	return nil
}

// ListenTLS binds addr and wraps it with the given certificate.
func (s *Server) ListenTLS(addr, certFile, keyFile string) error {
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return fmt.Errorf("failed to load TLS certificate: %w", err)
	}
	listener, err := tls.Listen("tcp", addr, &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	})
	if err != nil {
		return fmt.Errorf("failed to start TLS server: %w", err)
	}
	s.listener = listener
	s.tls = true
	s.log.Info("listening with TLS", "addr", listener.Addr().String())
	return nil
}

// Start listens on addr and accepts connections in the background.
func (s *Server) Start(addr string) error {
	if err := s.Listen(addr); err != nil {
		return err
	}
	go s.Serve()
	return nil
}

// StartTLS is Start over TLS.
func (s *Server) StartTLS(addr, certFile, keyFile string) error {
	if err := s.ListenTLS(addr, certFile, keyFile); err != nil {
		return err
	}
	go s.Serve()
	return nil
}

// Serve accepts connections until Stop is called.
func (s *Server) Serve() error {
	if s.listener == nil {
		return errors.New("server is not listening")
	}
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.done:
				return nil
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			s.log.Warn("accept error", "error", err)
			continue
		}

		if !s.track() {
			conn.Close()
			return nil
		}
		go s.handleConnection(conn)
	}
}

// track registers a connection handler unless Stop has begun.
func (s *Server) track() bool {
	s.stopMu.Lock()
	defer s.stopMu.Unlock()
	select {
	case <-s.done:
		return false
	default:
		s.wg.Add(1)
		return true
	}
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	s.stopMu.Lock()
	select {
	case <-s.done:
		s.stopMu.Unlock()
		return nil
	default:
		close(s.done)
	}
	s.stopMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	s.wg.Wait()
	return nil
}

// Addr returns the server's listening address.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) TLSEnabled() bool {
	return s.tls
}

func (s *Server) authRequired() bool {
	return s.authConfig != nil && s.authConfig.Enabled
}

func (s *Server) handleConnection(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	log := s.log.With("remote", conn.RemoteAddr().String())
	log.Debug("client connected")

	auth := &peer{}
	engine := s.engine
	reader := bufio.NewReader(conn)

	closed := make(chan struct{})
	defer close(closed)
	go func() {
		select {
		case <-s.done:
			conn.Close()
		case <-closed:
		}
	}()

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if err != io.EOF && !errors.Is(err, net.ErrClosed) {
				log.Warn("read error", "error", err)
			}
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		lower := strings.ToLower(line)
		if lower == "quit" || lower == "exit" {
			log.Debug("client disconnected")
			return
		}

		var response db.Response
		if strings.HasPrefix(strings.ToUpper(line), "AUTH ") {
			response = s.authenticate(line, auth)
			if response.Success {
				engine = s.instance.Engine(*auth.identity, s.opts)
			}
		} else if err := auth.check(); err != nil && s.authRequired() {
			response = authFailure(err)
		} else {
			response = s.execute(engine, line)
		}

		data, err := db.EncodeResponse(response)
		if err != nil {
			log.Error("failed to encode response", "error", err)
			continue
		}
		if _, err := conn.Write(data); err != nil {
			log.Warn("write error", "error", err)
			return
		}
	}
}

func (s *Server) execute(engine *db.Engine, line string) db.Response {
	cmd, err := db.DecodeCommand([]byte(line))
	if err != nil {
		return db.ErrorResponse(err)
	}

	// Commands are serialized across connections.
	s.mu.Lock()
	defer s.mu.Unlock()

	return db.NewResponse(engine.ExecuteContext(context.Background(), cmd))
}
