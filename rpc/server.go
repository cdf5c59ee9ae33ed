package rpc

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/beatoz/beatoz-rwdpool/types/xerrors"
	tmlog "github.com/tendermint/tendermint/libs/log"
)

type Server struct {
	httpServer *http.Server
	listener   net.Listener
	logger     tmlog.Logger
}

func NewServer(laddr string, handler http.Handler, logger tmlog.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              laddr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger.With("module", "rpc"),
	}
}

// Start listens on the configured address and serves in the background.
func (srv *Server) Start() xerrors.XError {
	listener, err := net.Listen("tcp", srv.httpServer.Addr)
	if err != nil {
		return xerrors.From(err)
	}
	srv.listener = listener

	go func() {
		if err := srv.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srv.logger.Error("rpc server stopped", "error", err)
		}
	}()
	srv.logger.Info("rpc server started", "laddr", listener.Addr().String())
	return nil
}

func (srv *Server) Addr() string {
	if srv.listener == nil {
		return srv.httpServer.Addr
	}
	return srv.listener.Addr().String()
}

func (srv *Server) Stop(ctx context.Context) xerrors.XError {
	if err := srv.httpServer.Shutdown(ctx); err != nil {
		return xerrors.From(err)
	}
	srv.logger.Info("rpc server stopped")
	return nil
}
