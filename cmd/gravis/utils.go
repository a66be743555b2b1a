// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/gravis-finance/incentives/genesis"
	"github.com/gravis-finance/incentives/gravis"
	"github.com/gravis-finance/incentives/log"
	"github.com/gravis-finance/incentives/metrics"
	"github.com/gravis-finance/incentives/solo"
)

const maxRequestBodySize = 200 * 1024

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		logger.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

func readIntFromUInt64Flag(val uint64) (int, error) {
	i := int(val)
	if i < 0 {
		return 0, fmt.Errorf("invalid value %d ", val)
	}
	return i, nil
}

func initLogger(ctx *cli.Context) (*slog.LevelVar, error) {
	lvl, err := readIntFromUInt64Flag(ctx.Uint64(verbosityFlag.Name))
	if err != nil {
		return nil, errors.Wrap(err, "parse verbosity flag")
	}
	level := new(slog.LevelVar)
	level.Set(log.FromLegacyLevel(lvl))

	var handler slog.Handler
	if ctx.Bool(jsonLogsFlag.Name) {
		handler = log.JSONHandlerWithLevel(os.Stderr, level)
	} else {
		useColor := (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"
		handler = log.NewTerminalHandlerWithLevel(os.Stderr, level, useColor)
	}
	log.SetDefault(log.NewLogger(handler))
	return level, nil
}

func selectGenesis(ctx *cli.Context) (*genesis.Genesis, error) {
	path := ctx.String(configFlag.Name)
	if path == "" {
		return genesis.NewDevnet(), nil
	}
	cfg, err := genesis.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return genesis.New(cfg, name), nil
}

func makeInstanceDir(dataDir string, gene *genesis.Genesis) (string, error) {
	if dataDir == "" {
		return "", errors.New("data dir required")
	}
	instanceDir := filepath.Join(dataDir, fmt.Sprintf("instance-%v-%d", gene.Name(), gene.LaunchTime()))
	if err := os.MkdirAll(instanceDir, 0o700); err != nil {
		return "", errors.Wrapf(err, "create instance dir [%v]", instanceDir)
	}
	return instanceDir, nil
}

func defaultDataDir() string {
	if home := homeDir(); home != "" {
		return filepath.Join(home, ".gravis")
	}
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

// httpServer is a listening server run until its context is done.
type httpServer struct {
	srv      *http.Server
	listener net.Listener
}

func (s *httpServer) serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.srv.Serve(s.listener)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func requestBodyLimit(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		h.ServeHTTP(w, r)
	})
}

func startAPIServer(addr string, handler http.Handler) (string, *httpServer, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen API addr [%v]", addr)
	}
	srv := &http.Server{Handler: requestBodyLimit(handler), ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}
	return "http://" + listener.Addr().String() + "/", &httpServer{srv, listener}, nil
}

func startMetricsServer(addr string) (string, *httpServer, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen metrics API addr [%v]", addr)
	}

	router := mux.NewRouter()
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
	handler := handlers.CompressHandler(router)

	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}
	return "http://" + listener.Addr().String() + "/metrics", &httpServer{srv, listener}, nil
}

func startAdminServer(addr string, handler http.Handler) (string, *httpServer, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen admin API addr [%v]", addr)
	}
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}
	return "http://" + listener.Addr().String() + "/admin", &httpServer{srv, listener}, nil
}

func printStartupMessage(gene *genesis.Genesis, chain *solo.Chain, dataDir string, apiURL string) {
	tableHead := `
┌────────────────────────────────────────────┬────────────────────────────────────────────────────────────────────┐
│                   Address                  │                             Private Key                            │`
	tableContent := `
├────────────────────────────────────────────┼────────────────────────────────────────────────────────────────────┤
│ %v │ %v │`
	tableEnd := `
└────────────────────────────────────────────┴────────────────────────────────────────────────────────────────────┘`

	head := chain.Head()

	info := fmt.Sprintf(`Starting %v
    Network     [ %v ]
    Head        [ %v #%v @%v ]
    Data dir    [ %v ]
    API portal  [ %v ]`,
		"Gravis "+fullVersion(),
		gene.Name(),
		head.Root.AbbrevString(), head.Number, time.Unix(int64(head.Time), 0),
		dataDir,
		apiURL)

	if gene.Name() == "devnet" {
		info += tableHead
		for _, a := range genesis.DevAccounts() {
			info += fmt.Sprintf(tableContent,
				a.Address,
				gravis.BytesToBytes32(a.PrivateKey.Serialize()),
			)
		}
		info += tableEnd
	}

	fmt.Print(info + "\r\n")
}
