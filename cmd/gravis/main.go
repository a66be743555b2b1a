// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/gravis-finance/incentives/api"
	"github.com/gravis-finance/incentives/api/admin"
	"github.com/gravis-finance/incentives/log"
	"github.com/gravis-finance/incentives/lvldb"
	"github.com/gravis-finance/incentives/metrics"
	"github.com/gravis-finance/incentives/solo"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "gravis")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "Gravis",
		Usage:     "Incentive engine of Gravis Finance",
		Copyright: "2025 Gravis Finance",
		Flags: []cli.Flag{
			configFlag,
			dataDirFlag,
			persistFlag,
			cacheFlag,
			apiAddrFlag,
			apiCorsFlag,
			enableAPILogsFlag,
			blockIntervalFlag,
			verbosityFlag,
			jsonLogsFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			enableAdminFlag,
			adminAddrFlag,
		},
		Action: defaultAction,
		Commands: []cli.Command{
			{
				Name:   "dump-genesis",
				Usage:  "print the genesis config in YAML",
				Flags:  []cli.Flag{configFlag},
				Action: dumpGenesisAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { logger.Info("exited") }()

	logLevel, err := initLogger(ctx)
	if err != nil {
		return err
	}
	gene, err := selectGenesis(ctx)
	if err != nil {
		return err
	}

	cacheMB := normalizeCacheSize(ctx.Int(cacheFlag.Name))
	var (
		db          *lvldb.LevelDB
		instanceDir = "Memory"
	)
	if ctx.Bool(persistFlag.Name) {
		instanceDir, err = makeInstanceDir(ctx.String(dataDirFlag.Name), gene)
		if err != nil {
			return err
		}
		db, err = lvldb.New(filepath.Join(instanceDir, "main.db"), lvldb.Options{
			CacheSize:              cacheMB / 2,
			OpenFilesCacheCapacity: suggestFDCache(),
		})
	} else {
		db, err = lvldb.NewMem()
	}
	if err != nil {
		return errors.Wrap(err, "open main database")
	}
	defer func() { logger.Info("closing main database..."); db.Close() }()

	chain, err := solo.New(db, gene, solo.Options{
		BlockInterval: ctx.Uint64(blockIntervalFlag.Name),
		CacheSize:     cacheMB / 2 * 1024,
	})
	if err != nil {
		return err
	}

	group, groupCtx := errgroup.WithContext(exitSignal)

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
		url, srv, err := startMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return err
		}
		logger.Info("metrics server started", "url", url)
		group.Go(func() error { return srv.serve(groupCtx) })
	}

	var apiLogs atomic.Bool
	apiLogs.Store(ctx.Bool(enableAPILogsFlag.Name))

	if ctx.Bool(enableAdminFlag.Name) {
		interval := time.Duration(ctx.Uint64(blockIntervalFlag.Name)) * time.Second
		adm := admin.New(logLevel, &apiLogs, admin.NewHealth(chain, 3*interval))
		url, srv, err := startAdminServer(ctx.String(adminAddrFlag.Name), adm.HTTPHandler())
		if err != nil {
			return err
		}
		logger.Info("admin server started", "url", url)
		group.Go(func() error { return srv.serve(groupCtx) })
	}

	handler, closeSubs := api.New(chain, api.Options{
		AllowedOrigins:  ctx.String(apiCorsFlag.Name),
		EnableReqLogger: &apiLogs,
		EnableMetrics:   ctx.Bool(enableMetricsFlag.Name),
		Network:         gene.Name(),
		BlockInterval:   ctx.Uint64(blockIntervalFlag.Name),
	})
	defer func() { logger.Info("closing subscriptions..."); closeSubs() }()

	apiURL, apiSrv, err := startAPIServer(ctx.String(apiAddrFlag.Name), handler)
	if err != nil {
		return err
	}
	group.Go(func() error { return apiSrv.serve(groupCtx) })
	group.Go(func() error { return chain.Run(groupCtx) })
	group.Go(func() error {
		houseKeeping(groupCtx, time.Duration(ctx.Uint64(blockIntervalFlag.Name))*time.Second)
		return nil
	})

	printStartupMessage(gene, chain, instanceDir, apiURL)

	return group.Wait()
}

func dumpGenesisAction(ctx *cli.Context) error {
	gene, err := selectGenesis(ctx)
	if err != nil {
		return err
	}
	data, err := gene.Config().Marshal()
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}
