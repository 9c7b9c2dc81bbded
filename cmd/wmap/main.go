package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lcalzada-xor/wmap/internal/config"
	"github.com/lcalzada-xor/wmap/internal/control"
	"github.com/lcalzada-xor/wmap/internal/decrypt"
	"github.com/lcalzada-xor/wmap/internal/domain"
	"github.com/lcalzada-xor/wmap/internal/dot11"
	"github.com/lcalzada-xor/wmap/internal/export"
	"github.com/lcalzada-xor/wmap/internal/pipeline"
	"github.com/lcalzada-xor/wmap/internal/session"
	"github.com/lcalzada-xor/wmap/internal/source/drone"
	"github.com/lcalzada-xor/wmap/internal/source/mock"
	"github.com/lcalzada-xor/wmap/internal/source/pcapfile"
	"github.com/lcalzada-xor/wmap/internal/store"
	"github.com/lcalzada-xor/wmap/internal/telemetry"
	"github.com/lcalzada-xor/wmap/internal/webapi"
)

func main() {
	cli := config.ParseCLI()

	level := slog.LevelInfo
	if cli.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger.Info("wmap starting", "mock", cli.Mock, "pcap", cli.PcapPath, "drone_host", cli.DroneHost)

	shutdownTracer, err := telemetry.InitTracer()
	if err != nil {
		logger.Error("failed to init tracer", "error", err)
		os.Exit(1)
	}
	defer shutdownTracer(context.Background())
	telemetry.InitMetrics()

	xmlCfg, err := config.Load(cli.ConfigPath)
	if err != nil {
		logger.Error("configuration error", "error", err)
		os.Exit(1)
	}

	gateway := decrypt.NewGateway()
	for _, k := range xmlCfg.Keys {
		switch k.Type {
		case domain.KeyTypeWEP:
			gateway.RegisterWEPKey(k.BSSID, k.Bytes)
		case domain.KeyTypeWPA:
			gateway.RegisterWPAPSK(k.SSID, decrypt.DerivePMK(k.SSID, k.Passphrase))
		}
	}

	obsStore := store.New()
	stats := &domain.Stats{}
	startTime := time.Now()

	handler := &dot11.Handler{Store: obsStore, Stats: stats, Gateway: gateway}

	webSrv := webapi.NewServer(obsStore, stats)

	var frameWriter *export.InterestingFrameWriter
	if xmlCfg.Export.Pcap && xmlCfg.OutputDir != "" {
		fw, err := export.NewInterestingFrameWriter(xmlCfg.OutputDir + "/wmap_interesting.pcap")
		if err != nil {
			logger.Warn("interesting-frames capture disabled", "error", err)
		} else {
			frameWriter = fw
			defer frameWriter.Close()
		}
	}
	handler.Interesting = func(pkt *domain.Packet) {
		if frameWriter != nil {
			if err := frameWriter.Write(pkt.Data, pkt.Time); err != nil {
				logger.Warn("interesting-frame write failed", "error", err)
			}
		}
		if pkt.CurrentAP != nil {
			webSrv.WS.NotifyAP(store.SnapshotAP(pkt.CurrentAP))
		}
		if pkt.CurrentClient != nil {
			webSrv.WS.NotifyClient(store.SnapshotClient(pkt.CurrentClient))
		}
	}

	statsObserver := &telemetry.StatsObserver{}
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				statsObserver.Observe(stats.Snapshot())
				telemetry.APCount.Set(float64(obsStore.APCount()))
				telemetry.ClientCount.Set(float64(obsStore.ClientCount()))
			}
		}
	}()

	writer := &export.Writer{Store: obsStore, OutputDir: xmlCfg.OutputDir}
	exporters := map[string]control.Exporter{}
	if xmlCfg.Export.Wigle {
		exporters["wigle"] = func() {
			if err := writer.WriteWigle(startTime); err != nil {
				logger.Warn("wigle export failed", "error", err)
			}
		}
	}
	if xmlCfg.Export.KML {
		exporters["kml"] = func() {
			if err := writer.WriteKML(startTime); err != nil {
				logger.Warn("kml export failed", "error", err)
			}
		}
	}
	if xmlCfg.Export.Clients {
		exporters["clients"] = func() {
			if err := writer.WriteClientCSV(startTime); err != nil {
				logger.Warn("client csv export failed", "error", err)
			}
		}
	}
	if xmlCfg.Export.Probes {
		exporters["probes"] = func() {
			if err := writer.WriteProbeCSV(startTime); err != nil {
				logger.Warn("probe csv export failed", "error", err)
			}
		}
	}
	if xmlCfg.Export.APClients {
		exporters["apclients"] = func() {
			if err := writer.WriteAPClientsCSV(startTime); err != nil {
				logger.Warn("ap-clients csv export failed", "error", err)
			}
		}
	}
	if xmlCfg.Export.PDF {
		exporters["pdf"] = func() {
			if err := writer.WritePDFSummary(startTime, stats.Snapshot().Packets); err != nil {
				logger.Warn("pdf export failed", "error", err)
			}
		}
	}

	responder := &control.Responder{
		Store: obsStore, Stats: stats, StartTime: startTime,
		Exporters: exporters, Log: logger,
	}
	go func() {
		if err := responder.Run(ctx, cli.ControlAddr); err != nil {
			logger.Error("control responder stopped", "error", err)
		}
	}()

	httpSrv := &http.Server{Addr: cli.MetricsAddr, Handler: webSrv.Router()}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpSrv.Shutdown(shutdownCtx)
	}()
	go func() {
		logger.Info("live query surface listening", "addr", cli.MetricsAddr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Warn("live query surface stopped", "error", err)
		}
	}()

	if xmlCfg.OutputDir != "" {
		sessPath := xmlCfg.OutputDir + "/wmap-session.db"
		if sess, err := session.Open(sessPath); err != nil {
			logger.Warn("session store disabled", "error", err)
		} else {
			defer sess.Close()
			go sess.RunPeriodic(ctx, obsStore, 30*time.Second, func(err error) {
				logger.Warn("session snapshot failed", "error", err)
			})
		}
	}

	advance := obsStore.Advance

	switch {
	case cli.Mock:
		pipeline.RunFile(ctx, mock.New(), handler, advance, logger)

	case cli.PcapPath != "":
		src, err := pcapfile.Open(cli.PcapPath)
		if err != nil {
			logger.Error("failed to open pcap file", "error", err)
			os.Exit(1)
		}
		defer src.Close()
		pipeline.RunFile(ctx, src, handler, advance, logger)

	case cli.DroneHost != "":
		src := drone.New(cli.DroneHost, cli.DronePort)
		pipeline.RunStream(ctx, src, handler, advance, logger)

	default:
		logger.Error("no frame source configured: pass -pcap, -drone-host, or -mock")
		os.Exit(1)
	}

	logger.Info("ingest finished, shutting down")
}
