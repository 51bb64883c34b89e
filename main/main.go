// Demo binary: walks the view/slice/snapshot surface with a pooled
// allocator and serves /metrics and pprof while doing so.
package main

import (
	"flag"
	"net/http"
	_ "net/http/pprof"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rawbytedev/bufview"
	"github.com/rawbytedev/bufview/pkg/alloc"
	"github.com/rawbytedev/bufview/pkg/snapwire"
)

func main() {
	configPath := flag.String("config", "", "path to demo config.toml")
	flag.Parse()

	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Str("app", "bufview-demo").Logger()

	cfg := defaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = loadConfig(*configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("config")
		}
	}

	mode, _ := parseCheckMode(cfg.CheckMode)
	bufview.SetCheckMode(mode)

	alloc.RegisterMetrics()
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		log.Error().Err(http.ListenAndServe(cfg.MetricsAddr, nil)).Msg("metrics listener stopped")
	}()

	pool := alloc.NewPool[float64](cfg.PoolMin, cfg.PoolMax, cfg.PoolFactor)

	view, err := bufview.NewWith(cfg.Elements, pool)
	if err != nil {
		log.Fatal().Err(err).Msg("allocate view")
	}
	defer view.Close()

	for i := 0; i < view.Len(); i++ {
		if err := view.Set(i, float64(i)); err != nil {
			log.Fatal().Err(err).Msg("fill view")
		}
	}
	log.Info().
		Int("len", view.Len()).
		Int("bytes", bufview.ByteSize(view)).
		Msg("view allocated and filled")

	slice, err := view.Slice(0, view.Len(), cfg.Stride)
	if err != nil {
		log.Fatal().Err(err).Msg("slice view")
	}
	defer slice.Close()

	var sum float64
	for _, x := range slice.All() {
		sum += x
	}
	log.Info().
		Int("extent", slice.Extent()).
		Int("stride", slice.Stride()).
		Float64("sum", sum).
		Msg("strided traversal")

	if slice.Extent() >= 2 {
		inner, err := slice.Slice(1, slice.Extent(), 2)
		if err != nil {
			log.Fatal().Err(err).Msg("slice slice")
		}
		first, _ := inner.At(0)
		log.Info().
			Int("extent", inner.Extent()).
			Int("stride", inner.Stride()).
			Float64("first", first).
			Msg("nested slice")
		inner.Close()
	}

	record, err := snapwire.EncodeSlice(slice, snapwire.Options{Compress: cfg.Compress})
	if err != nil {
		log.Fatal().Err(err).Msg("encode snapshot")
	}
	restored, err := snapwire.Decode[float64](record, snapwire.Options{})
	if err != nil {
		log.Fatal().Err(err).Msg("decode snapshot")
	}
	defer restored.Close()
	log.Info().
		Int("record_bytes", len(record)).
		Int("restored_len", restored.Len()).
		Bool("compressed", cfg.Compress).
		Msg("snapshot round-trip")

	if _, err := view.At(view.Len()); err != nil {
		log.Info().Err(err).Msg("bounds policy demonstration")
	}
}
