package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rawbytedev/bufview"
)

// demo config.toml key mapping to runtime settings.
type fileConfig struct {
	Elements    int     `toml:"elements"`
	Stride      int     `toml:"stride"`
	CheckMode   string  `toml:"check_mode"`
	Compress    bool    `toml:"compress"`
	MetricsAddr string  `toml:"metrics_addr"`
	PoolMin     int     `toml:"pool_min"`
	PoolMax     int     `toml:"pool_max"`
	PoolFactor  float64 `toml:"pool_factor"`
}

type demoConfig struct {
	Elements    int
	Stride      int
	CheckMode   string
	Compress    bool
	MetricsAddr string
	PoolMin     int
	PoolMax     int
	PoolFactor  float64
}

func defaultConfig() demoConfig {
	return demoConfig{
		Elements:    1024,
		Stride:      2,
		CheckMode:   "hook",
		Compress:    true,
		MetricsAddr: "localhost:6060",
		PoolMin:     64,
		PoolMax:     1 << 20,
		PoolFactor:  2,
	}
}

// loader for TOML config with default overlay.
func loadConfig(path string) (demoConfig, error) {
	cfg := defaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return demoConfig{}, fmt.Errorf("load demo config: %w", err)
	}

	if meta.IsDefined("elements") {
		cfg.Elements = raw.Elements
	}
	if meta.IsDefined("stride") {
		cfg.Stride = raw.Stride
	}
	if meta.IsDefined("check_mode") {
		cfg.CheckMode = strings.TrimSpace(raw.CheckMode)
	}
	if meta.IsDefined("compress") {
		cfg.Compress = raw.Compress
	}
	if meta.IsDefined("metrics_addr") {
		cfg.MetricsAddr = strings.TrimSpace(raw.MetricsAddr)
	}
	if meta.IsDefined("pool_min") {
		cfg.PoolMin = raw.PoolMin
	}
	if meta.IsDefined("pool_max") {
		cfg.PoolMax = raw.PoolMax
	}
	if meta.IsDefined("pool_factor") {
		cfg.PoolFactor = raw.PoolFactor
	}

	if cfg.Elements < 1 {
		return demoConfig{}, fmt.Errorf("load demo config: elements must be >= 1, got %d", cfg.Elements)
	}
	if cfg.Stride < 1 {
		return demoConfig{}, fmt.Errorf("load demo config: stride must be >= 1, got %d", cfg.Stride)
	}
	if _, err := parseCheckMode(cfg.CheckMode); err != nil {
		return demoConfig{}, fmt.Errorf("load demo config: %w", err)
	}
	if cfg.PoolMin < 1 || cfg.PoolMax < cfg.PoolMin || cfg.PoolFactor <= 1 {
		return demoConfig{}, fmt.Errorf(
			"load demo config: invalid pool sizing min=%d max=%d factor=%g",
			cfg.PoolMin, cfg.PoolMax, cfg.PoolFactor,
		)
	}
	return cfg, nil
}

func parseCheckMode(s string) (bufview.CheckMode, error) {
	switch s {
	case "hook":
		return bufview.CheckHook, nil
	case "abort":
		return bufview.CheckAbort, nil
	case "disabled":
		return bufview.CheckDisabled, nil
	default:
		return 0, fmt.Errorf("unknown check_mode %q (expected hook, abort or disabled)", s)
	}
}
