// Package config implements the two configuration surfaces SPEC_FULL.md
// §6.1/6.2 name: CLI flags (source selection, control port, mock mode),
// flag-over-environment in the teacher's style, and an XML-flavored
// decryption-key/export-toggle file loaded by Load.
package config

import (
	"flag"
	"os"
	"strconv"
)

// CLI holds the command-line-derived configuration for cmd/wmap.
// Flags take precedence over WMAP_*-prefixed environment variables.
type CLI struct {
	ConfigPath string
	PcapPath   string
	DroneHost  string
	DronePort  int
	ControlAddr string
	MetricsAddr string
	Mock       bool
	Debug      bool
}

// ParseCLI parses os.Args (via the flag package) the way the teacher's
// original config loader did: environment variables seed the flag
// defaults, then flag.Parse overrides them from the command line.
func ParseCLI() *CLI {
	c := &CLI{}

	configPath := getEnv("WMAP_CONFIG", "/etc/wmap/wmap.xml")
	pcapPath := getEnv("WMAP_PCAP", "")
	droneHost := getEnv("WMAP_DRONE_HOST", "")
	dronePort := int(getEnvFloat("WMAP_DRONE_PORT", 3501))
	controlAddr := getEnv("WMAP_CONTROL_ADDR", ":1270")
	metricsAddr := getEnv("WMAP_METRICS_ADDR", ":9273")
	mock := getEnvBool("WMAP_MOCK", false)
	debug := getEnvBool("WMAP_DEBUG", false)

	flag.StringVar(&c.ConfigPath, "config", configPath, "Path to the wmap XML configuration file")
	flag.StringVar(&c.PcapPath, "pcap", pcapPath, "Path to a pcap capture file to replay (mutually exclusive with -drone-host)")
	flag.StringVar(&c.DroneHost, "drone-host", droneHost, "Kismet-drone server address")
	flag.IntVar(&c.DronePort, "drone-port", dronePort, "Kismet-drone server port")
	flag.StringVar(&c.ControlAddr, "control-addr", controlAddr, "UDP address for the control-plane responder")
	flag.StringVar(&c.MetricsAddr, "metrics-addr", metricsAddr, "HTTP address for /metrics and the live query surface")
	flag.BoolVar(&c.Mock, "mock", mock, "Run against a synthetic in-process packet generator instead of a real source")
	flag.BoolVar(&c.Debug, "debug", debug, "Enable debug-level logging")

	flag.Parse()
	return c
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}
