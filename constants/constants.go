package constants

import "os"

func GetMetadataEndpoint() string {
	endpoint := os.Getenv("SCORECONV_METADATA_ENDPOINT")
	if endpoint != "" {
		return endpoint
	}
	return "http://localhost:8000"
}

func GetMetadataTable() string {
	table := os.Getenv("SCORECONV_METADATA_TABLE")
	if table != "" {
		return table
	}
	return "scoreconv-metadata"
}

func GetListenAddr() string {
	addr := os.Getenv("SCORECONV_LISTEN_ADDR")
	if addr != "" {
		return addr
	}
	return ":8080"
}

// Tolerance is the epsilon for beat/length sums throughout the pipeline:
// measure totals, decomposition remainders, exact-match lookups.
const Tolerance = 1e-3

// PositionEpsilon is the default tolerance for clustering and comparing
// note positions.
const PositionEpsilon = 0.01

// DefaultTempo (BPM) applies when a score carries no tempo marking.
const DefaultTempo = 120
