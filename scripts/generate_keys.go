//go:build ignore

// This script generates random API keys for the cache refresh endpoints.
// Run with: go run scripts/generate_keys.go [-n count]
package main

import (
	"crypto/rand"
	"encoding/base64"
	"flag"
	"fmt"
	"os"
	"strings"
)

func generateKey(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

func main() {
	count := flag.Int("n", 1, "number of keys to generate")
	flag.Parse()

	if *count < 1 {
		fmt.Fprintln(os.Stderr, "-n must be at least 1")
		os.Exit(2)
	}

	keys := make([]string, 0, *count)
	for i := 0; i < *count; i++ {
		key, err := generateKey(24)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating refresh key: %v\n", err)
			os.Exit(1)
		}
		keys = append(keys, key)
	}

	fmt.Println("# Clients send one of these in the X-API-Key header to refresh the cache")
	fmt.Printf("REFRESH_API_KEYS=%s\n", strings.Join(keys, ","))
	fmt.Println()
	fmt.Println("# Use different keys for each environment and never commit them")
}
