package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath    string
	OutputDir string

	GoodThreshold    float64
	DiscardThreshold float64

	// ColumnRemovalCutoff is the (symbols+empties)/rows ratio above which a
	// column is treated as decorative and dropped during cleaning.
	ColumnRemovalCutoff float64

	CurrencyMarkers []string
	IgnoreWords     []string

	ReviewAddr string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:    getEnv("DB_PATH", filepath.Join(cwd, "data", "app.db")),
		OutputDir: getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),

		GoodThreshold:    getEnvFloat("MATCH_GOOD_THRESHOLD", 67),
		DiscardThreshold: getEnvFloat("MATCH_DISCARD_THRESHOLD", 0),

		ColumnRemovalCutoff: getEnvFloat("CURRENCY_COLUMN_CUTOFF", 0.9),

		CurrencyMarkers: getEnvList("CURRENCY_MARKERS", []string{"S/", "$", "USD", "US$", "€", "EUR", "£"}),
		IgnoreWords:     getEnvList("IGNORE_WORDS", []string{"DEL", "LA", "EL", "LOS", "LAS", "Y", "EN", "CON", "PARA", "S/"}),

		ReviewAddr: getEnv("REVIEW_ADDR", ":8080"),
	}

	return cfg, nil
}

func (c Config) IgnoreWordSet() map[string]struct{} {
	set := make(map[string]struct{}, len(c.IgnoreWords))
	for _, w := range c.IgnoreWords {
		set[strings.ToUpper(strings.TrimSpace(w))] = struct{}{}
	}
	return set
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string, fallback []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
