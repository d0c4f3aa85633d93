// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        int
	DBPath      string
	JWTSecret   string
	TokenTTL    time.Duration
	LogLevel    string
	LogFormat   string
	CORSOrigins string

	// PeriodFormat is the Go time layout that names accounting periods.
	PeriodFormat string

	// DateFormat is the layout of the date column of new records.
	DateFormat string

	// CarryOverLabel is a fmt pattern for the item of carry-over records; %s
	// is the name of the period being closed.
	CarryOverLabel string

	// Recurring lists records added to every new period, one per entry in the
	// form "item|creditor|debtors|amount", separated by newlines.
	Recurring []RecurringRecord
}

// RecurringRecord is a record template added to every new period.
type RecurringRecord struct {
	Item     string
	Creditor string
	Debtors  string
	Amount   string
}

// Load reads an optional .env file and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load() // Load .env file if present

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	ttl, err := time.ParseDuration(getEnv("TOKEN_TTL", "720h"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}

	recurring, err := ParseRecurring(getEnv("RECURRING_RECORDS", ""))
	if err != nil {
		return nil, err
	}

	label := getEnv("CARRY_OVER_LABEL", "carryover %s")
	if strings.Count(label, "%s") != 1 {
		return nil, fmt.Errorf("invalid CARRY_OVER_LABEL %q: want exactly one %%s for the closed period", label)
	}

	return &Config{
		Port:           port,
		DBPath:         getEnv("DB_PATH", "./data/ledger.db"),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		TokenTTL:       ttl,
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "text"),
		CORSOrigins:    getEnv("CORS_ORIGINS", "*"),
		PeriodFormat:   getEnv("PERIOD_FORMAT", "2006-01"),
		DateFormat:     getEnv("DATE_FORMAT", "02.01.2006"),
		CarryOverLabel: label,
		Recurring:      recurring,
	}, nil
}

// ParseRecurring parses the RECURRING_RECORDS format.
func ParseRecurring(raw string) ([]RecurringRecord, error) {
	var out []RecurringRecord
	for i, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Split(line, "|")
		if len(fields) != 4 {
			return nil, fmt.Errorf("invalid RECURRING_RECORDS line %d: want item|creditor|debtors|amount", i+1)
		}
		for j := range fields {
			fields[j] = strings.TrimSpace(fields[j])
		}
		out = append(out, RecurringRecord{
			Item:     fields[0],
			Creditor: fields[1],
			Debtors:  fields[2],
			Amount:   fields[3],
		})
	}
	return out, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
