package config

import (
    "os"
    "strconv"
    "strings"
    "time"
)

// The env helpers fall back to def when the variable is unset, empty or
// does not parse.

func getenv(key, def string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return def
}

func envBool(key string, def bool) bool {
    switch strings.ToLower(os.Getenv(key)) {
    case "1", "true", "yes", "on":
        return true
    case "0", "false", "no", "off":
        return false
    }
    return def
}

func envInt(key string, def int) int {
    if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
        return n
    }
    return def
}

func envDur(key string, def time.Duration) time.Duration {
    if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
        return d
    }
    return def
}

// parseList splits a comma separated value into a set, optionally
// upper-casing each element.
func parseList(s string, upper bool) map[string]bool {
    m := map[string]bool{}
    for _, p := range strings.Split(s, ",") {
        p = strings.TrimSpace(p)
        if upper {
            p = strings.ToUpper(p)
        }
        if p != "" {
            m[p] = true
        }
    }
    return m
}
