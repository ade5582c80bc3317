// Package config resolves pipepeek's runtime options from flag defaults and
// PIPEPEEK_* environment variables. There is no config file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pipepeek/internal/session"
)

// Host selects the terminal implementation.
type Host string

const (
	HostTea Host = "tea"
	HostRaw Host = "raw"
)

// Environment variables consulted for defaults.
const (
	EnvShell    = "PIPEPEEK_SHELL"
	EnvPrompt   = "PIPEPEEK_PROMPT"
	EnvHost     = "PIPEPEEK_UI"
	EnvLogFile  = "PIPEPEEK_LOG_FILE"
	EnvLogLevel = "PIPEPEEK_LOG_LEVEL"
)

// Options are the settings of one pipepeek run.
type Options struct {
	Shell       string
	Prompt      string
	Placeholder string
	Host        Host
	Copy        bool
	Debug       bool
	LogFile     string
	LogLevel    string
	// InputFile replaces stdin as the session input when set.
	InputFile string
}

// Defaults returns the built-in options overridden by the environment.
func Defaults() Options {
	return Options{
		Shell:       envOr(EnvShell, ""),
		Prompt:      envOr(EnvPrompt, session.DefaultPrompt),
		Placeholder: session.DefaultPlaceholder,
		Host:        Host(envOr(EnvHost, string(HostTea))),
		LogFile:     envOr(EnvLogFile, ""),
		LogLevel:    envOr(EnvLogLevel, "info"),
	}
}

// Validate checks option values and applies Debug.
func (o *Options) Validate() error {
	o.Host = Host(strings.ToLower(strings.TrimSpace(string(o.Host))))
	switch o.Host {
	case HostTea, HostRaw:
	case "":
		o.Host = HostTea
	default:
		return fmt.Errorf("unknown ui %q (want %q or %q)", o.Host, HostTea, HostRaw)
	}
	if o.Prompt == "" {
		o.Prompt = session.DefaultPrompt
	}
	if strings.ContainsAny(o.Prompt, "\r\n") {
		return errors.New("prompt must be a single line")
	}
	if o.Debug {
		o.LogLevel = "debug"
		if o.LogFile == "" {
			p, err := DefaultLogPath()
			if err != nil {
				return err
			}
			o.LogFile = p
		}
	}
	return nil
}

// Dir returns the pipepeek directory under the user cache base. On Linux this
// is typically $XDG_CACHE_HOME/pipepeek. Falls back to HOME when the cache
// dir is unavailable.
func Dir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil || strings.TrimSpace(base) == "" {
		if home, herr := os.UserHomeDir(); herr == nil {
			base = home
		} else {
			return "", errors.New("cannot determine cache directory")
		}
	}
	return filepath.Join(base, "pipepeek"), nil
}

// DefaultLogPath is where --debug writes its log when no file is given.
func DefaultLogPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "pipepeek.log"), nil
}

func envOr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return def
}
