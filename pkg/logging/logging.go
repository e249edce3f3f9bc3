package logging

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/diode"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Application is attached to every event
const Application = "mis_weekly_report_gen_service"

const (
	FormatJSON    = "json"
	FormatConsole = "console"

	diodeSize         = 1000
	diodePollInterval = 10 * time.Millisecond
	dialTimeout       = 5 * time.Second
)

type Config struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type LogstashConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

func (c LogstashConfig) Enabled() bool {
	return c.Host != "" && c.Port > 0
}

func (c LogstashConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// New builds the process logger. The returned closer flushes the asynchronous
// writers and must be closed before exit.
func New(cfg Config, logstash LogstashConfig) (zerolog.Logger, io.Closer, error) {
	return build(os.Stdout, cfg, logstash, (&net.Dialer{Timeout: dialTimeout}).Dial)
}

type dialFunc func(network, addr string) (net.Conn, error)

func build(stdout io.Writer, cfg Config, logstash LogstashConfig, dial dialFunc) (zerolog.Logger, io.Closer, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), nil, err
	}

	var closers closerGroup
	writers := []io.Writer{stdoutWriter(stdout, cfg.Format)}

	if cfg.File != "" {
		file := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
		}
		writers = append(writers, file)
		closers = append(closers, file)
	}

	if logstash.Enabled() {
		shipper := diode.NewWriter(&tcpWriter{addr: logstash.Addr(), dial: dial}, diodeSize, diodePollInterval, func(missed int) {
			fmt.Fprintf(os.Stderr, "logstash shipping dropped %d messages\n", missed)
		})
		writers = append(writers, shipper)
		closers = append(closers, shipper)
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Str("application", Application).
		Logger()

	return logger, closers, nil
}

func stdoutWriter(out io.Writer, format string) io.Writer {
	if format == FormatConsole {
		return zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	return out
}

func parseLevel(level string) (zerolog.Level, error) {
	if level == "" {
		return zerolog.InfoLevel, nil
	}
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return parsed, nil
}

// tcpWriter ships JSON lines to logstash, redialing after a failed write.
type tcpWriter struct {
	addr string
	dial dialFunc

	mu   sync.Mutex
	conn net.Conn
}

func (w *tcpWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.conn == nil {
		conn, err := w.dial("tcp", w.addr)
		if err != nil {
			return 0, fmt.Errorf("failed to connect to logstash at %s: %w", w.addr, err)
		}
		w.conn = conn
	}

	n, err := w.conn.Write(p)
	if err != nil {
		_ = w.conn.Close()
		w.conn = nil
		return n, fmt.Errorf("failed to ship log line: %w", err)
	}
	return n, nil
}

func (w *tcpWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.conn == nil {
		return nil
	}
	err := w.conn.Close()
	w.conn = nil
	return err
}

type closerGroup []io.Closer

func (g closerGroup) Close() error {
	var errs []error
	for _, c := range g {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
