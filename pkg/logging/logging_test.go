package logging

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noDial(string, string) (net.Conn, error) {
	return nil, errors.New("dialing disabled")
}

func TestBuild_JSONStdout(t *testing.T) {
	var out bytes.Buffer
	logger, closer, err := build(&out, Config{Level: "info"}, LogstashConfig{}, noDial)
	require.NoError(t, err)
	defer closer.Close()

	logger.Debug().Msg("hidden")
	logger.Info().Str("section", "vdi").Msg("report section fetch failed")

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 1)

	var event map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &event))
	assert.Equal(t, Application, event["application"])
	assert.Equal(t, "vdi", event["section"])
	assert.Equal(t, "info", event["level"])
}

func TestBuild_ConsoleFormat(t *testing.T) {
	var out bytes.Buffer
	logger, closer, err := build(&out, Config{Format: FormatConsole}, LogstashConfig{}, noDial)
	require.NoError(t, err)
	defer closer.Close()

	logger.Info().Msg("generation done")

	assert.Contains(t, out.String(), "generation done")
	assert.Contains(t, out.String(), Application)
}

func TestBuild_InvalidLevel(t *testing.T) {
	_, _, err := build(&bytes.Buffer{}, Config{Level: "loud"}, LogstashConfig{}, noDial)
	assert.Error(t, err)
}

func TestBuild_RotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "weekly.log")

	logger, closer, err := build(&bytes.Buffer{}, Config{File: path}, LogstashConfig{}, noDial)
	require.NoError(t, err)

	logger.Warn().Msg("written to file")
	require.NoError(t, closer.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "written to file")
}

func TestBuild_LogstashShipping(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	received := make(chan string, 1)
	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		line, _ := bufio.NewReader(conn).ReadString('\n')
		received <- line
	}()

	addr := listener.Addr().(*net.TCPAddr)
	logger, closer, err := build(&bytes.Buffer{}, Config{}, LogstashConfig{Host: "127.0.0.1", Port: addr.Port}, net.Dial)
	require.NoError(t, err)

	logger.Info().Msg("shipped")
	require.NoError(t, closer.Close())

	select {
	case line := <-received:
		assert.Contains(t, line, `"message":"shipped"`)
		assert.Contains(t, line, `"application":"`+Application+`"`)
	case <-time.After(5 * time.Second):
		t.Fatal("logstash listener received nothing")
	}
}

func TestTCPWriter_RedialsAfterFailure(t *testing.T) {
	dials := 0
	w := &tcpWriter{addr: "logstash:5000", dial: func(string, string) (net.Conn, error) {
		dials++
		client, server := net.Pipe()
		_ = server.Close()
		return client, nil
	}}

	_, err := w.Write([]byte("{}\n"))
	assert.Error(t, err)
	_, err = w.Write([]byte("{}\n"))
	assert.Error(t, err)

	assert.Equal(t, 2, dials)
	assert.NoError(t, w.Close())
}

func TestLogstashConfig(t *testing.T) {
	assert.False(t, LogstashConfig{Host: "elk"}.Enabled())
	assert.False(t, LogstashConfig{Port: 5000}.Enabled())

	cfg := LogstashConfig{Host: "elk", Port: 5000}
	assert.True(t, cfg.Enabled())
	assert.Equal(t, "elk:5000", cfg.Addr())
}
