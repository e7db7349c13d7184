package config

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("http_server_port: 9090\nleveldb_path: /tmp/easybtc\nlog_level: debug\n")
	require.NoError(t, ioutil.WriteFile(path, data, 0644))

	conf, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 9090, conf.HttpServerPort)
	require.Equal(t, "/tmp/easybtc", conf.LevelDBPath)
	require.Equal(t, "debug", conf.LogLevel)
}

func TestLoadNotExist(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "not-exist.yaml"))
	require.Error(t, err)
}

func TestDefaultConfig(t *testing.T) {
	conf := DefaultConfig()
	data, err := conf.Marshal()
	require.NoError(t, err)

	loaded := new(Config)
	require.NoError(t, loaded.Unmarshal(data))
	require.Equal(t, conf, loaded)
}
