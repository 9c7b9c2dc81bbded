package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcalzada-xor/wmap/internal/domain"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wmap.xml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadParsesKeysOutputAndExportToggles(t *testing.T) {
	path := writeConfig(t, `<wmap>
  <keys>
    <key type="wep" bssid="aa:bb:cc:dd:ee:ff" hex="0102030405"/>
    <key type="wpa" ssid="MyNetwork" passphrase="supersecret"/>
  </keys>
  <output dir="/var/lib/wmap/export"/>
  <export wigle="true" kml="true" clients="false" probes="false" apclients="true" pcap="false" pdf="true"/>
</wmap>`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Keys, 2)

	assert.Equal(t, domain.KeyTypeWEP, cfg.Keys[0].Type)
	assert.Len(t, cfg.Keys[0].Bytes, 5)
	assert.Equal(t, domain.KeyTypeWPA, cfg.Keys[1].Type)
	assert.Equal(t, "MyNetwork", cfg.Keys[1].SSID)
	assert.Equal(t, "/var/lib/wmap/export", cfg.OutputDir)
	assert.True(t, cfg.Export.Wigle)
	assert.True(t, cfg.Export.KML)
	assert.False(t, cfg.Export.Clients)
	assert.True(t, cfg.Export.APClients)
	assert.True(t, cfg.Export.PDF)
}

func TestLoadRejectsBadWEPKeyLength(t *testing.T) {
	path := writeConfig(t, `<wmap>
  <keys><key type="wep" bssid="aa:bb:cc:dd:ee:ff" hex="0102"/></keys>
  <output dir="/tmp"/>
</wmap>`)

	_, err := Load(path)
	assert.Error(t, err, "expected an error for a 2-byte WEP key")
}

func TestLoadRejectsUnknownKeyType(t *testing.T) {
	path := writeConfig(t, `<wmap>
  <keys><key type="bogus"/></keys>
  <output dir="/tmp"/>
</wmap>`)

	_, err := Load(path)
	assert.Error(t, err, "expected an error for an unknown key type")
}

func TestLoadFailsOnMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.xml"))
	assert.Error(t, err, "expected an error for a missing config file")
}
