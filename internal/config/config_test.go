package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	t.Setenv("SIM_TEST_VALUE", "  hello ")
	t.Setenv("SIM_TEST_BLANK", "   ")
	t.Setenv("SIM_TEST_INT", "42")
	t.Setenv("SIM_TEST_BOOL", "true")

	require.Equal(t, "hello", Get("SIM_TEST_VALUE", "x"))
	require.Equal(t, "x", Get("SIM_TEST_BLANK", "x"))
	require.Equal(t, "x", Get("SIM_TEST_UNSET", "x"))
	require.Equal(t, 42, GetInt("SIM_TEST_INT", 1))
	require.Equal(t, 1, GetInt("SIM_TEST_VALUE", 1))
	require.True(t, GetBool("SIM_TEST_BOOL", false))

	t.Setenv("SIM_TEST_TTL", "90s")
	require.Equal(t, 90*time.Second, GetDuration("SIM_TEST_TTL", time.Hour))
	require.Equal(t, time.Hour, GetDuration("SIM_TEST_VALUE", time.Hour))
}

func TestLoadFleet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fleet.yaml")
	yml := `
hub: Depot
vehicles: 2
drivers: 2
capacity: 10
date: "2026-03-02"
day_start: "07:30"
return_to_hub: true
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))

	f, err := LoadFleet(path)
	require.NoError(t, err)
	require.Equal(t, "Depot", f.Hub)
	require.Equal(t, 10, f.Capacity)
	require.Equal(t, 18.0, f.SpeedMPH, "unset fields keep defaults")

	fc, err := f.FleetConfig(time.Now())
	require.NoError(t, err)
	require.True(t, fc.Day.Start.Equal(time.Date(2026, 3, 2, 7, 30, 0, 0, time.Local)))
	require.True(t, fc.Day.End.Equal(time.Date(2026, 3, 2, 17, 0, 0, 0, time.Local)))
	require.True(t, fc.ReturnToHub)
}

func TestFleetConfigRejectsInvalid(t *testing.T) {
	f := DefaultFleet()
	f.Drivers = 4
	_, err := f.FleetConfig(time.Now())
	require.Error(t, err)

	f = DefaultFleet()
	f.Date = "March 2"
	_, err = f.FleetConfig(time.Now())
	require.Error(t, err)

	_, err = LoadFleet(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
