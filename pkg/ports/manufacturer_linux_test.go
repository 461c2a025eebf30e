//go:build linux
// +build linux

package ports

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestManufacturerSysfs(t *testing.T) {
	dir, err := ioutil.TempDir("", "sysfs")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	// usb-serial: tty/ttyUSB0/device -> usb1/1-1/1-1:1.0/ttyUSB0
	usbDev := filepath.Join(dir, "devices", "usb1", "1-1")
	port := filepath.Join(usbDev, "1-1:1.0", "ttyUSB0")
	require.NoError(t, os.MkdirAll(port, 0755))
	require.NoError(t, ioutil.WriteFile(filepath.Join(usbDev, "manufacturer"), []byte("FTDI\n"), 0644))

	ttyDir := filepath.Join(dir, "class", "tty")
	require.NoError(t, os.MkdirAll(filepath.Join(ttyDir, "ttyUSB0"), 0755))
	require.NoError(t, os.Symlink(port, filepath.Join(ttyDir, "ttyUSB0", "device")))
	require.NoError(t, os.MkdirAll(filepath.Join(ttyDir, "ttyS0"), 0755))

	saved := sysfsRoot
	sysfsRoot = ttyDir
	defer func() { sysfsRoot = saved }()

	require.Equal(t, "FTDI", manufacturer("/dev/ttyUSB0"))
	require.Equal(t, "", manufacturer("/dev/ttyS0"))
	require.Equal(t, "", manufacturer("/dev/ttyUSB9"))
}
