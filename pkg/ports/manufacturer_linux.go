//go:build linux
// +build linux

package ports

import (
	"io/ioutil"
	"path/filepath"
	"strings"
)

// sysfsRoot is where tty class devices are found.
var sysfsRoot = "/sys/class/tty"

// manufacturer reads the USB manufacturer string from sysfs.
// The tty device hangs below the USB interface (cdc-acm) or below a
// usb-serial port, so the lookup walks up a few levels to the USB device.
func manufacturer(device string) string {
	devPath, err := filepath.EvalSymlinks(filepath.Join(sysfsRoot, filepath.Base(device), "device"))
	if err != nil {
		return ""
	}
	for i := 0; i < 3; i++ {
		if b, err := ioutil.ReadFile(filepath.Join(devPath, "manufacturer")); err == nil {
			return strings.TrimSpace(string(b))
		}
		devPath = filepath.Dir(devPath)
	}
	return ""
}
