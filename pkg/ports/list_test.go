package ports

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.bug.st/serial/enumerator"
)

func withEnumerate(t *testing.T, fn func() ([]*enumerator.PortDetails, error)) {
	saved := Enumerate
	Enumerate = fn
	savedManuf := Manufacturer
	Manufacturer = func(string) string { return "" }
	t.Cleanup(func() { Enumerate, Manufacturer = saved, savedManuf })
}

func TestList(t *testing.T) {
	withEnumerate(t, func() ([]*enumerator.PortDetails, error) {
		return []*enumerator.PortDetails{
			{Name: "/dev/ttyUSB1", IsUSB: true, VID: "0403", PID: "6001", SerialNumber: "A50285BI", Product: "FT232R USB UART"},
			{Name: "/dev/ttyS0"},
			nil,
			{Name: "/dev/ttyACM0", IsUSB: true, VID: "2341", PID: "0043"},
		}, nil
	})
	infoList, err := List()
	require.NoError(t, err)
	require.Len(t, infoList, 2)
	require.Equal(t, "/dev/ttyACM0", infoList[0].Device)
	require.Equal(t, "/dev/ttyACM0", infoList[0].Description)
	require.Equal(t, "/dev/ttyUSB1", infoList[1].Device)
	require.Equal(t, "FT232R USB UART", infoList[1].Description)

	require.Equal(t,
		"/dev/ttyUSB1 Manuf: None, Prod: FT232R USB UART, HWID: USB VID:PID=0403:6001 SER=A50285BI",
		Format(infoList[1]))
	require.Equal(t,
		"/dev/ttyACM0 Manuf: None, Prod: None, HWID: USB VID:PID=2341:0043",
		Format(infoList[0]))
}

func TestListNaturalOrder(t *testing.T) {
	withEnumerate(t, func() ([]*enumerator.PortDetails, error) {
		return []*enumerator.PortDetails{
			{Name: "/dev/ttyUSB10", IsUSB: true, VID: "0403", PID: "6001"},
			{Name: "/dev/ttyUSB2", IsUSB: true, VID: "0403", PID: "6001"},
			{Name: "/dev/ttyACM0", IsUSB: true, VID: "2341", PID: "0043"},
		}, nil
	})
	Manufacturer = func(name string) string {
		if name == "/dev/ttyUSB2" {
			return "FTDI"
		}
		return ""
	}
	infoList, err := List()
	require.NoError(t, err)
	var names []string
	for _, info := range infoList {
		names = append(names, info.Device)
	}
	require.Equal(t, []string{"/dev/ttyACM0", "/dev/ttyUSB2", "/dev/ttyUSB10"}, names)
	require.Equal(t, "FTDI", infoList[1].Manufacturer)
	require.Equal(t, "/dev/ttyUSB2 Manuf: FTDI, Prod: None, HWID: USB VID:PID=0403:6001", Format(infoList[1]))
}

func TestLessDevice(t *testing.T) {
	testCases := []struct {
		a, b string
		less bool
	}{
		{"/dev/ttyUSB2", "/dev/ttyUSB10", true},
		{"/dev/ttyUSB10", "/dev/ttyUSB2", false},
		{"COM3", "COM10", true},
		{"COM10", "COM3", false},
		{"/dev/ttyACM0", "/dev/ttyUSB0", true},
		{"/dev/ttyUSB1", "/dev/ttyUSB1", false},
		{"COM", "COM1", true},
		{"COM01", "COM2", true},
	}
	for _, tc := range testCases {
		require.Equal(t, tc.less, LessDevice(tc.a, tc.b), "%s < %s", tc.a, tc.b)
	}
}

func TestListEmpty(t *testing.T) {
	withEnumerate(t, func() ([]*enumerator.PortDetails, error) {
		return nil, nil
	})
	infoList, err := List()
	require.NoError(t, err)
	require.Empty(t, infoList)
}

func TestListError(t *testing.T) {
	errQuery := errors.New("query failed")
	withEnumerate(t, func() ([]*enumerator.PortDetails, error) {
		return nil, errQuery
	})
	_, err := List()
	require.Equal(t, errQuery, err)
}

func TestFormat(t *testing.T) {
	info := PortInfo{
		Device:       "COM3",
		Manufacturer: "FTDI",
		Product:      "USB Serial Port",
		HardwareID:   "USB VID:PID=0403:6001",
	}
	require.Equal(t, "COM3 Manuf: FTDI, Prod: USB Serial Port, HWID: USB VID:PID=0403:6001", Format(info))
}
