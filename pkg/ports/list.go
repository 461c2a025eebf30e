package ports

import (
	"fmt"
	"sort"
	"strings"

	"go.bug.st/serial/enumerator"
)

// NoDescription is the description of devices without meaningful metadata.
const NoDescription = "n/a"

// PortInfo describes a serial device visible to the host.
type PortInfo struct {
	Device       string `json:"device"`
	Description  string `json:"description"`
	Manufacturer string `json:"manufacturer,omitempty"`
	Product      string `json:"product,omitempty"`
	HardwareID   string `json:"hwid"`
	IsUSB        bool   `json:"usb"`
}

// Enumerate queries the host for serial devices.
// It's replaceable for testing.
var Enumerate = enumerator.GetDetailedPortsList

// Manufacturer looks up the manufacturer of a USB serial device,
// "" if unknown. It's replaceable for testing.
var Manufacturer = manufacturer

// List returns the serial devices with a meaningful description,
// in natural order of device names (ttyUSB2 before ttyUSB10).
func List() ([]PortInfo, error) {
	details, err := Enumerate()
	if err != nil {
		return nil, err
	}
	infoList := make([]PortInfo, 0, len(details))
	for _, d := range details {
		if d == nil {
			continue
		}
		if info := NewPortInfo(d); info.Description != NoDescription {
			infoList = append(infoList, info)
		}
	}
	sort.SliceStable(infoList, func(i, j int) bool {
		return LessDevice(infoList[i].Device, infoList[j].Device)
	})
	return infoList, nil
}

// NewPortInfo converts enumerator details.
func NewPortInfo(d *enumerator.PortDetails) PortInfo {
	info := PortInfo{
		Device:      d.Name,
		Description: NoDescription,
		HardwareID:  NoDescription,
		IsUSB:       d.IsUSB,
	}
	if !d.IsUSB {
		return info
	}
	info.Product = d.Product
	info.Manufacturer = Manufacturer(d.Name)
	if info.Description = d.Product; info.Description == "" {
		info.Description = d.Name
	}
	hwid := fmt.Sprintf("USB VID:PID=%s:%s", strings.ToUpper(d.VID), strings.ToUpper(d.PID))
	if d.SerialNumber != "" {
		hwid += " SER=" + d.SerialNumber
	}
	info.HardwareID = hwid
	return info
}

// LessDevice compares device names with runs of digits compared by value.
func LessDevice(a, b string) bool {
	ta, tb := splitNumbers(a), splitNumbers(b)
	for i := 0; i < len(ta) && i < len(tb); i++ {
		if c := compareRun(ta[i], tb[i]); c != 0 {
			return c < 0
		}
	}
	return len(ta) < len(tb)
}

// splitNumbers splits s into alternating runs of digits and non-digits.
func splitNumbers(s string) []string {
	var runs []string
	start := 0
	for i := 1; i <= len(s); i++ {
		if i == len(s) || isDigit(s[i]) != isDigit(s[start]) {
			runs = append(runs, s[start:i])
			start = i
		}
	}
	return runs
}

func compareRun(a, b string) int {
	if isDigit(a[0]) && isDigit(b[0]) {
		na, nb := strings.TrimLeft(a, "0"), strings.TrimLeft(b, "0")
		if len(na) != len(nb) {
			if len(na) < len(nb) {
				return -1
			}
			return 1
		}
		if c := strings.Compare(na, nb); c != 0 {
			return c
		}
	}
	return strings.Compare(a, b)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// Format prints PortInfo into the listing line.
func Format(info PortInfo) string {
	return fmt.Sprintf("%s Manuf: %s, Prod: %s, HWID: %s",
		info.Device, orNone(info.Manufacturer), orNone(info.Product), info.HardwareID)
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}
