//go:build !linux
// +build !linux

package ports

func manufacturer(device string) string {
	return ""
}
