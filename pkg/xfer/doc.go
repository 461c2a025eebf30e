// Package xfer sends a file to a device over a byte-oriented channel.
package xfer

// The protocol is a strict lockstep between the sender and the device.
// The file is cut into fixed-size payloads, the last one padded with a fill
// byte, and every payload is followed by a 2-byte little-endian checksum:
//
//   [0 .. PayloadSize-1]  payload
//   [PayloadSize]         checksum low byte
//   [PayloadSize+1]       checksum high byte
//
// After each packet the device replies with exactly one byte. The NAK byte
// asks for the same packet again, any other byte accepts it. No reply within
// the timeout aborts the transfer.
