// Package lnk encodes and decodes Windows Shell Link (.lnk) files as described
// by [MS-SHLLINK].
//
// Encoded links carry a LinkInfo structure with the target's local path (ANSI
// and Unicode) and an optional WORKING_DIR string. No LinkTargetIDList is
// written; the shell resolves the target from LinkInfo on first use.
//
// [MS-SHLLINK]: https://learn.microsoft.com/openspecs/windows_protocols/ms-shllink
package lnk

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"unicode/utf16"
)

// ///////////////////////////////////////////////
// Constants
// ///////////////////////////////////////////////

const (
	// headerSize is the fixed size of ShellLinkHeader.
	headerSize = 0x4C

	// linkInfoHeaderSize includes the optional Unicode offset fields.
	linkInfoHeaderSize = 0x24

	// linkInfoMinHeaderSize is the header size without Unicode offsets.
	linkInfoMinHeaderSize = 0x1C

	// volumeIDSize covers the four VolumeID fields plus an empty label.
	volumeIDSize = 0x11

	// maxCountedString is the largest StringData character count.
	maxCountedString = 0xFFFF
)

// LinkFlags bits.
const (
	flagHasLinkTargetIDList uint32 = 1 << 0
	flagHasLinkInfo         uint32 = 1 << 1
	flagHasName             uint32 = 1 << 2
	flagHasRelativePath     uint32 = 1 << 3
	flagHasWorkingDir       uint32 = 1 << 4
	flagHasArguments        uint32 = 1 << 5
	flagHasIconLocation     uint32 = 1 << 6
	flagIsUnicode           uint32 = 1 << 7
)

const (
	linkInfoVolumeIDAndLocalBasePath uint32 = 1 << 0
	driveFixed                       uint32 = 3
	showNormal                       uint32 = 1
)

// linkCLSID is 00021401-0000-0000-C000-000000000046 in its on-disk byte order.
var linkCLSID = [16]byte{
	0x01, 0x14, 0x02, 0x00, 0x00, 0x00, 0x00, 0x00,
	0xC0, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x46,
}

// stringDataOrder lists the StringData flags in the order the strings appear.
var stringDataOrder = []uint32{
	flagHasName,
	flagHasRelativePath,
	flagHasWorkingDir,
	flagHasArguments,
	flagHasIconLocation,
}

var (
	// ErrEmptyTarget is returned by [Encode] when the target path is empty.
	ErrEmptyTarget = errors.New("lnk: empty target path")
	// ErrBadHeader is returned by [Decode] for data that is not a shell link.
	ErrBadHeader = errors.New("lnk: not a shell link")
	// ErrTruncated is returned by [Decode] when a structure runs past the data.
	ErrTruncated = errors.New("lnk: truncated data")
	// ErrStringTooLong is returned by [Encode] for strings over 65535 UTF-16 units.
	ErrStringTooLong = errors.New("lnk: string too long")
)

var le = binary.LittleEndian

// ///////////////////////////////////////////////
// Shortcut
// ///////////////////////////////////////////////

// Shortcut holds the attributes this package reads and writes.
type Shortcut struct {
	// TargetPath is the absolute path of the file the link launches.
	TargetPath string
	// WorkingDir is the directory the target starts in. Empty omits it.
	WorkingDir string
}

// ///////////////////////////////////////////////
// Encoding
// ///////////////////////////////////////////////

// Encode builds the binary shell link for s.
func Encode(s Shortcut) ([]byte, error) {
	if s.TargetPath == "" {
		return nil, ErrEmptyTarget
	}

	flags := flagHasLinkInfo | flagIsUnicode
	if s.WorkingDir != "" {
		flags |= flagHasWorkingDir
	}

	var buf bytes.Buffer
	buf.Write(encodeHeader(flags))
	buf.Write(encodeLinkInfo(s.TargetPath))
	if s.WorkingDir != "" {
		str, err := encodeCountedString(s.WorkingDir)
		if err != nil {
			return nil, fmt.Errorf("working dir: %w", err)
		}
		buf.Write(str)
	}
	// TerminalBlock: an ExtraData block size below 4.
	buf.Write([]byte{0, 0, 0, 0})
	return buf.Bytes(), nil
}

// encodeHeader builds ShellLinkHeader. Attributes, times, size, icon index,
// and hotkey are left zero.
func encodeHeader(flags uint32) []byte {
	h := make([]byte, headerSize)
	le.PutUint32(h[0:4], headerSize)
	copy(h[4:20], linkCLSID[:])
	le.PutUint32(h[20:24], flags)
	le.PutUint32(h[60:64], showNormal)
	return h
}

// encodeLinkInfo builds a LinkInfo structure locating target on a fixed
// local volume:
//
//	header (0x24) | VolumeID | LocalBasePath | CommonPathSuffix |
//	LocalBasePathUnicode | CommonPathSuffixUnicode
//
// The whole path goes in LocalBasePath; both suffixes are empty.
func encodeLinkInfo(target string) []byte {
	ansi := ansiZ(target)
	uni := utf16Z(target)

	volOff := linkInfoHeaderSize
	baseOff := volOff + volumeIDSize
	suffixOff := baseOff + len(ansi)
	baseUniOff := suffixOff + 1
	suffixUniOff := baseUniOff + len(uni)
	size := suffixUniOff + 2

	b := make([]byte, size)
	le.PutUint32(b[0:4], uint32(size))
	le.PutUint32(b[4:8], linkInfoHeaderSize)
	le.PutUint32(b[8:12], linkInfoVolumeIDAndLocalBasePath)
	le.PutUint32(b[12:16], uint32(volOff))
	le.PutUint32(b[16:20], uint32(baseOff))
	// CommonNetworkRelativeLinkOffset stays zero.
	le.PutUint32(b[24:28], uint32(suffixOff))
	le.PutUint32(b[28:32], uint32(baseUniOff))
	le.PutUint32(b[32:36], uint32(suffixUniOff))

	v := b[volOff : volOff+volumeIDSize]
	le.PutUint32(v[0:4], volumeIDSize)
	le.PutUint32(v[4:8], driveFixed)
	le.PutUint32(v[12:16], 0x10) // label offset; the label is ""

	copy(b[baseOff:], ansi)
	copy(b[baseUniOff:], uni)
	return b
}

// encodeCountedString builds a Unicode StringData entry: a 16-bit character
// count followed by UTF-16LE units, not NUL-terminated.
func encodeCountedString(s string) ([]byte, error) {
	units := utf16.Encode([]rune(s))
	if len(units) > maxCountedString {
		return nil, fmt.Errorf("%w: %d units", ErrStringTooLong, len(units))
	}
	b := make([]byte, 2+2*len(units))
	le.PutUint16(b[0:2], uint16(len(units)))
	for i, u := range units {
		le.PutUint16(b[2+2*i:], u)
	}
	return b, nil
}

// ansiZ returns s as NUL-terminated single-byte text. Non-ASCII runes become
// '?'; readers use the Unicode copy for those.
func ansiZ(s string) []byte {
	b := make([]byte, 0, len(s)+1)
	for _, r := range s {
		if r < 0x80 {
			b = append(b, byte(r))
		} else {
			b = append(b, '?')
		}
	}
	return append(b, 0)
}

// utf16Z returns s as NUL-terminated UTF-16LE.
func utf16Z(s string) []byte {
	units := utf16.Encode([]rune(s))
	b := make([]byte, 2*len(units)+2)
	for i, u := range units {
		le.PutUint16(b[2*i:], u)
	}
	return b
}

// ///////////////////////////////////////////////
// Decoding
// ///////////////////////////////////////////////

// Decode parses a binary shell link. The target comes from LinkInfo's local
// path (Unicode when present) joined with its common path suffix. Network
// targets, the ID list, and ExtraData blocks are skipped.
func Decode(data []byte) (Shortcut, error) {
	if len(data) < headerSize {
		return Shortcut{}, fmt.Errorf("%w: header", ErrTruncated)
	}
	if le.Uint32(data[0:4]) != headerSize || !bytes.Equal(data[4:20], linkCLSID[:]) {
		return Shortcut{}, ErrBadHeader
	}
	flags := le.Uint32(data[20:24])
	r := &reader{data: data, off: headerSize}

	if flags&flagHasLinkTargetIDList != 0 {
		n, err := r.uint16()
		if err != nil {
			return Shortcut{}, fmt.Errorf("id list size: %w", err)
		}
		if _, err := r.next(int(n)); err != nil {
			return Shortcut{}, fmt.Errorf("id list: %w", err)
		}
	}

	var s Shortcut
	if flags&flagHasLinkInfo != 0 {
		size, err := r.peekUint32()
		if err != nil {
			return Shortcut{}, fmt.Errorf("link info size: %w", err)
		}
		block, err := r.next(int(size))
		if err != nil {
			return Shortcut{}, fmt.Errorf("link info: %w", err)
		}
		if s.TargetPath, err = decodeLinkInfo(block); err != nil {
			return Shortcut{}, fmt.Errorf("link info: %w", err)
		}
	}

	unicode := flags&flagIsUnicode != 0
	for _, f := range stringDataOrder {
		if flags&f == 0 {
			continue
		}
		str, err := r.countedString(unicode)
		if err != nil {
			return Shortcut{}, fmt.Errorf("string data: %w", err)
		}
		if f == flagHasWorkingDir {
			s.WorkingDir = str
		}
	}
	return s, nil
}

// ReadFile reads and decodes the shell link at path.
func ReadFile(path string) (Shortcut, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Shortcut{}, err
	}
	s, err := Decode(data)
	if err != nil {
		return Shortcut{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return s, nil
}

// decodeLinkInfo returns the local target path recorded in a LinkInfo block,
// or "" when the link has no local volume path.
func decodeLinkInfo(b []byte) (string, error) {
	if len(b) < linkInfoMinHeaderSize {
		return "", ErrTruncated
	}
	hdrSize := le.Uint32(b[4:8])
	if le.Uint32(b[8:12])&linkInfoVolumeIDAndLocalBasePath == 0 {
		return "", nil
	}

	if hdrSize >= linkInfoHeaderSize && len(b) >= linkInfoHeaderSize {
		base, err := utf16At(b, le.Uint32(b[28:32]))
		if err != nil {
			return "", err
		}
		suffix, err := utf16At(b, le.Uint32(b[32:36]))
		if err != nil {
			return "", err
		}
		return base + suffix, nil
	}

	base, err := ansiAt(b, le.Uint32(b[16:20]))
	if err != nil {
		return "", err
	}
	suffix, err := ansiAt(b, le.Uint32(b[24:28]))
	if err != nil {
		return "", err
	}
	return base + suffix, nil
}

// ansiAt reads a NUL-terminated single-byte string at off. Offset zero means absent.
func ansiAt(b []byte, off uint32) (string, error) {
	if off == 0 {
		return "", nil
	}
	if int(off) >= len(b) {
		return "", ErrTruncated
	}
	end := bytes.IndexByte(b[off:], 0)
	if end < 0 {
		return "", ErrTruncated
	}
	return string(b[off : int(off)+end]), nil
}

// utf16At reads a NUL-terminated UTF-16LE string at off. Offset zero means absent.
func utf16At(b []byte, off uint32) (string, error) {
	if off == 0 {
		return "", nil
	}
	var units []uint16
	for i := int(off); ; i += 2 {
		if i+2 > len(b) {
			return "", ErrTruncated
		}
		u := le.Uint16(b[i:])
		if u == 0 {
			break
		}
		units = append(units, u)
	}
	return string(utf16.Decode(units)), nil
}

// ///////////////////////////////////////////////
// Reader
// ///////////////////////////////////////////////

// reader walks a byte slice, failing with ErrTruncated instead of panicking.
type reader struct {
	data []byte
	off  int
}

// next returns the following n bytes and advances past them.
func (r *reader) next(n int) ([]byte, error) {
	if n < 0 || r.off+n > len(r.data) {
		return nil, ErrTruncated
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *reader) uint16() (uint16, error) {
	b, err := r.next(2)
	if err != nil {
		return 0, err
	}
	return le.Uint16(b), nil
}

// peekUint32 reads a 32-bit value without advancing; LinkInfo's size field
// counts itself.
func (r *reader) peekUint32() (uint32, error) {
	if r.off+4 > len(r.data) {
		return 0, ErrTruncated
	}
	return le.Uint32(r.data[r.off:]), nil
}

// countedString reads one StringData entry.
func (r *reader) countedString(unicode bool) (string, error) {
	n, err := r.uint16()
	if err != nil {
		return "", err
	}
	if !unicode {
		b, err := r.next(int(n))
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	b, err := r.next(2 * int(n))
	if err != nil {
		return "", err
	}
	units := make([]uint16, n)
	for i := range units {
		units[i] = le.Uint16(b[2*i:])
	}
	return string(utf16.Decode(units)), nil
}
