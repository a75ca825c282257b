package stego

import (
	"bytes"
	"crypto/subtle"
	"encoding/binary"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/missolin/duck-image-tool/crypto"
)

const (
	LengthPrefixBytes = 4
	MaxExtBytes       = 255

	flagPlain     byte = 0x00
	flagProtected byte = 0x01
)

// Header is the self-describing record embedded in front of the payload.
//
//	[0]        has_password (0x00 | 0x01)
//	[1:33]     password_hash   (only if has_password)
//	[33:49]    salt            (only if has_password)
//	ext_len(1) ext(ext_len) data_len(4, big-endian) data(data_len)
type Header struct {
	HasPassword  bool
	PasswordHash [crypto.HashSize]byte
	Salt         []byte
	Ext          string
	Data         []byte
}

// BuildHeader serializes data and ext into a length-prefixed header stream,
// encrypting data when password is non-empty.
func BuildHeader(data []byte, password, ext string) ([]byte, error) {
	var salt []byte
	if password != "" {
		s, err := crypto.NewSalt()
		if err != nil {
			return nil, err
		}
		salt = s
	}
	return buildHeader(data, password, ext, salt)
}

func buildHeader(data []byte, password, ext string, salt []byte) ([]byte, error) {
	if uint64(len(data)) > math.MaxUint32 {
		return nil, &Error{Kind: KindCapacity, Message: fmt.Sprintf("payload of %d bytes exceeds the 4 GiB header limit", len(data))}
	}

	h := &Header{Ext: ext, Data: data}
	if password != "" {
		h.HasPassword = true
		h.Salt = salt
		h.PasswordHash = crypto.PasswordHash(password, salt)
		h.Data = crypto.NewKeyStream(password, salt).Encrypt(data)
	}

	return Frame(h.Marshal()), nil
}

// Marshal returns the header bytes without the outer length prefix.
func (h *Header) Marshal() []byte {
	ext := truncateUTF8(h.Ext, MaxExtBytes)

	size := 1 + 1 + len(ext) + 4 + len(h.Data)
	if h.HasPassword {
		size += crypto.HashSize + crypto.SaltSize
	}

	var buf bytes.Buffer
	buf.Grow(size)
	if h.HasPassword {
		buf.WriteByte(flagProtected)
		buf.Write(h.PasswordHash[:])
		buf.Write(h.Salt)
	} else {
		buf.WriteByte(flagPlain)
	}
	buf.WriteByte(byte(len(ext)))
	buf.WriteString(ext)

	var dataLen [4]byte
	binary.BigEndian.PutUint32(dataLen[:], uint32(len(h.Data)))
	buf.Write(dataLen[:])
	buf.Write(h.Data)

	return buf.Bytes()
}

// StreamLen is the size of the framed stream BuildHeader produces for a
// payload of dataLen bytes, without building it.
func StreamLen(dataLen int, hasPassword bool, ext string) int {
	n := LengthPrefixBytes + 1 + 1 + len(truncateUTF8(ext, MaxExtBytes)) + 4 + dataLen
	if hasPassword {
		n += crypto.HashSize + crypto.SaltSize
	}
	return n
}

// Frame prefixes header with its own length as a big-endian uint32.
func Frame(header []byte) []byte {
	out := make([]byte, LengthPrefixBytes+len(header))
	binary.BigEndian.PutUint32(out, uint32(len(header)))
	copy(out[LengthPrefixBytes:], header)
	return out
}

// UnmarshalHeader checks the structure of b. It does not look at passwords.
func UnmarshalHeader(b []byte) (*Header, error) {
	corrupt := func() error {
		return newError(KindHeaderCorrupt, "Header corrupted. 文件头损坏")
	}

	idx := 0
	if len(b) < 1 {
		return nil, corrupt()
	}
	h := &Header{HasPassword: b[0] == flagProtected}
	idx++

	if h.HasPassword {
		if len(b) < idx+crypto.HashSize+crypto.SaltSize {
			return nil, corrupt()
		}
		copy(h.PasswordHash[:], b[idx:idx+crypto.HashSize])
		idx += crypto.HashSize
		h.Salt = append([]byte(nil), b[idx:idx+crypto.SaltSize]...)
		idx += crypto.SaltSize
	}

	if len(b) < idx+1 {
		return nil, corrupt()
	}
	extLen := int(b[idx])
	idx++
	if len(b) < idx+extLen+4 {
		return nil, corrupt()
	}
	h.Ext = strings.ToValidUTF8(string(b[idx:idx+extLen]), "")
	idx += extLen

	dataLen := binary.BigEndian.Uint32(b[idx : idx+4])
	idx += 4
	h.Data = b[idx:]
	if uint64(len(h.Data)) != uint64(dataLen) {
		return nil, newError(KindDataLengthMismatch, "Data length mismatch. 数据长度不匹配")
	}

	return h, nil
}

// ParseHeader validates headerBytes and returns the plaintext payload and its
// extension, decrypting with password when the header demands one.
func ParseHeader(headerBytes []byte, password string) ([]byte, string, error) {
	h, err := UnmarshalHeader(headerBytes)
	if err != nil {
		return nil, "", err
	}
	if !h.HasPassword {
		return h.Data, h.Ext, nil
	}
	if password == "" {
		return nil, "", newError(KindPasswordRequired, "Password required. 需要密码")
	}
	check := crypto.PasswordHash(password, h.Salt)
	if subtle.ConstantTimeCompare(check[:], h.PasswordHash[:]) != 1 {
		return nil, "", newError(KindWrongPassword, "Wrong password. 密码错误")
	}
	return crypto.NewKeyStream(password, h.Salt).Decrypt(h.Data), h.Ext, nil
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
