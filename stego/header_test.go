package stego

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/missolin/duck-image-tool/crypto"
)

func fixedSalt() []byte {
	salt := make([]byte, crypto.SaltSize)
	for i := range salt {
		salt[i] = byte(0xa0 + i)
	}
	return salt
}

func TestBuildHeader_HelloLayout(t *testing.T) {
	stream, err := BuildHeader([]byte("hello"), "", "txt")
	require.NoError(t, err)

	want := []byte{
		0x00, 0x00, 0x00, 0x0D, // header_len = 13
		0x00,                // has_password
		0x03, 't', 'x', 't', // ext
		0x00, 0x00, 0x00, 0x05, // data_len
		'h', 'e', 'l', 'l', 'o',
	}
	assert.Equal(t, want, stream)

	data, ext, err := ParseHeader(stream[LengthPrefixBytes:], "")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)
	assert.Equal(t, "txt", ext)
}

func TestBuildHeader_PasswordLayout(t *testing.T) {
	salt := fixedSalt()
	stream, err := buildHeader([]byte("hello"), "pw", "png", salt)
	require.NoError(t, err)

	header := stream[LengthPrefixBytes:]
	require.Len(t, header, 1+32+16+1+3+4+5)
	assert.Equal(t, byte(0x01), header[0])

	hash := crypto.PasswordHash("pw", salt)
	assert.Equal(t, hash[:], header[1:33])
	assert.Equal(t, salt, header[33:49])
	assert.Equal(t, byte(3), header[49])
	assert.Equal(t, "png", string(header[50:53]))
	assert.Equal(t, []byte{0, 0, 0, 5}, header[53:57])

	ks := crypto.NewKeyStream("pw", salt).Derive(5)
	assert.Equal(t, crypto.Apply([]byte("hello"), ks), header[57:])

	data, ext, err := ParseHeader(header, "pw")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)
	assert.Equal(t, "png", ext)
}

func TestBuildHeader_FreshSalt(t *testing.T) {
	a, err := BuildHeader([]byte("same"), "pw", "txt")
	require.NoError(t, err)
	b, err := BuildHeader([]byte("same"), "pw", "txt")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestParseHeader_Truncated(t *testing.T) {
	stream, err := BuildHeader([]byte("hello"), "", "txt")
	require.NoError(t, err)
	header := stream[LengthPrefixBytes:]

	// flag + ext_len + ext + data_len must be present before data is judged.
	for n := 0; n < 9; n++ {
		_, _, err := ParseHeader(header[:n], "")
		require.ErrorIs(t, err, ErrHeaderCorrupt, "prefix %d", n)
	}
	for n := 9; n < len(header); n++ {
		_, _, err := ParseHeader(header[:n], "")
		require.ErrorIs(t, err, ErrDataLengthMismatch, "prefix %d", n)
	}

	_, _, err = ParseHeader(append(append([]byte{}, header...), 0), "")
	require.ErrorIs(t, err, ErrDataLengthMismatch)
}

func TestParseHeader_TruncatedPasswordFields(t *testing.T) {
	stream, err := buildHeader([]byte("x"), "pw", "txt", fixedSalt())
	require.NoError(t, err)
	header := stream[LengthPrefixBytes:]

	for _, n := range []int{1, 20, 48, 49} {
		_, _, err := ParseHeader(header[:n], "pw")
		require.ErrorIs(t, err, ErrHeaderCorrupt, "prefix %d", n)
	}
}

func TestParseHeader_Passwords(t *testing.T) {
	stream, err := buildHeader([]byte("secret data"), "right", "bin", fixedSalt())
	require.NoError(t, err)
	header := stream[LengthPrefixBytes:]

	_, _, err = ParseHeader(header, "")
	require.ErrorIs(t, err, ErrPasswordRequired)
	assert.True(t, IsKind(err, KindPasswordRequired))

	_, _, err = ParseHeader(header, "wrong")
	require.ErrorIs(t, err, ErrWrongPassword)
	assert.Equal(t, "Wrong password. 密码错误", err.Error())

	data, ext, err := ParseHeader(header, "right")
	require.NoError(t, err)
	assert.Equal(t, "secret data", string(data))
	assert.Equal(t, "bin", ext)
}

func TestParseHeader_PasswordIgnoredWhenUnprotected(t *testing.T) {
	stream, err := BuildHeader([]byte("open"), "", "txt")
	require.NoError(t, err)
	data, _, err := ParseHeader(stream[LengthPrefixBytes:], "anything")
	require.NoError(t, err)
	assert.Equal(t, "open", string(data))
}

func TestParseHeader_NonOneFlagIsPlain(t *testing.T) {
	header := []byte{0x02, 0x01, 'a', 0, 0, 0, 1, 'z'}
	data, ext, err := ParseHeader(header, "")
	require.NoError(t, err)
	assert.Equal(t, "z", string(data))
	assert.Equal(t, "a", ext)
}

func TestParseHeader_LossyExt(t *testing.T) {
	header := []byte{0x00, 0x03, 'a', 0xff, 'b', 0, 0, 0, 0}
	data, ext, err := ParseHeader(header, "")
	require.NoError(t, err)
	assert.Empty(t, data)
	assert.Equal(t, "ab", ext)
}

func TestHeader_ExtTruncation(t *testing.T) {
	for _, tc := range []struct {
		name string
		ext  string
		want string
	}{
		{name: "ascii", ext: strings.Repeat("a", 300), want: strings.Repeat("a", 255)},
		{name: "multibyte", ext: strings.Repeat("é", 200), want: strings.Repeat("é", 127)},
		{name: "short", ext: "mp4.binpng", want: "mp4.binpng"},
		{name: "empty", ext: "", want: ""},
	} {
		t.Run(tc.name, func(t *testing.T) {
			stream, err := BuildHeader([]byte{1, 2, 3}, "", tc.ext)
			require.NoError(t, err)
			data, ext, err := ParseHeader(stream[LengthPrefixBytes:], "")
			require.NoError(t, err)
			assert.Equal(t, []byte{1, 2, 3}, data)
			assert.Equal(t, tc.want, ext)
		})
	}
}

func TestFrame(t *testing.T) {
	assert.Equal(t, []byte{0, 0, 1, 0x2c}, Frame(make([]byte, 300))[:4])
}

func TestStreamLen(t *testing.T) {
	for _, tc := range []struct {
		name     string
		size     int
		password string
		ext      string
	}{
		{"plain", 5, "", "txt"},
		{"protected", 40, "pw", "mp4.binpng"},
		{"long ext", 0, "", strings.Repeat("é", 200)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			stream, err := BuildHeader(make([]byte, tc.size), tc.password, tc.ext)
			require.NoError(t, err)
			assert.Equal(t, len(stream), StreamLen(tc.size, tc.password != "", tc.ext))
		})
	}
}
