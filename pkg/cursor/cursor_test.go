package cursor

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReader_Primitives(t *testing.T) {
	data := []byte{
		0x7F,       // U1
		0x34, 0x12, // U2
		0x78, 0x56, 0x34, 0x12, // U4
		0xFF,       // I1
		0xFE, 0xFF, // I2
		0x00, 0x00, 0x80, 0x3F, // R4 1.0
		0x03, 'a', 'b', 'c', // Cn
	}

	r, err := NewBytesReader(data, DefaultConfig())
	require.NoError(t, err)

	u1, err := r.U1()
	require.NoError(t, err)
	assert.Equal(t, uint8(0x7F), u1)

	u2, err := r.U2()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), u2)

	u4, err := r.U4()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x12345678), u4)

	i1, err := r.I1()
	require.NoError(t, err)
	assert.Equal(t, int8(-1), i1)

	i2, err := r.I2()
	require.NoError(t, err)
	assert.Equal(t, int16(-2), i2)

	r4, err := r.R4()
	require.NoError(t, err)
	assert.Equal(t, float32(1.0), r4)

	s, err := r.String()
	require.NoError(t, err)
	assert.Equal(t, "abc", s)

	assert.Equal(t, int64(len(data)), r.Position())
	assert.True(t, r.EOF())
}

func TestReader_BigEndian(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ByteOrder = BigEndian

	r, err := NewBytesReader([]byte{0x12, 0x34, 0x00, 0x00, 0x00, 0x2A}, cfg)
	require.NoError(t, err)

	u2, err := r.U2()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), u2)

	u4, err := r.U4()
	require.NoError(t, err)
	assert.Equal(t, uint32(42), u4)
}

func TestReader_UnexpectedEndOfData(t *testing.T) {
	t.Run("bounded source", func(t *testing.T) {
		r, err := NewBytesReader([]byte{0x01}, DefaultConfig())
		require.NoError(t, err)

		_, err = r.U2()
		assert.True(t, errors.Is(err, ErrUnexpectedEndOfData))
		assert.Equal(t, int64(0), r.Position())
	})

	t.Run("streaming source", func(t *testing.T) {
		r, err := NewReader(io.MultiReader(bytes.NewBufferString("ab")), DefaultConfig())
		require.NoError(t, err)

		_, err = r.U4()
		assert.True(t, errors.Is(err, ErrUnexpectedEndOfData))
	})

	t.Run("prefixed string longer than data", func(t *testing.T) {
		r, err := NewBytesReader([]byte{0x05, 'a'}, DefaultConfig())
		require.NoError(t, err)

		_, err = r.String()
		assert.True(t, errors.Is(err, ErrUnexpectedEndOfData))
	})
}

func TestReader_SeekToAndSkip(t *testing.T) {
	data := []byte{0, 1, 2, 3, 4, 5, 6, 7}

	t.Run("seekable", func(t *testing.T) {
		r, err := NewBytesReader(data, DefaultConfig())
		require.NoError(t, err)

		require.NoError(t, r.SeekTo(6))
		v, err := r.U1()
		require.NoError(t, err)
		assert.Equal(t, uint8(6), v)

		require.NoError(t, r.SeekTo(2))
		v, err = r.U1()
		require.NoError(t, err)
		assert.Equal(t, uint8(2), v)
		assert.Equal(t, int64(5), r.Remaining())
	})

	t.Run("forward only", func(t *testing.T) {
		r, err := NewReader(io.MultiReader(bytes.NewReader(data)), DefaultConfig())
		require.NoError(t, err)
		assert.Equal(t, int64(-1), r.Remaining())

		require.NoError(t, r.Skip(3))
		require.NoError(t, r.SeekTo(5))
		v, err := r.U1()
		require.NoError(t, err)
		assert.Equal(t, uint8(5), v)

		err = r.SeekTo(1)
		assert.True(t, errors.Is(err, ErrNotSeekable))
	})

	t.Run("skip past end", func(t *testing.T) {
		r, err := NewBytesReader(data, DefaultConfig())
		require.NoError(t, err)

		err = r.Skip(9)
		assert.True(t, errors.Is(err, ErrUnexpectedEndOfData))
	})
}

func TestReader_Section(t *testing.T) {
	r, err := NewBytesReader([]byte{9, 9, 0x01, 0x00, 0x02, 7}, DefaultConfig())
	require.NoError(t, err)
	require.NoError(t, r.Skip(2))

	sub, err := r.Section(3)
	require.NoError(t, err)
	assert.Equal(t, int64(5), r.Position())
	assert.Equal(t, int64(2), sub.Position())
	assert.Equal(t, int64(3), sub.Remaining())

	v, err := sub.U2()
	require.NoError(t, err)
	assert.Equal(t, uint16(1), v)

	_, err = sub.U2()
	assert.True(t, errors.Is(err, ErrUnexpectedEndOfData))

	next, err := r.U1()
	require.NoError(t, err)
	assert.Equal(t, uint8(7), next)
}

func TestWriterReader_RoundTrip(t *testing.T) {
	for _, order := range []ByteOrder{LittleEndian, BigEndian} {
		t.Run(order.String(), func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.ByteOrder = order

			var buf bytes.Buffer
			w, err := NewWriter(&buf, cfg)
			require.NoError(t, err)

			stamp := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
			require.NoError(t, w.U8(1<<40))
			require.NoError(t, w.I4(-123456))
			require.NoError(t, w.I8(-1))
			require.NoError(t, w.R8(3.25))
			require.NoError(t, w.String("café"))
			require.NoError(t, w.FixedString("AB", 4))
			require.NoError(t, w.PrefixedBytes([]byte{0xDE, 0xAD}))
			require.NoError(t, w.Bool(true))
			require.NoError(t, w.Time(stamp))
			require.NoError(t, w.Time(time.Time{}))
			assert.Equal(t, int64(buf.Len()), w.Position())

			r, err := NewBytesReader(buf.Bytes(), cfg)
			require.NoError(t, err)

			u8, err := r.U8()
			require.NoError(t, err)
			assert.Equal(t, uint64(1<<40), u8)

			i4, err := r.I4()
			require.NoError(t, err)
			assert.Equal(t, int32(-123456), i4)

			i8, err := r.I8()
			require.NoError(t, err)
			assert.Equal(t, int64(-1), i8)

			r8, err := r.R8()
			require.NoError(t, err)
			assert.Equal(t, 3.25, r8)

			s, err := r.String()
			require.NoError(t, err)
			assert.Equal(t, "café", s)

			fixed, err := r.FixedString(4)
			require.NoError(t, err)
			assert.Equal(t, "AB  ", fixed)

			raw, err := r.PrefixedBytes()
			require.NoError(t, err)
			assert.Equal(t, []byte{0xDE, 0xAD}, raw)

			b, err := r.Bool()
			require.NoError(t, err)
			assert.True(t, b)

			got, err := r.Time()
			require.NoError(t, err)
			assert.True(t, stamp.Equal(got))

			zero, err := r.Time()
			require.NoError(t, err)
			assert.True(t, zero.IsZero())
			assert.True(t, r.EOF())
		})
	}
}

func TestWriter_Latin1(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, DefaultConfig())
	require.NoError(t, err)

	require.NoError(t, w.String("é"))
	assert.Equal(t, []byte{0x01, 0xE9}, buf.Bytes())

	err = w.String("日本")
	assert.Error(t, err)
}

func TestWriter_Limits(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, DefaultConfig())
	require.NoError(t, err)

	err = w.PrefixedBytes(make([]byte, 256))
	assert.True(t, errors.Is(err, ErrStringTooLong))

	err = w.FixedString("toolong", 3)
	assert.Error(t, err)

	err = w.SeekTo(0)
	assert.True(t, errors.Is(err, ErrNotSeekable))
}

func TestBoolCoding_ASCII(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BoolCoding = BoolASCII

	var buf bytes.Buffer
	w, err := NewWriter(&buf, cfg)
	require.NoError(t, err)
	require.NoError(t, w.Bool(true))
	require.NoError(t, w.Bool(false))
	assert.Equal(t, []byte{'1', '0'}, buf.Bytes())

	r, err := NewBytesReader([]byte{'1', 0x01}, cfg)
	require.NoError(t, err)
	v, err := r.Bool()
	require.NoError(t, err)
	assert.True(t, v)
	v, err = r.Bool()
	require.NoError(t, err)
	assert.False(t, v)
}

func TestConfig_Parse(t *testing.T) {
	o, err := ParseByteOrder("BE")
	require.NoError(t, err)
	assert.Equal(t, BigEndian, o)

	_, err = ParseByteOrder("middle")
	assert.Error(t, err)

	bc, err := ParseBoolCoding("ascii")
	require.NoError(t, err)
	assert.Equal(t, BoolASCII, bc)

	tc, err := ParseTimeCoding("local")
	require.NoError(t, err)
	assert.Equal(t, TimeUnixLocal, tc)

	_, err = Config{StringEncoding: "no-such-charset"}.Encoding()
	assert.Error(t, err)

	enc, err := Config{StringEncoding: "windows-1252"}.Encoding()
	require.NoError(t, err)
	assert.NotNil(t, enc)
}
