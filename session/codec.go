package session

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"time"
)

const jarFormatVersionCurrent = 1

const maxRecordValueSize = 1 << 20

// jarRecord is one entry inside an encoded jar file.
type jarRecord struct {
	name      string
	value     []byte
	expiresAt int64 // unix seconds
}

// encodeJar serializes records into the versioned binary jar layout:
// a version byte, then per record a length-prefixed name, a uint32
// length-prefixed value, and a big-endian int64 expiry.
func encodeJar(records []jarRecord) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte(jarFormatVersionCurrent)

	for _, rec := range records {
		if len(rec.name) > 255 {
			return nil, errors.New("record name too long")
		}
		if len(rec.value) > maxRecordValueSize {
			return nil, errors.New("record value too large")
		}

		buf.WriteByte(byte(len(rec.name)))
		buf.WriteString(rec.name)

		if err := binary.Write(&buf, binary.BigEndian, uint32(len(rec.value))); err != nil {
			return nil, err
		}
		buf.Write(rec.value)

		if err := binary.Write(&buf, binary.BigEndian, rec.expiresAt); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

// decodeJar parses an encoded jar. Expired records are dropped during decode
// so callers never observe them.
func decodeJar(data []byte, now time.Time) ([]jarRecord, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}
	if version != jarFormatVersionCurrent {
		return nil, errors.New("invalid jar version")
	}

	nowUnix := now.Unix()
	var records []jarRecord

	for reader.Len() > 0 {
		nameLen, err := reader.ReadByte()
		if err != nil {
			return nil, err
		}
		name := make([]byte, nameLen)
		if _, err := io.ReadFull(reader, name); err != nil {
			return nil, err
		}

		var valueLen uint32
		if err := binary.Read(reader, binary.BigEndian, &valueLen); err != nil {
			return nil, err
		}
		if valueLen > maxRecordValueSize {
			return nil, errors.New("record value too large")
		}
		value := make([]byte, valueLen)
		if _, err := io.ReadFull(reader, value); err != nil {
			return nil, err
		}

		var expiresAt int64
		if err := binary.Read(reader, binary.BigEndian, &expiresAt); err != nil {
			return nil, err
		}

		if expiresAt <= nowUnix {
			continue
		}

		records = append(records, jarRecord{
			name:      string(name),
			value:     value,
			expiresAt: expiresAt,
		})
	}

	return records, nil
}
