// Package codec encodes entity records for the key-value stores.  Records
// use CBOR Core Deterministic Encoding so identical entities always
// produce identical bytes, and every record is bounded by MaxRecordSize.
package codec

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// MaxRecordSize is the largest encoded record a store accepts.
const MaxRecordSize = 1024

// ErrRecordTooLarge is returned by Marshal when an entity does not fit in
// MaxRecordSize bytes.  Link arrays are the usual cause.
var ErrRecordTooLarge = errors.New("codec: record exceeds size bound")

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	encOptions := cbor.CoreDetEncOptions()
	// Unix seconds would drop the sub-second part of created_at/updated_at.
	encOptions.Time = cbor.TimeRFC3339Nano
	encMode, err = encOptions.EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		MaxArrayElements: MaxRecordSize,
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

// Marshal encodes v and enforces MaxRecordSize.
func Marshal(v any) ([]byte, error) {
	data, err := encMode.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("codec: marshal: %w", err)
	}
	if len(data) > MaxRecordSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrRecordTooLarge, len(data))
	}
	return data, nil
}

// Unmarshal decodes a record produced by Marshal into v.
func Unmarshal(data []byte, v any) error {
	if len(data) > MaxRecordSize {
		return fmt.Errorf("%w: %d bytes", ErrRecordTooLarge, len(data))
	}
	if err := decMode.Unmarshal(data, v); err != nil {
		return fmt.Errorf("codec: unmarshal: %w", err)
	}
	return nil
}
