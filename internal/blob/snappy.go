package blob

import (
	"bytes"
	"context"
	"fmt"

	"github.com/golang/snappy"
)

// snappyMagic prefixes compressed payloads so uncompressed values written
// before compression was enabled are still readable.
var snappyMagic = []byte("SNPY1")

type snappyStore struct {
	next Store
}

// Snappy wraps next so that values are snappy-compressed at rest.
func Snappy(next Store) Store {
	return &snappyStore{next: next}
}

func (s *snappyStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, ok, err := s.next.Get(ctx, key)
	if err != nil || !ok {
		return raw, ok, err
	}
	if !bytes.HasPrefix(raw, snappyMagic) {
		return raw, true, nil
	}
	decoded, err := snappy.Decode(nil, raw[len(snappyMagic):])
	if err != nil {
		return nil, false, fmt.Errorf("decode %s: %w: %v", key, ErrCorrupt, err)
	}
	return decoded, true, nil
}

func (s *snappyStore) Put(ctx context.Context, key string, value []byte) error {
	encoded := snappy.Encode(nil, value)
	payload := make([]byte, 0, len(snappyMagic)+len(encoded))
	payload = append(payload, snappyMagic...)
	payload = append(payload, encoded...)
	return s.next.Put(ctx, key, payload)
}
