package passgate

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/nvoid-labs/passgate/internal"
	"github.com/redis/go-redis/v9"
)

const (
	passcodeKeySegment      = "chal"
	passcodeRecordVersionV1 = 1
)

var (
	errPasscodeNotFound         = errors.New("passcode record not found")
	errPasscodeMismatch         = errors.New("passcode mismatch")
	errPasscodeAttemptsExceeded = errors.New("passcode attempts exceeded")
	errPasscodeRedisUnavailable = errors.New("passcode redis unavailable")
)

// passcodeRecord is one outstanding challenge for one identity. Records
// are immutable once written except for the attempt counter, which only
// moves inside the consume transaction.
type passcodeRecord struct {
	IssuanceID string
	CodeHash   [32]byte
	IssuedAt   int64
	ExpiresAt  int64
	Attempts   uint16
	Purpose    Purpose
}

// passcodeStore keys exactly one record per identity. Save is an
// unconditional replace, so a re-issue supersedes any outstanding
// challenge; Consume is an atomic check-and-delete.
type passcodeStore struct {
	redis  *redis.Client
	prefix string
}

func newPasscodeStore(redisClient *redis.Client, prefix string) *passcodeStore {
	if prefix == "" {
		prefix = "pg"
	}
	return &passcodeStore{
		redis:  redisClient,
		prefix: prefix,
	}
}

func (s *passcodeStore) key(identity string) string {
	return s.prefix + ":" + passcodeKeySegment + ":" + identity
}

// Save stores the record under the identity's key with the given TTL,
// overwriting any prior challenge. SET is a single atomic replace, which
// is what makes concurrent issues for one identity last-write-wins
// instead of interleaved.
func (s *passcodeStore) Save(
	ctx context.Context,
	identity string,
	record *passcodeRecord,
	ttl time.Duration,
) error {
	encoded, err := encodePasscodeRecord(record)
	if err != nil {
		return err
	}

	if err := s.redis.Set(ctx, s.key(identity), encoded, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", errPasscodeRedisUnavailable, err)
	}

	return nil
}

// Peek returns the outstanding record without touching it. Used by tests
// and operational tooling; verification goes through Consume.
func (s *passcodeStore) Peek(ctx context.Context, identity string) (*passcodeRecord, error) {
	data, err := s.redis.Get(ctx, s.key(identity)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, errPasscodeNotFound
		}
		return nil, fmt.Errorf("%w: %v", errPasscodeRedisUnavailable, err)
	}
	return decodePasscodeRecord(data)
}

// Consume validates a submitted code hash against the identity's record
// inside a WATCH/MULTI transaction, retried on contention:
//
//   - no record → errPasscodeNotFound
//   - expired → delete, errPasscodeNotFound
//   - purpose mismatch → delete, errPasscodeMismatch
//   - wrong code below the cap → attempt counter bumped in place,
//     errPasscodeMismatch, record survives
//   - wrong code reaching the cap → delete, errPasscodeAttemptsExceeded
//   - match → delete, record returned
//
// The delete and the returned result are indivisible, so one code can
// never be spent twice by racing requests.
func (s *passcodeStore) Consume(
	ctx context.Context,
	identity string,
	providedHash [32]byte,
	expectedPurpose Purpose,
	maxAttempts int,
) (*passcodeRecord, error) {
	const maxRetries = 4
	key := s.key(identity)

	for i := 0; i < maxRetries; i++ {
		var matched *passcodeRecord

		err := s.redis.Watch(ctx, func(tx *redis.Tx) error {
			data, err := tx.Get(ctx, key).Bytes()
			if err != nil {
				return err
			}

			record, err := decodePasscodeRecord(data)
			if err != nil {
				return err
			}

			now := time.Now()
			if now.Unix() > record.ExpiresAt {
				_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
					pipe.Del(ctx, key)
					return nil
				})
				if err != nil {
					return err
				}
				return errPasscodeNotFound
			}

			if record.Purpose != expectedPurpose {
				_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
					pipe.Del(ctx, key)
					return nil
				})
				if err != nil {
					return err
				}
				return errPasscodeMismatch
			}

			if !internal.HashEqual(record.CodeHash, providedHash) {
				record.Attempts++
				if int(record.Attempts) >= maxAttempts {
					_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
						pipe.Del(ctx, key)
						return nil
					})
					if err != nil {
						return err
					}
					return errPasscodeAttemptsExceeded
				}

				ttl := time.Until(time.Unix(record.ExpiresAt, 0))
				if ttl <= 0 {
					_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
						pipe.Del(ctx, key)
						return nil
					})
					if err != nil {
						return err
					}
					return errPasscodeNotFound
				}

				updated, err := encodePasscodeRecord(record)
				if err != nil {
					return err
				}

				_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
					pipe.Set(ctx, key, updated, ttl)
					return nil
				})
				if err != nil {
					return err
				}
				return errPasscodeMismatch
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Del(ctx, key)
				return nil
			})
			if err != nil {
				return err
			}

			matched = record
			return nil
		}, key)

		if err == redis.TxFailedErr {
			continue
		}
		if err != nil {
			switch {
			case errors.Is(err, redis.Nil):
				return nil, errPasscodeNotFound
			case errors.Is(err, errPasscodeNotFound),
				errors.Is(err, errPasscodeMismatch), errors.Is(err, errPasscodeAttemptsExceeded):
				return nil, err
			default:
				return nil, fmt.Errorf("%w: %v", errPasscodeRedisUnavailable, err)
			}
		}

		return matched, nil
	}

	return nil, errPasscodeNotFound
}

func encodePasscodeRecord(record *passcodeRecord) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte(passcodeRecordVersionV1)
	buf.WriteByte(byte(record.Purpose))

	if err := binary.Write(&buf, binary.BigEndian, record.Attempts); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.BigEndian, record.IssuedAt); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.BigEndian, record.ExpiresAt); err != nil {
		return nil, err
	}

	if len(record.IssuanceID) > 255 {
		return nil, errors.New("passcode record issuance id too long")
	}
	buf.WriteByte(byte(len(record.IssuanceID)))
	buf.WriteString(record.IssuanceID)
	buf.Write(record.CodeHash[:])

	return buf.Bytes(), nil
}

func decodePasscodeRecord(data []byte) (*passcodeRecord, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}
	if version != passcodeRecordVersionV1 {
		return nil, errors.New("invalid passcode record version")
	}

	purpose, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}

	record := &passcodeRecord{
		Purpose: Purpose(purpose),
	}

	if err := binary.Read(reader, binary.BigEndian, &record.Attempts); err != nil {
		return nil, err
	}
	if err := binary.Read(reader, binary.BigEndian, &record.IssuedAt); err != nil {
		return nil, err
	}
	if err := binary.Read(reader, binary.BigEndian, &record.ExpiresAt); err != nil {
		return nil, err
	}

	idLen, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}

	issuanceID := make([]byte, idLen)
	if _, err := io.ReadFull(reader, issuanceID); err != nil {
		return nil, err
	}
	record.IssuanceID = string(issuanceID)

	if _, err := io.ReadFull(reader, record.CodeHash[:]); err != nil {
		return nil, err
	}

	return record, nil
}
