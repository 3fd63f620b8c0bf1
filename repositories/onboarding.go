package repositories

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"

	"coffeetalk/contract"
)

var _ contract.OnboardingLog = (*OnboardingRepository)(nil)

// OnboardingRepository remembers which members already received the one-time
// onboarding notice, so a rejoin or a process restart does not DM them again.
// This is deliberately the only durable state in the system: channel
// ownership itself is always re-derived from the directory.
type OnboardingRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewOnboardingRepository(db *badger.DB, log *slog.Logger) OnboardingRepository {
	return OnboardingRepository{db: db, log: log}
}

const onboardPrefix = "onboard:"

func onboardKey(userID string) []byte {
	return []byte(onboardPrefix + userID)
}

// Seen reports whether the user was already onboarded.
func (r OnboardingRepository) Seen(userID string) (bool, error) {
	var seen bool
	err := r.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(onboardKey(userID))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		seen = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("onboarding lookup for %s: %w", userID, err)
	}
	return seen, nil
}

// Record marks the user as onboarded. The value is the notice time, kept
// only for the debug inspector.
func (r OnboardingRepository) Record(userID string) error {
	at := time.Now().UTC().Format(time.RFC3339)
	err := r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(onboardKey(userID), []byte(at))
	})
	if err != nil {
		return fmt.Errorf("onboarding record for %s: %w", userID, err)
	}
	return nil
}

// OnboardedUser is a read model row for the debug inspector.
type OnboardedUser struct {
	UserID string
	At     string
}

// List scans every onboarding record, newest data last (key order).
func (r OnboardingRepository) List() ([]OnboardedUser, error) {
	var rows []OnboardedUser
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(onboardPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			userID := string(item.Key()[len(prefix):])
			if err := item.Value(func(val []byte) error {
				rows = append(rows, OnboardedUser{UserID: userID, At: string(val)})
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("onboarding scan: %w", err)
	}
	return rows, nil
}

// UserIDs is a convenience projection over List.
func (r OnboardingRepository) UserIDs() ([]string, error) {
	rows, err := r.List()
	if err != nil {
		return nil, err
	}
	return lo.Map(rows, func(row OnboardedUser, _ int) string { return row.UserID }), nil
}
