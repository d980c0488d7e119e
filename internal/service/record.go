package service

import (
	"encoding/json"
	"fmt"

	"github.com/msomdec/discount-pro/internal/domain"
)

func encodeRecord(user *domain.User) ([]byte, error) {
	data, err := json.Marshal(user)
	if err != nil {
		return nil, fmt.Errorf("encode session record: %w", err)
	}
	return data, nil
}

// decodeRecord parses a persisted session record. Anything that does not
// describe an identity is reported as domain.ErrMalformedRecord.
func decodeRecord(data []byte) (*domain.User, error) {
	var user *domain.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedRecord, err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: empty record", domain.ErrMalformedRecord)
	}
	if user.ID == "" || user.Email == "" {
		return nil, fmt.Errorf("%w: missing id or email", domain.ErrMalformedRecord)
	}

	seen := make(map[string]bool, len(user.SavedCoupons))
	saved := make([]string, 0, len(user.SavedCoupons))
	for _, id := range user.SavedCoupons {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		saved = append(saved, id)
	}
	user.SavedCoupons = saved
	return user, nil
}
