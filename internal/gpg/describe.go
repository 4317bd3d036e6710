package gpg

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ProtonMail/gopenpgp/v3/crypto"
)

// KeyInfo identifies one key parsed from armored material.
type KeyInfo struct {
	KeyID       string
	Fingerprint string
	Name        string
	Email       string
}

// Describe parses an armored key block and reports its long key ID,
// fingerprint and identity without touching the keyring. A key carrying
// several user IDs reports the first one in lexical order.
func Describe(armored []byte) (KeyInfo, error) {
	key, err := crypto.NewKeyFromArmored(string(armored))
	if err != nil {
		return KeyInfo{}, fmt.Errorf("parse armored key: %w", err)
	}

	entity := key.GetEntity()
	if entity == nil || entity.PrimaryKey == nil {
		return KeyInfo{}, errors.New("armored block is not a usable key")
	}
	info := KeyInfo{
		KeyID:       fmt.Sprintf("%016X", entity.PrimaryKey.KeyId),
		Fingerprint: fmt.Sprintf("%X", entity.PrimaryKey.Fingerprint),
	}
	// Identities is a map; iterate in sorted order so multi-UID keys
	// describe the same identity on every run.
	names := make([]string, 0, len(entity.Identities))
	for name := range entity.Identities {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if id := entity.Identities[name]; id.UserId != nil {
			info.Name = id.UserId.Name
			info.Email = id.UserId.Email
			break
		}
	}
	return info, nil
}
