package project

import (
	"crypto/sha256"
	"encoding/hex"
	"os"

	"github.com/BurntSushi/toml"
)

// Digest - фиксированный 256 битный хеш (совместим с source.File.Hash)
type Digest [32]byte

// Combine строит хеш H(first || rest...). Порядок частей должен быть
// детерминированным.
func Combine(first Digest, rest ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(first[:])
	for _, d := range rest {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// ModuleDigest связывает содержимое файла с его "crate::module", чтобы
// переименование модуля меняло ключ кэша.
func ModuleDigest(module string, content Digest) Digest {
	return Combine(sha256.Sum256([]byte(module)), content)
}

// String returns the first 8 bytes in hex, enough to tell cache keys apart.
func (d Digest) String() string { return hex.EncodeToString(d[:8]) }

// Digest hashes the decoded configuration and the contents of every
// component script. A missing script hashes as its error, so creating it
// later changes the digest.
func (m *Manifest) Digest() Digest {
	h := sha256.New()
	_ = toml.NewEncoder(h).Encode(m.Config)
	for _, c := range m.Config.Components {
		data, err := os.ReadFile(m.ScriptPath(c))
		if err != nil {
			data = []byte("missing: " + c.Script)
		}
		sum := sha256.Sum256(data)
		_, _ = h.Write(sum[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}
