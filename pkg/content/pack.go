package content

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
)

// Pack is a validated content pack: a versioned, checksummed set of
// definitions.
type Pack struct {
	Name     string `json:"name"`
	Version  string `json:"version"`
	Checksum string `json:"checksum"`
	Data     PackData
}

// packFile is the on-disk shape. Data is kept raw so the checksum covers
// the exact bytes as authored, independent of Go map ordering.
type packFile struct {
	Name     string          `json:"name"`
	Version  string          `json:"version"`
	Checksum string          `json:"checksum"`
	Data     json.RawMessage `json:"data"`
}

// ChecksumData returns the hex sha256 of a pack's raw data section - the
// value the authoring side writes into the checksum field.
func ChecksumData(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ParsePack decodes and verifies a content pack from raw bytes.
func ParsePack(raw []byte) (*Pack, error) {
	var pf packFile
	if err := json.Unmarshal(raw, &pf); err != nil {
		return nil, fmt.Errorf("failed to unmarshal content pack: %w", err)
	}
	if pf.Version == "" {
		return nil, fmt.Errorf("content pack has no version")
	}
	if pf.Checksum == "" {
		return nil, fmt.Errorf("content pack has no checksum")
	}
	if got := ChecksumData(pf.Data); got != pf.Checksum {
		return nil, fmt.Errorf("content pack checksum mismatch: declared %s, computed %s", pf.Checksum, got)
	}

	var data PackData
	if err := json.Unmarshal(pf.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal content pack data: %w", err)
	}

	p := &Pack{
		Name:     pf.Name,
		Version:  pf.Version,
		Checksum: pf.Checksum,
		Data:     data,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// LoadPack reads, verifies and validates a content pack from disk.
func LoadPack(path string) (*Pack, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read content pack %s: %w", path, err)
	}
	return ParsePack(raw)
}

// Validate checks record integrity. Soft content problems (unknown zones in
// zone rules, unknown formula tokens) are deliberately not errors here -
// they degrade at resolution time. Validate only rejects what would make a
// pack unusable: duplicate or missing ids and dangling card references.
func (p *Pack) Validate() error {
	ids := make(map[string]bool)
	check := func(kind, id string) error {
		if id == "" {
			return fmt.Errorf("%s with empty id in pack %s", kind, p.Name)
		}
		key := kind + "/" + id
		if ids[key] {
			return fmt.Errorf("duplicate %s id %q in pack %s", kind, id, p.Name)
		}
		ids[key] = true
		return nil
	}

	cards := make(map[string]bool, len(p.Data.PlayerCards))
	for _, c := range p.Data.PlayerCards {
		if err := check("player card", c.ID); err != nil {
			return err
		}
		cards[c.ID] = true
	}
	for _, c := range p.Data.FateCards {
		if err := check("fate card", c.ID); err != nil {
			return err
		}
	}
	for _, h := range p.Data.Heroes {
		if err := check("hero", h.ID); err != nil {
			return err
		}
		if h.Vitality <= 0 {
			return fmt.Errorf("hero %q has no vitality", h.ID)
		}
		for _, id := range h.HandCards {
			if !cards[id] {
				return fmt.Errorf("hero %q references undefined card %q", h.ID, id)
			}
		}
	}
	for _, e := range p.Data.Enemies {
		if err := check("enemy", e.ID); err != nil {
			return err
		}
		if e.Vitality <= 0 {
			return fmt.Errorf("enemy %q has no vitality", e.ID)
		}
	}
	return nil
}
