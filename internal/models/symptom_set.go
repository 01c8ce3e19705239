package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/terraincognita07/flowlog/internal/symptomcodec"
)

// SymptomSet is the ordered, duplicate-free list of symptom names attached to
// a period record. It is stored through symptomcodec; an empty set is
// stored as NULL so empty and absent read back the same way.
type SymptomSet []string

// StoredSymptoms is the raw symptoms column. It is kept undecoded so one bad
// value never fails a whole query; an empty value is written as NULL.
type StoredSymptoms []byte

func (data StoredSymptoms) Value() (driver.Value, error) {
	if len(data) == 0 {
		return nil, nil
	}
	return []byte(data), nil
}

func (data *StoredSymptoms) Scan(value any) error {
	switch raw := value.(type) {
	case nil:
		*data = nil
	case []byte:
		*data = append(StoredSymptoms(nil), raw...)
	case string:
		*data = StoredSymptoms(raw)
	default:
		*data = StoredSymptoms(fmt.Sprint(raw))
	}
	return nil
}

// EncodeSymptomSet returns the stored form of set: nil for an empty set and
// the codec blob otherwise.
func EncodeSymptomSet(set SymptomSet) ([]byte, error) {
	if len(set) == 0 {
		return nil, nil
	}
	return symptomcodec.Encode(set)
}

// DecodeSymptomSet reverses EncodeSymptomSet. A NULL column and an encoded
// empty list both read back as nil.
func DecodeSymptomSet(data []byte) (SymptomSet, error) {
	if data == nil {
		return nil, nil
	}
	decoded, err := symptomcodec.Decode(data)
	if err != nil {
		return nil, err
	}
	if len(decoded) == 0 {
		return nil, nil
	}
	return SymptomSet(decoded), nil
}

func (set SymptomSet) MarshalJSON() ([]byte, error) {
	if set == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(set))
}

func (set SymptomSet) Contains(name string) bool {
	for _, existing := range set {
		if existing == name {
			return true
		}
	}
	return false
}

// Merge returns a new set with the existing order kept and unseen names
// appended in the order given.
func (set SymptomSet) Merge(names []string) SymptomSet {
	merged := make(SymptomSet, 0, len(set)+len(names))
	seen := make(map[string]struct{}, len(set)+len(names))
	for _, name := range set {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		merged = append(merged, name)
	}
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		merged = append(merged, name)
	}
	if len(merged) == 0 {
		return nil
	}
	return merged
}

func (set SymptomSet) Without(name string) SymptomSet {
	filtered := make(SymptomSet, 0, len(set))
	for _, existing := range set {
		if existing != name {
			filtered = append(filtered, existing)
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	return filtered
}

func (set SymptomSet) Clone() SymptomSet {
	if set == nil {
		return nil
	}
	cloned := make(SymptomSet, len(set))
	copy(cloned, set)
	return cloned
}
