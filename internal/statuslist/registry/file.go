package registry

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	dErrors "statuslist/pkg/domain-errors"
)

type fileEntry struct {
	Index   int    `yaml:"index"`
	Bits    int    `yaml:"bits"`
	Valid   string `yaml:"valid"`
	Revoked string `yaml:"revoked"`
}

type fileTable struct {
	Entries []fileEntry `yaml:"entries"`
}

// LoadFile reads a YAML registry table:
//
//	entries:
//	  - index: 0
//	    bits: 2
//	    valid: eNpzcAEAAMYAhQ
//	    revoked: eNpzdAEAAMgAhg
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeConfiguration, fmt.Sprintf("read status list registry %s", path))
	}
	return Parse(data)
}

// Parse builds a registry from YAML bytes with the same validation as New.
func Parse(data []byte) (*Registry, error) {
	var table fileTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeConfiguration, "decode status list registry")
	}
	entries := make([]Entry, 0, len(table.Entries))
	for _, fe := range table.Entries {
		entries = append(entries, Entry{
			Index:   fe.Index,
			Valid:   StatusList{Bits: fe.Bits, Encoded: fe.Valid},
			Revoked: StatusList{Bits: fe.Bits, Encoded: fe.Revoked},
		})
	}
	return New(entries...)
}
