package artifact

import (
	"encoding/json"
	"fmt"
	"io"
)

// DecodeManifest decodes a manifest artifact.
func DecodeManifest(r io.Reader) (*Manifest, error) {
	var m Manifest
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}
	if m.Nodes == nil {
		m.Nodes = NewNodeMap()
	}
	return &m, nil
}

// DecodeCatalog decodes a catalog artifact.
func DecodeCatalog(r io.Reader) (*Catalog, error) {
	var c Catalog
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	if c.Nodes == nil {
		c.Nodes = NewCatalogEntryMap()
	}
	return &c, nil
}

// DecodeRunResults decodes a run results artifact.
func DecodeRunResults(r io.Reader) (*RunResults, error) {
	var rr RunResults
	if err := json.NewDecoder(r).Decode(&rr); err != nil {
		return nil, fmt.Errorf("failed to decode run results: %w", err)
	}
	return &rr, nil
}
