package report

import (
	"encoding/json"
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// fingerprintPayload excludes the capture time and run id so that the
// fingerprint depends only on what was observed.
type fingerprintPayload struct {
	Repository string            `json:"repository"`
	Checks     []CheckResult     `json:"checks"`
	Warnings   []SecurityWarning `json:"warnings"`
}

// fingerprint returns a CIDv1 (raw codec, sha2-256) over the canonical JSON
// encoding of the observed content.
func fingerprint(r *Report) (string, error) {
	data, err := json.Marshal(fingerprintPayload{
		Repository: r.repositoryPath,
		Checks:     r.checks,
		Warnings:   r.warnings,
	})
	if err != nil {
		return "", fmt.Errorf("encoding fingerprint payload: %w", err)
	}

	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return "", fmt.Errorf("hashing fingerprint payload: %w", err)
	}
	return cid.NewCidV1(cid.Raw, sum).String(), nil
}
