package dataset

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
)

// splitSeedMask decorrelates the manifest shuffle from the per-sample jitter
// streams while keeping it a pure function of the base seed.
const splitSeedMask = 0x5F3759DF

// SampleSeed derives the jitter seed for sample index i from the base seed.
// Seeds advance by a fixed odd stride so neighbouring samples never share a
// stream within a run.
func SampleSeed(base int64, index int) int64 {
	return base + 1009*int64(index)
}

// SplitManifest shuffles the sample ids with a seed derived from base and
// partitions them into train and validation sets. The split index is clamped
// so neither side is empty when at least two samples exist.
func SplitManifest(ids []string, trainRatio float64, base int64) (train, val []string) {
	shuffled := make([]string, len(ids))
	copy(shuffled, ids)

	rng := rand.New(rand.NewSource(base ^ splitSeedMask))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	splitIndex := int(float64(len(shuffled)) * trainRatio)
	if splitIndex < 1 {
		splitIndex = 1
	}
	if splitIndex > len(shuffled)-1 {
		splitIndex = len(shuffled) - 1
	}
	if len(shuffled) < 2 {
		return shuffled, nil
	}
	return shuffled[:splitIndex], shuffled[splitIndex:]
}

// WriteManifest writes the sample id list as a JSON array.
func WriteManifest(path string, entries []string) error {
	if entries == nil {
		entries = []string{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
