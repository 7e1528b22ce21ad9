package agenda

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/plenarlab/bt-agenda/app/store"
)

const partitionPrefix = "agenda-"

// PartitionKey is the key-value store key of a (year, week) partition.
func PartitionKey(year, weekNumber int) string {
	return fmt.Sprintf("%s%d-%d", partitionPrefix, year, weekNumber)
}

// PartitionRepository persists the per-week item sets as JSON-encoded
// arrays in the key-value store.
type PartitionRepository struct {
	kv store.KV
}

func NewPartitionRepository(kv store.KV) *PartitionRepository {
	return &PartitionRepository{kv: kv}
}

// Load returns the stored partition. ok is false when no partition
// exists. A corrupted value is treated as an absent partition: the error
// is logged and the caller proceeds as if no data existed.
func (r *PartitionRepository) Load(year, weekNumber int) ([]Item, bool, error) {
	key := PartitionKey(year, weekNumber)

	value, ok, err := r.kv.Get(key)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load partition %s: %w", key, err)
	}
	if !ok {
		return nil, false, nil
	}

	var items []Item
	if err := json.Unmarshal(value, &items); err != nil {
		slog.Error("Stored partition is corrupted, treating as empty", "key", key, "error", err)
		return nil, false, nil
	}

	return items, true, nil
}

// Save replaces the partition wholesale.
func (r *PartitionRepository) Save(year, weekNumber int, items []Item) error {
	key := PartitionKey(year, weekNumber)

	value, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode partition %s: %w", key, err)
	}

	if err := r.kv.Put(key, value); err != nil {
		return fmt.Errorf("failed to save partition %s: %w", key, err)
	}

	return nil
}

// ListWeeks returns, per year from minYear up, the sorted ISO weeks with
// non-empty partitions.
func (r *PartitionRepository) ListWeeks(minYear, maxYear int) (map[int][]int, error) {
	keys, err := r.kv.List(partitionPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list partitions: %w", err)
	}

	weeks := make(map[int][]int)
	for year := minYear; year <= maxYear; year++ {
		weeks[year] = []int{}
	}

	for _, key := range keys {
		year, weekNumber, ok := parsePartitionKey(key)
		if !ok || year < minYear || year > maxYear {
			continue
		}

		items, ok, err := r.Load(year, weekNumber)
		if err != nil {
			return nil, err
		}
		if !ok || len(items) == 0 {
			continue
		}

		weeks[year] = append(weeks[year], weekNumber)
	}

	for year := range weeks {
		sort.Ints(weeks[year])
	}

	return weeks, nil
}

// PurgeAll deletes every stored partition.
func (r *PartitionRepository) PurgeAll() (int, error) {
	keys, err := r.kv.List(partitionPrefix)
	if err != nil {
		return 0, fmt.Errorf("failed to list partitions: %w", err)
	}

	for i, key := range keys {
		if err := r.kv.Delete(key); err != nil {
			return i, err
		}
	}

	return len(keys), nil
}

func parsePartitionKey(key string) (year, weekNumber int, ok bool) {
	rest, found := strings.CutPrefix(key, partitionPrefix)
	if !found {
		return 0, 0, false
	}

	parts := strings.SplitN(rest, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}

	weekNumber, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}

	return year, weekNumber, true
}
