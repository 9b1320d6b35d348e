package registry

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	bolt "go.etcd.io/bbolt"

	"github.com/treelinehq/treeline/pkg/types"
)

var (
	// Bucket names
	bucketRulesets  = []byte("rulesets")
	bucketVariables = []byte("variables")
)

// BoltStore implements Store using BoltDB
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore creates a new BoltDB-backed store
func NewBoltStore(dataDir string) (*BoltStore, error) {
	dbPath := filepath.Join(dataDir, "treeline.db")

	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Create buckets
	err = db.Update(func(tx *bolt.Tx) error {
		buckets := [][]byte{
			bucketRulesets,
			bucketVariables,
		}

		for _, bucket := range buckets {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})

	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

// Close closes the database
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// Ruleset operations
func (s *BoltStore) PutRuleset(ruleset *types.Ruleset) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRulesets)
		data, err := json.Marshal(ruleset)
		if err != nil {
			return err
		}
		return b.Put([]byte(ruleset.ID), data)
	})
}

func (s *BoltStore) GetRuleset(id string) (*types.Ruleset, error) {
	var ruleset *types.Ruleset
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRulesets)
		data := b.Get([]byte(id))
		if data == nil {
			return nil
		}
		ruleset = &types.Ruleset{}
		return json.Unmarshal(data, ruleset)
	})
	if err != nil {
		return nil, err
	}
	return ruleset, nil
}

func (s *BoltStore) ListRulesets() ([]*types.Ruleset, error) {
	var rulesets []*types.Ruleset
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRulesets)
		return b.ForEach(func(k, v []byte) error {
			ruleset := &types.Ruleset{}
			if err := json.Unmarshal(v, ruleset); err != nil {
				return err
			}
			rulesets = append(rulesets, ruleset)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return rulesets, nil
}

func (s *BoltStore) DeleteRuleset(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketRulesets).Delete([]byte(id))
	})
}

// Variable operations
func (s *BoltStore) PutVariables(rulesetID string, vars []types.RulesetVariable) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketVariables)
		data, err := json.Marshal(vars)
		if err != nil {
			return err
		}
		return b.Put([]byte(rulesetID), data)
	})
}

func (s *BoltStore) GetVariables(rulesetID string) ([]types.RulesetVariable, error) {
	var vars []types.RulesetVariable
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketVariables)
		data := b.Get([]byte(rulesetID))
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &vars)
	})
	if err != nil {
		return nil, err
	}
	return vars, nil
}
