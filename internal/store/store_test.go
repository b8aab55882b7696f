package store

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "finsync.db"), nil)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

type testRecord struct {
	ID     string `json:"id"`
	Amount int64  `json:"amount"`
}

func TestSetLoadRoundTrip(t *testing.T) {
	s := openTestStore(t)

	in := []testRecord{{ID: "a", Amount: 1250}, {ID: "b", Amount: -300}}
	if err := s.Set(KeyTransactions, in); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	var out []testRecord
	ok, err := s.Load(KeyTransactions, &out)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !ok {
		t.Fatal("Load() reported key missing after Set()")
	}
	if len(out) != 2 || out[0].ID != "a" || out[1].Amount != -300 {
		t.Errorf("round trip mismatch: %+v", out)
	}
}

func TestLoadMissingKey(t *testing.T) {
	s := openTestStore(t)

	var out []testRecord
	ok, err := s.Load(KeyDebtors, &out)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if ok {
		t.Error("Load() reported a value for a key never written")
	}
	if out != nil {
		t.Errorf("Load() touched dst for missing key: %+v", out)
	}
}

func TestCorruptedValueTreatedAsAbsent(t *testing.T) {
	s := openTestStore(t)

	if err := s.SetRaw(KeyAccounts, []byte("{not valid json")); err != nil {
		t.Fatalf("SetRaw() error: %v", err)
	}

	var out []testRecord
	ok, err := s.Load(KeyAccounts, &out)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if ok {
		t.Error("corrupted value should be reported as missing")
	}
}

func TestOverwriteWins(t *testing.T) {
	s := openTestStore(t)

	if err := s.Set(KeyCurrentBusiness, "first"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if err := s.Set(KeyCurrentBusiness, "second"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	got, err := s.GetString(KeyCurrentBusiness)
	if err != nil {
		t.Fatalf("GetString() error: %v", err)
	}
	if got != "second" {
		t.Errorf("GetString() = %q, want %q", got, "second")
	}
}

func TestDeleteAllClearsCollections(t *testing.T) {
	s := openTestStore(t)

	for _, key := range CollectionKeys {
		if err := s.Set(key, []testRecord{{ID: key}}); err != nil {
			t.Fatalf("Set(%s) error: %v", key, err)
		}
	}
	if err := s.DeleteAll(CollectionKeys); err != nil {
		t.Fatalf("DeleteAll() error: %v", err)
	}

	keys, err := s.Keys()
	if err != nil {
		t.Fatalf("Keys() error: %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("keys remain after DeleteAll: %v", keys)
	}
}

func TestOnChangeHook(t *testing.T) {
	s := openTestStore(t)

	var changed []string
	s.SetOnChange(func(key string) { changed = append(changed, key) })

	if err := s.Set(KeySales, []testRecord{}); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if err := s.Delete(KeySales); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}

	if len(changed) != 2 || changed[0] != KeySales || changed[1] != KeySales {
		t.Errorf("onChange saw %v, want two sales notifications", changed)
	}
}
