package daemon

import (
	"testing"

	"github.com/fsnotify/fsnotify"

	"github.com/hvescovi/finsync/internal/store"
)

func TestRelevantEvent(t *testing.T) {
	dbPath := "/data/finsync.db"
	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"db write", fsnotify.Event{Name: "/data/finsync.db", Op: fsnotify.Write}, true},
		{"wal write", fsnotify.Event{Name: "/data/finsync.db-wal", Op: fsnotify.Write}, true},
		{"wal create", fsnotify.Event{Name: "/data/finsync.db-wal", Op: fsnotify.Create}, true},
		{"unrelated file", fsnotify.Event{Name: "/data/notes.txt", Op: fsnotify.Write}, false},
		{"chmod ignored", fsnotify.Event{Name: "/data/finsync.db", Op: fsnotify.Chmod}, false},
		{"remove ignored", fsnotify.Event{Name: "/data/finsync.db", Op: fsnotify.Remove}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := relevantEvent(tt.event, dbPath); got != tt.want {
				t.Errorf("relevantEvent(%v) = %v, want %v", tt.event, got, tt.want)
			}
		})
	}
}

func TestIsSyncedKey(t *testing.T) {
	if !isSyncedKey(store.KeyTransactions) {
		t.Error("transactions should trigger sync")
	}
	if !isSyncedKey(store.KeyDebtors) {
		t.Error("debtors should trigger sync")
	}
	if isSyncedKey(store.KeyLastSync) {
		t.Error("the last-sync metadata write must not trigger sync")
	}
	if isSyncedKey(store.KeyCurrentBusiness) {
		t.Error("the current-business pointer must not trigger sync")
	}
}
