package dashboard

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/hvescovi/finsync/internal/reconcile"
)

func TestFromEventMapsTypes(t *testing.T) {
	tests := []struct {
		in   reconcile.EventType
		want MessageType
	}{
		{reconcile.EventImportComplete, MessageTypeImportComplete},
		{reconcile.EventExportComplete, MessageTypeExportComplete},
		{reconcile.EventConnected, MessageTypeConnection},
		{reconcile.EventDisconnected, MessageTypeConnection},
	}
	for _, tt := range tests {
		msg := FromEvent(reconcile.Event{Type: tt.in, Time: time.Now()})
		if msg.Type != tt.want {
			t.Errorf("FromEvent(%s).Type = %s, want %s", tt.in, msg.Type, tt.want)
		}
	}
}

func TestFromEventCarriesSummary(t *testing.T) {
	evt := reconcile.Event{
		Type: reconcile.EventImportComplete,
		Time: time.Now(),
		Summary: &reconcile.ImportSummary{
			Sheets:  3,
			Records: 42,
		},
	}
	msg := FromEvent(evt)

	var decoded reconcile.Event
	if err := json.Unmarshal(msg.Data, &decoded); err != nil {
		t.Fatalf("message data is not JSON: %v", err)
	}
	if decoded.Summary == nil || decoded.Summary.Records != 42 {
		t.Errorf("summary did not survive: %+v", decoded.Summary)
	}
}
