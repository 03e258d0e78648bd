package resultstore

import (
	"context"
	"encoding/json"

	"github.com/valkey-io/valkey-go"

	"github.com/skystream/logistics-cloud/internal/domain/shipment"
)

// ValkeyStore shares the current snapshot through a Valkey-compatible
// database so the dashboard survives process restarts and replicas see
// the same result.
type ValkeyStore struct {
	client valkey.Client
	key    string
}

// NewValkeyStore constructs a store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "skystream"
	}
	return &ValkeyStore{client: client, key: prefix + ":prediction:current"}
}

// Publish replaces the stored snapshot atomically with a single SET.
func (s *ValkeyStore) Publish(ctx context.Context, snap shipment.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	cmd := s.client.B().Set().Key(s.key).Value(string(payload)).Build()
	return s.client.Do(ctx, cmd).Error()
}

// Latest returns the stored snapshot, reporting absence without error.
func (s *ValkeyStore) Latest(ctx context.Context) (shipment.Snapshot, bool, error) {
	resp := s.client.Do(ctx, s.client.B().Get().Key(s.key).Build())
	payload, err := resp.ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return shipment.Snapshot{}, false, nil
		}
		return shipment.Snapshot{}, false, err
	}
	var snap shipment.Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return shipment.Snapshot{}, false, err
	}
	return snap, true, nil
}

var _ shipment.SnapshotStore = (*ValkeyStore)(nil)
