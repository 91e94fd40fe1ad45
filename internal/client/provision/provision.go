// Package provision joins a device to a clinic dataset: connect to an
// existing clinic id, mint a fresh one from local data, or exchange backup
// files when the relay is unreachable.
//
// The identifier can come from manual entry, the decoded text of a scanned QR
// code, or an imported backup file; all three paths normalize to the same
// Provision call.
package provision

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/klinikapp/klinikd/internal/client/state"
	"github.com/klinikapp/klinikd/internal/models"
)

// ErrValidation rejects malformed input (blank identifier, unreadable backup
// file) before any local mutation occurs.
var ErrValidation = errors.New("validation failed")

// RelayClient is the subset of the relay API provisioning needs.
type RelayClient interface {
	Create(ctx context.Context, snap models.Snapshot) (string, error)
	Fetch(ctx context.Context, id string) (models.Snapshot, error)
}

// SyncControl is how provisioning turns continuous sync on; satisfied by the
// sync engine.
type SyncControl interface {
	Enable(clinicID string) error
}

// Flow wires provisioning against the state layer, the relay and the engine.
type Flow struct {
	state  *state.State
	relay  RelayClient
	engine SyncControl
	log    *zap.Logger
}

// New builds a provisioning flow.
func New(st *state.State, rc RelayClient, engine SyncControl, log *zap.Logger) *Flow {
	return &Flow{state: st, relay: rc, engine: engine, log: log}
}

// Provision joins this device to the clinic addressed by identifier: one
// fetch, then a wholesale replace of local state, then continuous sync. On
// any failure existing local state is untouched and the operator stays on the
// connect flow.
func (f *Flow) Provision(ctx context.Context, identifier string) error {
	id := strings.TrimSpace(identifier)
	if id == "" {
		return fmt.Errorf("clinic id is empty: %w", ErrValidation)
	}

	snap, err := f.relay.Fetch(ctx, id)
	if err != nil {
		return err
	}

	f.state.ApplySnapshot(snap)
	f.persistCloudSettings(id)

	if err := f.engine.Enable(id); err != nil {
		return err
	}
	f.log.Info("device provisioned", zap.String("clinicId", id))
	return nil
}

// Generate registers this clinic's current local snapshot as a new remote
// document and enables sync with the identifier the relay minted. On failure
// no identifier was allocated and nothing local changes.
func (f *Flow) Generate(ctx context.Context) (string, error) {
	snap := f.state.SnapshotNow()
	snap.ClinicSettings.IsCloudEnabled = true

	id, err := f.relay.Create(ctx, snap)
	if err != nil {
		return "", err
	}

	f.persistCloudSettings(id)
	if err := f.engine.Enable(id); err != nil {
		return "", err
	}
	f.log.Info("clinic registered at relay", zap.String("clinicId", id))
	return id, nil
}

func (f *Flow) persistCloudSettings(id string) {
	cs := f.state.ClinicSettings()
	cs.KlinikID = id
	cs.IsCloudEnabled = true
	f.state.SetClinicSettings(cs)
}

// Export writes the full snapshot as a backup file: the offline provisioning
// path when the relay is unreachable.
func (f *Flow) Export(w io.Writer) error {
	snap := f.state.SnapshotNow()
	snap.LastSync = time.Now().UTC().Format(time.RFC3339)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}
	return nil
}

// Import reads a backup file and performs the same wholesale replace as a
// remote pull. A file that is not valid JSON, or that carries none of the
// clinic collections, is rejected before any mutation. When the backup embeds
// a clinic id with cloud sync enabled, continuous sync resumes with it.
func (f *Flow) Import(r io.Reader) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read backup: %w", err)
	}

	var snap models.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return fmt.Errorf("backup is not valid JSON: %w", ErrValidation)
	}
	if snap.IsEmpty() {
		return fmt.Errorf("backup carries no clinic data: %w", ErrValidation)
	}

	f.state.ApplySnapshot(snap)
	f.log.Info("backup imported")

	if snap.ClinicSettings != nil && snap.ClinicSettings.IsCloudEnabled && snap.ClinicSettings.KlinikID != "" {
		return f.engine.Enable(snap.ClinicSettings.KlinikID)
	}
	return nil
}
