package state

import (
	"time"

	"go.uber.org/zap"

	"github.com/klinikapp/klinikd/internal/models"
)

// SnapshotNow assembles the full nine-collection snapshot from the current
// state. Collections are always non-nil so an empty one serializes as an
// empty list, never as an absent key: a receiver must be able to tell "empty"
// from "omitted".
func (s *State) SnapshotNow() models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cs := s.settings
	return models.Snapshot{
		ClinicSettings: &cs,
		Users:          cloneSlice(s.users),
		Patients:       cloneSlice(s.patients),
		Doctors:        cloneSlice(s.doctors),
		Medicines:      cloneSlice(s.medicines),
		Inventory:      cloneSlice(s.inventory),
		Transactions:   cloneSlice(s.transactions),
		Queue:          cloneSlice(s.queue),
		MedicalRecords: cloneSlice(s.medicalRecords),
		LastSync:       time.Now().UTC().Format(time.RFC3339),
	}
}

// ApplySnapshot replaces state and local store field by field, applying only
// the fields present in snap. A collection the document omitted (nil slice)
// is left untouched, so a malformed or partial remote document can never
// erase local data.
//
// Applied fields go straight to the local store; the notifier and the
// mutation hook are deliberately not fired. A pull result must not schedule a
// push of itself, and same-device instances are told by the caller once the
// whole snapshot has been applied.
func (s *State) ApplySnapshot(snap models.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if snap.ClinicSettings != nil {
		s.settings = *snap.ClinicSettings
		s.persist(models.KeyClinicSettings, s.settings)
	}
	if snap.Users != nil {
		s.users = cloneSlice(snap.Users)
		s.persist(models.KeyUsers, s.users)
	}
	if snap.Patients != nil {
		s.patients = cloneSlice(snap.Patients)
		s.persist(models.KeyPatients, s.patients)
	}
	if snap.Doctors != nil {
		s.doctors = cloneSlice(snap.Doctors)
		s.persist(models.KeyDoctors, s.doctors)
	}
	if snap.Medicines != nil {
		s.medicines = cloneSlice(snap.Medicines)
		s.persist(models.KeyMedicines, s.medicines)
	}
	if snap.Inventory != nil {
		s.inventory = cloneSlice(snap.Inventory)
		s.persist(models.KeyInventory, s.inventory)
	}
	if snap.Transactions != nil {
		s.transactions = cloneSlice(snap.Transactions)
		s.persist(models.KeyTransactions, s.transactions)
	}
	if snap.Queue != nil {
		s.queue = cloneSlice(snap.Queue)
		s.persist(models.KeyQueue, s.queue)
	}
	if snap.MedicalRecords != nil {
		s.medicalRecords = cloneSlice(snap.MedicalRecords)
		s.persist(models.KeyMedicalRecords, s.medicalRecords)
	}
}

func (s *State) persist(key string, value any) {
	if err := s.store.WriteJSON(key, value); err != nil {
		s.log.Warn("collection not persisted", zap.String("key", key), zap.Error(err))
	}
}
