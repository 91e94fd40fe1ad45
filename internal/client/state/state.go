// Package state holds the in-memory application state: a mutex-guarded mirror
// of the local store that every screen reads and mutates through typed
// per-collection accessors.
//
// Each mutation follows one fixed order: in-memory update, local store write,
// same-device notify, then the sync engine's mutation hook. The local write
// always lands before a push can be scheduled, so a push reflects the latest
// local state at the moment it fires.
package state

import (
	"sync"

	"go.uber.org/zap"

	"github.com/klinikapp/klinikd/internal/client/notify"
	"github.com/klinikapp/klinikd/internal/client/store"
	"github.com/klinikapp/klinikd/internal/models"
)

// State is the application state for one running instance.
type State struct {
	store    *store.Store
	notifier *notify.Instance
	log      *zap.Logger

	mu       sync.RWMutex
	onMutate func()

	settings       models.ClinicSettings
	users          []models.AppUser
	patients       []models.Patient
	doctors        []models.Doctor
	medicines      []models.Medicine
	inventory      []models.InventoryItem
	transactions   []models.Transaction
	queue          []models.QueueItem
	medicalRecords []models.MedicalEntry
}

// New builds the state layer and hydrates it from the local store. Collections
// never written before start empty; settings fall back to the first-run
// defaults.
func New(st *store.Store, notifier *notify.Instance, log *zap.Logger) *State {
	s := &State{
		store:    st,
		notifier: notifier,
		log:      log,
	}
	s.hydrate()
	return s
}

// SetOnMutate registers the hook invoked after every committed mutation.
// The sync engine uses it to schedule its debounced push.
func (s *State) SetOnMutate(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onMutate = fn
}

func (s *State) hydrate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Absent keys fall back to first-run values, so hydrating from a
	// cleared store empties every collection.
	s.settings = models.DefaultClinicSettings()
	s.users = nil
	s.patients = nil
	s.doctors = nil
	s.medicines = nil
	s.inventory = nil
	s.transactions = nil
	s.queue = nil
	s.medicalRecords = nil
	s.store.ReadJSON(models.KeyClinicSettings, &s.settings)
	s.store.ReadJSON(models.KeyUsers, &s.users)
	s.store.ReadJSON(models.KeyPatients, &s.patients)
	s.store.ReadJSON(models.KeyDoctors, &s.doctors)
	s.store.ReadJSON(models.KeyMedicines, &s.medicines)
	s.store.ReadJSON(models.KeyInventory, &s.inventory)
	s.store.ReadJSON(models.KeyTransactions, &s.transactions)
	s.store.ReadJSON(models.KeyQueue, &s.queue)
	s.store.ReadJSON(models.KeyMedicalRecords, &s.medicalRecords)
}

// Reload re-reads every collection from the local store. Invoked by the
// notifier subscription when another instance on the same device commits a
// change; this instance never writes in response, it only rehydrates.
func (s *State) Reload() {
	s.hydrate()
}

// commit persists the just-mutated collection, tells other instances, and
// pokes the sync engine. Called without the state lock held: the notifier and
// the hook may re-enter state accessors.
func (s *State) commit(key string, value any) {
	if err := s.store.WriteJSON(key, value); err != nil {
		s.log.Warn("collection not persisted", zap.String("key", key), zap.Error(err))
	}
	s.notifier.Publish(notify.Event{Key: key})

	s.mu.RLock()
	hook := s.onMutate
	s.mu.RUnlock()
	if hook != nil {
		hook()
	}
}

// upsertByID replaces the element whose id matches, or appends when absent.
func upsertByID[T any](list []T, id func(T) string, item T) []T {
	for i := range list {
		if id(list[i]) == id(item) {
			list[i] = item
			return list
		}
	}
	return append(list, item)
}

func removeByID[T any](list []T, id func(T) string, target string) []T {
	out := list[:0]
	for _, item := range list {
		if id(item) != target {
			out = append(out, item)
		}
	}
	return out
}

func cloneSlice[T any](list []T) []T {
	out := make([]T, len(list))
	copy(out, list)
	return out
}
